// Package access decides whether a request principal may perform an action.
package access

import (
	"context"

	"newsroom/internal/model"
)

// Decision is the outcome of an authorization check.
type Decision int

const (
	Allow Decision = iota
	RedirectToLogin
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect_to_login"
	default:
		return "forbidden"
	}
}

// Action names a protected operation.
type Action string

const (
	ViewDashboard  Action = "dashboard.view"
	ManageArticles Action = "articles.manage"
	CreateArticle  Action = "articles.create"
	EditArticle    Action = "articles.edit"
	DeleteArticle  Action = "articles.delete"
	ManageUsers    Action = "users.manage"
)

// Policy maps each action to the roles allowed to perform it.
// An empty set means any authenticated user.
var Policy = map[Action][]model.Role{
	ViewDashboard:  nil,
	ManageArticles: nil,
	CreateArticle:  {model.RoleSuperAdmin, model.RoleAdmin, model.RoleWriter},
	EditArticle:    {model.RoleSuperAdmin, model.RoleAdmin, model.RoleWriter},
	DeleteArticle:  {model.RoleSuperAdmin, model.RoleAdmin},
	ManageUsers:    {model.RoleSuperAdmin},
}

// Authorize checks principal against the required roles. A nil principal
// means there is no session.
func Authorize(p *model.Principal, required []model.Role) Decision {
	if p == nil {
		return RedirectToLogin
	}
	if len(required) == 0 {
		return Allow
	}
	if !p.Role.Valid() {
		return Forbidden
	}
	for _, r := range required {
		if p.Role == r {
			return Allow
		}
	}
	return Forbidden
}

// AuthorizeAction checks principal against the policy entry for action.
// Actions missing from the policy are denied.
func AuthorizeAction(p *model.Principal, action Action) Decision {
	required, ok := Policy[action]
	if !ok {
		if p == nil {
			return RedirectToLogin
		}
		return Forbidden
	}
	return Authorize(p, required)
}

// Can reports whether principal may perform action.
func Can(p *model.Principal, action Action) bool {
	return AuthorizeAction(p, action) == Allow
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p model.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored in ctx, or nil when there is no session.
func PrincipalFrom(ctx context.Context) *model.Principal {
	p, ok := ctx.Value(principalKey{}).(model.Principal)
	if !ok {
		return nil
	}
	return &p
}
