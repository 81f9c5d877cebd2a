package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"newsroom/internal/auth"
	apperr "newsroom/internal/errors"
	"newsroom/internal/model"
)

// AuthService handles sign-up, sign-in and session lifecycle.
type AuthService interface {
	Register(ctx context.Context, username, password, displayName string) (*model.User, error)
	Login(ctx context.Context, username, password string) (*auth.Session, model.Principal, error)
	Logout(ctx context.Context, token string) error
	// Verify checks that a parsed session has not been logged out and that its
	// user still exists, and returns the principal built from the current account.
	Verify(ctx context.Context, claims *auth.SessionClaims) (model.Principal, error)
}

type authService struct {
	users      UserService
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	now        func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(users UserService, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		users:      users,
		jwtService: jwtService,
		tokenStore: tokenStore,
		now:        time.Now,
	}
}

// Register creates a writer account. Public sign-up never grants other roles.
func (s *authService) Register(ctx context.Context, username, password, displayName string) (*model.User, error) {
	return s.users.Create(ctx, UserInput{
		Username:    username,
		Password:    password,
		DisplayName: displayName,
		Role:        string(model.RoleWriter),
	})
}

// Login authenticates the user and issues a session for them.
func (s *authService) Login(ctx context.Context, username, password string) (*auth.Session, model.Principal, error) {
	user, err := s.users.Authenticate(ctx, username, password)
	if err != nil {
		return nil, model.Principal{}, err
	}

	principal := user.Principal()
	session, err := s.jwtService.IssueSession(principal)
	if err != nil {
		return nil, model.Principal{}, fmt.Errorf("issue session: %w", err)
	}
	return session, principal, nil
}

// Logout revokes the session for the rest of its lifetime.
// Tokens that are already invalid have nothing to revoke.
func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.jwtService.ValidateSession(token)
	if err != nil {
		return nil
	}

	ttl := s.jwtService.TTL()
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Time.Sub(s.now())
	}
	if err := s.tokenStore.RevokeSession(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *authService) Verify(ctx context.Context, claims *auth.SessionClaims) (model.Principal, error) {
	if claims == nil {
		return model.Principal{}, auth.ErrInvalidSession
	}
	revoked, err := s.tokenStore.IsSessionRevoked(ctx, claims.ID)
	if err != nil || revoked {
		return model.Principal{}, auth.ErrInvalidSession
	}

	// Deleted accounts lose access at once and role changes apply on the next request.
	user, err := s.users.Get(ctx, claims.UserID)
	if errors.Is(err, apperr.ErrUserNotFound) {
		return model.Principal{}, auth.ErrInvalidSession
	}
	if err != nil {
		return model.Principal{}, fmt.Errorf("load session user: %w", err)
	}
	principal := user.Principal()
	if !principal.Role.Valid() {
		return model.Principal{}, auth.ErrInvalidSession
	}
	return principal, nil
}
