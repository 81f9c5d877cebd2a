package router

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"newsroom/internal/access"
	"newsroom/internal/auth"
	apperr "newsroom/internal/errors"
	"newsroom/internal/service"
)

const sessionContextKey = "session"

// Session puts the principal of a live session into the request context.
// Revoked sessions are treated as anonymous.
func Session(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(sessionContextKey).(*auth.SessionClaims)
			if !ok {
				return next(c)
			}
			req := c.Request()
			p, err := authService.Verify(req.Context(), claims)
			if errors.Is(err, auth.ErrInvalidSession) {
				return next(c)
			}
			if err != nil {
				return err
			}
			c.SetRequest(req.WithContext(access.WithPrincipal(req.Context(), p)))
			return next(c)
		}
	}
}

// Require lets the request through only when the access gate allows action.
// Anonymous requests are sent to the login page.
func Require(action access.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch access.AuthorizeAction(access.PrincipalFrom(c.Request().Context()), action) {
			case access.Allow:
				return next(c)
			case access.RedirectToLogin:
				return c.Redirect(http.StatusSeeOther, "/login")
			default:
				return apperr.ErrForbidden
			}
		}
	}
}
