package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"newsroom/internal/auth"
)

// SessionCookieName is the cookie holding the signed session token.
const SessionCookieName = "newsroom_session"

// SessionCookie writes and clears the session cookie.
type SessionCookie struct {
	Secure bool
}

// Set stores session in the response cookie.
func (s SessionCookie) Set(c echo.Context, session *auth.Session) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the session cookie.
func (s SessionCookie) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// token returns the session token sent with the request, if any.
func token(c echo.Context) string {
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
