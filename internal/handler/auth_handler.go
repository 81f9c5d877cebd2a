package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"newsroom/internal/access"
	"newsroom/internal/logger"
	"newsroom/internal/service"
	"newsroom/internal/view"
)

const afterLogin = "/admin/dashboard"

// AuthHandler serves sign-in, sign-up and sign-out.
type AuthHandler struct {
	authService service.AuthService
	cookie      SessionCookie
	log         *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, cookie SessionCookie, log *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie, log: log}
}

// LoginForm is the sign-in form.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// RegisterForm is the public sign-up form.
type RegisterForm struct {
	Username    string `form:"username" validate:"required,min=3,max=50"`
	Password    string `form:"password" validate:"required,min=6"`
	DisplayName string `form:"display_name" validate:"max=100"`
}

// ShowLogin renders the login page, or skips it for signed-in users.
func (h *AuthHandler) ShowLogin(c echo.Context) error {
	if access.PrincipalFrom(c.Request().Context()) != nil {
		return c.Redirect(http.StatusSeeOther, afterLogin)
	}
	return render(c, http.StatusOK, "login", view.Page{Title: "Login", Data: LoginForm{}})
}

// Login checks the credentials and starts a session.
func (h *AuthHandler) Login(c echo.Context) error {
	var form LoginForm
	if err := bindForm(c, &form); err != nil {
		return h.loginError(c, http.StatusBadRequest, form, err)
	}

	session, p, err := h.authService.Login(c.Request().Context(), form.Username, form.Password)
	if err != nil {
		if isValidation(err) {
			return h.loginError(c, http.StatusUnauthorized, form, err)
		}
		return err
	}

	h.cookie.Set(c, session)
	logger.ForRequest(h.log, c).Info("user signed in", zap.Uint("user_id", p.UserID), zap.String("role", p.Role.String()))
	return c.Redirect(http.StatusSeeOther, afterLogin)
}

func (h *AuthHandler) loginError(c echo.Context, status int, form LoginForm, err error) error {
	form.Password = ""
	return render(c, status, "login", view.Page{Title: "Login", Error: err.Error(), Data: form})
}

// ShowRegister renders the sign-up page, or skips it for signed-in users.
func (h *AuthHandler) ShowRegister(c echo.Context) error {
	if access.PrincipalFrom(c.Request().Context()) != nil {
		return c.Redirect(http.StatusSeeOther, afterLogin)
	}
	return render(c, http.StatusOK, "register", view.Page{Title: "Register", Data: RegisterForm{}})
}

// Register creates a writer account and sends the user to the login page.
func (h *AuthHandler) Register(c echo.Context) error {
	var form RegisterForm
	if err := bindForm(c, &form); err != nil {
		return h.registerError(c, form, err)
	}

	user, err := h.authService.Register(c.Request().Context(), form.Username, form.Password, form.DisplayName)
	if err != nil {
		if isValidation(err) {
			return h.registerError(c, form, err)
		}
		return err
	}

	logger.ForRequest(h.log, c).Info("user registered", zap.Uint("user_id", user.ID))
	return c.Redirect(http.StatusSeeOther, "/login")
}

func (h *AuthHandler) registerError(c echo.Context, form RegisterForm, err error) error {
	form.Password = ""
	return render(c, http.StatusBadRequest, "register", view.Page{Title: "Register", Error: err.Error(), Data: form})
}

// Logout revokes the session and clears the cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), token(c)); err != nil {
		logger.ForRequest(h.log, c).Warn("revoke session", zap.Error(err))
	}
	h.cookie.Clear(c)
	return c.Redirect(http.StatusSeeOther, "/")
}
