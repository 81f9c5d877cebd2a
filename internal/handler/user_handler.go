package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"newsroom/internal/logger"
	"newsroom/internal/model"
	"newsroom/internal/service"
	"newsroom/internal/view"
)

// UserHandler serves staff account management.
type UserHandler struct {
	svc service.UserService
	log *zap.Logger
}

// NewUserHandler creates the user management handler.
func NewUserHandler(svc service.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

// UserForm is the add and edit user form. A blank password on edit keeps the old one.
type UserForm struct {
	Username    string `form:"username" validate:"required,min=3,max=50"`
	Password    string `form:"password" validate:"omitempty,min=6"`
	DisplayName string `form:"display_name" validate:"max=100"`
	Role        string `form:"role" validate:"required"`
}

// UserFormData is what the user form page renders.
type UserFormData struct {
	Form   UserForm
	ID     uint
	Action string
	Roles  []model.Role
}

func (f UserForm) input() service.UserInput {
	return service.UserInput{
		Username:    f.Username,
		Password:    f.Password,
		DisplayName: f.DisplayName,
		Role:        f.Role,
	}
}

// List shows every user.
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "admin/users", view.Page{Title: "Users", Active: "users", Data: users})
}

// New renders an empty user form.
func (h *UserHandler) New(c echo.Context) error {
	data := UserFormData{Action: "/admin/users/add", Form: UserForm{Role: string(model.RoleWriter)}}
	return h.form(c, http.StatusOK, data, nil)
}

// Create adds a user with any role.
func (h *UserHandler) Create(c echo.Context) error {
	data := UserFormData{Action: "/admin/users/add"}
	if err := bindForm(c, &data.Form); err != nil {
		return h.form(c, http.StatusBadRequest, data, err)
	}

	user, err := h.svc.Create(c.Request().Context(), data.Form.input())
	if err != nil {
		if isValidation(err) {
			return h.form(c, http.StatusBadRequest, data, err)
		}
		return err
	}

	logger.ForRequest(h.log, c).Info("user created", zap.Uint("user_id", user.ID), zap.String("role", user.Role.String()))
	return c.Redirect(http.StatusSeeOther, "/admin/users")
}

// Edit renders the form for an existing user.
func (h *UserHandler) Edit(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	user, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	data := UserFormData{
		ID:     user.ID,
		Action: c.Request().URL.Path,
		Form: UserForm{
			Username:    user.Username,
			DisplayName: user.DisplayName,
			Role:        string(model.ParseRole(string(user.Role))),
		},
	}
	return h.form(c, http.StatusOK, data, nil)
}

// Update saves an edited user.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	data := UserFormData{ID: id, Action: c.Request().URL.Path}
	if err := bindForm(c, &data.Form); err != nil {
		return h.form(c, http.StatusBadRequest, data, err)
	}

	if err := h.svc.Update(c.Request().Context(), id, data.Form.input()); err != nil {
		if isValidation(err) {
			return h.form(c, http.StatusBadRequest, data, err)
		}
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/users")
}

// Delete removes a user other than the signed-in one.
func (h *UserHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), p.UserID, id); err != nil {
		return err
	}
	logger.ForRequest(h.log, c).Info("user deleted", zap.Uint("user_id", id), zap.Uint("by", p.UserID))
	return c.Redirect(http.StatusSeeOther, "/admin/users")
}

func (h *UserHandler) form(c echo.Context, status int, data UserFormData, err error) error {
	data.Form.Password = ""
	data.Roles = model.Roles
	page := view.Page{Title: "New user", Active: "users", Data: data}
	if data.ID != 0 {
		page.Title = "Edit user"
	}
	if err != nil {
		page.Error = err.Error()
	}
	return render(c, status, "admin/user_form", page)
}
