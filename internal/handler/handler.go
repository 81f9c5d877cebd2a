// Package handler holds the HTTP handlers for the public site, the admin
// area and the read-only JSON API.
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"newsroom/internal/access"
	apperr "newsroom/internal/errors"
	"newsroom/internal/model"
	"newsroom/internal/view"
)

// render fills in the request principal and renders a page.
func render(c echo.Context, status int, name string, page view.Page) error {
	page.Principal = access.PrincipalFrom(c.Request().Context())
	return c.Render(status, name, page)
}

// principal returns the signed-in user. Routes behind the gate always have one.
func principal(c echo.Context) (model.Principal, error) {
	p := access.PrincipalFrom(c.Request().Context())
	if p == nil {
		return model.Principal{}, apperr.ErrUnauthorized
	}
	return *p, nil
}

// trimmer is implemented by forms whose text fields are trimmed before validation.
type trimmer interface {
	trim()
}

// bindForm binds and validates a form. The returned error is a validation
// error carrying a message fit for the form page.
func bindForm(c echo.Context, form interface{}) error {
	if err := c.Bind(form); err != nil {
		return apperr.NewValidation("invalid form submission")
	}
	if t, ok := form.(trimmer); ok {
		t.trim()
	}
	if err := c.Validate(form); err != nil {
		return apperr.NewValidation(validationMessage(err))
	}
	return nil
}

// isValidation reports whether err should be shown inline on a form.
func isValidation(err error) bool {
	return apperr.KindOf(err) == apperr.KindValidation
}

func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "invalid input"
	}
	fe := ve[0]
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "alphanum":
		return fmt.Sprintf("%s may only contain letters and digits", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return uint(id), nil
}

// pageParam reads ?page=, treating anything unparsable as the first page.
func pageParam(c echo.Context) int {
	n, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
