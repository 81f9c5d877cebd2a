package router

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"newsroom/internal/access"
	apperr "newsroom/internal/errors"
	"newsroom/internal/logger"
	"newsroom/internal/view"
)

// errorHandler renders failures as the message page, or as JSON under /api.
// Storage faults are logged and shown without detail.
func errorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		api := strings.HasPrefix(c.Request().URL.Path, "/api/")

		var httpErr *apperr.HTTPError
		var he *echo.HTTPError
		switch {
		case errors.As(err, &he):
			httpErr = apperr.NewHTTPError(he.Code, fmt.Sprint(he.Message), statusCode(he.Code))
		case apperr.KindOf(err) == apperr.KindUnauthorized && !api:
			_ = c.Redirect(http.StatusSeeOther, "/login")
			return
		default:
			httpErr = apperr.MapErrorToHTTP(err)
		}

		if httpErr.StatusCode >= http.StatusInternalServerError {
			logger.ForRequest(log, c).Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Error(err),
			)
		}

		var rerr error
		switch {
		case c.Request().Method == http.MethodHead:
			rerr = c.NoContent(httpErr.StatusCode)
		case api:
			rerr = c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
		default:
			rerr = c.Render(httpErr.StatusCode, "message", view.Page{
				Title:     http.StatusText(httpErr.StatusCode),
				Principal: access.PrincipalFrom(c.Request().Context()),
				Data:      view.Message{Status: httpErr.StatusCode, Text: httpErr.Message},
			})
		}
		if rerr != nil {
			logger.ForRequest(log, c).Error("write error response", zap.Error(rerr))
		}
	}
}

// statusCode turns a status into a constant-style code such as NOT_FOUND.
func statusCode(status int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}
