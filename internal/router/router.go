package router

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"newsroom/internal/access"
	"newsroom/internal/auth"
	"newsroom/internal/config"
	"newsroom/internal/handler"
	"newsroom/internal/logger"
	"newsroom/internal/metrics"
	"newsroom/internal/service"
)

// Deps are the shared components the router wires into middleware.
type Deps struct {
	Config   *config.Config
	Log      *zap.Logger
	Metrics  *metrics.Metrics
	JWT      *auth.JWTService
	Auth     service.AuthService
	Renderer echo.Renderer
}

// Handlers groups every HTTP handler.
type Handlers struct {
	Public   *handler.PublicHandler
	Auth     *handler.AuthHandler
	Articles *handler.ArticleHandler
	Users    *handler.UserHandler
	API      *handler.APIHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, deps Deps, h Handlers) {
	e.Renderer = deps.Renderer
	e.Validator = NewValidator()
	e.HTTPErrorHandler = errorHandler(deps.Log)

	e.Use(middleware.RequestID())
	e.Use(logger.RequestLogger(deps.Log))
	e.Use(middleware.Recover())
	e.Use(deps.Metrics.Middleware())
	if deps.Config.MaxUploadSize != "" {
		e.Use(middleware.BodyLimit(deps.Config.MaxUploadSize))
	}

	// A missing or invalid cookie continues as an anonymous request.
	e.Use(echojwt.WithConfig(echojwt.Config{
		TokenLookup: "cookie:" + handler.SessionCookieName,
		ContextKey:  sessionContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return deps.JWT.ValidateSession(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return nil
		},
		ContinueOnIgnoredError: true,
	}))
	e.Use(Session(deps.Auth))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(deps.Metrics.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.Static("/", deps.Config.StaticDir)

	// Public site
	e.GET("/", h.Public.Home)
	e.GET("/post/:slug", h.Public.Post)
	e.GET("/login", h.Auth.ShowLogin)
	e.POST("/login", h.Auth.Login)
	e.GET("/register", h.Auth.ShowRegister)
	e.POST("/register", h.Auth.Register)
	e.GET("/logout", h.Auth.Logout)

	// Admin area, every route behind the access gate
	admin := e.Group("/admin")
	admin.GET("/dashboard", h.Articles.Dashboard, Require(access.ViewDashboard))
	admin.GET("/articles", h.Articles.List, Require(access.ManageArticles))
	admin.GET("/articles-list", h.Articles.List, Require(access.ManageArticles))
	admin.GET("/add", h.Articles.New, Require(access.CreateArticle))
	admin.POST("/add", h.Articles.Create, Require(access.CreateArticle))
	admin.GET("/edit/:id", h.Articles.Edit, Require(access.EditArticle))
	admin.POST("/edit/:id", h.Articles.Update, Require(access.EditArticle))
	admin.GET("/delete/:id", h.Articles.Delete, Require(access.DeleteArticle))

	users := admin.Group("/users", Require(access.ManageUsers))
	users.GET("", h.Users.List)
	users.GET("/add", h.Users.New)
	users.POST("/add", h.Users.Create)
	users.GET("/edit/:id", h.Users.Edit)
	users.POST("/edit/:id", h.Users.Update)
	users.GET("/delete/:id", h.Users.Delete)

	// Read-only JSON API
	api := e.Group("/api")
	api.GET("/posts", h.API.ListPosts)
	api.GET("/posts/:slug", h.API.GetPost)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator reports field errors under their form names.
func NewValidator() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
