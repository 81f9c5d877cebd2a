package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"newsroom/docs"
	"newsroom/internal/auth"
	"newsroom/internal/cache"
	"newsroom/internal/config"
	"newsroom/internal/db"
	"newsroom/internal/handler"
	"newsroom/internal/logger"
	"newsroom/internal/metrics"
	"newsroom/internal/repository"
	"newsroom/internal/router"
	"newsroom/internal/service"
	"newsroom/internal/upload"
	"newsroom/internal/view"
)

const shutdownTimeout = 10 * time.Second

// @title News CMS API
// @version 1.0
// @description Read-only JSON access to published articles.
// @host localhost:3000
// @BasePath /api
// @schemes http
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v\n\n%s", err, config.Usage())
	}

	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	gormDB, err := db.Open(db.Options{
		Driver:       cfg.DBDriver,
		DSN:          cfg.DatabaseDSN,
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		return fmt.Errorf("database init: %w", err)
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		defer sqlDB.Close()
	}

	if cfg.ResetDB {
		zl.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			return err
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	cacheClient := cache.New(cache.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	defer cacheClient.Close()
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		zl.Warn("redis unavailable, logout will not revoke sessions", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}
	cancel()

	// Repositories
	userRepo := repository.NewUserRepository(gormDB, cfg.DBTimeout)
	articleRepo := repository.NewArticleRepository(gormDB, cfg.DBTimeout)

	// Auth components
	jwtService := auth.NewJWTService(cfg.SessionSecret, cfg.SessionTTL)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Services
	userService := service.NewUserService(userRepo)
	articleService := service.NewArticleService(articleRepo, cfg.PageSize)
	authService := service.NewAuthService(userService, jwtService, tokenStore)

	uploads, err := upload.NewStore(cfg.UploadDir)
	if err != nil {
		return err
	}
	renderer, err := view.New()
	if err != nil {
		return err
	}
	m := metrics.New()

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	router.Register(e, router.Deps{
		Config:   cfg,
		Log:      zl,
		Metrics:  m,
		JWT:      jwtService,
		Auth:     authService,
		Renderer: renderer,
	}, router.Handlers{
		Public:   handler.NewPublicHandler(articleService, m),
		Auth:     handler.NewAuthHandler(authService, handler.SessionCookie{Secure: cfg.CookieSecure}, zl),
		Articles: handler.NewArticleHandler(articleService, uploads, zl),
		Users:    handler.NewUserHandler(userService, zl),
		API:      handler.NewAPIHandler(articleService, m),
	})

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	addr := ":" + cfg.ServerPort
	serverErr := make(chan error, 1)
	go func() {
		zl.Info("server started",
			zap.String("addr", addr),
			zap.String("db_driver", cfg.DBDriver),
			zap.String("swagger", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html"),
		)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server start: %w", err)
	case <-done:
	}

	zl.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	zl.Info("server stopped")
	return nil
}
