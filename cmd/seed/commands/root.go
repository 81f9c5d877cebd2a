package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"newsroom/internal/config"
	"newsroom/internal/db"
	"newsroom/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Bootstrap the news database",
	Long: `Seed prepares a database for the news CMS.

Connection settings come from the same environment variables as the server
(DB_DRIVER, DATABASE_DSN, CONFIG_PATH, ...).`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(migrateCmd, superadminCmd, articlesCmd)
}

// env is the shared state every subcommand needs.
type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func (e *env) close() {
	if sqlDB, err := e.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = e.log.Sync()
}

// open loads configuration, connects and brings the schema up to date.
func open() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogLevel, "console")
	if err != nil {
		return nil, err
	}
	gormDB, err := db.Open(db.Options{
		Driver:       cfg.DBDriver,
		DSN:          cfg.DatabaseDSN,
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(gormDB); err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, db: gormDB}, nil
}
