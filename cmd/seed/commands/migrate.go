package commands

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"newsroom/internal/db"
	"newsroom/internal/logger"
)

var reset bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the schema",
	Long: `Create or update the users and posts tables.

Examples:
  seed migrate            # Apply the schema
  seed migrate --reset    # Drop every table first`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate()
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&reset, "reset", false, "Drop all tables before migrating")
}

func runMigrate() error {
	start := time.Now()
	e, err := open()
	if err != nil {
		return err
	}
	defer e.close()

	if reset {
		e.log.Warn("dropping all tables")
		if err := db.Reset(e.db); err != nil {
			return err
		}
		if err := db.Migrate(e.db); err != nil {
			return err
		}
	}
	e.log.Info("schema up to date", zap.String("driver", e.cfg.DBDriver), logger.Since(start))
	return nil
}
