package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"newsroom/internal/model"
	"newsroom/internal/repository"
	"newsroom/internal/service"
)

var (
	adminUsername    string
	adminPassword    string
	adminDisplayName string
	ifEmpty          bool
)

var superadminCmd = &cobra.Command{
	Use:   "superadmin",
	Short: "Create a superadmin account",
	Long: `Create the account that can manage every other user.

Examples:
  seed superadmin --username root --password s3cret
  seed superadmin --username root --password s3cret --if-empty   # Only on a fresh database`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSuperadmin(cmd.Context())
	},
}

func init() {
	superadminCmd.Flags().StringVar(&adminUsername, "username", "", "Login name (required)")
	superadminCmd.Flags().StringVar(&adminPassword, "password", "", "Password (required)")
	superadminCmd.Flags().StringVar(&adminDisplayName, "display-name", "", "Name shown in the admin area")
	superadminCmd.Flags().BoolVar(&ifEmpty, "if-empty", false, "Skip when any user already exists")
	_ = superadminCmd.MarkFlagRequired("username")
	_ = superadminCmd.MarkFlagRequired("password")
}

func runSuperadmin(ctx context.Context) error {
	e, err := open()
	if err != nil {
		return err
	}
	defer e.close()

	in := service.UserInput{
		Username:    adminUsername,
		Password:    adminPassword,
		DisplayName: adminDisplayName,
		Role:        string(model.RoleSuperAdmin),
	}
	user, err := createSuperadmin(ctx, repository.NewUserRepository(e.db, e.cfg.DBTimeout), in, ifEmpty)
	if err != nil {
		return err
	}
	if user == nil {
		e.log.Info("users already exist, skipping")
		return nil
	}
	e.log.Info("superadmin created", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return nil
}

// createSuperadmin creates the account. With onlyIfEmpty it returns a nil
// user when any account already exists.
func createSuperadmin(ctx context.Context, repo repository.UserRepository, in service.UserInput, onlyIfEmpty bool) (*model.User, error) {
	if onlyIfEmpty {
		n, err := repo.Count(ctx)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, nil
		}
	}
	user, err := service.NewUserService(repo).Create(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create superadmin: %w", err)
	}
	return user, nil
}
