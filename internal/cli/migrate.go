package cli

import (
	"context"
	"fmt"

	"quizia/internal/config"
	"quizia/internal/database"
	"quizia/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewMigrateCmd applies the embedded Oracle migrations.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if err := logger.Initialize(cfg.Logger); err != nil {
				return err
			}
			defer logger.Sync()

			applied, err := runMigrations(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied: %d\n", applied)
			return nil
		},
	}
}

func runMigrations(ctx context.Context, cfg *config.Config) (int, error) {
	if cfg.DB.Host == "" {
		return 0, fmt.Errorf("database host not configured")
	}

	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		return 0, err
	}
	defer db.Close()

	applied, err := database.RunMigrations(ctx, db)
	if err != nil {
		return applied, err
	}
	logger.Get().Info("migrations applied", zap.Int("count", applied))
	return applied, nil
}
