package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	bodegacfg "github.com/Skotchmaster/bodega/internal/config"
	"github.com/Skotchmaster/bodega/internal/repo"
	pkgdb "github.com/Skotchmaster/bodega/pkg/db"
	"github.com/Skotchmaster/bodega/pkg/logging"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := bodegacfg.LoadForCLI()
			if err != nil {
				return err
			}
			slog.SetDefault(logging.New(cfg.LogLevel).With("service", cfg.ServiceName))

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("db open: %w", err)
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			if err := repo.Migrate(db.WithContext(ctx)); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			slog.Info("migrate_success")
			return nil
		},
	}
}
