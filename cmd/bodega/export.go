package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	bodegacfg "github.com/Skotchmaster/bodega/internal/config"
	"github.com/Skotchmaster/bodega/internal/repo"
	"github.com/Skotchmaster/bodega/internal/service"
	pkgdb "github.com/Skotchmaster/bodega/pkg/db"
	"github.com/Skotchmaster/bodega/pkg/logging"
)

func newExportOrdersCmd() *cobra.Command {
	var (
		out    string
		status string
		query  string
	)

	cmd := &cobra.Command{
		Use:   "export-orders",
		Short: "Write orders and their items to an xlsx workbook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := bodegacfg.LoadForCLI()
			if err != nil {
				return err
			}
			slog.SetDefault(logging.New(cfg.LogLevel).With("service", cfg.ServiceName))

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("db open: %w", err)
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()

			svc := &service.OrderAdminService{Repo: &repo.GormRepo{DB: db}}
			if err := svc.Export(ctx, f, status, query); err != nil {
				return err
			}
			slog.Info("export_orders_success", "file", out)
			return f.Close()
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "pedidos.xlsx", "output file")
	cmd.Flags().StringVar(&status, "status", "all", "status filter: all, pending or delivered")
	cmd.Flags().StringVarP(&query, "q", "q", "", "match customer name or phone")
	return cmd
}
