package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jobsift/jobsift/internal/scheduler"
	"github.com/jobsift/jobsift/internal/store"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the sync daemon",
	Long:  "Run ingestion cycles on the configured interval; blocks until SIGINT/SIGTERM.",
	RunE:  runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"interval", cfg.SyncInterval.String(),
		"sources", cfg.Sources.EnabledCount(),
		"expiry_window", cfg.ExpiryWindow.String(),
		"db_path", cfg.DBPath,
	)

	sqlStore, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	o := buildOrchestrator(cfg, sqlStore, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.NewScheduler(func(ctx context.Context) {
		o.RunAll(ctx)
	}, cfg.SyncInterval, logger)
	if err := sched.Run(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
