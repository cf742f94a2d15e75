package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jobsift/jobsift/internal/model"
	"github.com/jobsift/jobsift/internal/store"
)

var syncDryRun bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one ingestion cycle",
	Long:  "Fetch every enabled source once, dedupe and upsert the results, and sweep expired jobs.",
	RunE:  runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "fetch and dedupe but persist nothing")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var jobStore model.Store
	if syncDryRun {
		logger.Info("dry-run mode enabled, nothing will be persisted")
		jobStore = store.NewNopStore()
	} else {
		sqlStore, err := store.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			logger.Error("failed to open store", "error", err)
			os.Exit(1)
		}
		defer sqlStore.Close()
		jobStore = sqlStore
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	o := buildOrchestrator(cfg, jobStore, logger)
	all := o.RunAll(ctx)

	var fetched, upserted, duplicates, errors int
	for _, m := range all {
		fetched += m.Fetched
		upserted += m.Upserted
		duplicates += m.Duplicates
		errors += m.Errors
	}
	logger.Info("sync cycle complete",
		"sources", len(all),
		"fetched", fetched,
		"upserted", upserted,
		"duplicates", duplicates,
		"errors", errors,
	)
	return nil
}
