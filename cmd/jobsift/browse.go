package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jobsift/jobsift/internal/browse"
	"github.com/jobsift/jobsift/internal/model"
	"github.com/jobsift/jobsift/internal/rank"
	"github.com/jobsift/jobsift/internal/store"
)

var browseLimit int

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse ranked jobs interactively",
	Long:  "Open an interactive list of ranked jobs with a detail view, apply-URL opening, and on-demand skill extraction.",
	RunE:  runBrowse,
}

func init() {
	browseCmd.Flags().IntVar(&browseLimit, "limit", 100, "maximum number of jobs to load")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	sqlStore, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	jobs, err := sqlStore.ListActive()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to list jobs: %v\n", err)
		os.Exit(1)
	}
	if len(jobs) == 0 {
		fmt.Println("no active jobs — run `jobsift sync` first")
		return nil
	}

	ranked := rank.Rank(jobs, profile(cfg), rank.Options{Limit: browseLimit})

	// A nil enricher hides the enrichment key binding entirely.
	var enricher model.SkillEnricher
	if cfg.AI.Enabled {
		enricher = setupEnricher(cfg, logger)
	}
	return browse.Run(ranked, enricher)
}
