package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jobsift/jobsift/internal/rank"
	"github.com/jobsift/jobsift/internal/store"
)

var rankLimit int

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Score stored jobs against your profile",
	Long:  "Rank the active jobs in the store against the configured profile and print a table, best first.",
	RunE:  runRank,
}

func init() {
	rankCmd.Flags().IntVar(&rankLimit, "limit", rank.DefaultLimit, "maximum number of jobs to print")
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
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

	ranked := rank.Rank(jobs, profile(cfg), rank.Options{Limit: rankLimit})
	if len(ranked) == 0 {
		fmt.Println("no active jobs — run `jobsift sync` first")
		return nil
	}

	fmt.Printf("%-6s %-35s %-20s %-10s %s\n", "Score", "Title", "Company", "Posted", "Source")
	fmt.Println(strings.Repeat("─", 90))
	for _, r := range ranked {
		posted := "n/a"
		if r.Job.PostedAt != nil {
			posted = r.Job.PostedAt.Format("2006-01-02")
		}
		fmt.Printf("%-6.2f %-35s %-20s %-10s %s\n",
			r.Score, truncate(r.Job.Title, 35), truncate(r.Job.CompanyName, 20), posted, r.Job.SourcePrimary)
	}
	fmt.Printf("\n%d of %d active jobs shown\n", len(ranked), len(jobs))
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
