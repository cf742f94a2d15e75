package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jobsift/jobsift/internal/model"
	"github.com/jobsift/jobsift/internal/store"
)

var expireCmd = &cobra.Command{
	Use:   "expire",
	Short: "Run the expiry sweep once",
	Long:  "Mark active jobs not seen within the expiry window as expired.",
	RunE:  runExpire,
}

func init() {
	rootCmd.AddCommand(expireCmd)
}

func runExpire(cmd *cobra.Command, args []string) error {
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

	cutoff := time.Now().Add(-cfg.ExpiryWindow)
	n, err := sqlStore.MarkExpired(cutoff)
	if err != nil {
		fmt.Fprintf(os.Stderr, "expiry sweep failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%d jobs marked %s (unseen since %s)\n", n, model.StatusExpired, cutoff.Format("2006-01-02"))
	return nil
}
