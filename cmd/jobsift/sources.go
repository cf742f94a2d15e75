package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List configured sources",
	Long:  "Reads the config and prints a table of all sources and whether each will fetch.",
	RunE:  runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-25s %-10s %s\n", "Source", "Type", "Status")
	fmt.Println(strings.Repeat("─", 47))

	printSource := func(name, kind string, enabled bool) {
		status := "disabled"
		if enabled {
			status = "enabled"
		}
		fmt.Printf("%-25s %-10s %s\n", name, kind, status)
	}

	printSource("remoteok", "api", cfg.Sources.RemoteOK)
	printSource("remotive", "api", cfg.Sources.Remotive)
	printSource("adzuna", "api", cfg.Sources.AdzunaEnabled())
	for _, c := range cfg.Sources.Custom {
		printSource("custom:"+c.Name, c.Type, true)
	}

	fmt.Printf("\n%d sources will fetch\n", cfg.Sources.EnabledCount())
	return nil
}
