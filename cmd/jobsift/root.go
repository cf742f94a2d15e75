package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jobsift/jobsift/internal/config"
	"github.com/jobsift/jobsift/internal/connector"
	"github.com/jobsift/jobsift/internal/dedupe"
	"github.com/jobsift/jobsift/internal/enrich"
	"github.com/jobsift/jobsift/internal/fetch"
	"github.com/jobsift/jobsift/internal/ingest"
	"github.com/jobsift/jobsift/internal/model"
	"github.com/jobsift/jobsift/internal/ratelimit"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobsift",
	Short: "Job-listing aggregator — pull, dedupe, rank",
	Long:  "jobsift pulls postings from multiple job boards, merges duplicates into one canonical corpus, and ranks them against your profile.",
	// Default to `sync` so that `jobsift` with no args runs one cycle.
	RunE: runSync,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBSIFT_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBSIFT_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("JOBSIFT_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

// buildConnectors creates one connector per configured source. Disabled
// built-ins are skipped entirely rather than registered as no-ops.
func buildConnectors(cfg *config.Config, client *fetch.Client, logger *slog.Logger) []model.Connector {
	var connectors []model.Connector

	if cfg.Sources.RemoteOK {
		connectors = append(connectors, connector.NewRemoteOKConnector(client, true))
	}
	if cfg.Sources.Remotive {
		connectors = append(connectors, connector.NewRemotiveConnector(client, true))
	}
	if cfg.Sources.AdzunaEnabled() {
		a := cfg.Sources.Adzuna
		connectors = append(connectors, connector.NewAdzunaConnector(client, a.AppID, a.AppKey, a.Countries, a.What))
	}
	for _, c := range cfg.Sources.Custom {
		connectors = append(connectors, connector.NewCustomConnector(client, customConfig(c)))
	}

	for _, c := range connectors {
		logger.Info("registered source", "source", c.Name())
	}
	return connectors
}

func customConfig(c config.CustomSourceConfig) connector.CustomConfig {
	return connector.CustomConfig{
		Name:            c.Name,
		Type:            c.Type,
		URL:             c.URL,
		Company:         c.Company,
		ItemSelector:    c.ItemSelector,
		TitleSelector:   c.TitleSelector,
		CompanySelector: c.CompanySelector,
		LinkSelector:    c.LinkSelector,
		DescSelector:    c.DescSelector,
		ItemsPath:       c.ItemsPath,
		TitlePath:       c.TitlePath,
		CompanyPath:     c.CompanyPath,
		LinkPath:        c.LinkPath,
		DescPath:        c.DescPath,
		IDPath:          c.IDPath,
		DatePath:        c.DatePath,
	}
}

// setupEnricher returns the LLM skill enricher, or a no-op one when AI is
// disabled.
func setupEnricher(cfg *config.Config, logger *slog.Logger) model.SkillEnricher {
	if !cfg.AI.Enabled {
		return enrich.NewNopEnricher()
	}
	httpClient := &http.Client{Timeout: cfg.AI.Timeout}
	provider := enrich.NewOpenAIProvider(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, httpClient)
	logger.Info("skill enrichment enabled", "model", cfg.AI.Model)
	return enrich.NewLLMEnricher(provider, logger)
}

// buildOrchestrator wires the full pipeline: shared rate-limited HTTP client,
// one runner per enabled source, and the expiry sweep.
func buildOrchestrator(cfg *config.Config, jobStore model.Store, logger *slog.Logger) *ingest.Orchestrator {
	limiter := ratelimit.NewWindowLimiter(cfg.RateLimit.Window, cfg.RateLimit.MaxPerWindow)
	httpClient := &http.Client{Timeout: 30 * time.Second}
	client := fetch.NewClient(httpClient, limiter, logger)

	enricher := setupEnricher(cfg, logger)
	matcher := dedupe.NewMatcher(jobStore)

	var runners []*ingest.SourceRunner
	for _, c := range buildConnectors(cfg, client, logger) {
		runners = append(runners, ingest.NewSourceRunner(c, matcher, jobStore, enricher, logger))
	}

	return ingest.NewOrchestrator(runners, jobStore, cfg.ExpiryWindow, logger)
}

func profile(cfg *config.Config) model.UserJobProfile {
	return model.UserJobProfile{
		Skills:           cfg.Profile.Skills,
		RoleKeywords:     cfg.Profile.RoleKeywords,
		PreferredRegions: cfg.Profile.PreferredRegions,
		ExcludeCompanies: cfg.Profile.ExcludeCompanies,
	}
}
