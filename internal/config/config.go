package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the jobsift pipeline.
type Config struct {
	SyncInterval time.Duration
	DBPath       string
	ExpiryWindow time.Duration
	Sources      SourcesConfig
	RateLimit    RateLimitConfig
	Profile      ProfileConfig
	AI           AIConfig
}

// SourcesConfig enables and configures the connectors. Everything is off by
// default: a source fetches only when explicitly enabled or configured.
type SourcesConfig struct {
	RemoteOK bool
	Remotive bool
	Adzuna   AdzunaConfig
	Custom   []CustomSourceConfig
}

// AdzunaConfig holds the Adzuna API credentials and search scope. The source
// is enabled by having credentials and at least one country.
type AdzunaConfig struct {
	AppID     string   `yaml:"app_id"`
	AppKey    string   `yaml:"app_key"`
	Countries []string `yaml:"countries"`
	What      string   `yaml:"what"`
}

// CustomSourceConfig describes one user-defined scraper source.
type CustomSourceConfig struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"` // rss, html, or json
	URL     string `yaml:"url"`
	Company string `yaml:"company"`

	ItemSelector    string `yaml:"item_selector"`
	TitleSelector   string `yaml:"title_selector"`
	CompanySelector string `yaml:"company_selector"`
	LinkSelector    string `yaml:"link_selector"`
	DescSelector    string `yaml:"desc_selector"`

	ItemsPath   string `yaml:"items_path"`
	TitlePath   string `yaml:"title_path"`
	CompanyPath string `yaml:"company_path"`
	LinkPath    string `yaml:"link_path"`
	DescPath    string `yaml:"desc_path"`
	IDPath      string `yaml:"id_path"`
	DatePath    string `yaml:"date_path"`
}

// RateLimitConfig controls the per-source request window.
type RateLimitConfig struct {
	Window       time.Duration
	MaxPerWindow int
}

// ProfileConfig is the user profile the ranker scores against.
type ProfileConfig struct {
	Skills           []string `yaml:"skills"`
	RoleKeywords     []string `yaml:"role_keywords"`
	PreferredRegions []string `yaml:"preferred_regions"`
	ExcludeCompanies []string `yaml:"exclude_companies"`
}

// AIConfig controls the optional OpenAI-compatible skill enrichment layer.
type AIConfig struct {
	Enabled bool
	BaseURL string        // defaults to https://api.openai.com/v1
	Model   string        // model identifier, e.g. "gpt-4o-mini"
	APIKey  string        // expanded from env var by Load
	Timeout time.Duration // per-request timeout
}

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as
// strings).
type rawConfig struct {
	SyncInterval string             `yaml:"sync_interval"`
	DBPath       string             `yaml:"db_path"`
	ExpiryWindow string             `yaml:"expiry_window"`
	Sources      rawSourcesConfig   `yaml:"sources"`
	RateLimit    rawRateLimitConfig `yaml:"rate_limit"`
	Profile      ProfileConfig      `yaml:"profile"`
	AI           rawAIConfig        `yaml:"ai"`
}

type rawSourcesConfig struct {
	RemoteOK bool                 `yaml:"remoteok"`
	Remotive bool                 `yaml:"remotive"`
	Adzuna   AdzunaConfig         `yaml:"adzuna"`
	Custom   []CustomSourceConfig `yaml:"custom"`
}

type rawRateLimitConfig struct {
	Window       string `yaml:"window"`
	MaxPerWindow int    `yaml:"max_per_window"`
}

type rawAIConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"api_key"`
	Timeout string `yaml:"timeout"`
}

// Load reads and parses the YAML config file at path, validates it, and
// returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	interval := 1 * time.Hour // default
	if raw.SyncInterval != "" {
		interval, err = time.ParseDuration(raw.SyncInterval)
		if err != nil {
			return nil, fmt.Errorf("parse sync_interval %q: %w", raw.SyncInterval, err)
		}
	}

	expiry := 14 * 24 * time.Hour // default: 14 days
	if raw.ExpiryWindow != "" {
		expiry, err = time.ParseDuration(raw.ExpiryWindow)
		if err != nil {
			return nil, fmt.Errorf("parse expiry_window %q: %w", raw.ExpiryWindow, err)
		}
	}

	window := 1 * time.Minute // default
	if raw.RateLimit.Window != "" {
		window, err = time.ParseDuration(raw.RateLimit.Window)
		if err != nil {
			return nil, fmt.Errorf("parse rate_limit.window %q: %w", raw.RateLimit.Window, err)
		}
	}
	maxPerWindow := raw.RateLimit.MaxPerWindow
	if maxPerWindow <= 0 {
		maxPerWindow = 10 // default
	}

	dbPath := raw.DBPath
	if dbPath == "" {
		dbPath = "jobsift.db"
	}

	aiTimeout := 30 * time.Second // default
	if raw.AI.Timeout != "" {
		aiTimeout, err = time.ParseDuration(raw.AI.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse ai.timeout %q: %w", raw.AI.Timeout, err)
		}
	}

	aiBaseURL := raw.AI.BaseURL
	if aiBaseURL == "" {
		aiBaseURL = defaultOpenAIBaseURL
	}

	cfg := &Config{
		SyncInterval: interval,
		DBPath:       dbPath,
		ExpiryWindow: expiry,
		Sources: SourcesConfig{
			RemoteOK: raw.Sources.RemoteOK,
			Remotive: raw.Sources.Remotive,
			Adzuna:   raw.Sources.Adzuna,
			Custom:   raw.Sources.Custom,
		},
		RateLimit: RateLimitConfig{
			Window:       window,
			MaxPerWindow: maxPerWindow,
		},
		Profile: raw.Profile,
		AI: AIConfig{
			Enabled: raw.AI.Enabled,
			BaseURL: aiBaseURL,
			Model:   raw.AI.Model,
			APIKey:  raw.AI.APIKey,
			Timeout: aiTimeout,
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// AdzunaEnabled reports whether the Adzuna source is fully configured.
func (s SourcesConfig) AdzunaEnabled() bool {
	return s.Adzuna.AppID != "" && s.Adzuna.AppKey != "" && len(s.Adzuna.Countries) > 0
}

// EnabledCount returns how many sources will actually fetch.
func (s SourcesConfig) EnabledCount() int {
	n := 0
	if s.RemoteOK {
		n++
	}
	if s.Remotive {
		n++
	}
	if s.AdzunaEnabled() {
		n++
	}
	return n + len(s.Custom)
}

func validate(cfg *Config) error {
	if cfg.SyncInterval <= 0 {
		return fmt.Errorf("sync_interval must be positive, got %v", cfg.SyncInterval)
	}
	if cfg.ExpiryWindow <= 0 {
		return fmt.Errorf("expiry_window must be positive, got %v", cfg.ExpiryWindow)
	}

	if cfg.Sources.EnabledCount() == 0 {
		return fmt.Errorf("at least one source must be enabled")
	}

	if (cfg.Sources.Adzuna.AppID != "" || cfg.Sources.Adzuna.AppKey != "") && !cfg.Sources.AdzunaEnabled() {
		return fmt.Errorf("sources.adzuna needs app_id, app_key, and at least one country")
	}

	seen := make(map[string]bool)
	for _, c := range cfg.Sources.Custom {
		if c.Name == "" {
			return fmt.Errorf("sources.custom entries need a name")
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate custom source name %q", c.Name)
		}
		seen[c.Name] = true
		if c.URL == "" {
			return fmt.Errorf("sources.custom[%s] needs a url", c.Name)
		}
		switch c.Type {
		case "rss", "html", "json":
		default:
			return fmt.Errorf("sources.custom[%s] type must be rss, html, or json, got %q", c.Name, c.Type)
		}
		if c.Type == "html" && (c.ItemSelector == "" || c.TitleSelector == "" || c.LinkSelector == "") {
			return fmt.Errorf("sources.custom[%s] html type needs item_selector, title_selector, and link_selector", c.Name)
		}
		if c.Type == "json" && (c.TitlePath == "" || c.LinkPath == "") {
			return fmt.Errorf("sources.custom[%s] json type needs title_path and link_path", c.Name)
		}
	}

	if cfg.AI.Enabled {
		if cfg.AI.APIKey == "" {
			return fmt.Errorf("ai.api_key is required when ai.enabled is true")
		}
		if cfg.AI.Model == "" {
			return fmt.Errorf("ai.model is required when ai.enabled is true")
		}
	}

	return nil
}
