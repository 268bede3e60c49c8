// Package config manages application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Channel rule types. Scored channels are ranked by score and capped per
// channel; curated channels pass rule-based filters instead.
const (
	ChannelTypeScored  = "scored"
	ChannelTypeCurated = "curated"
)

// Named heuristics usable in ChannelRule.Rules.
const (
	RuleMorningBriefing = "morning-briefing"
	RulePodcast         = "podcast"
	RuleKeyword         = "keyword"
)

// ChannelRule describes how videos from one channel are selected.
type ChannelRule struct {
	// Type is "scored" or "curated". Empty means "scored".
	Type string `json:"type,omitempty"`
	// Keywords are matched against title and description for the "keyword" rule.
	Keywords []string `json:"keywords,omitempty"`
	// Rules names the heuristics a curated channel's videos must satisfy
	// (any match qualifies): "morning-briefing", "podcast", "keyword".
	Rules []string `json:"rules,omitempty"`
}

// Config holds all application configuration for an aggregation run.
// It is loaded once per run and not mutated afterwards.
type Config struct {
	// APIKey is the YouTube Data API key used for the read-only fetch path.
	APIKey string `json:"api_key"`
	// Channels is the list of YouTube channel IDs to aggregate.
	Channels []string `json:"channels"`
	// ChannelCriteria maps channel IDs to their selection rules.
	// Channels without an entry are treated as scored.
	ChannelCriteria map[string]ChannelRule `json:"channel_criteria,omitempty"`
	// QualityKeywords are used for thematic relevance scoring.
	QualityKeywords []string `json:"quality_keywords,omitempty"`
	// FetchKeywords, when set, drop fetched videos whose title and
	// description match none of them, before scoring ever sees them.
	FetchKeywords []string `json:"fetch_keywords,omitempty"`

	// MinDuration filters out videos shorter than this many seconds.
	MinDuration int `json:"min_duration"`
	// DaysBack is the lookback window for recent videos.
	DaysBack int `json:"days_back"`
	// MaxResults caps the videos retrieved per channel before filtering.
	MaxResults int `json:"max_results"`
	// MaxVideosPerChannel caps the videos selected per channel.
	MaxVideosPerChannel int `json:"max_videos_per_channel"`
	// MaxTotal caps the final selected set across all channels.
	MaxTotal int `json:"max_total,omitempty"`

	// OutputDir is where snapshots and run records are written.
	OutputDir string `json:"output_dir"`

	// CredentialsFile is the OAuth client secret file for playlist updates.
	CredentialsFile string `json:"credentials_file,omitempty"`
	// TokenFile is the stored OAuth token for playlist updates.
	TokenFile string `json:"token_file,omitempty"`
	// ServiceAccountFile is a service-account key usable instead of OAuth.
	ServiceAccountFile string `json:"service_account_file,omitempty"`
	// PlaylistIDFile holds the target playlist ID, created on first run.
	PlaylistIDFile string `json:"playlist_id_file,omitempty"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		MinDuration:         60,
		DaysBack:            1,
		MaxResults:          20,
		MaxVideosPerChannel: 5,
		MaxTotal:            25,
		OutputDir:           "output",
		CredentialsFile:     filepath.Join("config", "client_secret.json"),
		TokenFile:           filepath.Join("config", "token.json"),
		ServiceAccountFile:  filepath.Join("config", "service-account.json"),
		PlaylistIDFile:      filepath.Join("config", "playlist_id.txt"),
	}
}

// Load loads configuration from a .env file, config file, and environment
// variables, then validates it. Priority: env vars > config file > defaults.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// .env is optional; it only seeds the process environment.
	_ = godotenv.Load()

	if err := cfg.loadFromFile(); err != nil {
		// Config file is optional
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFile loads configuration from an explicit path, applies environment
// overrides, and validates. Used by the --load-config flag.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile attempts to load config from news.json in the current
// directory or the user config directory.
func (c *Config) loadFromFile() error {
	paths := []string{
		"news.json",
		filepath.Join(os.Getenv("HOME"), ".config", "news", "news.json"),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}

	return os.ErrNotExist
}

// loadFromEnv overrides config with environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("NEWS_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("NEWS_CHANNELS"); v != "" {
		c.Channels = splitList(v)
	}
	if v := os.Getenv("NEWS_QUALITY_KEYWORDS"); v != "" {
		c.QualityKeywords = splitList(v)
	}
	if v := os.Getenv("NEWS_FETCH_KEYWORDS"); v != "" {
		c.FetchKeywords = splitList(v)
	}
	if v := os.Getenv("NEWS_MIN_DURATION"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MinDuration = n
		}
	}
	if v := os.Getenv("NEWS_DAYS_BACK"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.DaysBack = n
		}
	}
	if v := os.Getenv("NEWS_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxResults = n
		}
	}
	if v := os.Getenv("NEWS_MAX_VIDEOS_PER_CHANNEL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxVideosPerChannel = n
		}
	}
	if v := os.Getenv("NEWS_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("NEWS_CREDENTIALS_FILE"); v != "" {
		c.CredentialsFile = v
	}
	if v := os.Getenv("NEWS_TOKEN_FILE"); v != "" {
		c.TokenFile = v
	}
	if v := os.Getenv("NEWS_SERVICE_ACCOUNT_FILE"); v != "" {
		c.ServiceAccountFile = v
	}
	if v := os.Getenv("NEWS_PLAYLIST_ID_FILE"); v != "" {
		c.PlaylistIDFile = v
	}
}

// splitList splits a comma-separated env value into trimmed entries.
func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks that configuration values are valid and consistent.
// It returns an error if any configuration value is invalid.
func (c *Config) Validate() error {
	if len(c.Channels) == 0 {
		return fmt.Errorf("channels must not be empty")
	}
	if c.MinDuration < 0 {
		return fmt.Errorf("min_duration must be non-negative")
	}
	if c.DaysBack <= 0 {
		return fmt.Errorf("days_back must be positive")
	}
	if c.MaxResults <= 0 {
		return fmt.Errorf("max_results must be positive")
	}
	if c.MaxVideosPerChannel <= 0 {
		return fmt.Errorf("max_videos_per_channel must be positive")
	}
	if c.MaxTotal < 0 {
		return fmt.Errorf("max_total must be non-negative")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	for id, rule := range c.ChannelCriteria {
		switch rule.Type {
		case "", ChannelTypeScored, ChannelTypeCurated:
		default:
			return fmt.Errorf("channel %s: unknown type %q", id, rule.Type)
		}
		for _, r := range rule.Rules {
			switch r {
			case RuleMorningBriefing, RulePodcast, RuleKeyword:
			default:
				return fmt.Errorf("channel %s: unknown rule %q", id, r)
			}
		}
	}
	return nil
}

// Rule returns the selection rule for a channel, defaulting to scored.
func (c *Config) Rule(channelID string) ChannelRule {
	if r, ok := c.ChannelCriteria[channelID]; ok {
		if r.Type == "" {
			r.Type = ChannelTypeScored
		}
		return r
	}
	return ChannelRule{Type: ChannelTypeScored}
}
