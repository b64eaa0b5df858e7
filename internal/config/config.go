// Package config loads notebundle configuration from .notebundle/config.yaml
// and merges it with CLI flags. All validation happens here, before any
// pipeline work begins.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// HistoryConfig configures the optional run-history store.
type HistoryConfig struct {
	// Enabled enables recording of run summaries
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the history database
	DBPath string `yaml:"db_path"`
}

// Config represents notebundle configuration options.
type Config struct {
	// CollectExtensions is the default extension list for collection mode
	CollectExtensions string `yaml:"collect_extensions"`

	// BundleExtensions is the default extension list for bundling mode
	BundleExtensions string `yaml:"bundle_extensions"`

	// OutputDir is the default collection output directory
	OutputDir string `yaml:"output_dir"`

	// BundleRoot is the default root directory for bundles
	BundleRoot string `yaml:"bundle_root"`

	// Days is the default recency window in days
	Days int `yaml:"days"`

	// Limit is the default maximum bundle size
	Limit int `yaml:"limit"`

	// KeywordWeight scales keyword hits in the combined score
	KeywordWeight float64 `yaml:"keyword_weight"`

	// RecencyWeight scales the recency score in the combined score
	RecencyWeight float64 `yaml:"recency_weight"`

	// HardWindow excludes documents older than the window outright instead
	// of only zeroing their recency score
	HardWindow bool `yaml:"hard_window"`

	// LogLevel sets the logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// History contains run-history store configuration
	History HistoryConfig `yaml:"history"`
}

// DefaultConfig returns a Config with sensible default values.
// Scoring weights default to the keyword-dominant constants the tool has
// always shipped with; they are tunables, not contracts.
func DefaultConfig() *Config {
	return &Config{
		CollectExtensions: "md",
		BundleExtensions:  "md,mdx",
		OutputDir:         "./notebook-upload",
		BundleRoot:        "./notebook-bundles",
		Days:              365,
		Limit:             50,
		KeywordWeight:     100.0,
		RecencyWeight:     10.0,
		HardWindow:        true,
		LogLevel:          "info",
		History: HistoryConfig{
			Enabled: true,
			DBPath:  ".notebundle/history.db",
		},
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Pointer fields distinguish "absent" from "explicitly zero" so the
	// file can turn defaults like hard_window off
	type yamlConfig struct {
		CollectExtensions *string        `yaml:"collect_extensions"`
		BundleExtensions  *string        `yaml:"bundle_extensions"`
		OutputDir         *string        `yaml:"output_dir"`
		BundleRoot        *string        `yaml:"bundle_root"`
		Days              *int           `yaml:"days"`
		Limit             *int           `yaml:"limit"`
		KeywordWeight     *float64       `yaml:"keyword_weight"`
		RecencyWeight     *float64       `yaml:"recency_weight"`
		HardWindow        *bool          `yaml:"hard_window"`
		LogLevel          *string        `yaml:"log_level"`
		History           *HistoryConfig `yaml:"history"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.CollectExtensions != nil {
		cfg.CollectExtensions = *yamlCfg.CollectExtensions
	}
	if yamlCfg.BundleExtensions != nil {
		cfg.BundleExtensions = *yamlCfg.BundleExtensions
	}
	if yamlCfg.OutputDir != nil {
		cfg.OutputDir = *yamlCfg.OutputDir
	}
	if yamlCfg.BundleRoot != nil {
		cfg.BundleRoot = *yamlCfg.BundleRoot
	}
	if yamlCfg.Days != nil {
		cfg.Days = *yamlCfg.Days
	}
	if yamlCfg.Limit != nil {
		cfg.Limit = *yamlCfg.Limit
	}
	if yamlCfg.KeywordWeight != nil {
		cfg.KeywordWeight = *yamlCfg.KeywordWeight
	}
	if yamlCfg.RecencyWeight != nil {
		cfg.RecencyWeight = *yamlCfg.RecencyWeight
	}
	if yamlCfg.HardWindow != nil {
		cfg.HardWindow = *yamlCfg.HardWindow
	}
	if yamlCfg.LogLevel != nil {
		cfg.LogLevel = *yamlCfg.LogLevel
	}
	if yamlCfg.History != nil {
		cfg.History = *yamlCfg.History
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .notebundle/config.yaml in the
// specified directory, falling back to defaults when absent.
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, ".notebundle", "config.yaml"))
}

// MergeWithFlags merges CLI flags into the configuration.
// Non-nil flag values override configuration values, so flags take
// precedence over the config file.
func (c *Config) MergeWithFlags(days, limit *int, keywordWeight, recencyWeight *float64, logLevel *string) {
	if days != nil {
		c.Days = *days
	}
	if limit != nil {
		c.Limit = *limit
	}
	if keywordWeight != nil {
		c.KeywordWeight = *keywordWeight
	}
	if recencyWeight != nil {
		c.RecencyWeight = *recencyWeight
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
}

// Validate validates the configuration values.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	if c.Days < 0 {
		return fmt.Errorf("days must be >= 0, got %d", c.Days)
	}
	if c.Limit <= 0 {
		return fmt.Errorf("limit must be > 0, got %d", c.Limit)
	}
	if c.KeywordWeight < 0 {
		return fmt.Errorf("keyword_weight must be >= 0, got %v", c.KeywordWeight)
	}
	if c.RecencyWeight < 0 {
		return fmt.Errorf("recency_weight must be >= 0, got %v", c.RecencyWeight)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q, must be one of: debug, info, warn, error", c.LogLevel)
	}

	if c.History.Enabled && c.History.DBPath == "" {
		return fmt.Errorf("history.db_path cannot be empty when history is enabled")
	}

	return nil
}
