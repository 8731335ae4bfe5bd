package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// defaultAPIURL is the production backend host. It can be overridden in
// the config file or with the REJIMDE_API_URL environment variable.
const defaultAPIURL = "https://rejimde.com/wp-json"

// APIConfig holds settings for talking to the Rejimde REST backend.
type APIConfig struct {
	// BaseURL is the root of the wp-json API.
	BaseURL string `mapstructure:"base_url" yaml:"base_url" validate:"required,url"`

	// TimeoutSec is the per-request HTTP timeout.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec" validate:"gte=1,lte=300"`
}

// FeedConfig holds polling and pagination settings for the feed layer.
type FeedConfig struct {
	// PollIntervalSec is how often the notification feed refreshes.
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec" validate:"gte=5"`

	// ActivityPageSize is the page length for activity pagination.
	ActivityPageSize int `mapstructure:"activity_page_size" yaml:"activity_page_size" validate:"gte=1,lte=100"`
}

// GuardConfig holds the role-guard reconciliation settings.
type GuardConfig struct {
	// ReconcileTimeoutSec bounds the async who-am-I check.
	ReconcileTimeoutSec int `mapstructure:"reconcile_timeout_sec" yaml:"reconcile_timeout_sec" validate:"gte=1,lte=60"`
}

// LogConfig holds logging settings. The TUI owns the terminal, so logs
// go to a rotating file under the config directory.
type LogConfig struct {
	Level      string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb" validate:"gte=1"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups" validate:"gte=0"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API   APIConfig   `mapstructure:"api" yaml:"api"`
	Feed  FeedConfig  `mapstructure:"feed" yaml:"feed"`
	Guard GuardConfig `mapstructure:"guard" yaml:"guard"`
	Log   LogConfig   `mapstructure:"log" yaml:"log"`

	// CachePath is the sqlite snapshot cache location.
	CachePath string `mapstructure:"cache_path" yaml:"cache_path"`
}

// ConfigDir returns the rejimde configuration directory,
// ~/.config/rejimde by default.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "rejimde")
}

// DefaultConfigPath returns the default config file location.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// defaultAppConfig returns the compiled-in defaults.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		API: APIConfig{
			BaseURL:    defaultAPIURL,
			TimeoutSec: 30,
		},
		Feed: FeedConfig{
			PollIntervalSec:  30,
			ActivityPageSize: 20,
		},
		Guard: GuardConfig{
			ReconcileTimeoutSec: 5,
		},
		Log: LogConfig{
			Level:      "info",
			File:       filepath.Join(ConfigDir(), "rejimde.log"),
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		CachePath: filepath.Join(ConfigDir(), "cache.db"),
	}
}

// LoadConfig reads configuration from the given YAML file path using
// Viper. A missing file yields the defaults. REJIMDE_API_URL overrides
// the configured base URL.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	defaults := defaultAppConfig()
	v.SetDefault("api.base_url", defaults.API.BaseURL)
	v.SetDefault("api.timeout_sec", defaults.API.TimeoutSec)
	v.SetDefault("feed.poll_interval_sec", defaults.Feed.PollIntervalSec)
	v.SetDefault("feed.activity_page_size", defaults.Feed.ActivityPageSize)
	v.SetDefault("guard.reconcile_timeout_sec", defaults.Guard.ReconcileTimeoutSec)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.file", defaults.Log.File)
	v.SetDefault("log.max_size_mb", defaults.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", defaults.Log.MaxBackups)
	v.SetDefault("cache_path", defaults.CachePath)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); !ok {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if apiURL := os.Getenv("REJIMDE_API_URL"); apiURL != "" {
		cfg.API.BaseURL = apiURL
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the configuration to a YAML file at path, creating
// parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", cfg.API)
	v.Set("feed", cfg.Feed)
	v.Set("guard", cfg.Guard)
	v.Set("log", cfg.Log)
	v.Set("cache_path", cfg.CachePath)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
