// Package config loads and validates tool configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	DataDir string        `mapstructure:"data_dir"`
	Logging LoggingConfig `mapstructure:"logging"`
	Server  ServerConfig  `mapstructure:"server"`
	Scraper ScraperConfig `mapstructure:"scraper"`
	Sync    SyncConfig    `mapstructure:"sync"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// ServerConfig controls the local HTTP surface.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// ScraperConfig governs the extraction engine.
type ScraperConfig struct {
	AttemptTimeoutSeconds int    `mapstructure:"attempt_timeout_seconds"`
	MinHTMLBytes          int    `mapstructure:"min_html_bytes"`
	UserAgent             string `mapstructure:"user_agent"`
}

// SyncConfig locates the remote document. The token normally arrives
// through RECIPEDEX_SYNC_TOKEN rather than the config file.
type SyncConfig struct {
	Owner  string `mapstructure:"owner"`
	Repo   string `mapstructure:"repo"`
	Branch string `mapstructure:"branch"`
	Path   string `mapstructure:"path"`
	Token  string `mapstructure:"token"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RECIPEDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "")
	v.SetDefault("logging.development", true)
	v.SetDefault("server.port", 8370)
	v.SetDefault("scraper.attempt_timeout_seconds", 14)
	v.SetDefault("scraper.min_html_bytes", 512)
	v.SetDefault("scraper.user_agent", "recipedex/0.1")
	v.SetDefault("sync.owner", "")
	v.SetDefault("sync.repo", "")
	v.SetDefault("sync.branch", "main")
	v.SetDefault("sync.path", "data/recipes.json")
	v.SetDefault("sync.token", "")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Scraper.AttemptTimeoutSeconds <= 0 {
		return fmt.Errorf("scraper.attempt_timeout_seconds must be > 0")
	}
	if c.Scraper.MinHTMLBytes < 0 {
		return fmt.Errorf("scraper.min_html_bytes must be >= 0")
	}
	return nil
}

// AttemptTimeout converts the scraper timeout into a duration.
func (c Config) AttemptTimeout() time.Duration {
	return time.Duration(c.Scraper.AttemptTimeoutSeconds) * time.Second
}
