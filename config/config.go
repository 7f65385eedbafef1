package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mcuadros/go-defaults"
	"github.com/spf13/viper"
)

const (
	configName = ".fogswap"
	envPrefix  = "FOGSWAP"

	// DefaultHistoryFileName is created in the home directory
	DefaultHistoryFileName = ".fogswap-history.json"
)

// Config holds the application configuration
type Config struct {
	BaseURL     string        `mapstructure:"base_url" default:"https://api.fogswap.io/v1"`
	Timeout     time.Duration `mapstructure:"timeout" default:"30s"`
	UserAgent   string        `mapstructure:"user_agent" default:"fogswap-cli/0.1.0"`
	HistoryFile string        `mapstructure:"history_file"`
}

// Load reads configuration from environment variables and an optional
// config file in $HOME or the working directory
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom is Load with an explicit config file. An empty path searches
// the default locations.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	for _, key := range []string{"base_url", "timeout", "user_agent", "history_file"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// The config file is optional unless it was asked for explicitly
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	defaults.SetDefaults(cfg)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base_url must not be empty. Set FOGSWAP_BASE_URL or base_url in %s.yaml", configName)
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}

	if cfg.HistoryFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		cfg.HistoryFile = filepath.Join(home, DefaultHistoryFileName)
	}

	return cfg, nil
}
