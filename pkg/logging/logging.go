package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// Config is read from FOGSWAP_LOG_* environment variables
type Config struct {
	Level       string    `default:"warn"`
	ForceColors bool      `default:"false" split_words:"true"`
	Output      io.Writer `ignored:"true"`
}

// LoadConfig reads the logging configuration from the environment
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("FOGSWAP_LOG", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse logging config: %w", err)
	}
	return &cfg, nil
}

// New builds a logger writing to stderr, or cfg.Output when set
func New(cfg *Config) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	return &logrus.Logger{
		Out: out,
		Formatter: &prefixed.TextFormatter{
			FullTimestamp:   true,
			ForceFormatting: true,
			ForceColors:     cfg.ForceColors,
		},
		Hooks: make(logrus.LevelHooks),
		Level: level,
	}, nil
}
