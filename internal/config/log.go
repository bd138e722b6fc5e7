package config

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lgbarn/chessd/internal/errors"
)

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is a zerolog level name: debug, info, warn, error
	Level string `yaml:"level"`

	// Pretty switches from JSON lines to the human console writer
	Pretty bool `yaml:"pretty"`
}

// NewLogConfig creates a LogConfig with default values.
func NewLogConfig() *LogConfig {
	return &LogConfig{Level: zerolog.InfoLevel.String()}
}

// ParsedLevel returns the configured level.
func (l *LogConfig) ParsedLevel() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log level %q: %w", l.Level, errors.ErrInvalidConfig)
	}
	return level, nil
}

// Validate checks that the log level is known.
func (l *LogConfig) Validate() error {
	_, err := l.ParsedLevel()
	return err
}
