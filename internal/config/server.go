package config

import (
	"fmt"
	"time"

	"github.com/lgbarn/chessd/internal/errors"
)

// ServerConfig holds settings for the HTTP and WebSocket listener.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080"
	Addr string `yaml:"addr"`

	// ReadTimeout bounds reading a whole request
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout bounds writing a response
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// PingInterval is how often idle WebSocket peers are pinged
	PingInterval time.Duration `yaml:"ping_interval"`
}

// NewServerConfig creates a ServerConfig with default values.
func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		Addr:            ":8080",
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		PingInterval:    30 * time.Second,
	}
}

// Validate checks that the server configuration is valid.
func (s *ServerConfig) Validate() error {
	if s.Addr == "" {
		return fmt.Errorf("server address is empty: %w", errors.ErrInvalidConfig)
	}
	if s.ReadTimeout < 0 || s.WriteTimeout < 0 || s.ShutdownTimeout < 0 {
		return fmt.Errorf("server timeouts must not be negative: %w", errors.ErrInvalidConfig)
	}
	if s.PingInterval <= 0 {
		return fmt.Errorf("ping interval (%s) must be positive: %w", s.PingInterval, errors.ErrInvalidConfig)
	}
	return nil
}
