// Package config provides configuration for the chessd server, client and
// tools.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/lgbarn/chessd/internal/errors"
)

// Environment variables that override file settings.
const (
	EnvAddr        = "CHESSD_ADDR"
	EnvStoreDriver = "CHESSD_STORE_DRIVER"
	EnvStoreDSN    = "CHESSD_STORE_DSN"
	EnvLogLevel    = "CHESSD_LOG_LEVEL"
)

// Config holds all program configuration, grouped by concern.
type Config struct {
	Server *ServerConfig `yaml:"server"`
	Store  *StoreConfig  `yaml:"store"`
	Log    *LogConfig    `yaml:"log"`
	Perft  *PerftConfig  `yaml:"perft"`
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Server: NewServerConfig(),
		Store:  NewStoreConfig(),
		Log:    NewLogConfig(),
		Perft:  NewPerftConfig(),
	}
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := NewConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := cfg.Decode(data); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode decodes YAML data over the current values. Sections missing
// from data keep their defaults.
func (c *Config) Decode(data []byte) error {
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return fmt.Errorf("parse config: %v: %w", err, errors.ErrInvalidConfig)
	}
	// A section written as "server:" with no body decodes to nil.
	defaults := NewConfig()
	if c.Server == nil {
		c.Server = defaults.Server
	}
	if c.Store == nil {
		c.Store = defaults.Store
	}
	if c.Log == nil {
		c.Log = defaults.Log
	}
	if c.Perft == nil {
		c.Perft = defaults.Perft
	}
	return nil
}

// ApplyEnv overrides settings from environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAddr); ok {
		c.Server.Addr = v
	}
	if v, ok := lookup(EnvStoreDriver); ok {
		c.Store.Driver = v
	}
	if v, ok := lookup(EnvStoreDSN); ok {
		c.Store.DSN = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.Log.Level = v
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	for _, v := range []interface{ Validate() error }{c.Server, c.Store, c.Log, c.Perft} {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
