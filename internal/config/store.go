package config

import (
	"fmt"

	"github.com/lgbarn/chessd/internal/errors"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// StoreConfig selects and configures game persistence.
type StoreConfig struct {
	// Driver is "memory" or "sqlite"
	Driver string `yaml:"driver"`

	// DSN is the SQLite data source, e.g. "file:chessd.db"
	DSN string `yaml:"dsn"`
}

// NewStoreConfig creates a StoreConfig with default values.
func NewStoreConfig() *StoreConfig {
	return &StoreConfig{Driver: DriverMemory}
}

// Validate checks that the store configuration is valid.
func (s *StoreConfig) Validate() error {
	switch s.Driver {
	case DriverMemory:
		return nil
	case DriverSQLite:
		if s.DSN == "" {
			return fmt.Errorf("sqlite store needs a dsn: %w", errors.ErrInvalidConfig)
		}
		return nil
	}
	return fmt.Errorf("unknown store driver %q: %w", s.Driver, errors.ErrInvalidConfig)
}
