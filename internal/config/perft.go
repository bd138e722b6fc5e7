package config

import (
	"fmt"

	"github.com/lgbarn/chessd/internal/errors"
)

// PerftConfig holds defaults for the perft tool.
type PerftConfig struct {
	// Depth is the default search depth
	Depth int `yaml:"depth"`

	// Workers is the number of goroutines used by divide (0 = one per CPU)
	Workers int `yaml:"workers"`
}

// NewPerftConfig creates a PerftConfig with default values.
func NewPerftConfig() *PerftConfig {
	return &PerftConfig{Depth: 3}
}

// Validate checks that the perft configuration is valid.
func (p *PerftConfig) Validate() error {
	if p.Depth < 1 {
		return fmt.Errorf("perft depth (%d) must be at least 1: %w", p.Depth, errors.ErrInvalidConfig)
	}
	if p.Workers < 0 {
		return fmt.Errorf("perft workers (%d) must not be negative: %w", p.Workers, errors.ErrInvalidConfig)
	}
	return nil
}
