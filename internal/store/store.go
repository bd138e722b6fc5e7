// Package store persists games between requests.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lgbarn/chessd/internal/codec"
	"github.com/lgbarn/chessd/internal/config"
	"github.com/lgbarn/chessd/internal/errors"
)

// Record is one stored game.
type Record struct {
	ID         uuid.UUID
	State      codec.GameState
	WhiteToken string
	BlackToken string
	Status     string
	Moves      []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	c := *r
	c.State = r.State.Clone()
	c.Moves = append([]string(nil), r.Moves...)
	return &c
}

// Store is implemented by every game backend. Get, Update and Delete
// return an error matching errors.ErrGameNotFound for unknown ids.
type Store interface {
	Create(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id uuid.UUID) (*Record, error)
	Update(ctx context.Context, rec *Record) error
	List(ctx context.Context) ([]*Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Close() error
}

// Open returns the backend selected by cfg.
func Open(ctx context.Context, cfg *config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return NewMemoryStore(), nil
	case config.DriverSQLite:
		return OpenSQLStore(ctx, cfg.DSN)
	}
	return nil, fmt.Errorf("store driver %q: %w", cfg.Driver, errors.ErrInvalidConfig)
}

func notFound(id uuid.UUID) error {
	return fmt.Errorf("game %s: %w", id, errors.ErrGameNotFound)
}
