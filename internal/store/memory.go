package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/exp/maps"
)

// MemoryStore keeps games in a map. Records are copied on the way in and
// out so callers never share state with the store.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[uuid.UUID]*Record
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{games: make(map[uuid.UUID]*Record)}
}

// Create adds a new record. The id must be unused.
func (s *MemoryStore) Create(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[rec.ID]; ok {
		return fmt.Errorf("game %s already exists", rec.ID)
	}
	s.games[rec.ID] = rec.Clone()
	return nil
}

// Get returns a copy of the record.
func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.games[id]
	if !ok {
		return nil, notFound(id)
	}
	return rec.Clone(), nil
}

// Update replaces an existing record.
func (s *MemoryStore) Update(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[rec.ID]; !ok {
		return notFound(rec.ID)
	}
	s.games[rec.ID] = rec.Clone()
	return nil
}

// List returns copies of every record, oldest first.
func (s *MemoryStore) List(_ context.Context) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := maps.Keys(s.games)
	out := make([]*Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.games[id].Clone())
	}
	sortRecords(out)
	return out, nil
}

// Delete removes a record.
func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return notFound(id)
	}
	delete(s.games, id)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

func sortRecords(recs []*Record) {
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].CreatedAt.Before(recs[j].CreatedAt)
		}
		return recs[i].ID.String() < recs[j].ID.String()
	})
}
