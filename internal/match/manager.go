// Package match runs games on behalf of remote players: it owns the
// per-game lock around every engine call, checks player tokens, persists
// each move and notifies subscribers.
package match

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lgbarn/chessd/internal/chess"
	"github.com/lgbarn/chessd/internal/codec"
	"github.com/lgbarn/chessd/internal/engine"
	"github.com/lgbarn/chessd/internal/errors"
	"github.com/lgbarn/chessd/internal/store"
)

// Manager serializes access to each game. Engine games are not safe for
// concurrent use, so every read-modify-write of a game happens under that
// game's lock.
type Manager struct {
	store store.Store
	log   zerolog.Logger
	now   func() time.Time

	mu    sync.Mutex
	locks map[uuid.UUID]*gameLock

	hub *hub
}

// NewManager creates a manager over st.
func NewManager(st store.Store, log zerolog.Logger) *Manager {
	return &Manager{
		store: st,
		log:   log.With().Str("component", "match").Logger(),
		now:   func() time.Time { return time.Now().UTC() },
		locks: make(map[uuid.UUID]*gameLock),
		hub:   newHub(),
	}
}

// gameLock is held by at most one caller; refs counts the holder and
// every caller waiting for it.
type gameLock struct {
	sync.Mutex
	refs int
}

// lock acquires the lock for game id and returns its release function.
// An entry lives in m.locks only while someone holds or waits for it.
func (m *Manager) lock(id uuid.UUID) (unlock func()) {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &gameLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		m.mu.Lock()
		defer m.mu.Unlock()
		if l.refs--; l.refs == 0 {
			delete(m.locks, id)
		}
	}
}

// Create starts a game in the opening position with a fresh token for
// each side.
func (m *Manager) Create(ctx context.Context) (*store.Record, error) {
	now := m.now()
	g := engine.NewGame()
	rec := &store.Record{
		ID:         uuid.New(),
		State:      codec.Encode(g),
		WhiteToken: uuid.NewString(),
		BlackToken: uuid.NewString(),
		Status:     g.Status().String(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := m.store.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	m.log.Info().Str("game", rec.ID.String()).Msg("game created")
	return rec, nil
}

// Get returns the stored game.
func (m *Manager) Get(ctx context.Context, id uuid.UUID) (*store.Record, error) {
	return m.store.Get(ctx, id)
}

// List returns every stored game, oldest first.
func (m *Manager) List(ctx context.Context) ([]*store.Record, error) {
	return m.store.List(ctx)
}

// ValidMoves returns the legal moves of the piece on sq. An empty square
// yields an error matching errors.ErrNoPiece.
func (m *Manager) ValidMoves(ctx context.Context, id uuid.UUID, sq chess.Square) (chess.MoveList, error) {
	if !sq.Valid() {
		return nil, errors.Wrapf(errors.ErrOutOfRange, "square %s", sq)
	}
	defer m.lock(id)()

	_, g, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}
	moves, ok := g.ValidMoves(sq)
	if !ok {
		return nil, errors.Wrapf(errors.ErrNoPiece, "square %s", sq)
	}
	return moves, nil
}

// Move plays move for the player holding token. The token must belong to
// the side to move and the game must not be over. On success the game is
// persisted and subscribers receive an Event.
func (m *Manager) Move(ctx context.Context, id uuid.UUID, token string, move chess.Move) (*store.Record, error) {
	defer m.lock(id)()

	rec, g, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}
	logger := m.log.With().Str("game", id.String()).Str("move", move.String()).Logger()

	if isTerminal(rec.Status) {
		return nil, fmt.Errorf("game %s is %s: %w", id, rec.Status, errors.ErrGameOver)
	}
	side, err := sideOf(rec, token)
	if err != nil {
		logger.Warn().Msg("move with unknown token")
		return nil, err
	}
	if side != g.Turn() {
		return nil, fmt.Errorf("%s cannot move, %s to play: %w", side, g.Turn(), errors.ErrUnauthorized)
	}

	if err := g.MakeMove(move); err != nil {
		logger.Debug().Err(err).Msg("move rejected")
		return nil, err
	}

	status := g.Status()
	rec.State = codec.Encode(g)
	rec.Status = status.String()
	rec.Moves = append(rec.Moves, move.String())
	rec.UpdatedAt = m.now()
	if err := m.store.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("save game %s: %w", id, err)
	}

	logger.Info().Str("side", side.String()).Str("status", rec.Status).Int("ply", len(rec.Moves)).Msg("move applied")
	m.hub.publish(Event{GameID: id, State: rec.State.Clone(), Status: rec.Status, LastMove: move.String()})
	return rec, nil
}

// Subscribe returns a channel of events for game id and a function that
// ends the subscription and closes the channel.
func (m *Manager) Subscribe(id uuid.UUID) (<-chan Event, func()) {
	return m.hub.subscribe(id)
}

func (m *Manager) load(ctx context.Context, id uuid.UUID) (*store.Record, *engine.Game, error) {
	rec, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	g, err := codec.Decode(rec.State)
	if err != nil {
		return nil, nil, fmt.Errorf("game %s: %w", id, err)
	}
	return rec, g, nil
}

func sideOf(rec *store.Record, token string) (chess.Colour, error) {
	switch {
	case token == "":
		return chess.White, fmt.Errorf("missing player token: %w", errors.ErrUnauthorized)
	case token == rec.WhiteToken:
		return chess.White, nil
	case token == rec.BlackToken:
		return chess.Black, nil
	}
	return chess.White, fmt.Errorf("token does not belong to game %s: %w", rec.ID, errors.ErrUnauthorized)
}

func isTerminal(status string) bool {
	return status == engine.Checkmate.String() || status == engine.Stalemate.String()
}

// Watchers returns the number of live subscriptions to game id.
func (m *Manager) Watchers(id uuid.UUID) int {
	return m.hub.count(id)
}
