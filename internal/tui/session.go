package tui

import (
	"context"
	"sync"

	"github.com/lgbarn/chessd/internal/chess"
	"github.com/lgbarn/chessd/internal/engine"
	"github.com/lgbarn/chessd/internal/errors"
)

// Session is the game a Model plays on.
type Session interface {
	// Game returns a snapshot of the current position. Callers may
	// query it freely; changes to it are not played.
	Game() *engine.Game
	// Move plays a move for the side to move.
	Move(ctx context.Context, move chess.Move) error
	// LastMove returns the most recent move in coordinate form, or "".
	LastMove() string
}

// LocalSession is a hot-seat game held in memory.
type LocalSession struct {
	mu   sync.Mutex
	game *engine.Game
	last string
}

// NewLocalSession starts a game in the opening position.
func NewLocalSession() *LocalSession {
	return &LocalSession{game: engine.NewGame()}
}

// NewLocalSessionFrom continues play from game.
func NewLocalSessionFrom(game *engine.Game) *LocalSession {
	return &LocalSession{game: game}
}

func (s *LocalSession) Game() *engine.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Clone()
}

func (s *LocalSession) Move(_ context.Context, move chess.Move) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game.Status().Terminal() {
		return errors.ErrGameOver
	}
	if err := s.game.MakeMove(move); err != nil {
		return err
	}
	s.last = move.String()
	return nil
}

func (s *LocalSession) LastMove() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
