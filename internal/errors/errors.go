// Package errors provides sentinel errors and error types for chessd.
// It defines common error conditions and structured error types that preserve
// context while allowing error inspection with errors.Is() and errors.As().
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure conditions.
// Use these with errors.Is() to check for specific error types.
var (
	// ErrOutOfRange indicates a square coordinate outside 1..8.
	ErrOutOfRange = errors.New("coordinate out of range")

	// ErrIllegalMove indicates a move that violates chess rules.
	ErrIllegalMove = errors.New("illegal move")

	// ErrNoPiece indicates there is no piece on the start square.
	ErrNoPiece = errors.New("no piece at square")

	// ErrWrongTurn indicates the moving piece does not belong to the side to move.
	ErrWrongTurn = errors.New("not this side's turn")

	// ErrNotLegal indicates the move is not in the legal move set of its piece.
	ErrNotLegal = errors.New("move not in legal set")

	// ErrInvalidState indicates persisted game state that cannot be rebuilt.
	ErrInvalidState = errors.New("invalid game state")

	// ErrGameNotFound indicates an unknown game id.
	ErrGameNotFound = errors.New("game not found")

	// ErrGameOver indicates a move was submitted after checkmate or stalemate.
	ErrGameOver = errors.New("game is over")

	// ErrUnauthorized indicates a player token that does not own the side to move.
	ErrUnauthorized = errors.New("player not authorized for this side")

	// ErrInvalidConfig indicates invalid configuration values.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// MoveError is returned by the engine when a move is rejected. It matches
// both ErrIllegalMove and the specific Reason with errors.Is().
type MoveError struct {
	Move   string // The rejected move in coordinate form
	Turn   string // Side to move when the move was attempted
	Reason error  // ErrNoPiece, ErrWrongTurn or ErrNotLegal
}

// Error returns a formatted error message including all available context.
func (e *MoveError) Error() string {
	var parts []string
	if e.Move != "" {
		parts = append(parts, fmt.Sprintf("move %s", e.Move))
	}
	if e.Turn != "" {
		parts = append(parts, fmt.Sprintf("%s to move", strings.ToLower(e.Turn)))
	}
	msg := ErrIllegalMove.Error()
	if e.Reason != nil {
		msg += ": " + e.Reason.Error()
	}
	if len(parts) == 0 {
		return msg
	}
	return strings.Join(parts, ", ") + ": " + msg
}

// Unwrap returns ErrIllegalMove and the reason, so errors.Is() matches either.
func (e *MoveError) Unwrap() []error {
	if e.Reason == nil {
		return []error{ErrIllegalMove}
	}
	return []error{ErrIllegalMove, e.Reason}
}

// NewMoveError builds a MoveError for the given reason.
func NewMoveError(move, turn fmt.Stringer, reason error) *MoveError {
	return &MoveError{Move: move.String(), Turn: turn.String(), Reason: reason}
}

// Wrap adds context to an error while preserving the underlying error
// for inspection with errors.Is() and errors.As().
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf adds formatted context to an error while preserving the underlying
// error for inspection with errors.Is() and errors.As().
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}
