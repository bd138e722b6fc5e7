package engine

import "github.com/lgbarn/chessd/internal/chess"

// Status summarises the position for the side to move.
type Status int

const (
	Active Status = iota
	Check
	Checkmate
	Stalemate
)

// String returns the wire name of the status.
func (s Status) String() string {
	switch s {
	case Check:
		return "CHECK"
	case Checkmate:
		return "CHECKMATE"
	case Stalemate:
		return "STALEMATE"
	default:
		return "ACTIVE"
	}
}

// Terminal reports whether no further moves can be played.
func (s Status) Terminal() bool {
	return s == Checkmate || s == Stalemate
}

// IsInCheck returns true if colour's king is attacked.
func (g *Game) IsInCheck(colour chess.Colour) bool {
	return IsInCheck(g.board, colour)
}

// IsNoLegalMove returns true if no piece of colour has a legal move. It
// rescans every piece on each call.
func (g *Game) IsNoLegalMove(colour chess.Colour) bool {
	for _, sq := range g.board.PiecesOf(colour) {
		if moves, _ := legalMoves(g.board, sq); len(moves) > 0 {
			return false
		}
	}
	return true
}

// IsInCheckmate returns true if colour is in check with no legal move.
func (g *Game) IsInCheckmate(colour chess.Colour) bool {
	return g.IsInCheck(colour) && g.IsNoLegalMove(colour)
}

// IsInStalemate returns true if colour is not in check but has no legal move.
func (g *Game) IsInStalemate(colour chess.Colour) bool {
	return !g.IsInCheck(colour) && g.IsNoLegalMove(colour)
}

// Status returns the state of the position for the side to move.
func (g *Game) Status() Status {
	check := g.IsInCheck(g.turn)
	stuck := g.IsNoLegalMove(g.turn)
	switch {
	case check && stuck:
		return Checkmate
	case stuck:
		return Stalemate
	case check:
		return Check
	default:
		return Active
	}
}
