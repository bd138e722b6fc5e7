package engine

import "github.com/lgbarn/chessd/internal/chess"

// speculation records the minimal diff needed to take back a trial move:
// the moved piece and its origin, the destination's prior occupant and
// any pawn taken en passant.
type speculation struct {
	board *chess.Board
	move  chess.Move
	moved chess.Piece

	captured    chess.Piece
	hadCapture  bool
	epSquare    chess.Square
	epVictim    chess.Piece
	hadEPVictim bool
}

// speculate plays move on board in place. The caller must undo it.
func speculate(board *chess.Board, move chess.Move) *speculation {
	s := &speculation{board: board, move: move}
	s.moved, _ = board.Remove(move.Start)
	s.captured, s.hadCapture = board.Remove(move.End)
	if !s.hadCapture && isEnPassantCapture(board, s.moved, move) {
		s.epSquare = enPassantVictim(move, s.moved.Colour)
		s.epVictim, s.hadEPVictim = board.Remove(s.epSquare)
	}
	board.Place(move.End, s.moved)
	return s
}

// undo restores every square the speculation touched.
func (s *speculation) undo() {
	s.board.Remove(s.move.End)
	if s.hadCapture {
		s.board.Place(s.move.End, s.captured)
	}
	if s.hadEPVictim {
		s.board.Place(s.epSquare, s.epVictim)
	}
	s.board.Place(s.move.Start, s.moved)
}

// leavesKingSafe tries move and reports whether colour's king is out of
// check afterwards. The board is restored on every exit path.
func leavesKingSafe(board *chess.Board, colour chess.Colour, move chess.Move) bool {
	s := speculate(board, move)
	defer s.undo()
	return !IsInCheck(board, colour)
}

// legalMoves filters the pseudo-legal moves of the piece on from down to
// those that do not leave its own king in check.
func legalMoves(board *chess.Board, from chess.Square) (chess.MoveList, bool) {
	piece, ok := board.Get(from)
	if !ok {
		return nil, false
	}

	pseudo := PseudoLegalMoves(board, from)
	legal := make(chess.MoveList, 0, len(pseudo))
	for _, m := range pseudo {
		if leavesKingSafe(board, piece.Colour, m) {
			legal = append(legal, m)
		}
	}

	if piece.Kind == chess.King {
		legal = filterCastles(board, piece, legal)
	}
	return legal, true
}

// filterCastles drops castling moves while the king is in check, and any
// castle whose one-square king step toward the same rook did not survive
// the self-check filter. The step result stands in for "the king does not
// pass through an attacked square".
func filterCastles(board *chess.Board, king chess.Piece, legal chess.MoveList) chess.MoveList {
	// Stricter than the one-step check alone: a king in check never castles.
	inCheck := IsInCheck(board, king.Colour)
	out := make(chess.MoveList, 0, len(legal))
	for _, m := range legal {
		if isCastle(king, m) && (inCheck || !legal.Contains(oneStepToward(m))) {
			continue
		}
		out = append(out, m)
	}
	return out
}
