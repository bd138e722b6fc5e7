package engine

import (
	"github.com/lgbarn/chessd/internal/chess"
	"github.com/lgbarn/chessd/internal/errors"
)

// MakeMove validates move against the side to move and the legal move set
// of its piece, then applies it and passes the turn. A rejected move
// returns a *errors.MoveError and leaves the game untouched.
func (g *Game) MakeMove(move chess.Move) error {
	piece, ok := g.board.Get(move.Start)
	if !ok {
		return errors.NewMoveError(move, g.turn, errors.ErrNoPiece)
	}
	if piece.Colour != g.turn {
		return errors.NewMoveError(move, g.turn, errors.ErrWrongTurn)
	}
	legal, _ := legalMoves(g.board, move.Start)
	found, ok := legal.Find(move)
	if !ok {
		return errors.NewMoveError(move, g.turn, errors.ErrNotLegal)
	}

	applyMove(g.board, piece, found)
	g.turn = g.turn.Opposite()
	return nil
}

// applyMove applies a legal move to the board and updates castling rights
// and en-passant targets.
func applyMove(board *chess.Board, piece chess.Piece, move chess.Move) {
	colour := piece.Colour

	board.Remove(move.Start)
	captured, hadCapture := board.Remove(move.End)

	switch {
	case move.IsPromotion():
		piece.Kind = move.Promotion

	case piece.Kind == chess.King:
		if isCastle(piece, move) {
			applyCastleRook(board, move)
		}
		revokeAllCastling(board, colour)

	case piece.Kind == chess.Rook:
		updateCastlingRightsForRook(board, colour, move.Start)

	case piece.Kind == chess.Pawn:
		applyPawnMove(board, piece, move)
	}

	// A rook taken on its corner can no longer castle.
	if hadCapture && captured.Kind == chess.Rook {
		updateCastlingRightsForRook(board, captured.Colour, move.End)
	}

	board.Place(move.End, piece)
	board.ClearEnPassant(colour)
}
