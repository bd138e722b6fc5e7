package engine

import "github.com/lgbarn/chessd/internal/chess"

// isEnPassantCapture reports whether a pawn move is a diagonal step onto
// the mover's en-passant target.
func isEnPassantCapture(board *chess.Board, piece chess.Piece, move chess.Move) bool {
	if piece.Kind != chess.Pawn || move.Start.Column == move.End.Column {
		return false
	}
	ep, ok := board.EnPassant(piece.Colour)
	return ok && ep == move.End
}

// enPassantVictim returns the square of the pawn captured en passant: one
// rank behind the destination, from the mover's point of view.
func enPassantVictim(move chess.Move, colour chess.Colour) chess.Square {
	return chess.Square{Row: move.End.Row - chess.ColourOffset(colour), Column: move.End.Column}
}

// passedOver returns the square a double pawn push skips.
func passedOver(move chess.Move) chess.Square {
	return chess.Square{Row: (move.Start.Row + move.End.Row) / 2, Column: move.Start.Column}
}

// applyPawnMove handles the en-passant bookkeeping of a non-promoting pawn
// move: a double push hands the opponent a target square for their next
// turn, and a capture onto the mover's own target removes the pawn that
// stands beside the destination.
func applyPawnMove(board *chess.Board, piece chess.Piece, move chess.Move) {
	if move.DoublePawnPush {
		board.SetEnPassant(piece.Colour.Opposite(), passedOver(move))
	}
	if isEnPassantCapture(board, piece, move) {
		board.Remove(enPassantVictim(move, piece.Colour))
	}
}
