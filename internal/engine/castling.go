package engine

import "github.com/lgbarn/chessd/internal/chess"

// castlingCandidates returns the castling moves the king on from could
// make, ignoring attacks. A candidate needs the king on its home square,
// the castling right for that side, the own rook on its corner and every
// square strictly between king and rook empty. The destination is two
// files toward the rook.
func castlingCandidates(board *chess.Board, from chess.Square, colour chess.Colour) []chess.Move {
	home := chess.Square{Row: chess.HomeRow(colour), Column: chess.KingColumn}
	if from != home {
		return nil
	}

	var moves []chess.Move
	for _, side := range chess.Sides {
		if !board.CanCastle(colour, side) {
			continue
		}
		corner := chess.Square{Row: home.Row, Column: side.RookColumn()}
		if rook, ok := board.Get(corner); !ok || rook != (chess.Piece{Colour: colour, Kind: chess.Rook}) {
			continue
		}
		if !pathClear(board, home, corner) {
			continue
		}
		to := chess.Square{Row: home.Row, Column: home.Column + 2*side.Direction()}
		moves = append(moves, chess.NewMove(from, to))
	}
	return moves
}

// pathClear checks every square strictly between two squares on one row.
func pathClear(board *chess.Board, from, to chess.Square) bool {
	step := sign(to.Column - from.Column)
	for col := from.Column + step; col != to.Column; col += step {
		if !board.IsEmpty(chess.Square{Row: from.Row, Column: col}) {
			return false
		}
	}
	return true
}

// isCastle reports whether a king move is a castle: it travels more than
// one file.
func isCastle(piece chess.Piece, move chess.Move) bool {
	return piece.Kind == chess.King && move.ColumnDistance() > 1
}

// castleSide returns the wing a castling move goes to.
func castleSide(move chess.Move) chess.Side {
	if move.End.Column > move.Start.Column {
		return chess.Kingside
	}
	return chess.Queenside
}

// oneStepToward returns the king move one file toward the rook of a
// castling move.
func oneStepToward(move chess.Move) chess.Move {
	step := castleSide(move).Direction()
	return chess.NewMove(move.Start, chess.Square{Row: move.Start.Row, Column: move.Start.Column + step})
}

// applyCastleRook moves the corner rook next to the king's new square.
func applyCastleRook(board *chess.Board, move chess.Move) {
	side := castleSide(move)
	rank := move.Start.Row
	rookFrom := chess.Square{Row: rank, Column: side.RookColumn()}
	rookTo := chess.Square{Row: rank, Column: move.End.Column - side.Direction()}

	if rook, ok := board.Remove(rookFrom); ok {
		board.Place(rookTo, rook)
	}
}

// updateCastlingRightsForRook removes the castling right tied to a rook
// that leaves, or is captured on, its corner square.
func updateCastlingRightsForRook(board *chess.Board, colour chess.Colour, sq chess.Square) {
	if sq.Row != chess.HomeRow(colour) {
		return
	}
	for _, side := range chess.Sides {
		if sq.Column == side.RookColumn() {
			board.RevokeCastling(colour, side)
		}
	}
}

// revokeAllCastling removes both castling rights of colour.
func revokeAllCastling(board *chess.Board, colour chess.Colour) {
	for _, side := range chess.Sides {
		board.RevokeCastling(colour, side)
	}
}
