package engine

import "github.com/lgbarn/chessd/internal/chess"

// IsInCheck returns true if the given colour's king is attacked. A board
// without a king of that colour is never in check.
func IsInCheck(board *chess.Board, colour chess.Colour) bool {
	king, ok := board.KingSquare(colour)
	if !ok {
		return false
	}
	return straightAttack(board, king, colour) ||
		diagonalAttack(board, king, colour) ||
		knightAttack(board, king, colour)
}

// firstHit walks a ray from sq and returns the first occupied square.
func firstHit(board *chess.Board, sq chess.Square, dir [2]int) (chess.Square, chess.Piece, bool) {
	to, ok := sq.Offset(dir[0], dir[1])
	for ok {
		if p, occupied := board.Get(to); occupied {
			return to, p, true
		}
		to, ok = to.Offset(dir[0], dir[1])
	}
	return chess.Square{}, chess.Piece{}, false
}

// reaches reports whether any of moves ends on target.
func reaches(moves []chess.Move, target chess.Square) bool {
	for _, m := range moves {
		if m.End == target {
			return true
		}
	}
	return false
}

// straightAttack checks ranks and files: a rook or queen as the first
// piece hit gives check; an enemy king is asked whether its own step
// generator reaches the king square.
func straightAttack(board *chess.Board, king chess.Square, colour chess.Colour) bool {
	for _, dir := range straightDirs {
		at, p, ok := firstHit(board, king, dir)
		if !ok || p.Colour == colour {
			continue
		}
		switch p.Kind {
		case chess.Rook, chess.Queen:
			return true
		case chess.King:
			if reaches(kingSingleSteps(board, at, p.Colour), king) {
				return true
			}
		}
	}
	return false
}

// diagonalAttack checks the four diagonals: a bishop or queen as the
// first piece hit gives check; an enemy pawn or king is resolved by
// generating that piece's own moves and looking for the king square.
func diagonalAttack(board *chess.Board, king chess.Square, colour chess.Colour) bool {
	for _, dir := range diagonalDirs {
		at, p, ok := firstHit(board, king, dir)
		if !ok || p.Colour == colour {
			continue
		}
		switch p.Kind {
		case chess.Bishop, chess.Queen:
			return true
		case chess.Pawn:
			if reaches(pawnMoves(board, at, p.Colour), king) {
				return true
			}
		case chess.King:
			if reaches(kingSingleSteps(board, at, p.Colour), king) {
				return true
			}
		}
	}
	return false
}

// knightAttack checks the eight knight-relative squares.
func knightAttack(board *chess.Board, king chess.Square, colour chess.Colour) bool {
	for _, off := range knightJumps {
		sq, ok := king.Offset(off[0], off[1])
		if !ok {
			continue
		}
		if p, occupied := board.Get(sq); occupied && p.Colour != colour && p.Kind == chess.Knight {
			return true
		}
	}
	return false
}
