// Package engine provides chess move generation, validation and application.
package engine

import "github.com/lgbarn/chessd/internal/chess"

// generatorFunc produces the pseudo-legal moves of one piece kind: moves
// that follow the piece's movement pattern and board occupancy without
// regard to whether they leave the mover's king in check.
type generatorFunc func(board *chess.Board, from chess.Square, colour chess.Colour) []chess.Move

// generators dispatches move generation on the closed set of piece kinds.
var generators = map[chess.PieceKind]generatorFunc{
	chess.King:   kingMoves,
	chess.Queen:  queenMoves,
	chess.Bishop: bishopMoves,
	chess.Knight: knightMoves,
	chess.Rook:   rookMoves,
	chess.Pawn:   pawnMoves,
}

var (
	straightDirs = [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	diagonalDirs = [][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	kingSteps    = [][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
	knightJumps  = [][2]int{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
)

// PseudoLegalMoves returns the pseudo-legal moves of the piece on from,
// or nil if the square is empty.
func PseudoLegalMoves(board *chess.Board, from chess.Square) []chess.Move {
	piece, ok := board.Get(from)
	if !ok {
		return nil
	}
	gen, ok := generators[piece.Kind]
	if !ok {
		return nil
	}
	return gen(board, from, piece.Colour)
}

// canLand reports whether a piece of colour may finish on sq: the square
// is empty or holds an opponent piece.
func canLand(board *chess.Board, sq chess.Square, colour chess.Colour) bool {
	target, ok := board.Get(sq)
	return !ok || target.Colour != colour
}

// slidingMoves walks each ray one square at a time. Empty squares are
// destinations and the scan continues; the first occupied square is a
// destination only if it holds an opponent piece, and ends the ray.
func slidingMoves(board *chess.Board, from chess.Square, colour chess.Colour, dirs [][2]int) []chess.Move {
	var moves []chess.Move
	for _, dir := range dirs {
		to, ok := from.Offset(dir[0], dir[1])
		for ok {
			target, occupied := board.Get(to)
			if occupied {
				if target.Colour != colour {
					moves = append(moves, chess.NewMove(from, to))
				}
				break // Blocked
			}
			moves = append(moves, chess.NewMove(from, to))
			to, ok = to.Offset(dir[0], dir[1])
		}
	}
	return moves
}

// stepMoves checks each offset independently against bounds and occupancy.
func stepMoves(board *chess.Board, from chess.Square, colour chess.Colour, offsets [][2]int) []chess.Move {
	var moves []chess.Move
	for _, off := range offsets {
		to, ok := from.Offset(off[0], off[1])
		if ok && canLand(board, to, colour) {
			moves = append(moves, chess.NewMove(from, to))
		}
	}
	return moves
}

func rookMoves(board *chess.Board, from chess.Square, colour chess.Colour) []chess.Move {
	return slidingMoves(board, from, colour, straightDirs)
}

func bishopMoves(board *chess.Board, from chess.Square, colour chess.Colour) []chess.Move {
	return slidingMoves(board, from, colour, diagonalDirs)
}

func queenMoves(board *chess.Board, from chess.Square, colour chess.Colour) []chess.Move {
	moves := slidingMoves(board, from, colour, straightDirs)
	return append(moves, slidingMoves(board, from, colour, diagonalDirs)...)
}

func knightMoves(board *chess.Board, from chess.Square, colour chess.Colour) []chess.Move {
	return stepMoves(board, from, colour, knightJumps)
}

// kingSingleSteps is the king's adjacent-square generator without castling.
// Check detection reuses it to decide whether an enemy king touches a square.
func kingSingleSteps(board *chess.Board, from chess.Square, colour chess.Colour) []chess.Move {
	return stepMoves(board, from, colour, kingSteps)
}

func kingMoves(board *chess.Board, from chess.Square, colour chess.Colour) []chess.Move {
	moves := kingSingleSteps(board, from, colour)
	return append(moves, castlingCandidates(board, from, colour)...)
}

// pawnMoves generates pushes, the double push from the starting rank,
// diagonal captures (including onto the en-passant target) and expands
// moves onto the last rank into the four promotions.
func pawnMoves(board *chess.Board, from chess.Square, colour chess.Colour) []chess.Move {
	var moves []chess.Move
	dir := chess.ColourOffset(colour)

	if one, ok := from.Offset(dir, 0); ok && board.IsEmpty(one) {
		moves = appendPawnMove(moves, chess.NewMove(from, one), colour)
		if from.Row == chess.PawnRow(colour) {
			if two, ok := from.Offset(2*dir, 0); ok && board.IsEmpty(two) {
				moves = append(moves, chess.Move{Start: from, End: two, DoublePawnPush: true})
			}
		}
	}

	ep, hasEP := board.EnPassant(colour)
	for _, dc := range [...]int{-1, 1} {
		to, ok := from.Offset(dir, dc)
		if !ok {
			continue
		}
		target, occupied := board.Get(to)
		if (occupied && target.Colour != colour) || (hasEP && to == ep && !occupied) {
			moves = appendPawnMove(moves, chess.NewMove(from, to), colour)
		}
	}
	return moves
}

func appendPawnMove(moves []chess.Move, m chess.Move, colour chess.Colour) []chess.Move {
	if m.End.Row != chess.PromotionRow(colour) {
		return append(moves, m)
	}
	for _, kind := range chess.PromotionKinds {
		m.Promotion = kind
		moves = append(moves, m)
	}
	return moves
}
