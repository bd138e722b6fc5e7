package engine

import "github.com/lgbarn/chessd/internal/chess"

// Game owns one board and the side to move. It is the entry point for
// legal-move queries and move application.
//
// Game is not safe for concurrent use; callers serialize access per game.
type Game struct {
	board *chess.Board
	turn  chess.Colour
}

// NewGame creates a game in the standard opening position with White to move.
func NewGame() *Game {
	return &Game{board: chess.NewStandardBoard(), turn: chess.White}
}

// NewGameFromBoard creates a game around an existing board, e.g. one
// rebuilt from persisted state.
func NewGameFromBoard(board *chess.Board, turn chess.Colour) *Game {
	return &Game{board: board, turn: turn}
}

// Board returns the game's board. Mutating it bypasses move validation.
func (g *Game) Board() *chess.Board {
	return g.board
}

// SetBoard replaces the board.
func (g *Game) SetBoard(board *chess.Board) {
	g.board = board
}

// Turn returns the side to move.
func (g *Game) Turn() chess.Colour {
	return g.turn
}

// SetTurn sets the side to move when reconstructing a game.
func (g *Game) SetTurn(colour chess.Colour) {
	g.turn = colour
}

// Clone returns an independent copy of the game.
func (g *Game) Clone() *Game {
	return &Game{board: g.board.Clone(), turn: g.turn}
}

// ValidMoves returns the legal moves of the piece on sq. The second
// result is false if the square is empty.
func (g *Game) ValidMoves(sq chess.Square) (chess.MoveList, bool) {
	return legalMoves(g.board, sq)
}

// LegalMoves returns every legal move of colour, ordered by start square.
func (g *Game) LegalMoves(colour chess.Colour) chess.MoveList {
	var all chess.MoveList
	for _, sq := range g.board.PiecesOf(colour) {
		moves, _ := legalMoves(g.board, sq)
		all = append(all, moves...)
	}
	return all
}
