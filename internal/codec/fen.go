package codec

import (
	"strings"

	"github.com/lgbarn/chessd/internal/chess"
	"github.com/lgbarn/chessd/internal/engine"
)

// FEN returns the Forsyth-Edwards Notation of the game. Move clocks are
// not tracked, so the last two fields are always "0 1". A castling letter
// is written only when the right is held and the king and rook still
// stand on their home squares.
func FEN(g *engine.Game) string {
	var sb strings.Builder
	b := g.Board()

	writePiecePositions(&sb, b)
	sb.WriteByte(' ')
	if g.Turn() == chess.White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')
	writeCastlingRights(&sb, b)
	sb.WriteByte(' ')
	if ep, ok := b.EnPassant(g.Turn()); ok {
		sb.WriteString(ep.String())
	} else {
		sb.WriteByte('-')
	}
	sb.WriteString(" 0 1")
	return sb.String()
}

func writePiecePositions(sb *strings.Builder, b *chess.Board) {
	for row := chess.BoardSize; row >= 1; row-- {
		empty := 0
		for col := 1; col <= chess.BoardSize; col++ {
			p, ok := b.Get(chess.Square{Row: row, Column: col})
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(p.Letter())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if row > 1 {
			sb.WriteByte('/')
		}
	}
}

var castlingLetters = [2][2]byte{
	chess.White: {chess.Kingside: 'K', chess.Queenside: 'Q'},
	chess.Black: {chess.Kingside: 'k', chess.Queenside: 'q'},
}

func writeCastlingRights(sb *strings.Builder, b *chess.Board) {
	hasRight := false
	for _, c := range chess.Colours {
		for _, side := range chess.Sides {
			if effectiveRight(b, c, side) {
				sb.WriteByte(castlingLetters[c][side])
				hasRight = true
			}
		}
	}
	if !hasRight {
		sb.WriteByte('-')
	}
}

// effectiveRight reports whether a castling right can still be used at
// some point: the flag is set and neither king nor rook has left home.
func effectiveRight(b *chess.Board, c chess.Colour, side chess.Side) bool {
	if !b.CanCastle(c, side) {
		return false
	}
	home := chess.HomeRow(c)
	king, ok := b.Get(chess.Square{Row: home, Column: chess.KingColumn})
	if !ok || king != (chess.Piece{Colour: c, Kind: chess.King}) {
		return false
	}
	rook, ok := b.Get(chess.Square{Row: home, Column: side.RookColumn()})
	return ok && rook == chess.Piece{Colour: c, Kind: chess.Rook}
}
