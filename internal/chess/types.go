// Package chess provides core chess types and operations.
package chess

import (
	"fmt"
	"strings"
)

// Colour represents the colour of a piece or player.
type Colour int

const (
	White Colour = iota
	Black
)

// Colours lists both colours in move order.
var Colours = [...]Colour{White, Black}

// String returns the wire name of a colour.
func (c Colour) String() string {
	if c == White {
		return "WHITE"
	}
	return "BLACK"
}

// Opposite returns the opposite colour.
func (c Colour) Opposite() Colour {
	if c == White {
		return Black
	}
	return White
}

// ColourOffset returns +1 for White, -1 for Black (for pawn direction).
func ColourOffset(colour Colour) int {
	if colour == White {
		return 1
	}
	return -1
}

// HomeRow returns the back rank of the given colour.
func HomeRow(colour Colour) int {
	if colour == White {
		return 1
	}
	return BoardSize
}

// PawnRow returns the row pawns of the given colour start on.
func PawnRow(colour Colour) int {
	return HomeRow(colour) + ColourOffset(colour)
}

// PromotionRow returns the row on which pawns of the given colour promote.
func PromotionRow(colour Colour) int {
	return HomeRow(colour.Opposite())
}

// ParseColour parses a colour name ("white", "WHITE", "w").
func ParseColour(s string) (Colour, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	}
	return White, fmt.Errorf("unknown colour %q", s)
}

// PieceKind is the type of a chess piece.
type PieceKind int

const (
	NoKind PieceKind = iota
	King
	Queen
	Bishop
	Knight
	Rook
	Pawn
)

var kindNames = [...]string{"", "KING", "QUEEN", "BISHOP", "KNIGHT", "ROOK", "PAWN"}

// String returns the wire name of a piece kind.
func (k PieceKind) String() string {
	if k > NoKind && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "NONE"
}

// Letter returns the single letter representation of a piece kind (uppercase).
func (k PieceKind) Letter() byte {
	letters := []byte{' ', 'K', 'Q', 'B', 'N', 'R', 'P'}
	if int(k) < len(letters) {
		return letters[k]
	}
	return '?'
}

// Valid reports whether k is one of the six piece kinds.
func (k PieceKind) Valid() bool {
	return k >= King && k <= Pawn
}

// ParsePieceKind accepts a wire name ("QUEEN"), a lower-case name or a
// single letter ("q").
func ParsePieceKind(s string) (PieceKind, error) {
	needle := strings.ToUpper(strings.TrimSpace(s))
	if len(needle) == 1 {
		for k := King; k <= Pawn; k++ {
			if k.Letter() == needle[0] {
				return k, nil
			}
		}
	}
	for k := King; k <= Pawn; k++ {
		if kindNames[k] == needle {
			return k, nil
		}
	}
	return NoKind, fmt.Errorf("unknown piece kind %q", s)
}

// PromotionKinds lists the kinds a pawn may promote to, in generation order.
var PromotionKinds = [...]PieceKind{Queen, Rook, Bishop, Knight}

// Piece is a coloured piece. Pieces are values; promotion replaces the
// board entry with a piece of the new kind.
type Piece struct {
	Colour Colour
	Kind   PieceKind
}

// W creates a white piece.
func W(kind PieceKind) Piece {
	return Piece{Colour: White, Kind: kind}
}

// B creates a black piece.
func B(kind PieceKind) Piece {
	return Piece{Colour: Black, Kind: kind}
}

// Letter returns the FEN letter of the piece: upper case for White.
func (p Piece) Letter() byte {
	l := p.Kind.Letter()
	if p.Colour == Black {
		l += 'a' - 'A'
	}
	return l
}

// String returns e.g. "WHITE KING".
func (p Piece) String() string {
	return p.Colour.String() + " " + p.Kind.String()
}

// Side identifies a castling wing.
type Side int

const (
	Kingside Side = iota
	Queenside
)

// Sides lists both castling wings.
var Sides = [...]Side{Kingside, Queenside}

// String returns the wire name of the side.
func (s Side) String() string {
	if s == Kingside {
		return "KINGSIDE"
	}
	return "QUEENSIDE"
}

// RookColumn returns the column the castling rook starts on.
func (s Side) RookColumn() int {
	if s == Kingside {
		return BoardSize
	}
	return 1
}

// Direction returns the column step from the king toward the rook.
func (s Side) Direction() int {
	if s == Kingside {
		return 1
	}
	return -1
}

// Constants for board dimensions and coordinates.
const (
	BoardSize = 8

	// KingColumn is the column both kings start on.
	KingColumn = 5

	ColBase  = 'a'
	RankBase = '1'
)
