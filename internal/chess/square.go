package chess

import (
	"fmt"

	"github.com/lgbarn/chessd/internal/errors"
)

// Square is a board coordinate. Row is the rank (1-8) and Column the
// file (1-8, a=1).
type Square struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// NewSquare returns the square at row, column or an error wrapping
// ErrOutOfRange when either coordinate is outside 1..8.
func NewSquare(row, column int) (Square, error) {
	if !inRange(row) || !inRange(column) {
		return Square{}, errors.Wrapf(errors.ErrOutOfRange, "square (%d,%d)", row, column)
	}
	return Square{Row: row, Column: column}, nil
}

// MustSquare is like NewSquare but panics on invalid coordinates.
func MustSquare(row, column int) Square {
	sq, err := NewSquare(row, column)
	if err != nil {
		panic(err)
	}
	return sq
}

// ParseSquare parses a coordinate such as "e2".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return Square{}, errors.Wrapf(errors.ErrOutOfRange, "square %q", s)
	}
	col := int(s[0]|0x20) - ColBase + 1
	row := int(s[1]) - RankBase + 1
	sq, err := NewSquare(row, col)
	if err != nil {
		return Square{}, errors.Wrapf(errors.ErrOutOfRange, "square %q", s)
	}
	return sq, nil
}

// MustParseSquare is like ParseSquare but panics on error.
func MustParseSquare(s string) Square {
	sq, err := ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return sq
}

// Valid reports whether both coordinates are on the board.
func (s Square) Valid() bool {
	return inRange(s.Row) && inRange(s.Column)
}

// String returns the file letter and rank digit, e.g. "e2".
func (s Square) String() string {
	if !s.Valid() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Column)
	}
	return string([]byte{byte(ColBase + s.Column - 1), byte(RankBase + s.Row - 1)})
}

// Index returns the little-endian rank-file index: a1=0, h1=7, a8=56.
func (s Square) Index() int {
	return (s.Row-1)*BoardSize + (s.Column - 1)
}

// SquareFromIndex is the inverse of Index.
func SquareFromIndex(i int) Square {
	return Square{Row: i/BoardSize + 1, Column: i%BoardSize + 1}
}

// Offset returns the square dRow ranks and dCol files away, and false
// if that square is off the board.
func (s Square) Offset(dRow, dCol int) (Square, bool) {
	n := Square{Row: s.Row + dRow, Column: s.Column + dCol}
	return n, n.Valid()
}

// Less orders squares by index.
func (s Square) Less(o Square) bool {
	return s.Index() < o.Index()
}

func inRange(v int) bool {
	return v >= 1 && v <= BoardSize
}
