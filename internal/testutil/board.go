// Package testutil provides shared test helpers: board diagrams, move
// parsing and cmp-based assertions.
package testutil

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lgbarn/chessd/internal/chess"
)

// BoardFromDiagram builds a board from eight rows of piece letters, rank 8
// first, in the same form Board.String() prints: upper case for White,
// lower case for Black, '.' for an empty square. Whitespace around rows is
// ignored. All castling rights start granted.
func BoardFromDiagram(t *testing.T, diagram string) *chess.Board {
	t.Helper()
	var rows []string
	for _, line := range strings.Split(diagram, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			rows = append(rows, line)
		}
	}
	if len(rows) != chess.BoardSize {
		t.Fatalf("diagram has %d rows, want %d", len(rows), chess.BoardSize)
	}

	b := chess.NewBoard()
	for i, line := range rows {
		if len(line) != chess.BoardSize {
			t.Fatalf("diagram row %d = %q, want %d squares", i+1, line, chess.BoardSize)
		}
		row := chess.BoardSize - i
		for j := 0; j < len(line); j++ {
			if line[j] == '.' {
				continue
			}
			kind, err := chess.ParsePieceKind(string(line[j]))
			if err != nil {
				t.Fatalf("diagram row %d: %v", i+1, err)
			}
			colour := chess.White
			if line[j] >= 'a' && line[j] <= 'z' {
				colour = chess.Black
			}
			b.Place(chess.MustSquare(row, j+1), chess.Piece{Colour: colour, Kind: kind})
		}
	}
	return b
}

// Sq parses a square such as "e4", failing the test on error.
func Sq(t *testing.T, s string) chess.Square {
	t.Helper()
	sq, err := chess.ParseSquare(s)
	if err != nil {
		t.Fatalf("ParseSquare(%q): %v", s, err)
	}
	return sq
}

// Mv builds a move from a coordinate pair such as "e2e4" or "e7e8q".
func Mv(t *testing.T, s string) chess.Move {
	t.Helper()
	if len(s) != 4 && len(s) != 5 {
		t.Fatalf("move %q: want 4 or 5 characters", s)
	}
	m := chess.NewMove(Sq(t, s[0:2]), Sq(t, s[2:4]))
	if len(s) == 5 {
		kind, err := chess.ParsePieceKind(s[4:])
		if err != nil {
			t.Fatalf("move %q: %v", s, err)
		}
		m.Promotion = kind
	}
	return m
}

// MoveStrings returns the coordinate form of each move.
func MoveStrings(moves []chess.Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	return out
}

// AssertBoardEqual fails if the boards differ in pieces, king squares,
// castling rights or en-passant targets.
func AssertBoardEqual(t *testing.T, got, want *chess.Board, msgAndArgs ...interface{}) {
	t.Helper()
	if got.Equal(want) {
		return
	}
	msg := formatMessage(msgAndArgs...)
	if msg == "" {
		msg = "board mismatch"
	}
	t.Errorf("%s (-want +got):\n%s\ncastling want %v got %v", msg,
		cmp.Diff(want.String(), got.String()), want.CastlingRights(), got.CastlingRights())
}
