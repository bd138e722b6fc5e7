package engine

import (
	"testing"

	"github.com/lgbarn/chessd/internal/chess"
)

var benchLines = map[string][]string{
	"Initial":   nil,
	"Italian":   {"e2e4", "e7e5", "g1f3", "b8c6", "f1c4", "f8c5"},
	"Castled":   {"e2e4", "e7e5", "g1f3", "b8c6", "f1c4", "g8f6", "e1g1", "f8e7"},
	"EnPassant": {"e2e4", "a7a6", "e4e5", "d7d5"},
}

func benchGame(b *testing.B, line []string) *Game {
	b.Helper()
	g := NewGame()
	for _, s := range line {
		from, _ := chess.ParseSquare(s[0:2])
		to, _ := chess.ParseSquare(s[2:4])
		if err := g.MakeMove(chess.NewMove(from, to)); err != nil {
			b.Fatalf("MakeMove(%s): %v", s, err)
		}
	}
	return g
}

func BenchmarkLegalMoves(b *testing.B) {
	for name, line := range benchLines {
		b.Run(name, func(b *testing.B) {
			g := benchGame(b, line)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				g.LegalMoves(g.Turn())
			}
		})
	}
}

func BenchmarkIsInCheck(b *testing.B) {
	for name, line := range benchLines {
		b.Run(name, func(b *testing.B) {
			g := benchGame(b, line)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				IsInCheck(g.Board(), g.Turn())
			}
		})
	}
}

func BenchmarkStatus(b *testing.B) {
	for name, line := range benchLines {
		b.Run(name, func(b *testing.B) {
			g := benchGame(b, line)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				g.Status()
			}
		})
	}
}

func BenchmarkMakeMove(b *testing.B) {
	g := NewGame()
	move := chess.NewMove(chess.MustSquare(2, 5), chess.MustSquare(4, 5))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c := g.Clone()
		if err := c.MakeMove(move); err != nil {
			b.Fatal(err)
		}
	}
}
