package perft

import (
	"testing"

	"github.com/dylhunn/dragontoothmg"
	"github.com/google/go-cmp/cmp"

	"github.com/lgbarn/chessd/internal/chess"
	"github.com/lgbarn/chessd/internal/engine"
	"github.com/lgbarn/chessd/internal/testutil"
)

const (
	kiwipete = `
		r...k..r
		p.ppqpb.
		bn..pnp.
		...PN...
		.p..P...
		..N..Q.p
		PPPBBPPP
		R...K..R`

	// Rook and pawn endgame with horizontal en-passant pins.
	endgame = `
		........
		..p.....
		...p....
		KP.....r
		.R...p.k
		........
		....P.P.
		........`
)

func fromDiagram(t *testing.T, diagram string) *engine.Game {
	t.Helper()
	return engine.NewGameFromBoard(testutil.BoardFromDiagram(t, diagram), chess.White)
}

func TestCount(t *testing.T) {
	tests := []struct {
		name  string
		game  func(t *testing.T) *engine.Game
		depth int
		want  uint64
	}{
		{"start depth 0", func(*testing.T) *engine.Game { return engine.NewGame() }, 0, 1},
		{"start depth 1", func(*testing.T) *engine.Game { return engine.NewGame() }, 1, 20},
		{"start depth 2", func(*testing.T) *engine.Game { return engine.NewGame() }, 2, 400},
		{"start depth 3", func(*testing.T) *engine.Game { return engine.NewGame() }, 3, 8902},
		{"kiwipete depth 1", func(t *testing.T) *engine.Game { return fromDiagram(t, kiwipete) }, 1, 48},
		{"kiwipete depth 2", func(t *testing.T) *engine.Game { return fromDiagram(t, kiwipete) }, 2, 2039},
		{"endgame depth 1", func(t *testing.T) *engine.Game { return fromDiagram(t, endgame) }, 1, 14},
		{"endgame depth 2", func(t *testing.T) *engine.Game { return fromDiagram(t, endgame) }, 2, 191},
		{"endgame depth 3", func(t *testing.T) *engine.Game { return fromDiagram(t, endgame) }, 3, 2812},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Count(tt.game(t), tt.depth); got != tt.want {
				t.Errorf("Count(%d) = %d; want %d", tt.depth, got, tt.want)
			}
		})
	}
}

func TestCount_LeavesGameUntouched(t *testing.T) {
	g := engine.NewGame()
	before := g.Clone()
	Count(g, 2)
	testutil.AssertBoardEqual(t, g.Board(), before.Board())
	if g.Turn() != chess.White {
		t.Errorf("turn = %v; want WHITE", g.Turn())
	}
}

func TestDivide(t *testing.T) {
	for _, workers := range []int{1, 4} {
		splits, total := Divide(engine.NewGame(), 3, workers)
		if total != 8902 {
			t.Errorf("workers=%d: total = %d; want 8902", workers, total)
		}
		if len(splits) != 20 {
			t.Fatalf("workers=%d: %d splits; want 20", workers, len(splits))
		}

		var sum uint64
		byMove := make(map[string]uint64)
		for _, s := range splits {
			sum += s.Nodes
			byMove[s.Move.String()] = s.Nodes
		}
		if sum != total {
			t.Errorf("workers=%d: sum of splits = %d; want %d", workers, sum, total)
		}
		// Well-known divide values from the opening position.
		if byMove["e2e4"] != 600 || byMove["g1f3"] != 440 || byMove["a2a3"] != 380 {
			t.Errorf("workers=%d: e2e4=%d g1f3=%d a2a3=%d; want 600 440 380",
				workers, byMove["e2e4"], byMove["g1f3"], byMove["a2a3"])
		}
	}
}

func TestDivide_DepthZero(t *testing.T) {
	splits, total := Divide(engine.NewGame(), 0, 2)
	if splits != nil || total != 1 {
		t.Errorf("Divide(0) = %v, %d; want nil, 1", splits, total)
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name  string
		game  func(t *testing.T) *engine.Game
		depth int
	}{
		{"start", func(*testing.T) *engine.Game { return engine.NewGame() }, 3},
		{"kiwipete", func(t *testing.T) *engine.Game { return fromDiagram(t, kiwipete) }, 2},
		{"endgame", func(t *testing.T) *engine.Game { return fromDiagram(t, endgame) }, 3},
		{"after opening", func(t *testing.T) *engine.Game {
			g := engine.NewGame()
			for _, m := range []string{"e2e4", "d7d5", "e4e5", "f7f5"} {
				if err := g.MakeMove(testutil.Mv(t, m)); err != nil {
					t.Fatalf("MakeMove(%s): %v", m, err)
				}
			}
			return g
		}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if d := Verify(tt.game(t), tt.depth); d != nil {
				t.Errorf("divergence at %s after %v: only ours %v, only reference %v",
					d.FEN, d.Path, d.OnlyOurs, d.OnlyReference)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	var a, b dragontoothmg.Move
	a.Setfrom(12).Setto(28) // e2e4
	b.Setfrom(6).Setto(21)  // g1f3

	ours := map[string]chess.Move{
		"e2e4": testutil.Mv(t, "e2e4"),
		"d2d4": testutil.Mv(t, "d2d4"),
	}
	theirs := map[string]dragontoothmg.Move{
		"e2e4": a,
		"g1f3": b,
	}

	d := compare(ours, theirs)
	if d == nil {
		t.Fatal("compare() = nil; want divergence")
	}
	if diff := cmp.Diff([]string{"d2d4"}, d.OnlyOurs); diff != "" {
		t.Errorf("OnlyOurs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"g1f3"}, d.OnlyReference); diff != "" {
		t.Errorf("OnlyReference mismatch (-want +got):\n%s", diff)
	}

	delete(ours, "d2d4")
	ours["g1f3"] = testutil.Mv(t, "g1f3")
	if d := compare(ours, theirs); d != nil {
		t.Errorf("compare() on equal sets = %+v; want nil", d)
	}
}
