package engine

import (
	"sort"
	"testing"

	"github.com/lgbarn/chessd/internal/chess"
	"github.com/lgbarn/chessd/internal/testutil"
)

// lone places a single white piece on an otherwise empty board.
func lone(t *testing.T, kind chess.PieceKind, at string) *chess.Board {
	t.Helper()
	b := chess.NewBoard()
	b.Place(testutil.Sq(t, at), chess.W(kind))
	return b
}

func sortedMoveStrings(moves []chess.Move) []string {
	out := testutil.MoveStrings(moves)
	sort.Strings(out)
	return out
}

func TestPseudoLegalMoves_Counts(t *testing.T) {
	tests := []struct {
		name string
		kind chess.PieceKind
		at   string
		want int
	}{
		{"rook centre", chess.Rook, "d4", 14},
		{"rook corner", chess.Rook, "a1", 14},
		{"bishop centre", chess.Bishop, "d4", 13},
		{"bishop corner", chess.Bishop, "h8", 7},
		{"queen centre", chess.Queen, "d4", 27},
		{"knight centre", chess.Knight, "d4", 8},
		{"knight corner", chess.Knight, "a1", 2},
		{"knight edge", chess.Knight, "a4", 4},
		{"king centre", chess.King, "d4", 8},
		{"king edge off home", chess.King, "a4", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := lone(t, tt.kind, tt.at)
			got := PseudoLegalMoves(board, testutil.Sq(t, tt.at))
			if len(got) != tt.want {
				t.Errorf("PseudoLegalMoves(%s on %s) = %d moves %v, want %d",
					tt.kind, tt.at, len(got), testutil.MoveStrings(got), tt.want)
			}
		})
	}
}

func TestPseudoLegalMoves_EmptySquare(t *testing.T) {
	board := chess.NewStandardBoard()
	if got := PseudoLegalMoves(board, testutil.Sq(t, "e4")); got != nil {
		t.Errorf("PseudoLegalMoves(e4) = %v, want nil", got)
	}
}

func TestSlidingMoves_StopAtFirstOccupied(t *testing.T) {
	board := testutil.BoardFromDiagram(t, `
		........
		........
		........
		........
		........
		P.......
		........
		R.p.....`)

	testutil.AssertMoves(t, PseudoLegalMoves(board, testutil.Sq(t, "a1")), []string{"a1a2", "a1b1", "a1c1"}, "rook a1 moves")
}

func TestKnightMoves_JumpOverPieces(t *testing.T) {
	board := chess.NewStandardBoard()
	testutil.AssertMoves(t, PseudoLegalMoves(board, testutil.Sq(t, "b1")), []string{"b1a3", "b1c3"}, "knight b1 moves")
}

func TestPawnMoves(t *testing.T) {
	tests := []struct {
		name    string
		diagram string
		from    string
		want    []string
	}{
		{
			name: "single and double push from start",
			diagram: `
				........
				........
				........
				........
				........
				........
				....P...
				........`,
			from: "e2",
			want: []string{"e2e3", "e2e4"},
		},
		{
			name: "blocked directly ahead",
			diagram: `
				........
				........
				........
				........
				........
				....n...
				....P...
				........`,
			from: "e2",
			want: []string{},
		},
		{
			name: "double push blocked on landing square",
			diagram: `
				........
				........
				........
				........
				....n...
				........
				....P...
				........`,
			from: "e2",
			want: []string{"e2e3"},
		},
		{
			name: "no double push off the start rank",
			diagram: `
				........
				........
				........
				........
				........
				....P...
				........
				........`,
			from: "e3",
			want: []string{"e3e4"},
		},
		{
			name: "diagonal captures of opponents only",
			diagram: `
				........
				........
				........
				........
				...p.N..
				....P...
				........
				........`,
			from: "e3",
			want: []string{"e3d4", "e3e4"},
		},
		{
			name: "black pawn moves down the board",
			diagram: `
				........
				...p....
				..P.....
				........
				........
				........
				........
				........`,
			from: "d7",
			want: []string{"d7c6", "d7d5", "d7d6"},
		},
		{
			name: "promotion expands into four kinds",
			diagram: `
				.r......
				P.......
				........
				........
				........
				........
				........
				........`,
			from: "a7",
			want: []string{"a7a8b", "a7a8n", "a7a8q", "a7a8r", "a7b8b", "a7b8n", "a7b8q", "a7b8r"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := testutil.BoardFromDiagram(t, tt.diagram)
			testutil.AssertMoves(t, PseudoLegalMoves(board, testutil.Sq(t, tt.from)), tt.want, "pawn moves")
		})
	}
}

func TestPawnMoves_DoublePushFlagged(t *testing.T) {
	board := chess.NewStandardBoard()
	for _, m := range PseudoLegalMoves(board, testutil.Sq(t, "e2")) {
		want := m.End.Row == 4
		if m.DoublePawnPush != want {
			t.Errorf("%s DoublePawnPush = %v, want %v", m, m.DoublePawnPush, want)
		}
	}
}

func TestCastlingCandidates(t *testing.T) {
	tests := []struct {
		name    string
		diagram string
		revoke  []chess.Side
		want    []string
	}{
		{
			name: "both wings open",
			diagram: `
				....k...
				........
				........
				........
				........
				........
				........
				R...K..R`,
			want: []string{"e1c1", "e1g1"},
		},
		{
			name: "queenside path blocked next to rook",
			diagram: `
				....k...
				........
				........
				........
				........
				........
				........
				RN..K..R`,
			want: []string{"e1g1"},
		},
		{
			name: "rook missing from corner",
			diagram: `
				....k...
				........
				........
				........
				........
				........
				........
				R...K...`,
			want: []string{"e1c1"},
		},
		{
			name: "opponent rook on the corner",
			diagram: `
				....k...
				........
				........
				........
				........
				........
				........
				R...K..r`,
			want: []string{"e1c1"},
		},
		{
			name: "right revoked",
			diagram: `
				....k...
				........
				........
				........
				........
				........
				........
				R...K..R`,
			revoke: []chess.Side{chess.Queenside},
			want:   []string{"e1g1"},
		},
		{
			name: "king off its home square",
			diagram: `
				....k...
				........
				........
				........
				........
				........
				........
				R..K...R`,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := testutil.BoardFromDiagram(t, tt.diagram)
			for _, side := range tt.revoke {
				board.RevokeCastling(chess.White, side)
			}
			king, _ := board.KingSquare(chess.White)
			testutil.AssertMoves(t, castlingCandidates(board, king, chess.White), tt.want, "castling candidates")
		})
	}
}
