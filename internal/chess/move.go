package chess

// Move is a single move from Start to End. Promotion is NoKind unless a
// pawn reaches the last rank. DoublePawnPush is bookkeeping set by the
// move generator; it is not part of a move's identity.
type Move struct {
	Start          Square
	End            Square
	Promotion      PieceKind
	DoublePawnPush bool
}

// MoveKey is the comparable identity of a move.
type MoveKey struct {
	Start     Square
	End       Square
	Promotion PieceKind
}

// NewMove creates a plain move.
func NewMove(start, end Square) Move {
	return Move{Start: start, End: end}
}

// Key returns the identity of the move, ignoring DoublePawnPush.
func (m Move) Key() MoveKey {
	return MoveKey{Start: m.Start, End: m.End, Promotion: m.Promotion}
}

// Equal reports whether two moves are the same move.
func (m Move) Equal(o Move) bool {
	return m.Key() == o.Key()
}

// IsPromotion returns true if this move is a pawn promotion.
func (m Move) IsPromotion() bool {
	return m.Promotion != NoKind
}

// ColumnDistance returns how many files the move travels.
func (m Move) ColumnDistance() int {
	d := m.End.Column - m.Start.Column
	if d < 0 {
		return -d
	}
	return d
}

// String returns a coordinate form such as "e2e4" or "e7e8q".
func (m Move) String() string {
	s := m.Start.String() + m.End.String()
	if m.IsPromotion() {
		s += string(m.Promotion.Letter() + ('a' - 'A'))
	}
	return s
}

// MoveList is an ordered set of moves.
type MoveList []Move

// Contains reports whether the list holds a move equal to m.
func (l MoveList) Contains(m Move) bool {
	_, ok := l.Find(m)
	return ok
}

// Find returns the listed move equal to m, including its bookkeeping.
func (l MoveList) Find(m Move) (Move, bool) {
	for _, lm := range l {
		if lm.Equal(m) {
			return lm, true
		}
	}
	return Move{}, false
}

// Destinations returns the end squares of the listed moves, without
// duplicates, in list order.
func (l MoveList) Destinations() []Square {
	seen := make(map[Square]bool, len(l))
	out := make([]Square, 0, len(l))
	for _, m := range l {
		if !seen[m.End] {
			seen[m.End] = true
			out = append(out, m.End)
		}
	}
	return out
}
