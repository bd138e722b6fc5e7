package codec

import (
	"github.com/lgbarn/chessd/internal/chess"
	"github.com/lgbarn/chessd/internal/errors"
)

// MoveJSON is the transport form of a move.
type MoveJSON struct {
	Start          chess.Square `json:"start"`
	End            chess.Square `json:"end"`
	Promotion      string       `json:"promotion,omitempty"`
	DoublePawnPush bool         `json:"doublePawnPush"`
}

// EncodeMove converts a move to its transport form.
func EncodeMove(m chess.Move) MoveJSON {
	mj := MoveJSON{Start: m.Start, End: m.End, DoublePawnPush: m.DoublePawnPush}
	if m.IsPromotion() {
		mj.Promotion = m.Promotion.String()
	}
	return mj
}

// EncodeMoves converts a move list, never returning nil so it encodes as [].
func EncodeMoves(moves []chess.Move) []MoveJSON {
	out := make([]MoveJSON, len(moves))
	for i, m := range moves {
		out[i] = EncodeMove(m)
	}
	return out
}

// DecodeMove converts a transported move back, validating squares and the
// promotion kind.
func DecodeMove(mj MoveJSON) (chess.Move, error) {
	if !mj.Start.Valid() || !mj.End.Valid() {
		return chess.Move{}, errors.Wrapf(errors.ErrOutOfRange, "move %s-%s", mj.Start, mj.End)
	}
	m := chess.Move{Start: mj.Start, End: mj.End, DoublePawnPush: mj.DoublePawnPush}
	if mj.Promotion != "" {
		kind, err := ParsePromotion(mj.Promotion)
		if err != nil {
			return chess.Move{}, err
		}
		m.Promotion = kind
	}
	return m, nil
}

// ParsePromotion accepts a promotion kind by name or letter. Only queen,
// rook, bishop and knight are valid.
func ParsePromotion(s string) (chess.PieceKind, error) {
	kind, err := chess.ParsePieceKind(s)
	if err != nil {
		return chess.NoKind, errors.Wrapf(errors.ErrInvalidState, "promotion %q", s)
	}
	for _, k := range chess.PromotionKinds {
		if k == kind {
			return kind, nil
		}
	}
	return chess.NoKind, errors.Wrapf(errors.ErrInvalidState, "cannot promote to %s", kind)
}

// ParseCoordinate parses a move in coordinate form, e.g. "e2e4" or
// "e7e8q", the form stored in a game's move history.
func ParseCoordinate(s string) (chess.Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return chess.Move{}, errors.Wrapf(errors.ErrInvalidState, "move %q", s)
	}
	from, err := chess.ParseSquare(s[0:2])
	if err != nil {
		return chess.Move{}, err
	}
	to, err := chess.ParseSquare(s[2:4])
	if err != nil {
		return chess.Move{}, err
	}
	m := chess.NewMove(from, to)
	if len(s) == 5 {
		if m.Promotion, err = ParsePromotion(s[4:]); err != nil {
			return chess.Move{}, err
		}
	}
	return m, nil
}
