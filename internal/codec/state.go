// Package codec converts games to and from the JSON wire format shared by
// the HTTP API, the WebSocket channel and the SQL store.
package codec

import (
	"encoding/json"
	"fmt"

	"github.com/lgbarn/chessd/internal/chess"
	"github.com/lgbarn/chessd/internal/engine"
	"github.com/lgbarn/chessd/internal/errors"
)

// GameState is the persisted and transported form of a game.
type GameState struct {
	Pieces         []PieceEntry               `json:"pieces"`
	CastlingRights map[string]map[string]bool `json:"castlingRights"`
	WhiteKing      *chess.Square              `json:"whiteKing"`
	BlackKing      *chess.Square              `json:"blackKing"`
	WhiteEnPassant *chess.Square              `json:"whiteEnPassant"`
	BlackEnPassant *chess.Square              `json:"blackEnPassant"`
	Turn           string                     `json:"turn"`
}

// PieceEntry places one piece on one square.
type PieceEntry struct {
	Square chess.Square `json:"square"`
	Piece  PieceJSON    `json:"piece"`
}

// PieceJSON is a piece by wire name, e.g. {"color":"WHITE","kind":"KING"}.
type PieceJSON struct {
	Color string `json:"color"`
	Kind  string `json:"kind"`
}

// Encode captures the game's board and side to move. Pieces are listed in
// ascending square order so equal games encode to identical bytes.
func Encode(g *engine.Game) GameState {
	b := g.Board()
	st := GameState{
		Pieces:         make([]PieceEntry, 0, b.Len()),
		CastlingRights: make(map[string]map[string]bool, len(chess.Colours)),
		Turn:           g.Turn().String(),
	}
	for _, sq := range b.Occupied() {
		p, _ := b.Get(sq)
		st.Pieces = append(st.Pieces, PieceEntry{
			Square: sq,
			Piece:  PieceJSON{Color: p.Colour.String(), Kind: p.Kind.String()},
		})
	}
	for _, c := range chess.Colours {
		rights := make(map[string]bool, len(chess.Sides))
		for _, side := range chess.Sides {
			rights[side.String()] = b.CanCastle(c, side)
		}
		st.CastlingRights[c.String()] = rights
	}
	st.WhiteKing = optionalSquare(b.KingSquare(chess.White))
	st.BlackKing = optionalSquare(b.KingSquare(chess.Black))
	st.WhiteEnPassant = optionalSquare(b.EnPassant(chess.White))
	st.BlackEnPassant = optionalSquare(b.EnPassant(chess.Black))
	return st
}

func optionalSquare(sq chess.Square, ok bool) *chess.Square {
	if !ok {
		return nil
	}
	return &sq
}

// Decode rebuilds a game from its wire form. Malformed input yields an
// error matching errors.ErrInvalidState, or errors.ErrOutOfRange for bad
// coordinates.
func Decode(st GameState) (*engine.Game, error) {
	turn, err := chess.ParseColour(st.Turn)
	if err != nil || st.Turn == "" {
		return nil, errors.Wrapf(errors.ErrInvalidState, "turn %q", st.Turn)
	}

	b := chess.NewBoard()
	for i, e := range st.Pieces {
		if !e.Square.Valid() {
			return nil, errors.Wrapf(errors.ErrOutOfRange, "piece %d at %s", i, e.Square)
		}
		p, err := decodePiece(e.Piece)
		if err != nil {
			return nil, fmt.Errorf("piece %d at %s: %w", i, e.Square, err)
		}
		if !b.IsEmpty(e.Square) {
			return nil, errors.Wrapf(errors.ErrInvalidState, "duplicate square %s", e.Square)
		}
		b.Place(e.Square, p)
	}

	if err := checkKing(b, chess.White, st.WhiteKing); err != nil {
		return nil, err
	}
	if err := checkKing(b, chess.Black, st.BlackKing); err != nil {
		return nil, err
	}
	if err := decodeCastling(b, st.CastlingRights); err != nil {
		return nil, err
	}
	if err := decodeEnPassant(b, chess.White, st.WhiteEnPassant); err != nil {
		return nil, err
	}
	if err := decodeEnPassant(b, chess.Black, st.BlackEnPassant); err != nil {
		return nil, err
	}
	return engine.NewGameFromBoard(b, turn), nil
}

func decodePiece(pj PieceJSON) (chess.Piece, error) {
	colour, err := chess.ParseColour(pj.Color)
	if err != nil {
		return chess.Piece{}, errors.Wrapf(errors.ErrInvalidState, "color %q", pj.Color)
	}
	kind, err := chess.ParsePieceKind(pj.Kind)
	if err != nil || len(pj.Kind) == 1 {
		return chess.Piece{}, errors.Wrapf(errors.ErrInvalidState, "kind %q", pj.Kind)
	}
	return chess.Piece{Colour: colour, Kind: kind}, nil
}

// checkKing requires a recorded king square to hold that colour's king.
// A null entry is accepted; the board locates the king itself.
func checkKing(b *chess.Board, colour chess.Colour, sq *chess.Square) error {
	if sq == nil {
		return nil
	}
	if !sq.Valid() {
		return errors.Wrapf(errors.ErrOutOfRange, "%s king at %s", colour, *sq)
	}
	if p, ok := b.Get(*sq); !ok || p != (chess.Piece{Colour: colour, Kind: chess.King}) {
		return errors.Wrapf(errors.ErrInvalidState, "%s king entry %s holds no %s king", colour, *sq, colour)
	}
	return nil
}

// decodeCastling revokes every right the state does not grant. Missing
// colours or sides count as revoked.
func decodeCastling(b *chess.Board, rights map[string]map[string]bool) error {
	for name, sides := range rights {
		if _, err := chess.ParseColour(name); err != nil {
			return errors.Wrapf(errors.ErrInvalidState, "castling colour %q", name)
		}
		for side := range sides {
			if side != chess.Kingside.String() && side != chess.Queenside.String() {
				return errors.Wrapf(errors.ErrInvalidState, "castling side %q", side)
			}
		}
	}
	for _, c := range chess.Colours {
		for _, side := range chess.Sides {
			if !rights[c.String()][side.String()] {
				b.RevokeCastling(c, side)
			}
		}
	}
	return nil
}

func decodeEnPassant(b *chess.Board, colour chess.Colour, sq *chess.Square) error {
	if sq == nil {
		return nil
	}
	if !sq.Valid() {
		return errors.Wrapf(errors.ErrOutOfRange, "%s en-passant target %s", colour, *sq)
	}
	b.SetEnPassant(colour, *sq)
	return nil
}

// Marshal encodes the game as JSON.
func Marshal(g *engine.Game) ([]byte, error) {
	return json.Marshal(Encode(g))
}

// Unmarshal decodes JSON produced by Marshal.
func Unmarshal(data []byte) (*engine.Game, error) {
	var st GameState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidState, "decode json: %v", err)
	}
	return Decode(st)
}

// Clone returns a deep copy of the state.
func (st GameState) Clone() GameState {
	out := st
	out.Pieces = append([]PieceEntry(nil), st.Pieces...)
	if st.CastlingRights != nil {
		out.CastlingRights = make(map[string]map[string]bool, len(st.CastlingRights))
		for colour, sides := range st.CastlingRights {
			cp := make(map[string]bool, len(sides))
			for side, ok := range sides {
				cp[side] = ok
			}
			out.CastlingRights[colour] = cp
		}
	}
	out.WhiteKing = cloneSquare(st.WhiteKing)
	out.BlackKing = cloneSquare(st.BlackKing)
	out.WhiteEnPassant = cloneSquare(st.WhiteEnPassant)
	out.BlackEnPassant = cloneSquare(st.BlackEnPassant)
	return out
}

func cloneSquare(sq *chess.Square) *chess.Square {
	if sq == nil {
		return nil
	}
	c := *sq
	return &c
}
