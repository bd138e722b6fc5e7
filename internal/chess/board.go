package chess

import (
	"sort"

	"golang.org/x/exp/maps"
)

// CastlingRights holds one flag per colour and side.
type CastlingRights [2][2]bool

// Board represents a chess board with all state needed for move validation.
//
// Pieces are kept in a sparse map; an empty square has no entry. All
// placement changes go through Place and Remove so the king cache cannot
// go stale.
type Board struct {
	pieces map[Square]Piece

	// Keep track of where the two kings are for check detection.
	kings     [2]Square
	kingKnown [2]bool

	// Castling rights only ever go from true to false.
	castling CastlingRights

	// Square a pawn of each colour may capture onto en passant this turn.
	enPassant    [2]Square
	hasEnPassant [2]bool
}

// NewBoard creates a new empty board. All castling rights are granted;
// they only take effect once a king and rook stand on their home squares.
func NewBoard() *Board {
	return &Board{
		pieces:   make(map[Square]Piece, 32),
		castling: CastlingRights{{true, true}, {true, true}},
	}
}

// NewStandardBoard creates a board in the standard opening arrangement.
func NewStandardBoard() *Board {
	b := NewBoard()
	b.SetupInitialPosition()
	return b
}

// SetupInitialPosition sets up the standard chess starting position.
func (b *Board) SetupInitialPosition() {
	b.pieces = make(map[Square]Piece, 32)
	b.kingKnown = [2]bool{}
	b.castling = CastlingRights{{true, true}, {true, true}}
	b.hasEnPassant = [2]bool{}

	backRank := []PieceKind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for col := 1; col <= BoardSize; col++ {
		b.Place(Square{Row: 1, Column: col}, W(backRank[col-1]))
		b.Place(Square{Row: 2, Column: col}, W(Pawn))
		b.Place(Square{Row: 7, Column: col}, B(Pawn))
		b.Place(Square{Row: 8, Column: col}, B(backRank[col-1]))
	}
}

// Get returns the piece on sq and whether the square is occupied.
func (b *Board) Get(sq Square) (Piece, bool) {
	p, ok := b.pieces[sq]
	return p, ok
}

// IsEmpty reports whether sq has no piece.
func (b *Board) IsEmpty(sq Square) bool {
	_, ok := b.pieces[sq]
	return !ok
}

// Place puts p on sq, replacing any occupant.
func (b *Board) Place(sq Square, p Piece) {
	if old, ok := b.pieces[sq]; ok && old.Kind == King && !(p.Kind == King && p.Colour == old.Colour) {
		b.kingKnown[old.Colour] = false
	}
	b.pieces[sq] = p
	if p.Kind == King {
		b.kings[p.Colour] = sq
		b.kingKnown[p.Colour] = true
	}
}

// Remove takes the piece off sq and returns it.
func (b *Board) Remove(sq Square) (Piece, bool) {
	p, ok := b.pieces[sq]
	if !ok {
		return Piece{}, false
	}
	delete(b.pieces, sq)
	if p.Kind == King && b.kings[p.Colour] == sq {
		b.kingKnown[p.Colour] = false
	}
	return p, true
}

// KingSquare returns where the king of the given colour stands.
func (b *Board) KingSquare(colour Colour) (Square, bool) {
	if b.kingKnown[colour] {
		return b.kings[colour], true
	}
	for _, sq := range b.Occupied() {
		if p := b.pieces[sq]; p.Kind == King && p.Colour == colour {
			b.kings[colour] = sq
			b.kingKnown[colour] = true
			return sq, true
		}
	}
	return Square{}, false
}

// Occupied returns all occupied squares in index order.
func (b *Board) Occupied() []Square {
	squares := maps.Keys(b.pieces)
	sort.Slice(squares, func(i, j int) bool { return squares[i].Less(squares[j]) })
	return squares
}

// PiecesOf returns the squares holding pieces of the given colour, in index order.
func (b *Board) PiecesOf(colour Colour) []Square {
	var out []Square
	for _, sq := range b.Occupied() {
		if b.pieces[sq].Colour == colour {
			out = append(out, sq)
		}
	}
	return out
}

// Len returns the number of pieces on the board.
func (b *Board) Len() int {
	return len(b.pieces)
}

// CanCastle reports whether colour still holds the castling right on side.
func (b *Board) CanCastle(colour Colour, side Side) bool {
	return b.castling[colour][side]
}

// CastlingRights returns a copy of all four castling flags.
func (b *Board) CastlingRights() CastlingRights {
	return b.castling
}

// RevokeCastling permanently removes the castling right of colour on side.
func (b *Board) RevokeCastling(colour Colour, side Side) {
	b.castling[colour][side] = false
}

// EnPassant returns the square a pawn of the given colour may capture
// onto en passant this turn.
func (b *Board) EnPassant(colour Colour) (Square, bool) {
	return b.enPassant[colour], b.hasEnPassant[colour]
}

// SetEnPassant records sq as the en-passant target for colour.
func (b *Board) SetEnPassant(colour Colour, sq Square) {
	b.enPassant[colour] = sq
	b.hasEnPassant[colour] = true
}

// ClearEnPassant removes the en-passant target of colour.
func (b *Board) ClearEnPassant(colour Colour) {
	b.enPassant[colour] = Square{}
	b.hasEnPassant[colour] = false
}

// Clone creates a deep copy of the board.
func (b *Board) Clone() *Board {
	nb := *b
	nb.pieces = make(map[Square]Piece, len(b.pieces))
	for sq, p := range b.pieces {
		nb.pieces[sq] = p
	}
	return &nb
}

// Equal reports whether two boards hold the same pieces, king squares,
// castling rights and en-passant targets.
func (b *Board) Equal(o *Board) bool {
	if b == nil || o == nil {
		return b == o
	}
	if len(b.pieces) != len(o.pieces) || b.castling != o.castling {
		return false
	}
	for sq, p := range b.pieces {
		if q, ok := o.pieces[sq]; !ok || q != p {
			return false
		}
	}
	for _, c := range Colours {
		bk, bok := b.KingSquare(c)
		ok, ook := o.KingSquare(c)
		if bok != ook || bk != ok {
			return false
		}
		be, bhas := b.EnPassant(c)
		oe, ohas := o.EnPassant(c)
		if bhas != ohas || be != oe {
			return false
		}
	}
	return true
}

// String renders the board as eight lines of FEN-style letters, rank 8 first.
func (b *Board) String() string {
	buf := make([]byte, 0, (BoardSize+1)*BoardSize)
	for row := BoardSize; row >= 1; row-- {
		for col := 1; col <= BoardSize; col++ {
			if p, ok := b.pieces[Square{Row: row, Column: col}]; ok {
				buf = append(buf, p.Letter())
			} else {
				buf = append(buf, '.')
			}
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
