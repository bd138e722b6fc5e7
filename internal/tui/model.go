// Package tui is a terminal chess board built on tcell. Model holds the
// cursor, selection and key handling; Draw renders a Model onto a screen.
package tui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lgbarn/chessd/internal/chess"
	"github.com/lgbarn/chessd/internal/engine"
)

// Model is the interactive state of the board view.
type Model struct {
	session   Session
	cursor    chess.Square
	selected  chess.Square
	hasSel    bool
	targets   chess.MoveList
	promotion chess.PieceKind
	message   string
	quit      bool
}

// NewModel creates a model on session with the cursor on e2.
func NewModel(session Session) *Model {
	return &Model{
		session:   session,
		cursor:    chess.MustSquare(2, 5),
		promotion: chess.Queen,
	}
}

// Session returns the game being played.
func (m *Model) Session() Session { return m.session }

// Cursor returns the square under the cursor.
func (m *Model) Cursor() chess.Square { return m.cursor }

// Selected returns the selected square, if any.
func (m *Model) Selected() (chess.Square, bool) { return m.selected, m.hasSel }

// Targets returns the destinations of the selected piece.
func (m *Model) Targets() []chess.Square { return m.targets.Destinations() }

// Promotion returns the piece kind pawns promote to.
func (m *Model) Promotion() chess.PieceKind { return m.promotion }

// Message returns the last error or notice.
func (m *Model) Message() string { return m.message }

// Quit reports whether the user asked to leave.
func (m *Model) Quit() bool { return m.quit }

// Status describes the position for the status line.
func (m *Model) Status() string {
	g := m.session.Game()
	turn := g.Turn()
	switch g.Status() {
	case engine.Checkmate:
		return fmt.Sprintf("CHECKMATE, %s wins", turn.Opposite())
	case engine.Stalemate:
		return "STALEMATE"
	case engine.Check:
		return fmt.Sprintf("%s to move, CHECK", turn)
	default:
		return fmt.Sprintf("%s to move", turn)
	}
}

// HandleKey applies one key press. It returns false for keys it ignores.
func (m *Model) HandleKey(ctx context.Context, ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		m.quit = true
	case tcell.KeyUp:
		m.moveCursor(1, 0)
	case tcell.KeyDown:
		m.moveCursor(-1, 0)
	case tcell.KeyLeft:
		m.moveCursor(0, -1)
	case tcell.KeyRight:
		m.moveCursor(0, 1)
	case tcell.KeyEnter:
		m.activate(ctx)
	case tcell.KeyEscape:
		m.deselect()
	case tcell.KeyRune:
		return m.handleRune(ctx, ev.Rune())
	default:
		return false
	}
	return true
}

func (m *Model) handleRune(ctx context.Context, r rune) bool {
	switch r {
	case 'Q':
		m.quit = true
	case 'k':
		m.moveCursor(1, 0)
	case 'j':
		m.moveCursor(-1, 0)
	case 'h':
		m.moveCursor(0, -1)
	case 'l':
		m.moveCursor(0, 1)
	case ' ':
		m.activate(ctx)
	case 'q', 'r', 'b', 'n':
		kind, _ := chess.ParsePieceKind(string(r))
		m.promotion = kind
		m.message = "promote to " + kind.String()
	default:
		return false
	}
	return true
}

func (m *Model) moveCursor(dRow, dCol int) {
	if sq, ok := m.cursor.Offset(dRow, dCol); ok {
		m.cursor = sq
	}
}

func (m *Model) deselect() {
	m.hasSel = false
	m.targets = nil
}

// activate selects the piece under the cursor, or plays the selected piece
// to the cursor.
func (m *Model) activate(ctx context.Context) {
	m.message = ""
	if m.hasSel {
		if m.cursor == m.selected {
			m.deselect()
			return
		}
		if move, ok := m.targetMove(m.cursor); ok {
			m.deselect()
			if err := m.session.Move(ctx, move); err != nil {
				m.message = err.Error()
			}
			return
		}
		g := m.session.Game()
		if piece, ok := g.Board().Get(m.cursor); !ok || piece.Colour != g.Turn() {
			m.message = fmt.Sprintf("%s cannot move to %s", m.selected, m.cursor)
			return
		}
	}
	m.selectAt(m.cursor)
}

func (m *Model) selectAt(sq chess.Square) {
	m.deselect()
	g := m.session.Game()
	if g.Status().Terminal() {
		m.message = "game over"
		return
	}
	piece, ok := g.Board().Get(sq)
	if !ok {
		m.message = "no piece on " + sq.String()
		return
	}
	if piece.Colour != g.Turn() {
		m.message = fmt.Sprintf("%s to move", g.Turn())
		return
	}
	moves, _ := g.ValidMoves(sq)
	if len(moves) == 0 {
		m.message = "no legal moves for " + sq.String()
		return
	}
	m.selected, m.hasSel, m.targets = sq, true, moves
}

// targetMove returns the legal move of the selected piece onto sq, using
// the chosen promotion kind when the move promotes.
func (m *Model) targetMove(sq chess.Square) (chess.Move, bool) {
	for _, move := range m.targets {
		if move.End != sq {
			continue
		}
		if move.IsPromotion() && move.Promotion != m.promotion {
			continue
		}
		return move, true
	}
	return chess.Move{}, false
}
