package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lgbarn/chessd/internal/chess"
)

// Screen layout.
const (
	squareWidth = 3
	boardLeft   = 2
	boardTop    = 1
	statusRow   = boardTop + chess.BoardSize + 2
)

var (
	styleDefault    = tcell.StyleDefault
	styleLight      = tcell.StyleDefault.Background(tcell.ColorBurlyWood)
	styleDark       = tcell.StyleDefault.Background(tcell.ColorSaddleBrown)
	styleCursor     = tcell.StyleDefault.Background(tcell.ColorSteelBlue)
	styleSelected   = tcell.StyleDefault.Background(tcell.ColorGreen)
	styleTarget     = tcell.StyleDefault.Background(tcell.ColorOliveDrab)
	styleMessage    = tcell.StyleDefault.Foreground(tcell.ColorRed)
	colorWhitePiece = tcell.ColorWhite
	colorBlackPiece = tcell.ColorBlack
)

// SquareCell returns the screen position of the middle cell of sq.
func SquareCell(sq chess.Square) (x, y int) {
	x = boardLeft + (sq.Column-1)*squareWidth + 1
	y = boardTop + chess.BoardSize - sq.Row
	return x, y
}

// Draw renders the board, labels and status lines and shows the screen.
func Draw(s tcell.Screen, m *Model) {
	s.Clear()
	g := m.session.Game()
	board := g.Board()

	targets := make(map[chess.Square]bool)
	for _, sq := range m.Targets() {
		targets[sq] = true
	}
	selected, hasSel := m.Selected()

	for col := 1; col <= chess.BoardSize; col++ {
		x, _ := SquareCell(chess.MustSquare(1, col))
		file := rune(chess.ColBase + col - 1)
		s.SetContent(x, boardTop-1, file, nil, styleDefault)
		s.SetContent(x, boardTop+chess.BoardSize, file, nil, styleDefault)
	}

	for row := 1; row <= chess.BoardSize; row++ {
		_, y := SquareCell(chess.MustSquare(row, 1))
		s.SetContent(0, y, rune(chess.RankBase+row-1), nil, styleDefault)

		for col := 1; col <= chess.BoardSize; col++ {
			sq := chess.MustSquare(row, col)
			style := styleDark
			if (row+col)%2 == 1 {
				style = styleLight
			}
			switch {
			case sq == m.Cursor():
				style = styleCursor
			case hasSel && sq == selected:
				style = styleSelected
			case targets[sq]:
				style = styleTarget
			}

			mark := ' '
			if piece, ok := board.Get(sq); ok {
				mark = rune(piece.Letter())
				if piece.Colour == chess.White {
					style = style.Foreground(colorWhitePiece)
				} else {
					style = style.Foreground(colorBlackPiece)
				}
			} else if targets[sq] {
				mark = '·'
			}

			x, y := SquareCell(sq)
			s.SetContent(x-1, y, ' ', nil, style)
			s.SetContent(x, y, mark, nil, style)
			s.SetContent(x+1, y, ' ', nil, style)
		}
	}

	drawText(s, 0, statusRow, styleDefault, m.Status())
	info := "promote: " + m.Promotion().String()
	if last := m.session.LastMove(); last != "" {
		info += "  last: " + last
	}
	drawText(s, 0, statusRow+1, styleDefault, info)
	drawText(s, 0, statusRow+2, styleMessage, m.Message())
	s.Show()
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
