package tui

import (
	"context"

	"github.com/gdamore/tcell/v2"
)

// Run draws m on s and handles events until the user quits, ctx ends or
// the screen is finalized. It does not call s.Fini.
func Run(ctx context.Context, s tcell.Screen, m *Model) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = s.PostEvent(tcell.NewEventInterrupt(nil))
		case <-done:
		}
	}()

	Draw(s, m)
	for {
		switch ev := s.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventKey:
			m.HandleKey(ctx, ev)
		}
		if m.Quit() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		Draw(s, m)
	}
}

// Redraw asks a running Run loop on s to repaint, e.g. after a remote move.
func Redraw(s tcell.Screen) {
	_ = s.PostEvent(tcell.NewEventInterrupt(nil))
}
