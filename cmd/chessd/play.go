package main

import (
	"context"
	"fmt"
	"io"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lgbarn/chessd/internal/chess"
	"github.com/lgbarn/chessd/internal/errors"
	"github.com/lgbarn/chessd/internal/tui"
)

type playFlags struct {
	server string
	game   string
	token  string
}

func newPlayCmd(opts *options) *cobra.Command {
	var f playFlags
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal, locally or against a chessd server",
		Long: "Without --server both sides are played on this terminal. With --server a\n" +
			"new game is created on the server, or --game and --token join an existing one.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := openSession(cmd.Context(), f)
			if err != nil {
				return err
			}
			screen, err := tcell.NewScreen()
			if err != nil {
				return err
			}
			if err := screen.Init(); err != nil {
				return err
			}
			err = play(cmd.Context(), screen, session, opts.log)
			screen.Fini()

			if remote, ok := session.(*tui.RemoteSession); ok {
				printRemote(cmd.OutOrStdout(), remote)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&f.server, "server", "", "server URL, e.g. http://localhost:8080")
	cmd.Flags().StringVar(&f.game, "game", "", "id of a game to join")
	cmd.Flags().StringVar(&f.token, "token", "", "player token for --game")
	return cmd
}

func openSession(ctx context.Context, f playFlags) (tui.Session, error) {
	if f.server == "" {
		if f.game != "" {
			return nil, errors.New("--game needs --server")
		}
		return tui.NewLocalSession(), nil
	}
	client := tui.NewClient(f.server, nil)
	if f.game == "" {
		return client.Create(ctx)
	}
	id, err := uuid.Parse(f.game)
	if err != nil {
		return nil, fmt.Errorf("game id %q: %w", f.game, err)
	}
	return client.Join(ctx, id, f.token)
}

// play runs the board until the user quits. Remote sessions follow the
// server's event stream so the other player's moves appear.
func play(ctx context.Context, screen tcell.Screen, session tui.Session, log zerolog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if remote, ok := session.(*tui.RemoteSession); ok {
		go func() {
			err := remote.Watch(ctx, func() { tui.Redraw(screen) })
			if err != nil {
				log.Debug().Err(err).Str("game", remote.ID().String()).Msg("watch ended")
			}
		}()
	}

	err := tui.Run(ctx, screen, tui.NewModel(session))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func printRemote(w io.Writer, s *tui.RemoteSession) {
	fmt.Fprintf(w, "game %s\n", s.ID())
	for _, line := range []struct{ side, token string }{
		{"white", s.Token(chess.White)},
		{"black", s.Token(chess.Black)},
	} {
		if line.token != "" {
			fmt.Fprintf(w, "  %s token: %s\n", line.side, line.token)
		}
	}
}
