package main

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lgbarn/chessd/internal/codec"
	"github.com/lgbarn/chessd/internal/engine"
	"github.com/lgbarn/chessd/internal/errors"
	"github.com/lgbarn/chessd/internal/perft"
)

type perftFlags struct {
	depth   int
	workers int
	moves   []string
	verify  bool
}

func newPerftCmd(opts *options) *cobra.Command {
	var f perftFlags
	cmd := &cobra.Command{
		Use:   "perft",
		Short: "Count move-tree leaves and cross-check the move generator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("depth") {
				f.depth = opts.cfg.Perft.Depth
			}
			if !cmd.Flags().Changed("workers") {
				f.workers = opts.cfg.Perft.Workers
			}
			return runPerft(cmd.OutOrStdout(), f, opts.log)
		},
	}
	cmd.Flags().IntVarP(&f.depth, "depth", "d", 3, "plies to search")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "goroutines for divide (0 = one per CPU)")
	cmd.Flags().StringSliceVarP(&f.moves, "moves", "m", nil, "moves from the opening position, e.g. e2e4,e7e5")
	cmd.Flags().BoolVar(&f.verify, "verify", false, "cross-check every position against dragontoothmg")
	return cmd
}

func runPerft(w io.Writer, f perftFlags, log zerolog.Logger) error {
	if f.depth < 1 {
		return fmt.Errorf("depth %d: %w", f.depth, errors.ErrInvalidConfig)
	}
	workers := f.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	game, err := gameAfter(f.moves)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "position: %s\n", codec.FEN(game))

	start := time.Now()
	splits, total := perft.Divide(game, f.depth, workers)
	for _, s := range splits {
		fmt.Fprintf(w, "%s: %d\n", s.Move, s.Nodes)
	}
	fmt.Fprintf(w, "\nNodes searched: %d\n", total)
	log.Info().Int("depth", f.depth).Int("workers", workers).Uint64("nodes", total).
		Dur("elapsed", time.Since(start)).Msg("perft done")

	if !f.verify {
		return nil
	}
	if d := perft.Verify(game, f.depth); d != nil {
		return fmt.Errorf("divergence at %q after [%s]: only ours %v, only reference %v",
			d.FEN, strings.Join(d.Path, " "), d.OnlyOurs, d.OnlyReference)
	}
	fmt.Fprintf(w, "verify: ok to depth %d\n", f.depth)
	return nil
}

// gameAfter plays moves from the opening position.
func gameAfter(moves []string) (*engine.Game, error) {
	game := engine.NewGame()
	for _, s := range moves {
		m, err := codec.ParseCoordinate(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		if err := game.MakeMove(m); err != nil {
			return nil, err
		}
	}
	return game, nil
}
