// Package perft counts the leaves of the legal-move tree and cross-checks
// the move generator against an independent implementation.
package perft

import (
	"sort"

	"github.com/dylhunn/dragontoothmg"
	"golang.org/x/exp/maps"

	"github.com/lgbarn/chessd/internal/chess"
	"github.com/lgbarn/chessd/internal/codec"
	"github.com/lgbarn/chessd/internal/engine"
	"github.com/lgbarn/chessd/internal/worker"
)

// Count returns the number of leaf positions depth plies below game.
// The game itself is not modified.
func Count(game *engine.Game, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := game.LegalMoves(game.Turn())
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		child := game.Clone()
		if err := child.MakeMove(m); err != nil {
			continue
		}
		nodes += Count(child, depth-1)
	}
	return nodes
}

// Split is the subtree size below one root move.
type Split struct {
	Move  chess.Move
	Nodes uint64
}

// Divide returns the subtree size of every root move, in generation order,
// and their total. Subtrees are counted on workers goroutines.
func Divide(game *engine.Game, depth, workers int) ([]Split, uint64) {
	if depth <= 0 {
		return nil, 1
	}
	moves := game.LegalMoves(game.Turn())

	pool := worker.NewPool(func(job worker.Job) worker.Result {
		return worker.Result{Index: job.Index, Move: job.Move, Nodes: Count(job.Game, job.Depth)}
	}, worker.WithWorkers(workers), worker.WithBufferSize(len(moves)+1))
	pool.Start()

	go func() {
		for i, m := range moves {
			child := game.Clone()
			if err := child.MakeMove(m); err != nil {
				continue
			}
			pool.Submit(worker.Job{Index: i, Move: m, Game: child, Depth: depth - 1})
		}
		pool.Close()
	}()

	splits := make([]Split, len(moves))
	var total uint64
	for r := range pool.Results() {
		splits[r.Index] = Split{Move: r.Move, Nodes: r.Nodes}
		total += r.Nodes
	}
	return splits, total
}

// Divergence describes the first position where the engine and the
// reference generator disagree.
type Divergence struct {
	FEN           string
	Path          []string
	OnlyOurs      []string
	OnlyReference []string
}

// Verify walks the engine and dragontoothmg in lockstep for depth plies
// from game and returns the first position whose legal move sets differ,
// or nil if none do.
func Verify(game *engine.Game, depth int) *Divergence {
	ref := dragontoothmg.ParseFen(codec.FEN(game))
	return verify(game, &ref, depth, nil)
}

func verify(game *engine.Game, ref *dragontoothmg.Board, depth int, path []string) *Divergence {
	if depth <= 0 {
		return nil
	}
	ours := make(map[string]chess.Move)
	for _, m := range game.LegalMoves(game.Turn()) {
		ours[m.String()] = m
	}
	theirs := make(map[string]dragontoothmg.Move)
	for _, m := range ref.GenerateLegalMoves() {
		m := m
		theirs[m.String()] = m
	}

	if d := compare(ours, theirs); d != nil {
		d.FEN = codec.FEN(game)
		d.Path = append([]string(nil), path...)
		return d
	}
	if depth == 1 {
		return nil
	}

	keys := maps.Keys(ours)
	sort.Strings(keys)
	for _, key := range keys {
		child := game.Clone()
		if err := child.MakeMove(ours[key]); err != nil {
			// Generated but rejected on apply.
			return &Divergence{FEN: codec.FEN(game), Path: append([]string(nil), path...), OnlyReference: []string{key}}
		}
		undo := ref.Apply(theirs[key])
		d := verify(child, ref, depth-1, append(path, key))
		undo()
		if d != nil {
			return d
		}
	}
	return nil
}

func compare(ours map[string]chess.Move, theirs map[string]dragontoothmg.Move) *Divergence {
	var d Divergence
	for k := range ours {
		if _, ok := theirs[k]; !ok {
			d.OnlyOurs = append(d.OnlyOurs, k)
		}
	}
	for k := range theirs {
		if _, ok := ours[k]; !ok {
			d.OnlyReference = append(d.OnlyReference, k)
		}
	}
	if len(d.OnlyOurs) == 0 && len(d.OnlyReference) == 0 {
		return nil
	}
	sort.Strings(d.OnlyOurs)
	sort.Strings(d.OnlyReference)
	return &d
}
