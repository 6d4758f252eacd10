package search

import (
	"math"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mitchelldurbincs/GoblinTactics/internal/game/core"
)

// AlphaBeta is a deterministic minimax search with alpha-beta pruning.
// Leaves are always scored from the root faction's point of view.
type AlphaBeta struct {
	settings
	nodes atomic.Int64
}

// NewAlphaBeta creates an alpha-beta strategy
func NewAlphaBeta(opts ...Option) *AlphaBeta {
	return &AlphaBeta{settings: newSettings(StrategyAlphaBeta, opts)}
}

func (a *AlphaBeta) Name() string { return StrategyAlphaBeta }

// ChooseMove searches depth plies (at least one) and returns the first move
// with the best minimax value, or NoMove.
func (a *AlphaBeta) ChooseMove(b *core.Board, f core.Faction, depth int) Decision {
	start := time.Now()
	a.nodes.Store(0)
	if depth < 1 {
		depth = 1
	}

	moves := core.GenerateMoves(b, f)
	var d Decision
	switch {
	case len(moves) == 0:
		d = NoMove
	case a.workers > 1 && len(moves) > 1:
		d = a.searchParallel(b, f, depth, moves)
	default:
		d = a.searchRoot(b, f, depth, moves)
	}
	d.Nodes = int(a.nodes.Load())
	logDecision(a.logger, f, depth, d, start)
	return d
}

func (a *AlphaBeta) searchRoot(b *core.Board, f core.Faction, depth int, moves []core.Move) Decision {
	best := NoMove
	alpha := math.Inf(-1)
	for _, m := range moves {
		child := mustApply(b, m, f)
		v := a.alphabeta(child, depth-1, alpha, math.Inf(1), false, f.Enemy(), f)
		if !best.Found || v > best.Score {
			best = Decision{Move: m, Score: v, Found: true}
		}
		alpha = math.Max(alpha, v)
	}
	return best
}

// searchParallel gives every root move a full window on its own goroutine.
// Picking the first maximal value matches searchRoot exactly.
func (a *AlphaBeta) searchParallel(b *core.Board, f core.Faction, depth int, moves []core.Move) Decision {
	values := make([]float64, len(moves))
	var g errgroup.Group
	g.SetLimit(a.workers)
	for i, m := range moves {
		g.Go(func() error {
			child := mustApply(b, m, f)
			values[i] = a.alphabeta(child, depth-1, math.Inf(-1), math.Inf(1), false, f.Enemy(), f)
			return nil
		})
	}
	_ = g.Wait()

	best := NoMove
	for i, v := range values {
		if !best.Found || v > best.Score {
			best = Decision{Move: moves[i], Score: v, Found: true}
		}
	}
	return best
}

func (a *AlphaBeta) alphabeta(b *core.Board, depth int, alpha, beta float64, maximizing bool, toMove, root core.Faction) float64 {
	a.nodes.Add(1)
	if depth == 0 || b.CheckVictory() != core.NoFaction {
		return a.evaluator.Score(b, root)
	}
	moves := core.GenerateMoves(b, toMove)
	if len(moves) == 0 {
		return a.evaluator.Score(b, root)
	}

	if maximizing {
		value := math.Inf(-1)
		for _, m := range moves {
			child := mustApply(b, m, toMove)
			value = math.Max(value, a.alphabeta(child, depth-1, alpha, beta, false, toMove.Enemy(), root))
			alpha = math.Max(alpha, value)
			if alpha >= beta {
				break
			}
		}
		return value
	}

	value := math.Inf(1)
	for _, m := range moves {
		child := mustApply(b, m, toMove)
		value = math.Min(value, a.alphabeta(child, depth-1, alpha, beta, true, toMove.Enemy(), root))
		beta = math.Min(beta, value)
		if alpha >= beta {
			break
		}
	}
	return value
}
