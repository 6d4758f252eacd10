package search

import (
	"time"

	"github.com/mitchelldurbincs/GoblinTactics/internal/game/core"
)

// Lookahead is the randomized shallow search. Every candidate is scored
// greedily with a little noise; with depth > 0 the greedy score is pulled
// halfway toward the score reached after the opponent's best reply and our
// best answer to it.
type Lookahead struct {
	settings
	nodes int
}

// NewLookahead creates a lookahead strategy
func NewLookahead(opts ...Option) *Lookahead {
	return &Lookahead{settings: newSettings(StrategyLookahead, opts)}
}

func (l *Lookahead) Name() string { return StrategyLookahead }

// ChooseMove returns the highest scoring move for f, or NoMove
func (l *Lookahead) ChooseMove(b *core.Board, f core.Faction, depth int) Decision {
	start := time.Now()
	l.nodes = 0
	d := l.best(b, f, depth)
	d.Nodes = l.nodes
	logDecision(l.logger, f, depth, d, start)
	return d
}

func (l *Lookahead) best(b *core.Board, f core.Faction, depth int) Decision {
	best := NoMove
	for _, m := range core.GenerateMoves(b, f) {
		child := mustApply(b, m, f)
		l.nodes++

		score := l.evaluator.Score(child, f) + l.noise()
		if depth > 0 && child.CheckVictory() == core.NoFaction {
			cont := l.continuation(child, f, depth-1)
			score += (cont - score) / 2
		}

		// strict comparison keeps the first move on ties
		if !best.Found || score > best.Score {
			best = Decision{Move: m, Score: score, Found: true}
		}
	}
	return best
}

// continuation plays the opponent's best reply on b, then returns the score
// of f's best answer.
func (l *Lookahead) continuation(b *core.Board, f core.Faction, depth int) float64 {
	next := b
	if reply := l.best(b, f.Enemy(), depth); reply.Found {
		next = mustApply(b, reply.Move, f.Enemy())
	}
	if own := l.best(next, f, depth); own.Found {
		return own.Score
	}
	return l.evaluator.Score(next, f)
}

// noise is uniform in [-jitter, +jitter)
func (l *Lookahead) noise() float64 {
	if l.jitter == 0 {
		return 0
	}
	return (l.rng.Float64()*2 - 1) * l.jitter
}
