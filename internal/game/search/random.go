package search

import (
	"time"

	"github.com/mitchelldurbincs/GoblinTactics/internal/game/core"
)

// Random picks a uniformly random legal move. It is a baseline opponent for
// demos and for measuring the other strategies; depth is ignored.
type Random struct {
	settings
}

// NewRandom creates a random strategy
func NewRandom(opts ...Option) *Random {
	return &Random{settings: newSettings(StrategyRandom, opts)}
}

func (r *Random) Name() string { return StrategyRandom }

// ChooseMove returns a random legal move scored greedily, or NoMove
func (r *Random) ChooseMove(b *core.Board, f core.Faction, depth int) Decision {
	start := time.Now()
	moves := core.GenerateMoves(b, f)
	if len(moves) == 0 {
		logDecision(r.logger, f, depth, NoMove, start)
		return NoMove
	}
	m := moves[r.rng.Intn(len(moves))]
	d := Decision{
		Move:  m,
		Score: r.evaluator.Score(mustApply(b, m, f), f),
		Found: true,
		Nodes: 1,
	}
	logDecision(r.logger, f, depth, d, start)
	return d
}
