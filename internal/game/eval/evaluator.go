package eval

import "github.com/mitchelldurbincs/GoblinTactics/internal/game/core"

// Weights are the per-unit terms of the linear board score.
// Commander terms are multiplied by the commander's health.
type Weights struct {
	FriendlyUnit      float64
	FriendlyCommander float64
	EnemyUnit         float64
	EnemyCommander    float64
}

// DefaultWeights returns the hand-tuned reference weights
func DefaultWeights() Weights {
	return Weights{
		FriendlyUnit:      1.1,
		FriendlyCommander: 2.1,
		EnemyUnit:         -1.0,
		EnemyCommander:    -2.0,
	}
}

// Evaluator scores boards from one faction's point of view.
type Evaluator struct {
	weights Weights
}

// NewEvaluator creates an evaluator with the given weights
func NewEvaluator(w Weights) *Evaluator {
	return &Evaluator{weights: w}
}

// Default returns an evaluator using DefaultWeights
func Default() *Evaluator {
	return NewEvaluator(DefaultWeights())
}

// Weights returns the weights in use
func (e *Evaluator) Weights() Weights { return e.weights }

// Score sums the weights over every unit on b as seen by f.
// Walls and empty cells contribute nothing.
func (e *Evaluator) Score(b *core.Board, f core.Faction) float64 {
	enemy := f.Enemy()
	score := 0.0
	for i := range b.T {
		t := &b.T[i]
		if !t.IsOccupied() {
			continue
		}
		switch t.Unit.Faction {
		case f:
			if t.Unit.Commander {
				score += float64(t.Unit.Health) * e.weights.FriendlyCommander
			}
			score += e.weights.FriendlyUnit
		case enemy:
			if t.Unit.Commander {
				score += float64(t.Unit.Health) * e.weights.EnemyCommander
			}
			score += e.weights.EnemyUnit
		}
	}
	return score
}
