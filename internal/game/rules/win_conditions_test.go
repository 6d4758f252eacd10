package rules

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/mitchelldurbincs/GoblinTactics/internal/game/core"
	"github.com/mitchelldurbincs/GoblinTactics/internal/game/layout"
)

func TestWinConditionChecker_Check(t *testing.T) {
	wc := NewWinConditionChecker(zerolog.Nop())

	tests := []struct {
		name string
		rows []string
		ts   TurnState
		want Outcome
	}{
		{
			name: "both commanders alive",
			rows: []string{"M.G"},
			ts:   TurnState{Turn: 3, MaxTurns: 10},
			want: Outcome{Winner: core.NoFaction},
		},
		{
			name: "goblin commander gone",
			rows: []string{"M.g"},
			ts:   TurnState{Turn: 3},
			want: Outcome{Over: true, Winner: core.Mice, Reason: ReasonCommanderDefeated},
		},
		{
			name: "victory beats turn limit and stalemate",
			rows: []string{"m.G"},
			ts:   TurnState{Turn: 10, MaxTurns: 10, Passes: 2},
			want: Outcome{Over: true, Winner: core.Goblins, Reason: ReasonCommanderDefeated},
		},
		{
			name: "two passes",
			rows: []string{"M.G"},
			ts:   TurnState{Turn: 4, MaxTurns: 4, Passes: 2},
			want: Outcome{Over: true, Winner: core.NoFaction, Reason: ReasonStalemate},
		},
		{
			name: "one pass is not a stalemate",
			rows: []string{"M.G"},
			ts:   TurnState{Turn: 4, Passes: 1},
			want: Outcome{Winner: core.NoFaction},
		},
		{
			name: "turn limit",
			rows: []string{"M.G"},
			ts:   TurnState{Turn: 10, MaxTurns: 10},
			want: Outcome{Over: true, Winner: core.NoFaction, Reason: ReasonTurnLimit},
		},
		{
			name: "no limit",
			rows: []string{"M.G"},
			ts:   TurnState{Turn: 5000},
			want: Outcome{Winner: core.NoFaction},
		},
		{
			name: "neither side has a commander",
			rows: []string{"m.g"},
			ts:   TurnState{Turn: 1},
			want: Outcome{Winner: core.NoFaction},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := layout.MustParse(tt.rows...)
			assert.Equal(t, tt.want, wc.Check(b, tt.ts))
		})
	}
}
