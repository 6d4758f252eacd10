package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/GoblinTactics/internal/game/core"
	"github.com/mitchelldurbincs/GoblinTactics/internal/game/layout"
)

// CreateTestBoard parses glyph rows with default health values
func CreateTestBoard(t testing.TB, rows ...string) *core.Board {
	t.Helper()
	b, err := layout.Parse(rows, layout.DefaultOptions())
	require.NoError(t, err)
	return b
}

// SetHealth overwrites the health of the unit at (x, y)
func SetHealth(t testing.TB, b *core.Board, x, y, health int) {
	t.Helper()
	c := core.Coordinate{X: x, Y: y}
	require.Equal(t, core.TileUnit, b.Classify(c), "no unit at %s", c)
	b.T[c.ToIndex(b.W)].Unit.Health = health
}

// CreateSkirmish is a small open board with both commanders and two
// regular units per side, used by search and match tests.
func CreateSkirmish(t testing.TB) *core.Board {
	return CreateTestBoard(t,
		"M.#..",
		".m...",
		"..#g.",
		"m..gG",
		".....",
	)
}

// CreateCorridor is a one-row duel: mice commander west, goblin commander east.
func CreateCorridor(t testing.TB) *core.Board {
	return CreateTestBoard(t,
		"#######",
		"#M...G#",
		"#######",
	)
}
