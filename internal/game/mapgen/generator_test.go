package mapgen

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/GoblinTactics/internal/game/core"
	"github.com/mitchelldurbincs/GoblinTactics/internal/testutil"
)

// newTestRNG provides a random number generator with a fixed seed for deterministic tests.
func newTestRNG() *rand.Rand {
	return testutil.NewMapRNG(12345)
}

func TestDefaultMapConfig(t *testing.T) {
	config := DefaultMapConfig(12, 8)

	assert.Equal(t, 12, config.Width)
	assert.Equal(t, 8, config.Height)
	assert.Equal(t, 8, config.WallRatio)
	assert.Equal(t, 3, config.UnitsPerSide)
	assert.Equal(t, 4, config.MinCommanderSpacing)
	assert.Equal(t, core.DefaultUnitHealth, config.UnitHealth)
	assert.Equal(t, core.DefaultCommanderHealth, config.CommanderHealth)
}

func TestNewGenerator(t *testing.T) {
	config := DefaultMapConfig(10, 10)
	rng := newTestRNG()
	generator := NewGenerator(config, rng)

	require.NotNil(t, generator)
	assert.Equal(t, config, generator.config)
	assert.Same(t, rng, generator.rng)
}

func TestGenerateMap_FullIntegration(t *testing.T) {
	config := DefaultMapConfig(12, 8)
	board, err := NewGenerator(config, newTestRNG()).GenerateMap()
	require.NoError(t, err)

	assert.Equal(t, 12, board.W)
	assert.Equal(t, 8, board.H)

	for x := 0; x < board.W; x++ {
		assert.Equal(t, core.TileWall, board.Classify(core.Coordinate{X: x, Y: 0}), "top border")
		assert.Equal(t, core.TileWall, board.Classify(core.Coordinate{X: x, Y: board.H - 1}), "bottom border")
	}
	for y := 0; y < board.H; y++ {
		assert.Equal(t, core.TileWall, board.Classify(core.Coordinate{X: 0, Y: y}), "left border")
		assert.Equal(t, core.TileWall, board.Classify(core.Coordinate{X: board.W - 1, Y: y}), "right border")
	}

	mice, miceAt, ok := board.Commander(core.Mice)
	require.True(t, ok, "mice commander placed")
	goblins, goblinsAt, ok := board.Commander(core.Goblins)
	require.True(t, ok, "goblin commander placed")

	assert.Equal(t, core.DefaultCommanderHealth, mice.Health)
	assert.Equal(t, core.DefaultCommanderHealth, goblins.Health)
	assert.Less(t, miceAt.X, board.W/2, "mice start west")
	assert.GreaterOrEqual(t, goblinsAt.X, (board.W+1)/2, "goblins start east")

	assert.Equal(t, config.UnitsPerSide+1, board.CountUnits(core.Mice))
	assert.Equal(t, config.UnitsPerSide+1, board.CountUnits(core.Goblins))
	assert.Equal(t, core.NoFaction, board.CheckVictory())
}

func TestGenerateMap_Deterministic(t *testing.T) {
	config := DefaultMapConfig(10, 7)
	a, err := NewGenerator(config, testutil.NewMapRNG(7)).GenerateRows()
	require.NoError(t, err)
	b, err := NewGenerator(config, testutil.NewMapRNG(7)).GenerateRows()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateMap_NoWalls(t *testing.T) {
	config := DefaultMapConfig(8, 5)
	config.WallRatio = 0
	rows, err := NewGenerator(config, newTestRNG()).GenerateRows()
	require.NoError(t, err)

	walls := 0
	for _, row := range rows {
		for i := 0; i < len(row); i++ {
			if row[i] == '#' {
				walls++
			}
		}
	}
	assert.Equal(t, 2*8+2*3, walls, "only the border")
}

func TestGenerateMap_TooSmall(t *testing.T) {
	_, err := NewGenerator(DefaultMapConfig(4, 4), newTestRNG()).GenerateMap()
	assert.Error(t, err)
}
