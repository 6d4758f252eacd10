package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/GoblinTactics/internal/game/core"
	"github.com/mitchelldurbincs/GoblinTactics/internal/game/search"
)

func reset() {
	cfg = nil
	v = nil
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestInit(t *testing.T) {
	configFile := writeConfig(t, t.TempDir(), "config.yaml", `
game:
  commander_health: 6
  map:
    width: 12
    wall_ratio: 5
eval:
  enemy_commander: -3.5
search:
  strategy: lookahead
  depth: 2
match:
  max_turns: 50
  first: goblins
server:
  advisor:
    port: 8080
`)
	reset()

	err := Init(configFile)
	require.NoError(t, err)

	c := Get()
	assert.Equal(t, 6, c.Game.CommanderHealth)
	assert.Equal(t, 12, c.Game.Map.Width)
	assert.Equal(t, 5, c.Game.Map.WallRatio)
	assert.Equal(t, -3.5, c.Eval.EnemyCommander)
	assert.Equal(t, search.StrategyLookahead, c.Search.Strategy)
	assert.Equal(t, 2, c.Search.Depth)
	assert.Equal(t, 50, c.Match.MaxTurns)
	assert.Equal(t, "goblins", c.Match.First)
	assert.Equal(t, 8080, c.Server.Advisor.Port)

	// untouched keys keep their defaults
	assert.Equal(t, core.DefaultUnitHealth, c.Game.UnitHealth)
	assert.Equal(t, 8, c.Game.Map.Height)
	assert.Equal(t, 1.1, c.Eval.FriendlyUnit)
	assert.Equal(t, configFile, ConfigFilePath())
}

func TestInitWithDefaults(t *testing.T) {
	reset()

	// a missing explicit file falls back to defaults
	err := Init("/non/existent/path/config.yaml")
	require.NoError(t, err)

	c := Get()
	require.NotNil(t, c)
	assert.Equal(t, core.DefaultCommanderHealth, c.Game.CommanderHealth)
	assert.Equal(t, search.StrategyAlphaBeta, c.Search.Strategy)
	assert.Equal(t, 3, c.Search.Depth)
	assert.Equal(t, search.DefaultJitter, c.Search.Jitter)
	assert.Equal(t, 200, c.Match.MaxTurns)
	assert.Equal(t, 50061, c.Server.Advisor.Port)
	assert.Equal(t, "console", c.Log.Format)
}

func TestInit_MalformedFile(t *testing.T) {
	configFile := writeConfig(t, t.TempDir(), "config.yaml", "game: [unterminated")
	reset()

	err := Init(configFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestInit_ValidationFailure(t *testing.T) {
	configFile := writeConfig(t, t.TempDir(), "config.yaml", `
match:
  goblins: minimax
`)
	reset()

	err := Init(configFile)
	require.Error(t, err)
	assert.True(t, errors.Is(err, search.ErrUnknownStrategy))
}

func TestEnvironmentVariables(t *testing.T) {
	reset()

	t.Setenv("TACTICS_GAME_MAP_WALL_RATIO", "30")
	t.Setenv("TACTICS_SERVER_ADVISOR_PORT", "9090")
	t.Setenv("TACTICS_SEARCH_STRATEGY", "random")

	err := Init("")
	require.NoError(t, err)

	c := Get()
	assert.Equal(t, 30, c.Game.Map.WallRatio)
	assert.Equal(t, 9090, c.Server.Advisor.Port)
	assert.Equal(t, search.StrategyRandom, c.Search.Strategy)
}

func TestSet(t *testing.T) {
	reset()

	err := Init("")
	require.NoError(t, err)

	Set("game.map.wall_ratio", 35)
	Set("search.depth", 5)

	c := Get()
	assert.Equal(t, 35, c.Game.Map.WallRatio)
	assert.Equal(t, 5, c.Search.Depth)
}

func TestGetHelpers(t *testing.T) {
	reset()

	err := Init("")
	require.NoError(t, err)

	Set("test.string", "hello")
	Set("test.int", 42)
	Set("test.bool", true)
	Set("test.float", 3.14)

	assert.Equal(t, "hello", GetString("test.string"))
	assert.Equal(t, 42, GetInt("test.int"))
	assert.Equal(t, true, GetBool("test.bool"))
	assert.Equal(t, 3.14, GetFloat64("test.float"))
	assert.NotNil(t, GetViper())
}

func TestLoadEnvironmentConfig(t *testing.T) {
	tmpDir := t.TempDir()

	baseConfig := writeConfig(t, tmpDir, "config.yaml", `
search:
  depth: 2
server:
  advisor:
    port: 50061
`)
	writeConfig(t, tmpDir, "config.prod.yaml", `
search:
  depth: 4
server:
  advisor:
    port: 8080
    log_level: "error"
`)

	t.Chdir(tmpDir)
	reset()

	err := Init(baseConfig)
	require.NoError(t, err)

	err = LoadEnvironmentConfig("prod")
	require.NoError(t, err)

	c := Get()
	assert.Equal(t, 4, c.Search.Depth)                   // Overridden
	assert.Equal(t, 8080, c.Server.Advisor.Port)         // Overridden
	assert.Equal(t, "error", c.Server.Advisor.LogLevel) // New value

	// no file for the environment leaves the config alone
	require.NoError(t, LoadEnvironmentConfig("staging"))
	assert.Equal(t, 4, Get().Search.Depth)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"zero unit health", func(c *Config) { c.Game.UnitHealth = 0 }, "game.unit_health"},
		{"tiny map", func(c *Config) { c.Game.Map.Width = 3 }, "game.map"},
		{"negative depth", func(c *Config) { c.Search.Depth = -1 }, "search.depth"},
		{"no workers", func(c *Config) { c.Search.Workers = 0 }, "search.workers"},
		{"bad first faction", func(c *Config) { c.Match.First = "elves" }, "match.first"},
		{"bad port", func(c *Config) { c.Server.Advisor.Port = 70000 }, "server.advisor.port"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reset()
			require.NoError(t, Init(""))
			c := *Get()
			tt.mutate(&c)

			err := Validate(&c)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConversions(t *testing.T) {
	reset()
	require.NoError(t, Init(""))
	Set("game.commander_health", 4)
	Set("search.turn_timeout_ms", 250)
	c := Get()

	w := c.Weights()
	assert.Equal(t, c.Eval.FriendlyCommander, w.FriendlyCommander)
	assert.Equal(t, c.Eval.EnemyUnit, w.EnemyUnit)

	mc := c.MapConfig()
	assert.Equal(t, c.Game.Map.Width, mc.Width)
	assert.Equal(t, 4, mc.CommanderHealth)
	assert.Equal(t, 4, c.LayoutOptions().CommanderHealth)

	assert.Equal(t, int64(250), c.TurnTimeout().Milliseconds())
	assert.NotEmpty(t, c.SearchOptions(zerolog.Nop()))
}
