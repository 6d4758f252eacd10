package layout

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/GoblinTactics/internal/game/core"
)

func TestParse(t *testing.T) {
	b, err := Parse([]string{
		"#m.G",
		"M.g#",
	}, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 4, b.W)
	assert.Equal(t, 2, b.H)
	assert.Equal(t, core.TileWall, b.Classify(core.Coordinate{X: 0, Y: 0}))
	assert.Equal(t, core.TileEmpty, b.Classify(core.Coordinate{X: 2, Y: 0}))

	// column-major numbering: (0,1) M, (1,0) m, (2,1) g, (3,0) G
	expected := map[core.Coordinate]core.Unit{
		{X: 0, Y: 1}: {ID: 0, Faction: core.Mice, Commander: true, Health: 10},
		{X: 1, Y: 0}: {ID: 1, Faction: core.Mice, Health: 1},
		{X: 2, Y: 1}: {ID: 2, Faction: core.Goblins, Health: 1},
		{X: 3, Y: 0}: {ID: 3, Faction: core.Goblins, Commander: true, Health: 10},
	}
	for c, want := range expected {
		got, ok := b.UnitAt(c)
		require.True(t, ok, "unit at %s", c)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 4, b.NextID)
}

func TestParse_CustomHealth(t *testing.T) {
	b, err := Parse([]string{"mG"}, Options{UnitHealth: 3, CommanderHealth: 20})
	require.NoError(t, err)

	u, _ := b.UnitAt(core.Coordinate{X: 0, Y: 0})
	assert.Equal(t, 3, u.Health)
	u, _ = b.UnitAt(core.Coordinate{X: 1, Y: 0})
	assert.Equal(t, 20, u.Health)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		want error
	}{
		{"no rows", nil, ErrEmptyLayout},
		{"empty row", []string{""}, ErrEmptyLayout},
		{"ragged", []string{"...", ".."}, ErrRaggedRows},
		{"unknown glyph", []string{".x."}, ErrUnknownGlyph},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.rows, DefaultOptions())
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("..", "...") })
	assert.NotPanics(t, func() { MustParse("M.G") })
}

func TestLoadScenario(t *testing.T) {
	src := `
name: corridor
first: goblins
commander_health: 5
rows:
  - "#####"
  - "#M.G#"
  - "#####"
`
	s, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "corridor", s.Name)

	first, err := s.FirstFaction()
	require.NoError(t, err)
	assert.Equal(t, core.Goblins, first)

	b, err := s.Board()
	require.NoError(t, err)
	assert.Equal(t, "#####\n#M.G#\n#####", b.String())

	u, _ := b.UnitAt(core.Coordinate{X: 1, Y: 1})
	assert.Equal(t, 5, u.Health)
}

func TestLoadScenario_RejectsUnknownFields(t *testing.T) {
	_, err := Load(strings.NewReader("name: x\nwidth: 4\n"))
	assert.Error(t, err)
}

func TestLoadScenario_BadRows(t *testing.T) {
	s, err := Load(strings.NewReader("name: broken\nrows: [\"..\", \".\"]\n"))
	require.NoError(t, err)
	_, err = s.Board()
	assert.True(t, errors.Is(err, ErrRaggedRows))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "duel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: duel\nrows:\n  - \"M..G\"\n"), 0644))

	s, err := LoadFile(path)
	require.NoError(t, err)

	first, err := s.FirstFaction()
	require.NoError(t, err)
	assert.Equal(t, core.Mice, first)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestShippedScenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "..", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			s, err := LoadFile(path)
			require.NoError(t, err)

			b, err := s.Board()
			require.NoError(t, err)
			_, err = s.FirstFaction()
			require.NoError(t, err)

			for _, f := range core.Factions {
				_, _, ok := b.Commander(f)
				assert.True(t, ok, "%s needs a %s commander", s.Name, f)
			}
			assert.Equal(t, core.NoFaction, b.CheckVictory())
		})
	}
}
