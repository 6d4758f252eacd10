package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAttacks_DirectionPriority(t *testing.T) {
	// commander to the west, regular unit to the east of the mouse
	b := boardFromRows("GmG")
	setHealth(t, b, Coordinate{2, 0}, 1)
	b.T[b.Idx(2, 0)].Unit.Commander = false

	hits := b.ResolveAttacks(Mice, nil)
	require.Equal(t, 1, hits)

	west, _ := b.UnitAt(Coordinate{0, 0})
	east, _ := b.UnitAt(Coordinate{2, 0})
	assert.Equal(t, DefaultCommanderHealth-1, west.Health, "west target is hit first")
	assert.Equal(t, 1, east.Health, "east target is untouched")
}

func TestAttackFrom_PriorityOrder(t *testing.T) {
	tests := []struct {
		name   string
		rows   []string
		target Coordinate
	}{
		{"west beats east", []string{".....", ".gmg.", "....."}, Coordinate{1, 1}},
		{"east beats north", []string{"..g..", "..mg.", "....."}, Coordinate{3, 1}},
		{"north beats south", []string{"..g..", "..m..", "..g.."}, Coordinate{2, 0}},
		{"south alone", []string{".....", "..m..", "..g.."}, Coordinate{2, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardFromRows(tt.rows...)
			log := &ActionLog{}
			hit, err := b.AttackFrom(Coordinate{2, 1}, log)
			require.NoError(t, err)
			require.True(t, hit)

			u, _ := b.UnitAt(tt.target)
			assert.Equal(t, 0, u.Health)
			require.Equal(t, 1, log.Len())
			assert.Equal(t, tt.target, log.Actions[0].To)

			damaged := 0
			for _, c := range b.UnitCoords(Goblins) {
				if u, _ := b.UnitAt(c); u.Health < DefaultUnitHealth {
					damaged++
				}
			}
			assert.Equal(t, 1, damaged, "a unit never hits more than one enemy")
		})
	}
}

func TestAttackFrom_IgnoresFriendsAndWalls(t *testing.T) {
	b := boardFromRows(
		"#m#",
		"mmm",
	)
	hit, err := b.AttackFrom(Coordinate{1, 1}, nil)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestAttackFrom_EmptySource(t *testing.T) {
	b := boardFromRows("m.g")
	_, err := b.AttackFrom(Coordinate{1, 0}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptySource))

	_, err = b.AttackFrom(Coordinate{9, 9}, nil)
	assert.True(t, errors.Is(err, ErrEmptySource))
}

func TestResolveAttacks_TargetCanTakeMultipleHits(t *testing.T) {
	b := boardFromRows(
		".m.",
		"mGm",
		".m.",
	)
	hits := b.ResolveAttacks(Mice, nil)
	assert.Equal(t, 4, hits)

	u, _ := b.UnitAt(Coordinate{1, 1})
	assert.Equal(t, DefaultCommanderHealth-4, u.Health)
}

func TestSweepDeaths(t *testing.T) {
	b := boardFromRows("mgmgM")
	setHealth(t, b, Coordinate{0, 0}, 0)
	setHealth(t, b, Coordinate{2, 0}, -3)
	setHealth(t, b, Coordinate{1, 0}, 0)
	setHealth(t, b, Coordinate{4, 0}, 0)

	log := &ActionLog{}
	removed := b.SweepDeaths(Mice, log)

	assert.Equal(t, 3, removed)
	assert.Len(t, log.Of(ActionKilled), 3)
	for _, c := range b.UnitCoords(Mice) {
		u, _ := b.UnitAt(c)
		assert.True(t, u.Health > 0, "unit at %s should have been swept", c)
	}
	assert.Equal(t, ".g.g.", b.String())

	// goblins were not swept even with zero health
	u, ok := b.UnitAt(Coordinate{1, 0})
	require.True(t, ok)
	assert.Equal(t, 0, u.Health)
}

func TestCheckVictory(t *testing.T) {
	tests := []struct {
		name     string
		rows     []string
		mutate   func(b *Board)
		expected Faction
	}{
		{"both commanders alive", []string{"M.G"}, nil, NoFaction},
		{"no commanders", []string{"m.g"}, nil, NoFaction},
		{"only mice commander", []string{"M.g"}, nil, Mice},
		{"only goblin commander", []string{"m.G"}, nil, Goblins},
		{
			name: "mice commander at zero health",
			rows: []string{"M.G"},
			mutate: func(b *Board) {
				b.T[b.Idx(0, 0)].Unit.Health = 0
			},
			expected: Goblins,
		},
		{
			name: "both at zero health",
			rows: []string{"M.G"},
			mutate: func(b *Board) {
				b.T[b.Idx(0, 0)].Unit.Health = 0
				b.T[b.Idx(2, 0)].Unit.Health = 0
			},
			expected: NoFaction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardFromRows(tt.rows...)
			if tt.mutate != nil {
				tt.mutate(b)
			}
			first := b.CheckVictory()
			assert.Equal(t, tt.expected, first)
			assert.Equal(t, first, b.CheckVictory(), "repeated checks agree")
		})
	}
}

func TestApplyMove_KillingCommanderWins(t *testing.T) {
	b := boardFromRows("M...G")
	b.T[b.Idx(4, 0)].Unit.Health = 1

	next, err := ApplyMove(b, Move{From: Coordinate{0, 0}, To: Coordinate{3, 0}}, Mice)
	require.NoError(t, err)

	assert.Equal(t, Mice, next.CheckVictory())
	assert.Equal(t, NoFaction, b.CheckVictory())
}
