// Package layout turns placement data (glyph rows, YAML scenarios) into an
// initial board.
//
// Glyphs:
//
//	#  wall            .  empty
//	m  mouse           M  mouse commander
//	g  goblin          G  goblin commander
package layout

import (
	"errors"
	"fmt"

	"github.com/mitchelldurbincs/GoblinTactics/internal/game/core"
)

var (
	ErrEmptyLayout  = errors.New("layout has no cells")
	ErrRaggedRows   = errors.New("layout rows have different lengths")
	ErrUnknownGlyph = errors.New("unknown layout glyph")
)

// Options control the starting health of parsed units
type Options struct {
	UnitHealth      int
	CommanderHealth int
}

// DefaultOptions returns the standard starting health values
func DefaultOptions() Options {
	return Options{
		UnitHealth:      core.DefaultUnitHealth,
		CommanderHealth: core.DefaultCommanderHealth,
	}
}

func (o Options) withDefaults() Options {
	if o.UnitHealth <= 0 {
		o.UnitHealth = core.DefaultUnitHealth
	}
	if o.CommanderHealth <= 0 {
		o.CommanderHealth = core.DefaultCommanderHealth
	}
	return o
}

// Parse builds a board from glyph rows. Row 0 is the top of the board.
// Units are numbered column by column (x outer, y inner).
func Parse(rows []string, opts Options) (*core.Board, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyLayout
	}
	opts = opts.withDefaults()
	w, h := len(rows[0]), len(rows)
	for y, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedRows, y, len(row), w)
		}
	}

	b := core.NewBoard(w, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			c := core.Coordinate{X: x, Y: y}
			switch g := rows[y][x]; g {
			case '.':
			case '#':
				b.SetWall(c)
			case 'm':
				b.PlaceUnit(c, core.Mice, false, opts.UnitHealth)
			case 'M':
				b.PlaceUnit(c, core.Mice, true, opts.CommanderHealth)
			case 'g':
				b.PlaceUnit(c, core.Goblins, false, opts.UnitHealth)
			case 'G':
				b.PlaceUnit(c, core.Goblins, true, opts.CommanderHealth)
			default:
				return nil, fmt.Errorf("%w: %q at %s", ErrUnknownGlyph, g, c)
			}
		}
	}
	return b, nil
}

// MustParse is Parse with default options that panics on error. Meant for
// fixtures and hard-coded layouts.
func MustParse(rows ...string) *core.Board {
	b, err := Parse(rows, DefaultOptions())
	if err != nil {
		panic(err)
	}
	return b
}
