package mapgen

import (
	"fmt"
	"math/rand"

	"github.com/mitchelldurbincs/GoblinTactics/internal/game/core"
	"github.com/mitchelldurbincs/GoblinTactics/internal/game/layout"
)

// Smallest map that fits a walled border around both starting areas
const (
	MinWidth  = 5
	MinHeight = 3
)

// MapConfig holds configuration for random scenario generation
type MapConfig struct {
	Width               int
	Height              int
	WallRatio           int // 1 interior wall per N interior cells, 0 for none
	UnitsPerSide        int
	MinCommanderSpacing int
	UnitHealth          int
	CommanderHealth     int
}

// DefaultMapConfig returns a sensible default configuration
func DefaultMapConfig(w, h int) MapConfig {
	return MapConfig{
		Width:               w,
		Height:              h,
		WallRatio:           8,
		UnitsPerSide:        3,
		MinCommanderSpacing: 4,
		UnitHealth:          core.DefaultUnitHealth,
		CommanderHealth:     core.DefaultCommanderHealth,
	}
}

// Generator handles map generation with deterministic RNG
type Generator struct {
	config MapConfig
	rng    *rand.Rand
}

// NewGenerator creates a new map generator
func NewGenerator(config MapConfig, rng *rand.Rand) *Generator {
	return &Generator{
		config: config,
		rng:    rng,
	}
}

// GenerateMap builds a walled board with one commander and UnitsPerSide
// regular units per faction. Mice start on the west half, goblins on the east.
func (g *Generator) GenerateMap() (*core.Board, error) {
	rows, err := g.GenerateRows()
	if err != nil {
		return nil, err
	}
	return layout.Parse(rows, layout.Options{
		UnitHealth:      g.config.UnitHealth,
		CommanderHealth: g.config.CommanderHealth,
	})
}

// GenerateRows produces the layout glyph rows of a random map
func (g *Generator) GenerateRows() ([]string, error) {
	w, h := g.config.Width, g.config.Height
	if w < MinWidth || h < MinHeight {
		return nil, fmt.Errorf("map %dx%d too small: need at least %dx%d", w, h, MinWidth, MinHeight)
	}

	grid := make([][]byte, h)
	for y := range grid {
		grid[y] = make([]byte, w)
		for x := range grid[y] {
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				grid[y][x] = '#'
			} else {
				grid[y][x] = '.'
			}
		}
	}

	g.placeWalls(grid)

	mice, err := g.placeCommander(grid, 'M', 1, w/2, nil)
	if err != nil {
		return nil, err
	}
	goblins, err := g.placeCommander(grid, 'G', (w+1)/2, w-1, []core.Coordinate{mice})
	if err != nil {
		return nil, err
	}
	g.placeUnits(grid, 'm', mice)
	g.placeUnits(grid, 'g', goblins)

	rows := make([]string, h)
	for y := range grid {
		rows[y] = string(grid[y])
	}
	return rows, nil
}

func (g *Generator) placeWalls(grid [][]byte) {
	if g.config.WallRatio <= 0 {
		return
	}
	interior := (g.config.Width - 2) * (g.config.Height - 2)
	want := interior / g.config.WallRatio

	// Use a maximum attempt counter to avoid infinite loops
	maxAttempts := want * 10
	for placed, attempts := 0, 0; placed < want && attempts < maxAttempts; attempts++ {
		x := 1 + g.rng.Intn(g.config.Width-2)
		y := 1 + g.rng.Intn(g.config.Height-2)
		if grid[y][x] == '.' {
			grid[y][x] = '#'
			placed++
		}
	}
}

// placeCommander picks an empty cell with minX <= x < maxX that keeps the
// minimum spacing from the already placed commanders.
func (g *Generator) placeCommander(grid [][]byte, glyph byte, minX, maxX int, existing []core.Coordinate) (core.Coordinate, error) {
	h := g.config.Height
	maxAttempts := g.config.Width * h
	for attempts := 0; attempts < maxAttempts; attempts++ {
		c := core.Coordinate{X: minX + g.rng.Intn(maxX-minX), Y: 1 + g.rng.Intn(h-2)}
		if grid[c.Y][c.X] != '.' || !g.spaced(c, existing) {
			continue
		}
		grid[c.Y][c.X] = glyph
		return c, nil
	}

	// Fallback: first valid cell in the half, ignoring spacing
	for x := minX; x < maxX; x++ {
		for y := 1; y < h-1; y++ {
			if grid[y][x] == '.' {
				grid[y][x] = glyph
				return core.Coordinate{X: x, Y: y}, nil
			}
		}
	}
	return core.Coordinate{}, fmt.Errorf("unable to place commander %q: no empty cell", glyph)
}

func (g *Generator) spaced(c core.Coordinate, existing []core.Coordinate) bool {
	for _, other := range existing {
		dx, dy := c.X-other.X, c.Y-other.Y
		if dx < 0 {
			dx = -dx
		}
		if dy < 0 {
			dy = -dy
		}
		if dx+dy < g.config.MinCommanderSpacing {
			return false
		}
	}
	return true
}

// placeUnits scatters regular units on empty cells near the commander,
// widening the search ring until enough cells are found.
func (g *Generator) placeUnits(grid [][]byte, glyph byte, commander core.Coordinate) {
	placed := 0
	for radius := 1; placed < g.config.UnitsPerSide && radius < g.config.Width+g.config.Height; radius++ {
		var ring []core.Coordinate
		for y := commander.Y - radius; y <= commander.Y+radius; y++ {
			for x := commander.X - radius; x <= commander.X+radius; x++ {
				if y <= 0 || x <= 0 || y >= g.config.Height-1 || x >= g.config.Width-1 {
					continue
				}
				if grid[y][x] == '.' {
					ring = append(ring, core.Coordinate{X: x, Y: y})
				}
			}
		}
		g.rng.Shuffle(len(ring), func(i, j int) { ring[i], ring[j] = ring[j], ring[i] })
		for _, c := range ring {
			if placed == g.config.UnitsPerSide {
				break
			}
			grid[c.Y][c.X] = glyph
			placed++
		}
	}
}
