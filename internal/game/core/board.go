package core

import "strings"

// TileType classifies a cell.
type TileType int

const (
	TileEmpty TileType = iota
	TileWall
	TileUnit
)

// Tile represents a single cell on the map.
// Unit is only meaningful when Type is TileUnit.
type Tile struct {
	Type TileType
	Unit Unit
}

func (t *Tile) IsEmpty() bool    { return t.Type == TileEmpty }
func (t *Tile) IsWall() bool     { return t.Type == TileWall }
func (t *Tile) IsOccupied() bool { return t.Type == TileUnit }

type Board struct {
	W, H   int
	T      []Tile // length = W*H (row-major)
	NextID int    // identity handed to the next unit placed on the board
}

func NewBoard(w, h int) *Board {
	return &Board{W: w, H: h, T: make([]Tile, w*h)}
}

func (b *Board) Idx(x, y int) int { return y*b.W + x }

// InBounds checks if coordinates are within board boundaries
func (b *Board) InBounds(c Coordinate) bool {
	return c.IsValid(b.W, b.H)
}

// Clone returns a deep copy of the board. Tiles are values so a slice copy is enough.
func (b *Board) Clone() *Board {
	t := make([]Tile, len(b.T))
	copy(t, b.T)
	return &Board{W: b.W, H: b.H, T: t, NextID: b.NextID}
}

// Classify returns the tile type at c. Anything outside the board is a wall.
func (b *Board) Classify(c Coordinate) TileType {
	if !b.InBounds(c) {
		return TileWall
	}
	return b.T[c.ToIndex(b.W)].Type
}

// UnitAt returns the unit at c, if any
func (b *Board) UnitAt(c Coordinate) (Unit, bool) {
	if b.Classify(c) != TileUnit {
		return Unit{}, false
	}
	return b.T[c.ToIndex(b.W)].Unit, true
}

// SetWall marks c as permanently blocked
func (b *Board) SetWall(c Coordinate) {
	if b.InBounds(c) {
		b.T[c.ToIndex(b.W)] = Tile{Type: TileWall}
	}
}

// Clear empties c unless it is a wall
func (b *Board) Clear(c Coordinate) {
	if b.InBounds(c) && !b.T[c.ToIndex(b.W)].IsWall() {
		b.T[c.ToIndex(b.W)] = Tile{}
	}
}

// PlaceUnit puts a new unit of faction f on c and assigns it a fresh identity.
// Returns false if c is not an empty in-bounds cell.
func (b *Board) PlaceUnit(c Coordinate, f Faction, commander bool, health int) (Unit, bool) {
	if b.Classify(c) != TileEmpty {
		return Unit{}, false
	}
	u := Unit{ID: b.NextID, Faction: f, Commander: commander, Health: health}
	b.NextID++
	b.T[c.ToIndex(b.W)] = Tile{Type: TileUnit, Unit: u}
	return u, true
}

// FindUnit returns the coordinate of the unit with the given identity
func (b *Board) FindUnit(id int) (Coordinate, bool) {
	for i := range b.T {
		if b.T[i].IsOccupied() && b.T[i].Unit.ID == id {
			return FromIndex(i, b.W), true
		}
	}
	return Coordinate{}, false
}

// Commander returns the first commander of f found on the board
func (b *Board) Commander(f Faction) (Unit, Coordinate, bool) {
	for i := range b.T {
		t := &b.T[i]
		if t.IsOccupied() && t.Unit.Commander && t.Unit.Faction == f {
			return t.Unit, FromIndex(i, b.W), true
		}
	}
	return Unit{}, Coordinate{}, false
}

// UnitCoords returns the coordinates of every unit of f in column-major order,
// the order units were numbered in when the board was loaded.
func (b *Board) UnitCoords(f Faction) []Coordinate {
	var coords []Coordinate
	for x := 0; x < b.W; x++ {
		for y := 0; y < b.H; y++ {
			t := &b.T[b.Idx(x, y)]
			if t.IsOccupied() && t.Unit.Faction == f {
				coords = append(coords, Coordinate{X: x, Y: y})
			}
		}
	}
	return coords
}

// CountUnits returns how many units of f are on the board
func (b *Board) CountUnits(f Faction) int {
	n := 0
	for i := range b.T {
		if b.T[i].IsOccupied() && b.T[i].Unit.Faction == f {
			n++
		}
	}
	return n
}

// String dumps the board in the layout glyphs, one row per line.
func (b *Board) String() string {
	var sb strings.Builder
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			sb.WriteByte(Glyph(b.T[b.Idx(x, y)]))
		}
		if y < b.H-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Glyph returns the single-character layout symbol for a tile
func Glyph(t Tile) byte {
	switch t.Type {
	case TileWall:
		return '#'
	case TileUnit:
		var g byte = '?'
		switch t.Unit.Faction {
		case Mice:
			g = 'm'
		case Goblins:
			g = 'g'
		}
		if t.Unit.Commander && g != '?' {
			g -= 'a' - 'A'
		}
		return g
	default:
		return '.'
	}
}
