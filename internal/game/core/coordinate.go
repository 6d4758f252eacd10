package core

import "fmt"

// Coordinate identifies a cell on the board as (column, row).
type Coordinate struct {
	X, Y int
}

// FromIndex creates a coordinate from a board array index using row-major ordering
func FromIndex(idx, width int) Coordinate {
	return Coordinate{
		X: idx % width,
		Y: idx / width,
	}
}

// IsValid checks if the coordinate is within the given bounds
func (c Coordinate) IsValid(width, height int) bool {
	return c.X >= 0 && c.X < width && c.Y >= 0 && c.Y < height
}

// ToIndex converts the coordinate to a board array index using row-major ordering
func (c Coordinate) ToIndex(width int) int {
	return c.Y*width + c.X
}

// Add returns the sum of two coordinates
func (c Coordinate) Add(other Coordinate) Coordinate {
	return Coordinate{X: c.X + other.X, Y: c.Y + other.Y}
}

// Move returns the coordinate one step away in the given direction
func (c Coordinate) Move(d Direction) Coordinate {
	return c.Add(d.Offset())
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Direction is one of the four orthogonal directions.
type Direction int

// The declaration order is the attack priority: west, east, north, south.
// Slide rays are walked in the same order.
const (
	West Direction = iota
	East
	North
	South
)

// Directions lists every direction in priority order
var Directions = [4]Direction{West, East, North, South}

var directionOffsets = [4]Coordinate{
	West:  {X: -1, Y: 0},
	East:  {X: 1, Y: 0},
	North: {X: 0, Y: -1},
	South: {X: 0, Y: 1},
}

// Offset returns the single-step coordinate delta for the direction
func (d Direction) Offset() Coordinate {
	if d < West || d > South {
		return Coordinate{}
	}
	return directionOffsets[d]
}

func (d Direction) String() string {
	switch d {
	case West:
		return "west"
	case East:
		return "east"
	case North:
		return "north"
	case South:
		return "south"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}
