package core

import "fmt"

// Faction is one of the two playable sides.
type Faction int

const (
	NoFaction Faction = iota
	Mice
	Goblins
)

const (
	DefaultUnitHealth      = 1
	DefaultCommanderHealth = 10
)

// Factions lists the playable factions in turn order
var Factions = [2]Faction{Mice, Goblins}

// IsPlayable reports whether f is Mice or Goblins
func (f Faction) IsPlayable() bool { return f == Mice || f == Goblins }

// Enemy returns the opposing playable faction. NoFaction has no enemy.
func (f Faction) Enemy() Faction {
	switch f {
	case Mice:
		return Goblins
	case Goblins:
		return Mice
	default:
		return NoFaction
	}
}

func (f Faction) String() string {
	switch f {
	case NoFaction:
		return "none"
	case Mice:
		return "mice"
	case Goblins:
		return "goblins"
	default:
		return fmt.Sprintf("Faction(%d)", int(f))
	}
}

// ParseFaction converts a faction name to a Faction
func ParseFaction(s string) (Faction, error) {
	switch s {
	case "mice", "mouse", "Mice":
		return Mice, nil
	case "goblins", "goblin", "Goblins":
		return Goblins, nil
	default:
		return NoFaction, fmt.Errorf("%w: %q", ErrInvalidFaction, s)
	}
}

// Unit is a piece occupying a single cell.
// ID is stable across board clones so callers can track a unit between turns.
type Unit struct {
	ID        int
	Faction   Faction
	Commander bool
	Health    int
}

// IsAlive reports whether the unit still has health left
func (u Unit) IsAlive() bool { return u.Health > 0 }
