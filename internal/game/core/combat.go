package core

import "fmt"

// AttackFrom makes the unit at c deal 1 damage to the first adjacent enemy
// found west, east, north, then south. Returns whether a hit landed.
func (b *Board) AttackFrom(c Coordinate, log *ActionLog) (bool, error) {
	attacker, ok := b.UnitAt(c)
	if !ok {
		return false, fmt.Errorf("attack from %s: %w", c, ErrEmptySource)
	}
	enemy := attacker.Faction.Enemy()
	for _, d := range Directions {
		target := c.Move(d)
		if b.Classify(target) != TileUnit {
			continue
		}
		t := &b.T[target.ToIndex(b.W)]
		if t.Unit.Faction != enemy {
			continue
		}
		t.Unit.Health--
		log.add(Action{Kind: ActionAttacked, UnitID: attacker.ID, From: c, To: target})
		return true, nil
	}
	return false, nil
}

// ResolveAttacks lets every unit of f attack once, in column-major order.
// Damaged units stay on the board until the next SweepDeaths.
func (b *Board) ResolveAttacks(f Faction, log *ActionLog) int {
	hits := 0
	for _, c := range b.UnitCoords(f) {
		// every coordinate came from UnitCoords so AttackFrom cannot fail here
		if hit, _ := b.AttackFrom(c, log); hit {
			hits++
		}
	}
	return hits
}

// SweepDeaths removes every unit of f whose health dropped to zero or below
func (b *Board) SweepDeaths(f Faction, log *ActionLog) int {
	removed := 0
	for _, c := range b.UnitCoords(f) {
		t := &b.T[c.ToIndex(b.W)]
		if t.Unit.IsAlive() {
			continue
		}
		log.add(Action{Kind: ActionKilled, UnitID: t.Unit.ID, From: c, To: c})
		*t = Tile{}
		removed++
	}
	return removed
}

// CheckVictory returns the faction whose commander is alive while the
// opposing commander is dead or missing. NoFaction if neither or both.
func (b *Board) CheckVictory() Faction {
	mice := b.commanderAlive(Mice)
	goblins := b.commanderAlive(Goblins)
	switch {
	case mice && !goblins:
		return Mice
	case goblins && !mice:
		return Goblins
	default:
		return NoFaction
	}
}

func (b *Board) commanderAlive(f Faction) bool {
	for i := range b.T {
		t := &b.T[i]
		if t.IsOccupied() && t.Unit.Commander && t.Unit.Faction == f && t.Unit.IsAlive() {
			return true
		}
	}
	return false
}
