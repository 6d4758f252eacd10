package core

// SlideDestinations returns every empty cell reachable from c along an
// unobstructed orthogonal ray. Rays are walked west, east, north, south and
// each stops before the first non-empty cell.
func (b *Board) SlideDestinations(c Coordinate) []Coordinate {
	var dests []Coordinate
	for _, d := range Directions {
		for next := c.Move(d); b.Classify(next) == TileEmpty; next = next.Move(d) {
			dests = append(dests, next)
		}
	}
	return dests
}

// IsValidMove reports whether to is one of the slide destinations of from
func (b *Board) IsValidMove(from, to Coordinate) bool {
	if from == to || (from.X != to.X && from.Y != to.Y) {
		return false
	}
	for _, d := range b.SlideDestinations(from) {
		if d == to {
			return true
		}
	}
	return false
}

// GenerateMoves returns every legal move for faction f. A commander gets a
// relocation and a deploy move for each of its destinations.
func GenerateMoves(b *Board, f Faction) []Move {
	var moves []Move
	for _, from := range b.UnitCoords(f) {
		dests := b.SlideDestinations(from)
		for _, to := range dests {
			moves = append(moves, Move{From: from, To: to})
		}
		if b.T[from.ToIndex(b.W)].Unit.Commander {
			for _, to := range dests {
				moves = append(moves, Move{From: from, To: to, Summon: true})
			}
		}
	}
	return moves
}

// ApplyMove returns a new board with m applied for f followed by f's attacks
// and the enemy's death sweep. b is never modified.
func ApplyMove(b *Board, m Move, f Faction) (*Board, error) {
	return ApplyMoveLogged(b, m, f, nil)
}

// ApplyMoveLogged is ApplyMove that also records every action into log.
// On error nothing is recorded and no board is returned.
func ApplyMoveLogged(b *Board, m Move, f Faction, log *ActionLog) (*Board, error) {
	if err := validateMove(b, m, f); err != nil {
		return nil, WrapMoveError(f, m, err)
	}

	next := b.Clone()
	from := &next.T[m.From.ToIndex(next.W)]

	if m.Summon {
		u, _ := next.PlaceUnit(m.To, f, false, DefaultUnitHealth)
		log.add(Action{Kind: ActionDeployed, UnitID: u.ID, From: m.From, To: m.To})
	} else {
		u := from.Unit
		next.T[m.To.ToIndex(next.W)] = *from
		*from = Tile{}
		log.add(Action{Kind: ActionMoved, UnitID: u.ID, From: m.From, To: m.To})
	}

	next.ResolveAttacks(f, log)
	next.SweepDeaths(f.Enemy(), log)
	return next, nil
}

func validateMove(b *Board, m Move, f Faction) error {
	if !f.IsPlayable() {
		return ErrInvalidFaction
	}
	u, ok := b.UnitAt(m.From)
	if !ok {
		return ErrEmptySource
	}
	if u.Faction != f {
		return ErrNotOwned
	}
	if m.Summon && !u.Commander {
		return ErrSummonNotCommander
	}
	if !b.IsValidMove(m.From, m.To) {
		return ErrInvalidMove
	}
	return nil
}
