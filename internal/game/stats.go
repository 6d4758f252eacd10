package game

import "github.com/mitchelldurbincs/GoblinTactics/internal/game/core"

// FactionStats are the running totals for one faction
type FactionStats struct {
	Units           int // living units, commander included
	CommanderHealth int // 0 once the commander is gone
	Deployed        int
	HitsLanded      int
	Losses          int
}

// Stats tracks both factions across a match
type Stats struct {
	Mice    FactionStats
	Goblins FactionStats
	Turns   int
}

// For returns the totals of f
func (s *Stats) For(f core.Faction) *FactionStats {
	if f == core.Goblins {
		return &s.Goblins
	}
	return &s.Mice
}

func newStats(b *core.Board) *Stats {
	s := &Stats{}
	s.refresh(b)
	return s
}

// record folds one turn by f into the totals and rescans the board.
// Only f's units attack and only the enemy is swept.
func (s *Stats) record(b *core.Board, f core.Faction, log *core.ActionLog) {
	s.Turns++
	mover := s.For(f)
	mover.Deployed += len(log.Of(core.ActionDeployed))
	mover.HitsLanded += len(log.Of(core.ActionAttacked))
	s.For(f.Enemy()).Losses += len(log.Of(core.ActionKilled))
	s.refresh(b)
}

func (s *Stats) refresh(b *core.Board) {
	for _, f := range core.Factions {
		fs := s.For(f)
		fs.Units = b.CountUnits(f)
		fs.CommanderHealth = 0
		if u, _, ok := b.Commander(f); ok {
			fs.CommanderHealth = u.Health
		}
	}
}

func (s *Stats) snapshot() Stats {
	return *s
}
