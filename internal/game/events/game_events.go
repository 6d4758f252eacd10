package events

import (
	"time"

	"github.com/mitchelldurbincs/GoblinTactics/internal/game/core"
)

// Event type constants
const (
	TypeMatchStarted    = "match.started"
	TypeMatchEnded      = "match.ended"
	TypeTurnResolved    = "turn.resolved"
	TypeUnitMoved       = "unit.moved"
	TypeUnitDeployed    = "unit.deployed"
	TypeUnitAttacked    = "unit.attacked"
	TypeUnitKilled      = "unit.killed"
	TypeStateTransition = "state.transition"
)

// MatchStartedEvent is published when a match leaves setup
type MatchStartedEvent struct {
	BaseEvent
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	First       string `json:"first"`
	MiceUnits   int    `json:"mice_units"`
	GoblinUnits int    `json:"goblin_units"`
}

// NewMatchStartedEvent creates a new MatchStartedEvent
func NewMatchStartedEvent(matchID string, b *core.Board, first core.Faction) *MatchStartedEvent {
	return &MatchStartedEvent{
		BaseEvent:   newBase(TypeMatchStarted, matchID),
		Width:       b.W,
		Height:      b.H,
		First:       first.String(),
		MiceUnits:   b.CountUnits(core.Mice),
		GoblinUnits: b.CountUnits(core.Goblins),
	}
}

// MatchEndedEvent is published once, when a match reaches its end phase.
// Winner is empty for a draw.
type MatchEndedEvent struct {
	BaseEvent
	Winner    string        `json:"winner,omitempty"`
	Reason    string        `json:"reason"`
	FinalTurn int           `json:"final_turn"`
	Duration  time.Duration `json:"duration"`
}

// NewMatchEndedEvent creates a new MatchEndedEvent
func NewMatchEndedEvent(matchID string, winner core.Faction, reason string, finalTurn int, duration time.Duration) *MatchEndedEvent {
	e := &MatchEndedEvent{
		BaseEvent: newBase(TypeMatchEnded, matchID),
		Reason:    reason,
		FinalTurn: finalTurn,
		Duration:  duration,
	}
	if winner.IsPlayable() {
		e.Winner = winner.String()
	}
	return e
}

// TurnResolvedEvent summarizes one applied turn. Passed is set when the
// faction to move had no legal move.
type TurnResolvedEvent struct {
	BaseEvent
	Metadata TurnMetadata `json:"metadata"`
	Move     string       `json:"move,omitempty"`
	Summon   bool         `json:"summon,omitempty"`
	Passed   bool         `json:"passed,omitempty"`
	Attacks  int          `json:"attacks"`
	Kills    int          `json:"kills"`
}

// NewTurnResolvedEvent creates a new TurnResolvedEvent
func NewTurnResolvedEvent(matchID string, turn int, f core.Faction, m *core.Move, log *core.ActionLog) *TurnResolvedEvent {
	e := &TurnResolvedEvent{
		BaseEvent: newBase(TypeTurnResolved, matchID),
		Metadata:  TurnMetadata{Turn: turn, Faction: f.String()},
		Passed:    m == nil,
		Attacks:   len(log.Of(core.ActionAttacked)),
		Kills:     len(log.Of(core.ActionKilled)),
	}
	if m != nil {
		e.Move = m.String()
		e.Summon = m.Summon
	}
	return e
}

// UnitMovedEvent is published when a unit slides to a new cell
type UnitMovedEvent struct {
	BaseEvent
	Metadata TurnMetadata    `json:"metadata"`
	UnitID   int             `json:"unit_id"`
	From     core.Coordinate `json:"from"`
	To       core.Coordinate `json:"to"`
}

// UnitDeployedEvent is published when a commander deploys a new unit
type UnitDeployedEvent struct {
	BaseEvent
	Metadata    TurnMetadata    `json:"metadata"`
	UnitID      int             `json:"unit_id"`
	CommanderAt core.Coordinate `json:"commander_at"`
	At          core.Coordinate `json:"at"`
}

// UnitAttackedEvent is published for every hit landed during combat
type UnitAttackedEvent struct {
	BaseEvent
	Metadata   TurnMetadata    `json:"metadata"`
	AttackerID int             `json:"attacker_id"`
	From       core.Coordinate `json:"from"`
	Target     core.Coordinate `json:"target"`
}

// UnitKilledEvent is published when a unit is swept from the board
type UnitKilledEvent struct {
	BaseEvent
	Metadata TurnMetadata    `json:"metadata"`
	UnitID   int             `json:"unit_id"`
	At       core.Coordinate `json:"at"`
}

// FromActions converts an action log into unit events, preserving its order
func FromActions(matchID string, turn int, f core.Faction, log *core.ActionLog) []Event {
	if log == nil {
		return nil
	}
	meta := TurnMetadata{Turn: turn, Faction: f.String()}
	out := make([]Event, 0, len(log.Actions))
	for _, a := range log.Actions {
		switch a.Kind {
		case core.ActionMoved:
			out = append(out, &UnitMovedEvent{
				BaseEvent: newBase(TypeUnitMoved, matchID),
				Metadata:  meta,
				UnitID:    a.UnitID,
				From:      a.From,
				To:        a.To,
			})
		case core.ActionDeployed:
			out = append(out, &UnitDeployedEvent{
				BaseEvent:   newBase(TypeUnitDeployed, matchID),
				Metadata:    meta,
				UnitID:      a.UnitID,
				CommanderAt: a.From,
				At:          a.To,
			})
		case core.ActionAttacked:
			out = append(out, &UnitAttackedEvent{
				BaseEvent:  newBase(TypeUnitAttacked, matchID),
				Metadata:   meta,
				AttackerID: a.UnitID,
				From:       a.From,
				Target:     a.To,
			})
		case core.ActionKilled:
			out = append(out, &UnitKilledEvent{
				BaseEvent: newBase(TypeUnitKilled, matchID),
				Metadata:  meta,
				UnitID:    a.UnitID,
				At:        a.From,
			})
		}
	}
	return out
}

// StateTransitionEvent is published when the match changes phase
type StateTransitionEvent struct {
	BaseEvent
	FromPhase string `json:"from_phase"`
	ToPhase   string `json:"to_phase"`
	Reason    string `json:"reason"`
}

// NewStateTransitionEvent creates a new StateTransitionEvent
func NewStateTransitionEvent(matchID, fromPhase, toPhase, reason string) *StateTransitionEvent {
	return &StateTransitionEvent{
		BaseEvent: newBase(TypeStateTransition, matchID),
		FromPhase: fromPhase,
		ToPhase:   toPhase,
		Reason:    reason,
	}
}
