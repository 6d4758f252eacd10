package core

import "fmt"

// Move is a candidate action for one faction.
// A Summon move deploys a new unit at To and leaves the commander at From.
type Move struct {
	From   Coordinate
	To     Coordinate
	Summon bool
}

func (m Move) String() string {
	if m.Summon {
		return fmt.Sprintf("deploy from %s to %s", m.From, m.To)
	}
	return fmt.Sprintf("move from %s to %s", m.From, m.To)
}

// ActionKind represents the type of a logged action
type ActionKind int

const (
	ActionMoved ActionKind = iota
	ActionDeployed
	ActionAttacked
	ActionKilled
)

func (k ActionKind) String() string {
	switch k {
	case ActionMoved:
		return "moved"
	case ActionDeployed:
		return "deployed"
	case ActionAttacked:
		return "attacked"
	case ActionKilled:
		return "killed"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// Action is one semantic event produced while applying a move.
//
//	Moved:    UnitID moved From -> To
//	Deployed: UnitID (the new unit) was deployed by the commander at From onto To
//	Attacked: UnitID at From hit the unit at To
//	Killed:   UnitID died at From (To == From)
type Action struct {
	Kind   ActionKind
	UnitID int
	From   Coordinate
	To     Coordinate
}

// ActionLog collects actions in causal order. A nil *ActionLog records nothing.
type ActionLog struct {
	Actions []Action
}

func (l *ActionLog) add(a Action) {
	if l == nil {
		return
	}
	l.Actions = append(l.Actions, a)
}

// Len returns the number of recorded actions
func (l *ActionLog) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Actions)
}

// Of returns the recorded actions of the given kind, in order
func (l *ActionLog) Of(kind ActionKind) []Action {
	if l == nil {
		return nil
	}
	var out []Action
	for _, a := range l.Actions {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}
