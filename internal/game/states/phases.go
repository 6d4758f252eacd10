package states

import "fmt"

// MatchPhase represents the current phase of a match
type MatchPhase int

const (
	// PhaseSetup - board loaded, no turn taken yet
	PhaseSetup MatchPhase = iota

	// PhaseAwaitingInput - waiting for the faction to move
	PhaseAwaitingInput

	// PhaseResolved - a turn was just applied
	PhaseResolved

	// PhasePaused - temporary suspension
	PhasePaused

	// PhaseEnded - final state
	PhaseEnded
)

// String returns the string representation of a MatchPhase
func (p MatchPhase) String() string {
	switch p {
	case PhaseSetup:
		return "Setup"
	case PhaseAwaitingInput:
		return "AwaitingInput"
	case PhaseResolved:
		return "Resolved"
	case PhasePaused:
		return "Paused"
	case PhaseEnded:
		return "Ended"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// IsTerminal returns true if the phase represents a terminal state
func (p MatchPhase) IsTerminal() bool {
	return p == PhaseEnded
}

// CanReceiveMoves returns true if the match accepts a move in this phase
func (p MatchPhase) CanReceiveMoves() bool {
	return p == PhaseAwaitingInput
}

// AllowedTransitions returns the valid phases this phase can transition to
func (p MatchPhase) AllowedTransitions() []MatchPhase {
	switch p {
	case PhaseSetup:
		return []MatchPhase{PhaseAwaitingInput}
	case PhaseAwaitingInput:
		return []MatchPhase{PhaseResolved, PhasePaused, PhaseEnded}
	case PhaseResolved:
		return []MatchPhase{PhaseAwaitingInput, PhaseEnded}
	case PhasePaused:
		return []MatchPhase{PhaseAwaitingInput, PhaseEnded}
	default:
		return []MatchPhase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p MatchPhase) CanTransitionTo(target MatchPhase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}

// ParsePhase converts a string to a MatchPhase
func ParsePhase(s string) (MatchPhase, error) {
	for p := PhaseSetup; p <= PhaseEnded; p++ {
		if p.String() == s {
			return p, nil
		}
	}
	return PhaseSetup, fmt.Errorf("unknown match phase %q", s)
}
