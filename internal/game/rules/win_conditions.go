package rules

import (
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/GoblinTactics/internal/game/core"
)

// End reasons reported by the checker
const (
	ReasonCommanderDefeated = "commander defeated"
	ReasonStalemate         = "stalemate"
	ReasonTurnLimit         = "turn limit"
)

// StalematePasses is how many consecutive passes end a match
const StalematePasses = 2

// Outcome is the verdict after a turn
type Outcome struct {
	Over   bool
	Winner core.Faction // NoFaction for a draw
	Reason string
}

// TurnState is what the checker needs to know besides the board
type TurnState struct {
	Turn     int // resolved turns, including the one just played
	MaxTurns int // 0 means no limit
	Passes   int // consecutive turns without a move
}

// WinConditionChecker handles match over detection and winner determination
type WinConditionChecker struct {
	logger zerolog.Logger
}

// NewWinConditionChecker creates a new win condition checker
func NewWinConditionChecker(logger zerolog.Logger) *WinConditionChecker {
	return &WinConditionChecker{
		logger: logger.With().Str("component", "WinConditionChecker").Logger(),
	}
}

// Check decides whether the match is over. A fallen commander wins over
// every other condition; stalemate is checked before the turn limit.
func (wc *WinConditionChecker) Check(b *core.Board, ts TurnState) Outcome {
	var out Outcome
	switch winner := b.CheckVictory(); {
	case winner.IsPlayable():
		out = Outcome{Over: true, Winner: winner, Reason: ReasonCommanderDefeated}
	case ts.Passes >= StalematePasses:
		out = Outcome{Over: true, Winner: core.NoFaction, Reason: ReasonStalemate}
	case ts.MaxTurns > 0 && ts.Turn >= ts.MaxTurns:
		out = Outcome{Over: true, Winner: core.NoFaction, Reason: ReasonTurnLimit}
	default:
		out = Outcome{Winner: core.NoFaction}
	}

	if out.Over {
		wc.logger.Info().
			Str("winner", out.Winner.String()).
			Str("reason", out.Reason).
			Int("turn", ts.Turn).
			Msg("Match over")
	} else {
		wc.logger.Debug().
			Int("turn", ts.Turn).
			Int("passes", ts.Passes).
			Msg("Match continues")
	}
	return out
}
