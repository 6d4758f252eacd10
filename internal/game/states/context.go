package states

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/GoblinTactics/internal/game/core"
)

// MatchContext is the match data states read and update during transitions
type MatchContext struct {
	// MatchID uniquely identifies this match
	MatchID string

	// Logger for state-specific logging
	Logger zerolog.Logger

	// Board is the authoritative board; nil until the match is set up
	Board *core.Board

	// Turn counts resolved turns
	Turn int

	// MaxTurns ends the match as a draw once reached; 0 means no limit
	MaxTurns int

	// StartTime is when the first turn was awaited
	StartTime time.Time

	// PauseTime is when the match was paused (if paused)
	PauseTime time.Time

	// TotalPauseDuration tracks total time spent paused
	TotalPauseDuration time.Duration

	// Winner is set once a commander falls
	Winner core.Faction

	// EndReason says why the match ended
	EndReason string
}

// NewMatchContext creates a new match context
func NewMatchContext(matchID string, board *core.Board, maxTurns int, logger zerolog.Logger) *MatchContext {
	return &MatchContext{
		MatchID:  matchID,
		Board:    board,
		MaxTurns: maxTurns,
		Logger:   logger.With().Str("match_id", matchID).Logger(),
		Winner:   core.NoFaction,
	}
}

// TurnLimitReached reports whether MaxTurns turns have been resolved
func (mc *MatchContext) TurnLimitReached() bool {
	return mc.MaxTurns > 0 && mc.Turn >= mc.MaxTurns
}

// ElapsedTime returns the time elapsed since the match started, excluding pauses
func (mc *MatchContext) ElapsedTime() time.Duration {
	if mc.StartTime.IsZero() {
		return 0
	}
	return time.Since(mc.StartTime) - mc.TotalPauseDuration
}
