package states

import (
	"errors"
	"time"
)

var (
	ErrNoBoard       = errors.New("match has no board")
	ErrAlreadyWon    = errors.New("match already has a winner")
	ErrNoEndReason   = errors.New("match cannot end without a reason")
	ErrNeverStarted  = errors.New("match has not started")
	ErrTurnLimit     = errors.New("turn limit reached")
)

// SetupState holds a freshly loaded board
type SetupState struct{}

func NewSetupState() State {
	return &SetupState{}
}

func (s *SetupState) Phase() MatchPhase {
	return PhaseSetup
}

func (s *SetupState) Enter(ctx *MatchContext) error {
	ctx.Logger.Debug().Msg("Entering Setup state")
	return nil
}

func (s *SetupState) Exit(ctx *MatchContext) error {
	ctx.StartTime = time.Now()
	ctx.Logger.Info().
		Int("width", ctx.Board.W).
		Int("height", ctx.Board.H).
		Msg("Match setup complete")
	return nil
}

func (s *SetupState) Validate(ctx *MatchContext) error {
	return nil
}

// AwaitingInputState waits for the side to move
type AwaitingInputState struct{}

func NewAwaitingInputState() State {
	return &AwaitingInputState{}
}

func (s *AwaitingInputState) Phase() MatchPhase {
	return PhaseAwaitingInput
}

func (s *AwaitingInputState) Enter(ctx *MatchContext) error {
	ctx.Logger.Debug().Int("turn", ctx.Turn).Msg("Awaiting input")
	return nil
}

func (s *AwaitingInputState) Exit(ctx *MatchContext) error {
	return nil
}

func (s *AwaitingInputState) Validate(ctx *MatchContext) error {
	switch {
	case ctx.Board == nil:
		return ErrNoBoard
	case ctx.Winner.IsPlayable():
		return ErrAlreadyWon
	case ctx.TurnLimitReached():
		return ErrTurnLimit
	}
	return nil
}

// ResolvedState follows every applied turn
type ResolvedState struct{}

func NewResolvedState() State {
	return &ResolvedState{}
}

func (s *ResolvedState) Phase() MatchPhase {
	return PhaseResolved
}

func (s *ResolvedState) Enter(ctx *MatchContext) error {
	ctx.Turn++
	ctx.Logger.Debug().Int("turn", ctx.Turn).Msg("Turn resolved")
	return nil
}

func (s *ResolvedState) Exit(ctx *MatchContext) error {
	return nil
}

func (s *ResolvedState) Validate(ctx *MatchContext) error {
	if ctx.Board == nil {
		return ErrNoBoard
	}
	return nil
}

// PausedState represents a paused match
type PausedState struct{}

func NewPausedState() State {
	return &PausedState{}
}

func (s *PausedState) Phase() MatchPhase {
	return PhasePaused
}

func (s *PausedState) Enter(ctx *MatchContext) error {
	ctx.PauseTime = time.Now()
	ctx.Logger.Info().
		Time("pause_time", ctx.PauseTime).
		Msg("Match paused")
	return nil
}

func (s *PausedState) Exit(ctx *MatchContext) error {
	if !ctx.PauseTime.IsZero() {
		pauseDuration := time.Since(ctx.PauseTime)
		ctx.TotalPauseDuration += pauseDuration
		ctx.PauseTime = time.Time{}
		ctx.Logger.Info().
			Dur("pause_duration", pauseDuration).
			Dur("total_pause_duration", ctx.TotalPauseDuration).
			Msg("Match resumed")
	}
	return nil
}

func (s *PausedState) Validate(ctx *MatchContext) error {
	if ctx.StartTime.IsZero() {
		return ErrNeverStarted
	}
	return nil
}

// EndedState represents a finished match
type EndedState struct{}

func NewEndedState() State {
	return &EndedState{}
}

func (s *EndedState) Phase() MatchPhase {
	return PhaseEnded
}

func (s *EndedState) Enter(ctx *MatchContext) error {
	ctx.Logger.Info().
		Str("winner", ctx.Winner.String()).
		Str("reason", ctx.EndReason).
		Int("turns", ctx.Turn).
		Dur("match_duration", ctx.ElapsedTime()).
		Msg("Match ended")
	return nil
}

func (s *EndedState) Exit(ctx *MatchContext) error {
	return nil
}

func (s *EndedState) Validate(ctx *MatchContext) error {
	if ctx.EndReason == "" {
		return ErrNoEndReason
	}
	return nil
}
