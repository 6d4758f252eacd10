package game

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/GoblinTactics/internal/game/core"
	"github.com/mitchelldurbincs/GoblinTactics/internal/game/events"
	"github.com/mitchelldurbincs/GoblinTactics/internal/game/rules"
	"github.com/mitchelldurbincs/GoblinTactics/internal/game/states"
)

var (
	ErrMatchOver     = errors.New("match is over")
	ErrWrongPhase    = errors.New("match is not accepting that request in its current phase")
	ErrNotYourTurn   = errors.New("not this faction's turn")
	ErrSearchTimeout = errors.New("search did not finish before the deadline")
	ErrNoBoard       = errors.New("match needs a board")
)

// End reasons carried by match.ended events
const (
	ReasonCommanderDefeated = rules.ReasonCommanderDefeated
	ReasonTurnLimit         = rules.ReasonTurnLimit
	ReasonStalemate         = rules.ReasonStalemate
	ReasonStopped           = "stopped"
)

// Match drives one game between the two factions. It owns the authoritative
// board and swaps it for the board returned by each applied move.
// All methods are safe for concurrent use. Event subscribers run while the
// match is locked and must not call back into it.
type Match struct {
	mu sync.Mutex

	id       string
	board    *core.Board
	toMove   core.Faction
	passes   int
	record   *core.ActionLog
	stats    *Stats
	inflight chan struct{}

	ctx     *states.MatchContext
	sm      *states.StateMachine
	referee *rules.WinConditionChecker
	bus     *events.EventBus
	logger  zerolog.Logger
	base    zerolog.Logger
}

// Option configures a match
type Option func(*matchOptions)

type matchOptions struct {
	id       string
	first    core.Faction
	maxTurns int
	bus      *events.EventBus
	logger   zerolog.Logger
}

// WithID overrides the generated match ID
func WithID(id string) Option {
	return func(o *matchOptions) { o.id = id }
}

// WithFirst sets the faction that moves first. Mice by default.
func WithFirst(f core.Faction) Option {
	return func(o *matchOptions) {
		if f.IsPlayable() {
			o.first = f
		}
	}
}

// WithMaxTurns ends the match as a draw after n resolved turns. 0 disables the limit.
func WithMaxTurns(n int) Option {
	return func(o *matchOptions) {
		if n >= 0 {
			o.maxTurns = n
		}
	}
}

// WithEventBus publishes match events on bus instead of a private bus
func WithEventBus(bus *events.EventBus) Option {
	return func(o *matchOptions) { o.bus = bus }
}

// WithLogger sets the parent logger
func WithLogger(l zerolog.Logger) Option {
	return func(o *matchOptions) { o.logger = l }
}

// NewMatch creates a match in the Setup phase. The board is cloned.
func NewMatch(board *core.Board, opts ...Option) (*Match, error) {
	if board == nil {
		return nil, ErrNoBoard
	}
	o := matchOptions{
		first:  core.Mice,
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}
	if o.bus == nil {
		o.bus = events.NewEventBus()
	}

	logger := o.logger.With().Str("component", "match").Logger()
	b := board.Clone()
	mctx := states.NewMatchContext(o.id, b, o.maxTurns, logger)

	m := &Match{
		id:      o.id,
		board:   b,
		toMove:  o.first,
		stats:   newStats(b),
		ctx:     mctx,
		sm:      states.NewStateMachine(mctx, o.bus),
		referee: rules.NewWinConditionChecker(mctx.Logger),
		bus:     o.bus,
		logger:  mctx.Logger,
		base:    o.logger.With().Str("match_id", o.id).Logger(),
	}
	return m, nil
}

// Start leaves Setup and waits for the first move
func (m *Match) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sm.CurrentPhase() != states.PhaseSetup {
		return fmt.Errorf("%w: start in %s", ErrWrongPhase, m.sm.CurrentPhase())
	}
	m.bus.Publish(events.NewMatchStartedEvent(m.id, m.board, m.toMove))
	if err := m.sm.TransitionTo(states.PhaseAwaitingInput, "match started"); err != nil {
		return err
	}
	m.logger.Info().
		Int("width", m.board.W).
		Int("height", m.board.H).
		Str("first", m.toMove.String()).
		Int("max_turns", m.ctx.MaxTurns).
		Msg("Match started")
	return nil
}

// Pause suspends a match that is waiting for input
func (m *Match) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkPhase(states.PhaseAwaitingInput); err != nil {
		return err
	}
	return m.sm.TransitionTo(states.PhasePaused, "paused")
}

// Resume continues a paused match
func (m *Match) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkPhase(states.PhasePaused); err != nil {
		return err
	}
	return m.sm.TransitionTo(states.PhaseAwaitingInput, "resumed")
}

// Stop ends the match without a winner
func (m *Match) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	phase := m.sm.CurrentPhase()
	if phase == states.PhaseEnded {
		return ErrMatchOver
	}
	if phase == states.PhaseSetup {
		return fmt.Errorf("%w: stop in %s", ErrWrongPhase, phase)
	}
	return m.end(core.NoFaction, ReasonStopped)
}

func (m *Match) checkPhase(want states.MatchPhase) error {
	phase := m.sm.CurrentPhase()
	switch {
	case phase == want:
		return nil
	case phase.IsTerminal():
		return ErrMatchOver
	default:
		return fmt.Errorf("%w: %s", ErrWrongPhase, phase)
	}
}

// end moves to Ended and announces the result. Callers hold m.mu.
func (m *Match) end(winner core.Faction, reason string) error {
	m.ctx.Winner = winner
	m.ctx.EndReason = reason
	if err := m.sm.TransitionTo(states.PhaseEnded, reason); err != nil {
		return err
	}
	m.bus.Publish(events.NewMatchEndedEvent(m.id, winner, reason, m.ctx.Turn, m.ctx.ElapsedTime()))
	return nil
}

// Logger returns the parent logger tagged with the match ID. Strategies
// playing in this match take it through search.WithLogger.
func (m *Match) Logger() zerolog.Logger { return m.base }

// ID returns the match ID
func (m *Match) ID() string { return m.id }

// Events returns the bus the match publishes on
func (m *Match) Events() *events.EventBus { return m.bus }

// Board returns a copy of the authoritative board
func (m *Match) Board() *core.Board {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.board.Clone()
}

// ToMove returns the faction whose turn it is
func (m *Match) ToMove() core.Faction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.toMove
}

// Turn returns the number of resolved turns
func (m *Match) Turn() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ctx.Turn
}

// Phase returns the current match phase
func (m *Match) Phase() states.MatchPhase {
	return m.sm.CurrentPhase()
}

// Winner returns the winning faction, or NoFaction while undecided or drawn
func (m *Match) Winner() core.Faction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ctx.Winner
}

// EndReason is empty until the match ends
func (m *Match) EndReason() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ctx.EndReason
}

// LegalMoves returns the moves available to the faction to move
func (m *Match) LegalMoves() []core.Move {
	m.mu.Lock()
	defer m.mu.Unlock()
	return core.GenerateMoves(m.board, m.toMove)
}

// LastRecord returns the action log of the most recent turn, or nil
func (m *Match) LastRecord() *core.ActionLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.record == nil {
		return nil
	}
	return &core.ActionLog{Actions: append([]core.Action(nil), m.record.Actions...)}
}

// Stats returns a snapshot of the running totals
func (m *Match) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats.snapshot()
}

// History returns the phase transitions so far
func (m *Match) History() []states.Transition {
	return m.sm.History()
}

// Elapsed returns the time since Start, excluding pauses
func (m *Match) Elapsed() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ctx.ElapsedTime()
}
