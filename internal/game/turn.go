package game

import (
	"context"
	"fmt"

	"github.com/mitchelldurbincs/GoblinTactics/internal/game/core"
	"github.com/mitchelldurbincs/GoblinTactics/internal/game/events"
	"github.com/mitchelldurbincs/GoblinTactics/internal/game/rules"
	"github.com/mitchelldurbincs/GoblinTactics/internal/game/search"
	"github.com/mitchelldurbincs/GoblinTactics/internal/game/states"
)

// TurnResult describes one resolved turn
type TurnResult struct {
	Turn     int
	Faction  core.Faction
	Move     core.Move
	Passed   bool
	Record   *core.ActionLog
	Winner   core.Faction
	Ended    bool
	Decision search.Decision // zero unless the turn came from PlayAITurn
}

// SubmitMove applies m for faction f. The move is checked before anything
// changes; a rejected move leaves the match waiting for the same faction.
func (m *Match) SubmitMove(f core.Faction, mv core.Move) (TurnResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkTurn(f); err != nil {
		return TurnResult{}, err
	}
	return m.resolve(f, &mv)
}

// Pass ends f's turn without moving. Only allowed when f has no legal move.
func (m *Match) Pass(f core.Faction) (TurnResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkTurn(f); err != nil {
		return TurnResult{}, err
	}
	if len(core.GenerateMoves(m.board, f)) > 0 {
		return TurnResult{}, fmt.Errorf("%s: cannot pass with legal moves: %w", f, core.ErrInvalidMove)
	}
	return m.resolve(f, nil)
}

// PlayAITurn asks s for a move for the faction to move and applies it. The
// search runs on a copy of the board; if ctx ends first the result is
// discarded and ErrSearchTimeout is returned. A faction with no legal move
// passes.
func (m *Match) PlayAITurn(ctx context.Context, s search.Strategy, depth int) (TurnResult, error) {
	m.mu.Lock()
	// one search at a time; an abandoned search may still hold the strategy
	for {
		if err := m.checkPhase(states.PhaseAwaitingInput); err != nil {
			m.mu.Unlock()
			return TurnResult{}, err
		}
		if m.inflight == nil {
			break
		}
		prev := m.inflight
		m.mu.Unlock()
		select {
		case <-prev:
		case <-ctx.Done():
			return TurnResult{}, fmt.Errorf("%w: %w", ErrSearchTimeout, ctx.Err())
		}
		m.mu.Lock()
	}

	f := m.toMove
	board := m.board.Clone()
	turn := m.ctx.Turn
	done := make(chan struct{})
	m.inflight = done
	m.mu.Unlock()

	result := make(chan search.Decision, 1)
	go func() {
		defer func() {
			m.mu.Lock()
			m.inflight = nil
			m.mu.Unlock()
			close(done)
		}()
		result <- s.ChooseMove(board, f, depth)
	}()

	var d search.Decision
	select {
	case d = <-result:
	case <-ctx.Done():
		m.logger.Warn().
			Err(ctx.Err()).
			Int("turn", turn+1).
			Str("faction", f.String()).
			Str("strategy", s.Name()).
			Msg("Search abandoned")
		return TurnResult{}, fmt.Errorf("%w: %w", ErrSearchTimeout, ctx.Err())
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// the match may have moved on while searching
	if err := m.checkTurn(f); err != nil {
		return TurnResult{}, err
	}
	if m.ctx.Turn != turn {
		return TurnResult{}, fmt.Errorf("%w: board changed during search", ErrWrongPhase)
	}

	var res TurnResult
	var err error
	if d.Found {
		res, err = m.resolve(f, &d.Move)
	} else {
		res, err = m.resolve(f, nil)
	}
	if err != nil {
		return TurnResult{}, err
	}
	res.Decision = d
	return res, nil
}

func (m *Match) checkTurn(f core.Faction) error {
	if err := m.checkPhase(states.PhaseAwaitingInput); err != nil {
		return err
	}
	if !f.IsPlayable() {
		return core.ErrInvalidFaction
	}
	if f != m.toMove {
		return fmt.Errorf("%w: %s to move", ErrNotYourTurn, m.toMove)
	}
	return nil
}

// resolve applies mv (nil passes), swaps the board and advances the phase.
// Callers hold m.mu.
func (m *Match) resolve(f core.Faction, mv *core.Move) (TurnResult, error) {
	record := &core.ActionLog{}
	next := m.board
	if mv != nil {
		var err error
		next, err = core.ApplyMoveLogged(m.board, *mv, f, record)
		if err != nil {
			m.logger.Debug().Err(err).Str("faction", f.String()).Msg("Move rejected")
			return TurnResult{}, err
		}
		m.passes = 0
	} else {
		m.passes++
	}

	m.board = next
	m.ctx.Board = next
	m.record = record
	if err := m.sm.TransitionTo(states.PhaseResolved, f.String()+" moved"); err != nil {
		return TurnResult{}, err
	}
	turn := m.ctx.Turn
	m.stats.record(next, f, record)

	for _, e := range events.FromActions(m.id, turn, f, record) {
		m.bus.Publish(e)
	}
	m.bus.Publish(events.NewTurnResolvedEvent(m.id, turn, f, mv, record))

	res := TurnResult{
		Turn:    turn,
		Faction: f,
		Passed:  mv == nil,
		Record:  record,
	}
	if mv != nil {
		res.Move = *mv
	}

	logEvent := m.logger.Debug().
		Int("turn", turn).
		Str("faction", f.String()).
		Int("attacks", len(record.Of(core.ActionAttacked))).
		Int("kills", len(record.Of(core.ActionKilled)))
	if mv != nil {
		logEvent = logEvent.Str("move", mv.String())
	}
	logEvent.Bool("passed", mv == nil).Msg("Turn resolved")

	out := m.referee.Check(next, rules.TurnState{Turn: turn, MaxTurns: m.ctx.MaxTurns, Passes: m.passes})
	if out.Over {
		if err := m.end(out.Winner, out.Reason); err != nil {
			return TurnResult{}, err
		}
		res.Winner = out.Winner
		res.Ended = true
		return res, nil
	}

	m.toMove = f.Enemy()
	if err := m.sm.TransitionTo(states.PhaseAwaitingInput, m.toMove.String()+" to move"); err != nil {
		return TurnResult{}, err
	}
	return res, nil
}
