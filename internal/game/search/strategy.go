package search

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"github.com/mitchelldurbincs/GoblinTactics/internal/game/core"
	"github.com/mitchelldurbincs/GoblinTactics/internal/game/eval"
)

const (
	StrategyLookahead = "lookahead"
	StrategyAlphaBeta = "alphabeta"
	StrategyRandom    = "random"

	DefaultJitter = 0.25
)

var ErrUnknownStrategy = errors.New("unknown search strategy")

// Decision is the outcome of a search. Found is false when the faction had
// no legal move; callers must check it before applying Move.
type Decision struct {
	Move  core.Move
	Score float64
	Found bool
	Nodes int // boards scored or expanded during the search
}

// NoMove is the sentinel returned when a faction cannot move.
var NoMove = Decision{Score: math.Inf(-1)}

// IsNone reports whether the decision carries no move
func (d Decision) IsNone() bool { return !d.Found }

// Strategy picks a move for a faction. Implementations keep no state between
// calls except their random stream, and are not safe for concurrent use.
type Strategy interface {
	Name() string
	ChooseMove(b *core.Board, f core.Faction, depth int) Decision
}

type settings struct {
	evaluator *eval.Evaluator
	jitter    float64
	rng       *rand.Rand
	workers   int
	logger    zerolog.Logger
}

// Option configures a strategy
type Option func(s *settings)

// WithEvaluator replaces the default evaluator
func WithEvaluator(e *eval.Evaluator) Option {
	return func(s *settings) {
		if e != nil {
			s.evaluator = e
		}
	}
}

// WithJitter sets the half-width of the uniform noise added to lookahead leaf scores
func WithJitter(j float64) Option {
	return func(s *settings) {
		if j >= 0 {
			s.jitter = j
		}
	}
}

// WithSeed seeds the lookahead random stream
func WithSeed(seed uint64) Option {
	return func(s *settings) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand uses r as the lookahead random stream
func WithRand(r *rand.Rand) Option {
	return func(s *settings) {
		if r != nil {
			s.rng = r
		}
	}
}

// WithWorkers searches alpha-beta root moves on up to n goroutines
func WithWorkers(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLogger sets the parent logger
func WithLogger(l zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

func newSettings(name string, opts []Option) settings {
	s := settings{
		evaluator: eval.Default(),
		jitter:    DefaultJitter,
		workers:   1,
		logger:    log.Logger,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	s.logger = s.logger.With().Str("component", "search").Str("strategy", name).Logger()
	return s
}

// New returns the strategy registered under name
func New(name string, opts ...Option) (Strategy, error) {
	switch name {
	case StrategyLookahead:
		return NewLookahead(opts...), nil
	case StrategyAlphaBeta:
		return NewAlphaBeta(opts...), nil
	case StrategyRandom:
		return NewRandom(opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// mustApply applies a generated move. Generated moves are legal by
// construction, so a rejection means the board is corrupt.
func mustApply(b *core.Board, m core.Move, f core.Faction) *core.Board {
	next, err := core.ApplyMove(b, m, f)
	if err != nil {
		panic(fmt.Sprintf("search: generated move rejected: %v", err))
	}
	return next
}

func logDecision(l zerolog.Logger, f core.Faction, depth int, d Decision, start time.Time) {
	e := l.Debug().
		Str("faction", f.String()).
		Int("depth", depth).
		Int("nodes", d.Nodes).
		Dur("elapsed", time.Since(start))
	if d.Found {
		e = e.Str("move", d.Move.String()).Float64("score", d.Score)
	}
	e.Bool("found", d.Found).Msg("Search finished")
}
