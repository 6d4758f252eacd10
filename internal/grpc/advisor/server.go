package advisor

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mitchelldurbincs/GoblinTactics/internal/game/core"
	"github.com/mitchelldurbincs/GoblinTactics/internal/game/eval"
	"github.com/mitchelldurbincs/GoblinTactics/internal/game/layout"
	"github.com/mitchelldurbincs/GoblinTactics/internal/game/search"
)

// Server defaults
const (
	DefaultMaxDepth       = 6
	DefaultRequestTimeout = 5 * time.Second
	defaultDepth          = 3
)

// Server implements the Advisor service. It is stateless apart from the
// decision cache; every search runs on a fresh strategy.
type Server struct {
	maxDepth       int
	requestTimeout time.Duration
	workers        int
	evaluator      *eval.Evaluator
	cache          *DecisionCache
	inflight       atomic.Int64
	logger         zerolog.Logger
}

// ServerOption configures a Server
type ServerOption func(*Server)

// WithMaxDepth caps the depth a client may request
func WithMaxDepth(d int) ServerOption {
	return func(s *Server) {
		if d > 0 {
			s.maxDepth = d
		}
	}
}

// WithRequestTimeout bounds every search; zero leaves only the client deadline
func WithRequestTimeout(d time.Duration) ServerOption {
	return func(s *Server) {
		if d >= 0 {
			s.requestTimeout = d
		}
	}
}

// WithWorkers sets the alpha-beta root parallelism
func WithWorkers(n int) ServerOption {
	return func(s *Server) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithEvaluator replaces the default evaluator
func WithEvaluator(e *eval.Evaluator) ServerOption {
	return func(s *Server) {
		if e != nil {
			s.evaluator = e
		}
	}
}

// WithLogger sets the parent logger
func WithLogger(l zerolog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = l
	}
}

// NewServer creates an advisor server
func NewServer(opts ...ServerOption) *Server {
	s := &Server{
		maxDepth:       DefaultMaxDepth,
		requestTimeout: DefaultRequestTimeout,
		workers:        1,
		evaluator:      eval.Default(),
		cache:          NewDecisionCache(decisionTTL),
		logger:         log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("component", "advisor").Logger()
	return s
}

// GenerateMoves lists the legal moves of a faction
func (s *Server) GenerateMoves(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	b, f, err := decodePosition(req)
	if err != nil {
		return nil, toStatus(err)
	}

	moves := core.GenerateMoves(b, f)
	out := make([]interface{}, len(moves))
	for i, m := range moves {
		out[i] = moveToValue(m)
	}
	return newResponse(map[string]interface{}{
		"faction": f.String(),
		"moves":   out,
	})
}

// ApplyMove resolves one move for a faction
func (s *Server) ApplyMove(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	b, f, err := decodePosition(req)
	if err != nil {
		return nil, toStatus(err)
	}
	m, err := moveFromStruct(req)
	if err != nil {
		return nil, toStatus(err)
	}

	actions := &core.ActionLog{}
	next, err := core.ApplyMoveLogged(b, m, f, actions)
	if err != nil {
		return nil, toStatus(err)
	}

	resp := map[string]interface{}{
		"board":   boardToValue(next),
		"actions": actionsToValue(actions),
	}
	if w := next.CheckVictory(); w != core.NoFaction {
		resp["winner"] = w.String()
	}
	return newResponse(resp)
}

// Evaluate scores a board for a faction
func (s *Server) Evaluate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	b, f, err := decodePosition(req)
	if err != nil {
		return nil, toStatus(err)
	}
	return newResponse(map[string]interface{}{
		"faction": f.String(),
		"score":   s.evaluator.Score(b, f),
	})
}

// ChooseMove runs the requested strategy:
//
//	{"board": {...}, "faction": "mice", "strategy": "alphabeta", "depth": 3,
//	 "seed": 7, "jitter": 0.25}
//
// strategy, depth, seed and jitter are optional.
func (s *Server) ChooseMove(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	b, f, err := decodePosition(req)
	if err != nil {
		return nil, toStatus(err)
	}

	fields := req.GetFields()
	name := fields["strategy"].GetStringValue()
	if name == "" {
		name = search.StrategyAlphaBeta
	}
	depth := defaultDepth
	if _, ok := fields["depth"]; ok {
		depth = intField(fields, "depth")
	}
	if depth < 0 || depth > s.maxDepth {
		return nil, status.Errorf(codes.InvalidArgument, "depth %d outside [0, %d]", depth, s.maxDepth)
	}

	opts := []search.Option{
		search.WithEvaluator(s.evaluator),
		search.WithWorkers(s.workers),
		search.WithLogger(s.logger),
	}
	key := decisionKey{Strategy: name, Depth: depth, Faction: f, Jitter: search.DefaultJitter}
	cacheable := name == search.StrategyAlphaBeta
	if v, ok := fields["seed"]; ok {
		key.Seed = uint64(v.GetNumberValue())
		opts = append(opts, search.WithSeed(key.Seed))
		cacheable = true
	}
	if v, ok := fields["jitter"]; ok {
		key.Jitter = v.GetNumberValue()
		if key.Jitter < 0 {
			return nil, status.Errorf(codes.InvalidArgument, "jitter must be non-negative")
		}
		opts = append(opts, search.WithJitter(key.Jitter))
	}
	if name == search.StrategyAlphaBeta {
		// alpha-beta ignores the random stream
		key.Seed, key.Jitter = 0, 0
	}

	strategy, err := search.New(name, opts...)
	if err != nil {
		return nil, toStatus(err)
	}

	if cacheable {
		key.Board = boardKey(b)
		if d, ok := s.cache.Check(key); ok {
			s.logger.Debug().Str("strategy", name).Int("depth", depth).Msg("Decision cache hit")
			return decisionResponse(name, d, true)
		}
	}

	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	// the strategy is private to this request, so an abandoned search only
	// burns CPU until it finishes
	result := make(chan search.Decision, 1)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Add(-1)
		result <- strategy.ChooseMove(b, f, depth)
	}()

	var d search.Decision
	select {
	case d = <-result:
	case <-ctx.Done():
		s.logger.Warn().
			Str("strategy", name).
			Int("depth", depth).
			Err(ctx.Err()).
			Msg("Search abandoned")
		return nil, toStatus(ctx.Err())
	}

	if cacheable {
		s.cache.Store(key, d)
	}
	return decisionResponse(name, d, false)
}

// Inflight counts searches still running, abandoned ones included
func (s *Server) Inflight() int {
	return int(s.inflight.Load())
}

// CachedDecisions is the number of entries in the decision cache
func (s *Server) CachedDecisions() int {
	return s.cache.Len()
}

func decisionResponse(name string, d search.Decision, cached bool) (*structpb.Struct, error) {
	resp := map[string]interface{}{
		"strategy": name,
		"found":    d.Found,
		"nodes":    d.Nodes,
		"cached":   cached,
	}
	if d.Found {
		resp["move"] = moveToValue(d.Move)
		resp["score"] = d.Score
	}
	return newResponse(resp)
}

func decodePosition(req *structpb.Struct) (*core.Board, core.Faction, error) {
	b, err := boardFromStruct(req, "board")
	if err != nil {
		return nil, core.NoFaction, err
	}
	f, err := factionFromStruct(req)
	if err != nil {
		return nil, core.NoFaction, err
	}
	return b, f, nil
}

func newResponse(m map[string]interface{}) (*structpb.Struct, error) {
	resp, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return resp, nil
}

// toStatus maps domain errors onto gRPC status codes
func toStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, search.ErrUnknownStrategy),
		errors.Is(err, layout.ErrEmptyLayout),
		errors.Is(err, core.ErrInvalidFaction):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, core.ErrInvalidMove),
		errors.Is(err, core.ErrEmptySource),
		errors.Is(err, core.ErrNotOwned),
		errors.Is(err, core.ErrSummonNotCommander):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
