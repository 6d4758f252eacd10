package advisor

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mitchelldurbincs/GoblinTactics/internal/game/core"
	"github.com/mitchelldurbincs/GoblinTactics/internal/game/search"
)

// Client is a typed wrapper over AdvisorClient
type Client struct {
	raw AdvisorClient
}

// NewClient wraps a connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{raw: NewAdvisorClient(cc)}
}

// ChooseRequest selects the remote strategy. A zero Seed lets the server seed
// randomized strategies itself.
type ChooseRequest struct {
	Strategy string
	Depth    int
	Seed     uint64
}

func positionRequest(b *core.Board, f core.Faction, extra map[string]interface{}) (*structpb.Struct, error) {
	m := map[string]interface{}{
		"board":   boardToValue(b),
		"faction": f.String(),
	}
	for k, v := range extra {
		m[k] = v
	}
	req, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return req, nil
}

// GenerateMoves asks the server for f's legal moves
func (c *Client) GenerateMoves(ctx context.Context, b *core.Board, f core.Faction) ([]core.Move, error) {
	req, err := positionRequest(b, f, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.raw.GenerateMoves(ctx, req)
	if err != nil {
		return nil, err
	}

	values := resp.GetFields()["moves"].GetListValue().GetValues()
	moves := make([]core.Move, 0, len(values))
	for _, v := range values {
		m, err := moveFromStruct(&structpb.Struct{Fields: map[string]*structpb.Value{"move": v}})
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, nil
}

// ApplyMove resolves m on the server and returns the next board and winner
func (c *Client) ApplyMove(ctx context.Context, b *core.Board, m core.Move, f core.Faction) (*core.Board, core.Faction, error) {
	req, err := positionRequest(b, f, map[string]interface{}{"move": moveToValue(m)})
	if err != nil {
		return nil, core.NoFaction, err
	}
	resp, err := c.raw.ApplyMove(ctx, req)
	if err != nil {
		return nil, core.NoFaction, err
	}

	next, err := boardFromStruct(resp, "board")
	if err != nil {
		return nil, core.NoFaction, err
	}
	winner := core.NoFaction
	if w := resp.GetFields()["winner"].GetStringValue(); w != "" {
		if winner, err = core.ParseFaction(w); err != nil {
			return nil, core.NoFaction, err
		}
	}
	return next, winner, nil
}

// Evaluate scores b for f on the server
func (c *Client) Evaluate(ctx context.Context, b *core.Board, f core.Faction) (float64, error) {
	req, err := positionRequest(b, f, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.raw.Evaluate(ctx, req)
	if err != nil {
		return 0, err
	}
	return resp.GetFields()["score"].GetNumberValue(), nil
}

// ChooseMove runs a remote search
func (c *Client) ChooseMove(ctx context.Context, b *core.Board, f core.Faction, r ChooseRequest) (search.Decision, error) {
	extra := map[string]interface{}{"depth": r.Depth}
	if r.Strategy != "" {
		extra["strategy"] = r.Strategy
	}
	if r.Seed != 0 {
		extra["seed"] = float64(r.Seed)
	}
	req, err := positionRequest(b, f, extra)
	if err != nil {
		return search.NoMove, err
	}
	resp, err := c.raw.ChooseMove(ctx, req)
	if err != nil {
		return search.NoMove, err
	}

	fields := resp.GetFields()
	d := search.NoMove
	d.Nodes = intField(fields, "nodes")
	if !fields["found"].GetBoolValue() {
		return d, nil
	}
	m, err := moveFromStruct(resp)
	if err != nil {
		return search.NoMove, err
	}
	d.Move, d.Found = m, true
	d.Score = fields["score"].GetNumberValue()
	return d, nil
}

// RemoteStrategy runs a named strategy on an advisor server. It satisfies
// search.Strategy; a failed call is logged and reported as NoMove.
type RemoteStrategy struct {
	client   *Client
	strategy string
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewRemoteStrategy creates a remote strategy. A zero timeout means no deadline.
func NewRemoteStrategy(c *Client, strategy string, timeout time.Duration) *RemoteStrategy {
	return &RemoteStrategy{
		client:   c,
		strategy: strategy,
		timeout:  timeout,
		logger:   log.Logger.With().Str("component", "remote_strategy").Str("strategy", strategy).Logger(),
	}
}

func (r *RemoteStrategy) Name() string { return "remote:" + r.strategy }

// ChooseMove forwards the search to the server
func (r *RemoteStrategy) ChooseMove(b *core.Board, f core.Faction, depth int) search.Decision {
	ctx := context.Background()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	d, err := r.client.ChooseMove(ctx, b, f, ChooseRequest{Strategy: r.strategy, Depth: depth})
	if err != nil {
		r.logger.Error().Err(err).Str("faction", f.String()).Msg("Remote search failed")
		return search.NoMove
	}
	return d
}
