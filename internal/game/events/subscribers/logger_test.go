package subscribers_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/GoblinTactics/internal/game/core"
	"github.com/mitchelldurbincs/GoblinTactics/internal/game/events"
	"github.com/mitchelldurbincs/GoblinTactics/internal/game/events/subscribers"
)

func TestLoggerSubscriber(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).With().Timestamp().Logger()

	logSub := subscribers.NewLoggerSubscriber("test-logger", logger, zerolog.InfoLevel)

	assert.Equal(t, "test-logger", logSub.ID())
	assert.True(t, logSub.InterestedIn(events.TypeMatchStarted))
	assert.True(t, logSub.InterestedIn(events.TypeUnitKilled))
	assert.True(t, logSub.InterestedIn("any.event.type"))
}

func TestLoggerSubscriberEventLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	logSub := subscribers.NewLoggerSubscriber("event-logger", logger, zerolog.InfoLevel)

	board := core.NewBoard(6, 4)
	board.PlaceUnit(core.Coordinate{X: 0, Y: 0}, core.Mice, true, core.DefaultCommanderHealth)
	board.PlaceUnit(core.Coordinate{X: 5, Y: 3}, core.Goblins, true, core.DefaultCommanderHealth)
	board.PlaceUnit(core.Coordinate{X: 4, Y: 3}, core.Goblins, false, core.DefaultUnitHealth)

	move := core.Move{From: core.Coordinate{X: 0, Y: 0}, To: core.Coordinate{X: 0, Y: 2}, Summon: true}
	actions := &core.ActionLog{Actions: []core.Action{
		{Kind: core.ActionDeployed, UnitID: 3, From: move.From, To: move.To},
		{Kind: core.ActionAttacked, UnitID: 3, From: move.To, To: core.Coordinate{X: 1, Y: 2}},
	}}
	unitEvents := events.FromActions("test-match-1", 2, core.Mice, actions)

	testCases := []struct {
		name  string
		event events.Event
		check func(t *testing.T, logLine map[string]interface{})
	}{
		{
			name:  "MatchStartedEvent",
			event: events.NewMatchStartedEvent("test-match-1", board, core.Goblins),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(6), logLine["width"])
				assert.Equal(t, float64(4), logLine["height"])
				assert.Equal(t, "goblins", logLine["first"])
				assert.Equal(t, float64(1), logLine["mice_units"])
				assert.Equal(t, float64(2), logLine["goblin_units"])
			},
		},
		{
			name:  "TurnResolvedEvent",
			event: events.NewTurnResolvedEvent("test-match-1", 2, core.Mice, &move, actions),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(2), logLine["turn"])
				assert.Equal(t, "mice", logLine["faction"])
				assert.Equal(t, move.String(), logLine["move"])
				assert.Equal(t, false, logLine["passed"])
				assert.Equal(t, float64(1), logLine["attacks"])
				assert.Equal(t, float64(0), logLine["kills"])
			},
		},
		{
			name:  "UnitDeployedEvent",
			event: unitEvents[0],
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(3), logLine["unit_id"])
				assert.Equal(t, move.From.String(), logLine["commander_at"])
				assert.Equal(t, move.To.String(), logLine["at"])
			},
		},
		{
			name:  "UnitAttackedEvent",
			event: unitEvents[1],
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(3), logLine["attacker_id"])
				assert.Equal(t, core.Coordinate{X: 1, Y: 2}.String(), logLine["target"])
			},
		},
		{
			name:  "MatchEndedEvent",
			event: events.NewMatchEndedEvent("test-match-1", core.Mice, "commander defeated", 12, 5*time.Minute),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "mice", logLine["winner"])
				assert.Equal(t, "commander defeated", logLine["reason"])
				assert.Equal(t, float64(12), logLine["final_turn"])
				assert.Equal(t, float64(300000), logLine["duration"]) // 5 minutes in ms
			},
		},
		{
			name:  "StateTransitionEvent",
			event: events.NewStateTransitionEvent("test-match-1", "AwaitingInput", "Paused", "operator"),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "AwaitingInput", logLine["from_phase"])
				assert.Equal(t, "Paused", logLine["to_phase"])
				assert.Equal(t, "operator", logLine["reason"])
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf.Reset()
			logSub.HandleEvent(tc.event)

			logOutput := buf.String()
			require.NotEmpty(t, logOutput, "Log output should not be empty")

			var logLine map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(logOutput), &logLine))

			assert.Equal(t, "info", logLine["level"])
			assert.Equal(t, "Match event", logLine["message"])
			assert.Equal(t, tc.event.Type(), logLine["event_type"])
			assert.Equal(t, "test-match-1", logLine["match_id"])

			tc.check(t, logLine)
		})
	}
}

func TestLoggerSubscriberWithFilter(t *testing.T) {
	var buf bytes.Buffer
	logSub := subscribers.NewLoggerSubscriber("filtered-logger", zerolog.New(&buf), zerolog.WarnLevel)
	logSub.SetEventFilter([]string{events.TypeMatchStarted, events.TypeMatchEnded})

	assert.True(t, logSub.InterestedIn(events.TypeMatchStarted))
	assert.True(t, logSub.InterestedIn(events.TypeMatchEnded))
	assert.False(t, logSub.InterestedIn(events.TypeTurnResolved))
	assert.False(t, logSub.InterestedIn(events.TypeUnitMoved))

	bus := events.NewEventBus()
	bus.Subscribe(logSub)
	bus.Publish(events.NewTurnResolvedEvent("m", 1, core.Mice, nil, nil))
	assert.Empty(t, buf.String(), "filtered events are not logged")

	bus.Publish(events.NewMatchEndedEvent("m", core.NoFaction, "turn limit", 200, time.Second))
	var logLine map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logLine))
	assert.Equal(t, "warn", logLine["level"])
	assert.Equal(t, "", logLine["winner"])

	logSub.SetEventFilter(nil)
	assert.True(t, logSub.InterestedIn(events.TypeUnitMoved))
}

func TestLoggerSubscriberDevMode(t *testing.T) {
	var buf bytes.Buffer
	logSub := subscribers.NewLoggerSubscriber("dev-logger", zerolog.New(&buf), zerolog.DebugLevel)
	logSub.SetDevMode(true)

	logSub.HandleEvent(events.NewStateTransitionEvent("dev-match", "Setup", "AwaitingInput", "start"))

	var logLine map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logLine))
	assert.Equal(t, "debug", logLine["level"])

	data, ok := logLine["event_data"].(map[string]interface{})
	require.True(t, ok, "event_data should be embedded JSON")
	assert.Equal(t, events.TypeStateTransition, data["type"])
	assert.Equal(t, "dev-match", data["match_id"])
	assert.Equal(t, "AwaitingInput", data["to_phase"])
}
