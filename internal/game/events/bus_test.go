package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/GoblinTactics/internal/game/core"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus()

	received := false
	var receivedEvent Event

	bus.SubscribeFunc(TypeStateTransition, func(e Event) {
		received = true
		receivedEvent = e
	})

	bus.Publish(NewStateTransitionEvent("test-match", "Setup", "AwaitingInput", "match started"))

	assert.True(t, received, "Event handler should have been called")
	require.NotNil(t, receivedEvent)
	assert.Equal(t, TypeStateTransition, receivedEvent.Type())
	assert.Equal(t, "test-match", receivedEvent.MatchID())
	assert.Equal(t, 1, bus.FuncHandlerCount(TypeStateTransition))
}

func TestEventBusMultipleHandlers(t *testing.T) {
	bus := NewEventBus()

	var order []int
	id1 := bus.SubscribeFunc(TypeMatchEnded, func(e Event) { order = append(order, 1) })
	id2 := bus.SubscribeFunc(TypeMatchEnded, func(e Event) { order = append(order, 2) })

	bus.Publish(NewMatchEndedEvent("test-match", core.Mice, "commander defeated", 7, time.Second))

	assert.Equal(t, []int{1, 2}, order)
	assert.NotEqual(t, id1, id2)
}

// TestSubscriber is a test implementation of Subscriber
type TestSubscriber struct {
	id              string
	interestedTypes map[string]bool
	receivedEvents  []Event
}

func (ts *TestSubscriber) ID() string {
	return ts.id
}

func (ts *TestSubscriber) HandleEvent(e Event) {
	ts.receivedEvents = append(ts.receivedEvents, e)
}

func (ts *TestSubscriber) InterestedIn(eventType string) bool {
	if ts.interestedTypes == nil {
		return true
	}
	return ts.interestedTypes[eventType]
}

type panickingSubscriber struct{}

func (panickingSubscriber) ID() string               { return "panics" }
func (panickingSubscriber) HandleEvent(Event)        { panic("boom") }
func (panickingSubscriber) InterestedIn(string) bool { return true }

func TestEventBusSubscriber(t *testing.T) {
	bus := NewEventBus()
	b := core.NewBoard(3, 1)

	subscriber := &TestSubscriber{
		id: "test-subscriber",
		interestedTypes: map[string]bool{
			TypeMatchStarted: true,
			TypeMatchEnded:   true,
		},
	}
	bus.Subscribe(subscriber)
	assert.Equal(t, 1, bus.SubscriberCount())

	bus.Publish(NewMatchStartedEvent("test-match", b, core.Mice))
	bus.Publish(NewStateTransitionEvent("test-match", "Setup", "AwaitingInput", ""))
	bus.Publish(NewMatchEndedEvent("test-match", core.NoFaction, "turn limit", 100, time.Minute))

	require.Len(t, subscriber.receivedEvents, 2)
	assert.Equal(t, TypeMatchStarted, subscriber.receivedEvents[0].Type())
	assert.Equal(t, TypeMatchEnded, subscriber.receivedEvents[1].Type())

	bus.Unsubscribe(subscriber.ID())
	assert.Equal(t, 0, bus.SubscriberCount())
	bus.Publish(NewMatchStartedEvent("test-match", b, core.Mice))
	assert.Len(t, subscriber.receivedEvents, 2)
}

func TestEventBusRecoversFromPanics(t *testing.T) {
	bus := NewEventBus()
	after := &TestSubscriber{id: "after"}
	bus.Subscribe(panickingSubscriber{})
	bus.Subscribe(after)

	handled := false
	bus.SubscribeFunc(TypeUnitKilled, func(Event) { panic("handler boom") })
	bus.SubscribeFunc(TypeUnitKilled, func(Event) { handled = true })

	assert.NotPanics(t, func() {
		bus.Publish(&UnitKilledEvent{BaseEvent: newBase(TypeUnitKilled, "m"), UnitID: 3})
	})
	assert.Len(t, after.receivedEvents, 1)
	assert.True(t, handled)
}

func TestEventBusSubscribeReplacesSameID(t *testing.T) {
	bus := NewEventBus()
	first := &TestSubscriber{id: "dup"}
	second := &TestSubscriber{id: "dup"}
	bus.Subscribe(first)
	bus.Subscribe(second)

	assert.Equal(t, 1, bus.SubscriberCount())
	bus.Publish(NewStateTransitionEvent("m", "a", "b", ""))
	assert.Empty(t, first.receivedEvents)
	assert.Len(t, second.receivedEvents, 1)
}

func TestFromActions(t *testing.T) {
	log := &core.ActionLog{Actions: []core.Action{
		{Kind: core.ActionDeployed, UnitID: 5, From: core.Coordinate{X: 0, Y: 0}, To: core.Coordinate{X: 2, Y: 0}},
		{Kind: core.ActionAttacked, UnitID: 5, From: core.Coordinate{X: 2, Y: 0}, To: core.Coordinate{X: 3, Y: 0}},
		{Kind: core.ActionKilled, UnitID: 1, From: core.Coordinate{X: 3, Y: 0}, To: core.Coordinate{X: 3, Y: 0}},
		{Kind: core.ActionMoved, UnitID: 2, From: core.Coordinate{X: 1, Y: 1}, To: core.Coordinate{X: 1, Y: 3}},
	}}

	evs := FromActions("m1", 4, core.Mice, log)
	require.Len(t, evs, 4)

	deployed, ok := evs[0].(*UnitDeployedEvent)
	require.True(t, ok)
	assert.Equal(t, 5, deployed.UnitID)
	assert.Equal(t, core.Coordinate{X: 0, Y: 0}, deployed.CommanderAt)
	assert.Equal(t, core.Coordinate{X: 2, Y: 0}, deployed.At)
	assert.Equal(t, TurnMetadata{Turn: 4, Faction: "mice"}, deployed.Metadata)

	attacked, ok := evs[1].(*UnitAttackedEvent)
	require.True(t, ok)
	assert.Equal(t, core.Coordinate{X: 3, Y: 0}, attacked.Target)

	killed, ok := evs[2].(*UnitKilledEvent)
	require.True(t, ok)
	assert.Equal(t, 1, killed.UnitID)

	assert.Equal(t, TypeUnitMoved, evs[3].Type())
	for _, e := range evs {
		assert.Equal(t, "m1", e.MatchID())
	}

	assert.Nil(t, FromActions("m1", 1, core.Mice, nil))
}

func TestNewTurnResolvedEvent(t *testing.T) {
	log := &core.ActionLog{Actions: []core.Action{
		{Kind: core.ActionMoved},
		{Kind: core.ActionAttacked},
		{Kind: core.ActionAttacked},
		{Kind: core.ActionKilled},
	}}
	m := core.Move{From: core.Coordinate{X: 0, Y: 0}, To: core.Coordinate{X: 0, Y: 2}}

	e := NewTurnResolvedEvent("m", 3, core.Goblins, &m, log)
	assert.Equal(t, 2, e.Attacks)
	assert.Equal(t, 1, e.Kills)
	assert.False(t, e.Passed)
	assert.Equal(t, m.String(), e.Move)

	passed := NewTurnResolvedEvent("m", 4, core.Mice, nil, nil)
	assert.True(t, passed.Passed)
	assert.Empty(t, passed.Move)
	assert.Zero(t, passed.Attacks)
}
