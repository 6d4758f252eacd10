package subscribers

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/GoblinTactics/internal/game/events"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // nil means every type
	devMode         bool            // also attach the full event as JSON
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool, len(eventTypes))
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables development mode logging
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	eventLogger := ls.logger.With().
		Str("event_type", event.Type()).
		Str("match_id", event.MatchID()).
		Time("timestamp", event.Timestamp()).
		Logger()

	logEvent := eventLogger.WithLevel(ls.logLevel)
	if ls.logLevel == zerolog.NoLevel || ls.logLevel == zerolog.Disabled {
		logEvent = eventLogger.Info()
	}

	switch e := event.(type) {
	case *events.MatchStartedEvent:
		logEvent.
			Int("width", e.Width).
			Int("height", e.Height).
			Str("first", e.First).
			Int("mice_units", e.MiceUnits).
			Int("goblin_units", e.GoblinUnits)

	case *events.MatchEndedEvent:
		logEvent.
			Str("winner", e.Winner).
			Str("reason", e.Reason).
			Dur("duration", e.Duration).
			Int("final_turn", e.FinalTurn)

	case *events.TurnResolvedEvent:
		logEvent.
			Int("turn", e.Metadata.Turn).
			Str("faction", e.Metadata.Faction).
			Str("move", e.Move).
			Bool("passed", e.Passed).
			Int("attacks", e.Attacks).
			Int("kills", e.Kills)

	case *events.UnitMovedEvent:
		logEvent.
			Int("turn", e.Metadata.Turn).
			Int("unit_id", e.UnitID).
			Stringer("from", e.From).
			Stringer("to", e.To)

	case *events.UnitDeployedEvent:
		logEvent.
			Int("turn", e.Metadata.Turn).
			Int("unit_id", e.UnitID).
			Stringer("commander_at", e.CommanderAt).
			Stringer("at", e.At)

	case *events.UnitAttackedEvent:
		logEvent.
			Int("turn", e.Metadata.Turn).
			Int("attacker_id", e.AttackerID).
			Stringer("from", e.From).
			Stringer("target", e.Target)

	case *events.UnitKilledEvent:
		logEvent.
			Int("turn", e.Metadata.Turn).
			Int("unit_id", e.UnitID).
			Stringer("at", e.At)

	case *events.StateTransitionEvent:
		logEvent.
			Str("from_phase", e.FromPhase).
			Str("to_phase", e.ToPhase).
			Str("reason", e.Reason)
	}

	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Match event")
}
