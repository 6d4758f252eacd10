package subscribers

import (
	"sync"

	"github.com/mitchelldurbincs/GoblinTactics/internal/game/events"
)

// Recorder keeps every event it receives, in publication order.
type Recorder struct {
	id    string
	types map[string]bool

	mu     sync.Mutex
	events []events.Event
}

// NewRecorder records the given event types, or all types when none are given
func NewRecorder(id string, eventTypes ...string) *Recorder {
	r := &Recorder{id: id}
	if len(eventTypes) > 0 {
		r.types = make(map[string]bool, len(eventTypes))
		for _, t := range eventTypes {
			r.types[t] = true
		}
	}
	return r
}

func (r *Recorder) ID() string { return r.id }

func (r *Recorder) InterestedIn(eventType string) bool {
	return r.types == nil || r.types[eventType]
}

func (r *Recorder) HandleEvent(e events.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events
func (r *Recorder) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the recorded event types in order
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type()
	}
	return out
}

// OfType returns the recorded events of one type
func (r *Recorder) OfType(eventType string) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.events {
		if e.Type() == eventType {
			out = append(out, e)
		}
	}
	return out
}

// Reset drops everything recorded so far
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
