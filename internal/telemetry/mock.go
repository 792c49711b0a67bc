package telemetry

import (
	"sync"

	"github.com/slotserve/slotserve/internal/models"
)

var _ Logger = (*Recorder)(nil)

// Recorder is a Logger that captures events in memory for assertions.
type Recorder struct {
	mu     sync.Mutex
	events []models.Event
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Log captures the event synchronously.
func (r *Recorder) Log(targetID int, targetType models.TargetType, eventType models.EventType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, models.Event{TargetID: targetID, TargetType: targetType, EventType: eventType})
}

// Events returns a copy of everything logged so far.
func (r *Recorder) Events() []models.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Count returns how many events of the given type were logged.
func (r *Recorder) Count(eventType models.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.EventType == eventType {
			n++
		}
	}
	return n
}
