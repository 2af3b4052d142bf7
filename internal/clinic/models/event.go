package models

// EventType names a push-channel message.
type EventType string

// EventStatusUpdate is the only message the server pushes.
const EventStatusUpdate EventType = "status_update"

// Event is an immutable snapshot of one patient taken right after a
// successful mutation. Events are not numbered, queued or persisted.
type Event struct {
	Type EventType `json:"type"`
	Data Patient   `json:"data"`
}

// NewStatusUpdate snapshots p into a status_update event.
func NewStatusUpdate(p Patient) Event {
	return Event{Type: EventStatusUpdate, Data: p.Clone()}
}

// Kind implements hub.Event.
func (e Event) Kind() string {
	return string(e.Type)
}
