package events

import "time"

// Event is the contract every NATS-published event satisfies. The subject
// is derived from EventType, so codes must be stable once shipped.
type Event interface {
	// EventType returns the unique code, e.g. "ASSISTANT_TURN_COMPLETED".
	EventType() string

	// Payload returns the serializable event data.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the common implementation the constructors in this package
// build on.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
