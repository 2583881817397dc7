package host

import "context"

// EventType names a lifecycle event.
type EventType string

const (
	// EventSubmit fires when a form is submitted.
	EventSubmit EventType = "submit"
	// EventDestroy fires when the owning scope is torn down.
	EventDestroy EventType = "destroy"
)

// Event is delivered to listeners.
type Event struct {
	Type   EventType
	Target Element
}

// Listener handles an event.
type Listener func(ctx context.Context, ev Event)

// EventTarget registers listeners. The returned function removes the
// listener and is safe to call more than once.
type EventTarget interface {
	On(event EventType, listener Listener) (remove func())
}
