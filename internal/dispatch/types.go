package dispatch

import (
	"encoding/json"
	"errors"
)

// Envelope modules.
const (
	ModuleMessage   = "message"
	ModuleHeartbeat = "heartbeat"
)

// ErrUnknownEvent is returned when registering a handler for an event kind
// outside the known table.
var ErrUnknownEvent = errors.New("unknown event kind")

// EventKind identifies a known gateway event.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventUserCreated
)

// eventNames is the single table of known events and their wire names.
var eventNames = map[EventKind]string{
	EventUserCreated: "user.created",
}

// eventKinds is eventNames inverted for lookups by wire name.
var eventKinds = func() map[string]EventKind {
	m := make(map[string]EventKind, len(eventNames))
	for kind, name := range eventNames {
		m[name] = kind
	}
	return m
}()

// ParseEventKind returns the kind for a wire event name, or EventUnknown.
func ParseEventKind(name string) EventKind {
	if kind, ok := eventKinds[name]; ok {
		return kind
	}
	return EventUnknown
}

// String returns the wire name of the kind.
func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is a routed "message" envelope.
type Event struct {
	Kind    EventKind
	Name    string          // Wire event name, e.g. "user.created"
	Content json.RawMessage // Decoded content object
}

// Handler processes one routed event.
type Handler func(Event) error

// Stats contains runtime statistics.
type Stats struct {
	MessagesReceived int64
	ParseErrors      int64
	Ignored          int64 // Non-message modules, missing content, unknown events
	Unhandled        int64 // Known event kind with no registered handler
	Routed           int64 // Handler returned nil
	HandlerErrors    int64 // Handler returned an error or panicked
}

// messageContent holds the routing field of a content object.
type messageContent struct {
	Event string `json:"event"`
}
