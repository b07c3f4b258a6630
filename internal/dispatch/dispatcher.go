package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
)

// Dispatcher parses inbound frames and routes message envelopes to handlers.
// Handle is safe to call concurrently, though the receive loop calls it from
// a single goroutine.
type Dispatcher struct {
	logger *slog.Logger
	out    io.Writer

	mu       sync.RWMutex
	handlers map[EventKind]Handler

	received      atomic.Int64
	parseErrors   atomic.Int64
	ignored       atomic.Int64
	unhandled     atomic.Int64
	routed        atomic.Int64
	handlerErrors atomic.Int64
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithOutput sets where message content is pretty-printed (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(d *Dispatcher) {
		d.out = w
	}
}

// New creates a Dispatcher with an empty handler table.
func New(logger *slog.Logger, opts ...Option) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}

	d := &Dispatcher{
		logger:   logger,
		out:      os.Stdout,
		handlers: make(map[EventKind]Handler),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Register sets the handler for a known event kind, replacing any previous one.
func (d *Dispatcher) Register(kind EventKind, h Handler) error {
	if _, ok := eventNames[kind]; !ok {
		return fmt.Errorf("register %v: %w", kind, ErrUnknownEvent)
	}
	if h == nil {
		return fmt.Errorf("register %v: nil handler", kind)
	}

	d.mu.Lock()
	d.handlers[kind] = h
	d.mu.Unlock()
	return nil
}

// Stats returns current statistics.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		MessagesReceived: d.received.Load(),
		ParseErrors:      d.parseErrors.Load(),
		Ignored:          d.ignored.Load(),
		Unhandled:        d.unhandled.Load(),
		Routed:           d.routed.Load(),
		HandlerErrors:    d.handlerErrors.Load(),
	}
}

// Handle processes one raw text frame. Failures are logged, never returned.
func (d *Dispatcher) Handle(raw []byte) {
	d.received.Add(1)

	if !json.Valid(raw) {
		d.parseErrors.Add(1)
		d.logger.Warn("invalid JSON received", "size", len(raw))
		return
	}

	module, content, ok := parseEnvelope(raw)
	if !ok || module != ModuleMessage {
		d.ignored.Add(1)
		d.logger.Debug("ignoring envelope", "module", module)
		return
	}

	body, err := decodeContent(content)
	if err != nil {
		d.parseErrors.Add(1)
		d.logger.Warn("invalid message content", "error", err)
		return
	}
	d.printContent(body)

	name := eventName(body)
	d.route(Event{
		Kind:    ParseEventKind(name),
		Name:    name,
		Content: body,
	})
}

// route invokes the handler for a parsed event.
func (d *Dispatcher) route(ev Event) {
	switch ev.Kind {
	case EventUserCreated:
		d.mu.RLock()
		h := d.handlers[ev.Kind]
		d.mu.RUnlock()

		if h == nil {
			d.unhandled.Add(1)
			d.logger.Debug("no handler registered", "event", ev.Name)
			return
		}
		d.invoke(h, ev)

	case EventUnknown:
		d.ignored.Add(1)
		d.logger.Debug("ignoring event", "event", ev.Name)

	default:
		d.ignored.Add(1)
		d.logger.Warn("event kind missing from routing switch", "kind", int(ev.Kind))
	}
}

func (d *Dispatcher) invoke(h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			d.handlerErrors.Add(1)
			d.logger.Error("event handler panicked", "event", ev.Name, "panic", r)
		}
	}()

	if err := h(ev); err != nil {
		d.handlerErrors.Add(1)
		d.logger.Error("event handler failed", "event", ev.Name, "error", err)
		return
	}
	d.routed.Add(1)
}

// printContent writes the content object indented for the console.
func (d *Dispatcher) printContent(body json.RawMessage) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "    "); err != nil {
		buf.Reset()
		buf.Write(body)
	}
	fmt.Fprintf(d.out, "Received content:\n%s\n", buf.Bytes())
}

var jsonNull = json.RawMessage("null")

// parseEnvelope extracts module and content. ok is false when the frame is
// not an object or module is not a string.
func parseEnvelope(raw []byte) (module string, content json.RawMessage, ok bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return "", nil, false
	}

	rawModule, present := fields["module"]
	if !present {
		return "", nil, false
	}
	if err := json.Unmarshal(rawModule, &module); err != nil {
		return "", nil, false
	}

	return module, fields["content"], true
}

// decodeContent returns the content as JSON. The gateway sends content either
// as an object or as a string holding JSON; a string that is not JSON is
// returned as the JSON string itself. Absent content decodes to null.
func decodeContent(content json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return jsonNull, nil
	}

	if trimmed[0] != '"' {
		return trimmed, nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return nil, fmt.Errorf("decode content string: %w", err)
	}
	if inner := bytes.TrimSpace([]byte(s)); json.Valid(inner) && len(inner) > 0 {
		return inner, nil
	}
	return trimmed, nil
}

// eventName returns content.event, or "" when absent or not a string.
func eventName(body json.RawMessage) string {
	var c messageContent
	if err := json.Unmarshal(body, &c); err != nil {
		return ""
	}
	return c.Event
}
