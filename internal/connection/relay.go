package connection

import (
	"context"
	"sync"
)

// Relay is a bounded FIFO of outbound frames with a single consumer.
// Producers block while it is full; once closed, every enqueue fails with
// ErrRelayClosed.
type Relay struct {
	frames    chan Frame
	done      chan struct{}
	closeOnce sync.Once
}

// NewRelay creates a relay with the given capacity. Capacity < 1 selects
// DefaultRelayCapacity.
func NewRelay(capacity int) *Relay {
	if capacity < 1 {
		capacity = DefaultRelayCapacity
	}
	return &Relay{
		frames: make(chan Frame, capacity),
		done:   make(chan struct{}),
	}
}

// Enqueue adds a frame, blocking while the relay is full.
func (r *Relay) Enqueue(ctx context.Context, f Frame) error {
	select {
	case <-r.done:
		return ErrRelayClosed
	default:
	}

	select {
	case r.frames <- f:
		return nil
	case <-r.done:
		return ErrRelayClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryEnqueue adds a frame without blocking.
func (r *Relay) TryEnqueue(f Frame) error {
	select {
	case <-r.done:
		return ErrRelayClosed
	default:
	}

	select {
	case r.frames <- f:
		return nil
	default:
		return ErrRelayFull
	}
}

// Next returns the oldest queued frame, blocking until one is available,
// the relay is closed, or ctx is done.
func (r *Relay) Next(ctx context.Context) (Frame, error) {
	select {
	case f := <-r.frames:
		return f, nil
	case <-r.done:
		return nil, ErrRelayClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close closes the relay. Safe to call more than once.
// Frames still queued may be dropped.
func (r *Relay) Close() {
	r.closeOnce.Do(func() {
		close(r.done)
	})
}

// Done is closed when the relay is closed.
func (r *Relay) Done() <-chan struct{} {
	return r.done
}

// Len returns the number of queued frames.
func (r *Relay) Len() int {
	return len(r.frames)
}

// Cap returns the relay capacity.
func (r *Relay) Cap() int {
	return cap(r.frames)
}
