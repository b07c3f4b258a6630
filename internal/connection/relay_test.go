package connection

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestNewRelay_Capacity(t *testing.T) {
	tests := []struct {
		capacity int
		want     int
	}{
		{32, 32},
		{1, 1},
		{0, DefaultRelayCapacity},
		{-5, DefaultRelayCapacity},
	}

	for _, tt := range tests {
		r := NewRelay(tt.capacity)
		if r.Cap() != tt.want {
			t.Errorf("NewRelay(%d).Cap() = %d, want %d", tt.capacity, r.Cap(), tt.want)
		}
	}
}

func TestRelay_FIFO(t *testing.T) {
	r := NewRelay(32)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		if err := r.Enqueue(ctx, Frame(fmt.Sprintf("frame-%d", i))); err != nil {
			t.Fatalf("Enqueue %d failed: %v", i, err)
		}
	}

	if r.Len() != 20 {
		t.Errorf("Len() = %d, want 20", r.Len())
	}

	for i := 0; i < 20; i++ {
		f, err := r.Next(ctx)
		if err != nil {
			t.Fatalf("Next %d failed: %v", i, err)
		}
		want := fmt.Sprintf("frame-%d", i)
		if string(f) != want {
			t.Errorf("frame %d = %q, want %q", i, f, want)
		}
	}
}

func TestRelay_TryEnqueueFull(t *testing.T) {
	r := NewRelay(2)

	if err := r.TryEnqueue(Frame("a")); err != nil {
		t.Fatalf("TryEnqueue a failed: %v", err)
	}
	if err := r.TryEnqueue(Frame("b")); err != nil {
		t.Fatalf("TryEnqueue b failed: %v", err)
	}
	if err := r.TryEnqueue(Frame("c")); !errors.Is(err, ErrRelayFull) {
		t.Errorf("TryEnqueue on full relay = %v, want ErrRelayFull", err)
	}
}

func TestRelay_EnqueueBlocksWhileFull(t *testing.T) {
	r := NewRelay(1)
	ctx := context.Background()

	if err := r.Enqueue(ctx, Frame("first")); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- r.Enqueue(ctx, Frame("second"))
	}()

	select {
	case err := <-done:
		t.Fatalf("Enqueue returned %v while relay was full", err)
	case <-time.After(50 * time.Millisecond):
	}

	if f, _ := r.Next(ctx); string(f) != "first" {
		t.Errorf("Next() = %q, want first", f)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("blocked Enqueue returned %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("blocked Enqueue did not resume")
	}
}

func TestRelay_EnqueueContextCancelled(t *testing.T) {
	r := NewRelay(1)
	r.TryEnqueue(Frame("fill"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := r.Enqueue(ctx, Frame("late")); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Enqueue = %v, want context.DeadlineExceeded", err)
	}
}

func TestRelay_Close(t *testing.T) {
	r := NewRelay(1)
	r.TryEnqueue(Frame("fill"))
	ctx := context.Background()

	blocked := make(chan error, 1)
	go func() {
		blocked <- r.Enqueue(ctx, Frame("blocked"))
	}()

	time.Sleep(10 * time.Millisecond)
	r.Close()
	r.Close() // second close is a no-op

	select {
	case err := <-blocked:
		if !errors.Is(err, ErrRelayClosed) {
			t.Errorf("blocked Enqueue = %v, want ErrRelayClosed", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Close did not release blocked producer")
	}

	if err := r.Enqueue(ctx, Frame("after")); !errors.Is(err, ErrRelayClosed) {
		t.Errorf("Enqueue after Close = %v, want ErrRelayClosed", err)
	}
	if err := r.TryEnqueue(Frame("after")); !errors.Is(err, ErrRelayClosed) {
		t.Errorf("TryEnqueue after Close = %v, want ErrRelayClosed", err)
	}

	select {
	case <-r.Done():
	default:
		t.Error("Done() should be closed after Close")
	}
}

func TestRelay_NextAfterCloseEmpty(t *testing.T) {
	r := NewRelay(4)
	r.Close()

	if _, err := r.Next(context.Background()); !errors.Is(err, ErrRelayClosed) {
		t.Errorf("Next on closed empty relay = %v, want ErrRelayClosed", err)
	}
}
