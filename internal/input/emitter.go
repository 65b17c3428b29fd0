package input

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/ayusman/mudra/internal/engine"
)

// ErrActionTimeout is returned when the sink does not complete an action
// within the emitter's deadline.
var ErrActionTimeout = errors.New("input: action timed out")

// Emitter translates gesture events into sink actions. Every sink call is
// bounded by a timeout; an action that misses the deadline is dropped and
// logged, never retried, because a late click would land on whatever the
// user is pointing at by then.
type Emitter struct {
	sink    Sink
	timeout time.Duration
	dropped uint64
}

// NewEmitter wraps sink with the given per-action deadline.
func NewEmitter(sink Sink, timeout time.Duration) *Emitter {
	if timeout <= 0 {
		timeout = 250 * time.Millisecond
	}
	return &Emitter{sink: sink, timeout: timeout}
}

// Dropped returns the number of actions abandoned on timeout.
func (e *Emitter) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

// MoveTo repositions the OS cursor. Used for the per-frame cursor stream.
func (e *Emitter) MoveTo(ctx context.Context, x, y int) error {
	return e.run(ctx, "move", func() error {
		return e.sink.MoveTo(x, y)
	})
}

// Release lets go of a held button outside the normal event flow. Used when
// a cancellation cuts a drag short and no DragEnd will ever arrive to
// release the button.
func (e *Emitter) Release(ctx context.Context, b Button) error {
	return e.run(ctx, "release", func() error {
		return e.sink.Release(b)
	})
}

// Emit performs the desktop action for one gesture event. The cursor is
// moved to the event's screen position first so the action lands where the
// gesture was aimed, not where the hand has drifted since.
func (e *Emitter) Emit(ctx context.Context, ev engine.Event) error {
	switch ev.Type {
	case engine.Tap:
		return e.run(ctx, "tap", func() error {
			if err := e.sink.MoveTo(ev.ScreenX, ev.ScreenY); err != nil {
				return err
			}
			return e.sink.Click(ButtonLeft)
		})

	case engine.DoubleTap:
		return e.run(ctx, "double-tap", func() error {
			if err := e.sink.MoveTo(ev.ScreenX, ev.ScreenY); err != nil {
				return err
			}
			return e.sink.DoubleClick()
		})

	case engine.PinchHoldStart:
		// The hold is not actionable until it completes.
		return nil

	case engine.PinchHoldEnd:
		return e.run(ctx, "hold", func() error {
			if err := e.sink.MoveTo(ev.ScreenX, ev.ScreenY); err != nil {
				return err
			}
			return e.sink.Click(ButtonRight)
		})

	case engine.DragStart:
		return e.run(ctx, "drag-start", func() error {
			if err := e.sink.MoveTo(ev.ScreenX, ev.ScreenY); err != nil {
				return err
			}
			return e.sink.Press(ButtonLeft)
		})

	case engine.DragMove:
		return e.run(ctx, "drag-move", func() error {
			return e.sink.MoveTo(ev.ScreenX, ev.ScreenY)
		})

	case engine.DragEnd:
		return e.run(ctx, "drag-end", func() error {
			if err := e.sink.MoveTo(ev.ScreenX, ev.ScreenY); err != nil {
				return err
			}
			return e.sink.Release(ButtonLeft)
		})

	case engine.Flick:
		return e.run(ctx, "flick", func() error {
			return e.sink.Scroll(ScrollDirection(ev.Dir), ev.Magnitude)
		})
	}

	return fmt.Errorf("input: unknown event type %q", ev.Type)
}

// run executes fn with a bounded deadline. The sink call keeps running in
// its goroutine if the deadline fires, but its result is discarded.
func (e *Emitter) run(ctx context.Context, name string, fn func() error) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("input: %s failed: %w", name, err)
		}
		return nil
	case <-ctx.Done():
		atomic.AddUint64(&e.dropped, 1)
		log.Printf("input: %s dropped after %s: %v", name, e.timeout, ctx.Err())
		return ErrActionTimeout
	}
}
