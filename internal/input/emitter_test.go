package input

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/engine"
)

func TestEmitter_EventActions(t *testing.T) {
	cases := []struct {
		name  string
		event engine.Event
		want  []string
	}{
		{
			name:  "tap is a left click at the event position",
			event: engine.Event{Type: engine.Tap, ScreenX: 100, ScreenY: 200},
			want:  []string{"move(100,200)", "click(left)"},
		},
		{
			name:  "double tap double-clicks",
			event: engine.Event{Type: engine.DoubleTap, ScreenX: 10, ScreenY: 20},
			want:  []string{"move(10,20)", "doubleclick"},
		},
		{
			name:  "hold start is not actionable",
			event: engine.Event{Type: engine.PinchHoldStart, ScreenX: 5, ScreenY: 5},
			want:  nil,
		},
		{
			name:  "hold end right-clicks",
			event: engine.Event{Type: engine.PinchHoldEnd, ScreenX: 300, ScreenY: 400},
			want:  []string{"move(300,400)", "click(right)"},
		},
		{
			name:  "drag start presses the button down",
			event: engine.Event{Type: engine.DragStart, ScreenX: 50, ScreenY: 60},
			want:  []string{"move(50,60)", "press(left)"},
		},
		{
			name:  "drag move only moves",
			event: engine.Event{Type: engine.DragMove, ScreenX: 55, ScreenY: 65},
			want:  []string{"move(55,65)"},
		},
		{
			name:  "drag end releases at the final position",
			event: engine.Event{Type: engine.DragEnd, ScreenX: 70, ScreenY: 80},
			want:  []string{"move(70,80)", "release(left)"},
		},
		{
			name:  "flick scrolls",
			event: engine.Event{Type: engine.Flick, Dir: engine.FlickUp, Magnitude: 4},
			want:  []string{"scroll(up,4)"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sink := NewMockSink()
			em := NewEmitter(sink, time.Second)

			if err := em.Emit(context.Background(), tc.event); err != nil {
				t.Fatalf("Emit() error = %v", err)
			}
			if got := sink.Calls(); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("calls = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEmitter_UnknownEventType(t *testing.T) {
	em := NewEmitter(NewMockSink(), time.Second)
	err := em.Emit(context.Background(), engine.Event{Type: "wave"})
	if err == nil {
		t.Error("expected error for unknown event type")
	}
}

func TestEmitter_SinkErrorPropagates(t *testing.T) {
	sink := NewMockSink()
	sink.SetError(errors.New("device unavailable"))
	em := NewEmitter(sink, time.Second)

	err := em.Emit(context.Background(), engine.Event{Type: engine.Tap})
	if err == nil {
		t.Fatal("expected sink error to propagate")
	}
}

func TestEmitter_TimeoutDropsAction(t *testing.T) {
	sink := NewMockSink()
	sink.SetDelay(200 * time.Millisecond)
	em := NewEmitter(sink, 20*time.Millisecond)

	err := em.Emit(context.Background(), engine.Event{Type: engine.Tap})
	if !errors.Is(err, ErrActionTimeout) {
		t.Fatalf("expected ErrActionTimeout, got %v", err)
	}
	if em.Dropped() != 1 {
		t.Errorf("dropped = %d, want 1", em.Dropped())
	}

	// Later actions still go through once the sink recovers.
	sink.SetDelay(0)
	if err := em.Emit(context.Background(), engine.Event{Type: engine.Tap, ScreenX: 1, ScreenY: 1}); err != nil {
		t.Fatalf("Emit() after recovery error = %v", err)
	}
}

func TestEmitter_MoveTo(t *testing.T) {
	sink := NewMockSink()
	em := NewEmitter(sink, time.Second)

	if err := em.MoveTo(context.Background(), 640, 480); err != nil {
		t.Fatalf("MoveTo() error = %v", err)
	}
	if got := sink.LastCall(); got != "move(640,480)" {
		t.Errorf("last call = %q, want move(640,480)", got)
	}
}
