package app

import (
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/detector"
)

func TestFrameBox_LatestFrameWins(t *testing.T) {
	box := NewFrameBox()
	start := time.Unix(3000, 0)

	// Three puts before any take: only the newest survives.
	box.Put(detector.AbsentFrame(start))
	box.Put(detector.AbsentFrame(start.Add(33 * time.Millisecond)))
	box.Put(detector.AbsentFrame(start.Add(66 * time.Millisecond)))

	frame, ok := box.Take()
	if !ok {
		t.Fatal("expected a frame")
	}
	if !frame.Timestamp.Equal(start.Add(66 * time.Millisecond)) {
		t.Errorf("got frame at %v, want the newest", frame.Timestamp)
	}
	if box.Dropped() != 2 {
		t.Errorf("dropped = %d, want 2", box.Dropped())
	}
}

func TestFrameBox_TakeEmpty(t *testing.T) {
	box := NewFrameBox()
	if _, ok := box.Take(); ok {
		t.Error("empty box should report no frame")
	}
}

func TestFrameBox_SignalFires(t *testing.T) {
	box := NewFrameBox()
	box.Put(detector.AbsentFrame(time.Unix(3000, 0)))

	select {
	case <-box.Wait():
	case <-time.After(time.Second):
		t.Fatal("signal never fired")
	}

	if _, ok := box.Take(); !ok {
		t.Fatal("expected a frame after the signal")
	}
}

func TestFrameBox_SignalCoalesces(t *testing.T) {
	box := NewFrameBox()
	start := time.Unix(3000, 0)

	box.Put(detector.AbsentFrame(start))
	box.Put(detector.AbsentFrame(start.Add(time.Millisecond)))

	<-box.Wait()
	if _, ok := box.Take(); !ok {
		t.Fatal("expected a frame")
	}

	// Both puts collapsed into at most one pending signal and one frame.
	select {
	case <-box.Wait():
		if _, ok := box.Take(); ok {
			t.Error("no second frame should remain")
		}
	default:
	}
}
