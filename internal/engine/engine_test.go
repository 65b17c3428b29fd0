package engine

import (
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/testdata"
)

func processAll(e *Engine, frames []detector.Frame) []Update {
	updates := make([]Update, 0, len(frames))
	for _, f := range frames {
		updates = append(updates, e.Process(f))
	}
	return updates
}

func collectEvents(updates []Update) []Event {
	var events []Event
	for _, u := range updates {
		events = append(events, u.Events...)
	}
	return events
}

func TestEngine_TapLandsOnFrozenPosition(t *testing.T) {
	e := New(DefaultConfig())
	start := time.Unix(2000, 0)

	frames := testdata.Frames(testdata.TapScript(), start)
	updates := processAll(e, frames)

	events := collectEvents(updates)
	if len(events) != 1 || events[0].Type != Tap {
		t.Fatalf("expected single tap, got %v", events)
	}

	// The tap must land where the cursor was before the pinch began, not
	// where the fingertips ended up.
	preX, preY := updates[2].CursorX, updates[2].CursorY
	if events[0].ScreenX != preX || events[0].ScreenY != preY {
		t.Errorf("tap at (%d,%d), want pre-pinch position (%d,%d)",
			events[0].ScreenX, events[0].ScreenY, preX, preY)
	}
}

func TestEngine_CursorFrozenWhilePinched(t *testing.T) {
	e := New(DefaultConfig())
	start := time.Unix(2000, 0)

	frames := testdata.Frames(testdata.TapScript(), start)
	updates := processAll(e, frames)

	// Open frames: live. Pinched frames (3..6): frozen, position pinned.
	if updates[2].Frozen {
		t.Error("cursor should be live before the pinch")
	}
	frozenX, frozenY := updates[3].CursorX, updates[3].CursorY
	for i := 3; i <= 6; i++ {
		if !updates[i].Frozen {
			t.Errorf("frame %d: cursor should be frozen while pinched", i)
		}
		if updates[i].CursorX != frozenX || updates[i].CursorY != frozenY {
			t.Errorf("frame %d: frozen cursor moved to (%d,%d)", i, updates[i].CursorX, updates[i].CursorY)
		}
	}
	last := updates[len(updates)-1]
	if last.Frozen {
		t.Error("cursor should unfreeze after classification")
	}
}

func TestEngine_HoldEmitsStartAndEnd(t *testing.T) {
	e := New(DefaultConfig())
	start := time.Unix(2000, 0)

	events := collectEvents(processAll(e, testdata.Frames(testdata.HoldScript(), start)))

	var types []EventType
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	if len(types) != 2 || types[0] != PinchHoldStart || types[1] != PinchHoldEnd {
		t.Fatalf("expected [pinch_hold_start pinch_hold_end], got %v", types)
	}
}

func TestEngine_DragTracksLive(t *testing.T) {
	e := New(DefaultConfig())
	start := time.Unix(2000, 0)

	frames := testdata.Frames(testdata.DragScript(), start)
	updates := processAll(e, frames)
	events := collectEvents(updates)

	var starts, moves, ends int
	var moveXs []int
	for _, ev := range events {
		switch ev.Type {
		case DragStart:
			starts++
		case DragMove:
			moves++
			moveXs = append(moveXs, ev.ScreenX)
		case DragEnd:
			ends++
		}
	}
	if starts != 1 || ends != 1 || moves == 0 {
		t.Fatalf("expected 1 start, >0 moves, 1 end; got %d/%d/%d", starts, moves, ends)
	}

	// Drag moves must carry a live, advancing position.
	if moveXs[len(moveXs)-1] <= moveXs[0] {
		t.Errorf("drag_move positions should advance, got %v", moveXs)
	}

	// The cursor must not be frozen during the drag.
	for _, u := range updates {
		for _, ev := range u.Events {
			if ev.Type == DragMove && u.Frozen {
				t.Error("cursor frozen during drag")
			}
		}
	}
}

func TestEngine_DoubleTapCooldownSuppressesTap(t *testing.T) {
	e := New(DefaultConfig())
	start := time.Unix(2000, 0)

	// Double-tap, then an index tap released inside the cooldown window.
	script := testdata.Concat(
		testdata.DoubleTapScript(),
		testdata.IndexPinch(4, 0.5, 0.45),
		testdata.Open(2),
	)
	events := collectEvents(processAll(e, testdata.Frames(script, start)))

	if len(events) != 1 || events[0].Type != DoubleTap {
		t.Fatalf("expected only the double_tap, got %v", events)
	}

	if got := e.Snapshot().Suppressed; got != 1 {
		t.Errorf("expected 1 suppressed tap, got %d", got)
	}
}

func TestEngine_TapAfterCooldownSurvives(t *testing.T) {
	e := New(DefaultConfig())
	start := time.Unix(2000, 0)

	// Same shape, but the tap happens after the cooldown expired.
	script := testdata.Concat(
		testdata.DoubleTapScript(),
		testdata.Open(12), // ~400ms gap
		testdata.IndexPinch(4, 0.5, 0.45),
		testdata.Open(2),
	)
	events := collectEvents(processAll(e, testdata.Frames(script, start)))

	if len(events) != 2 {
		t.Fatalf("expected double_tap then tap, got %v", events)
	}
	if events[0].Type != DoubleTap || events[1].Type != Tap {
		t.Errorf("got %s, %s", events[0].Type, events[1].Type)
	}
}

func TestEngine_TrackingLossForcesReset(t *testing.T) {
	e := New(DefaultConfig())
	start := time.Unix(2000, 0)

	// Engage, then lose the hand for good.
	engage := testdata.Concat(testdata.Open(3), testdata.IndexPinch(4, 0.5, 0.45))
	processAll(e, testdata.Frames(engage, start))

	// Absent frames inside the timeout: silent.
	u := e.Process(detector.AbsentFrame(start.Add(1 * time.Second)))
	if len(u.Events) != 0 {
		t.Fatalf("expected no events before the timeout, got %v", u.Events)
	}

	// Past the max engaged age: forced classification, reset to idle.
	u = e.Process(detector.AbsentFrame(start.Add(5 * time.Second)))
	if len(u.Events) != 1 {
		t.Fatalf("expected forced event, got %v", u.Events)
	}
	if !u.Events[0].Forced {
		t.Error("event should be flagged forced")
	}
	if u.Frozen {
		t.Error("cursor must unfreeze after a forced reset")
	}

	snap := e.Snapshot()
	if snap.Index.State != "idle" {
		t.Errorf("index channel should be idle, got %s", snap.Index.State)
	}
	if snap.ForcedResets != 1 {
		t.Errorf("expected 1 forced reset, got %d", snap.ForcedResets)
	}
}

func TestEngine_SmootherReseedsAfterTrackingGap(t *testing.T) {
	e := New(DefaultConfig())
	start := time.Unix(2000, 0)

	// Track at one position, lose the hand, reappear far away. The cursor
	// must jump to the new position rather than sweep across.
	processAll(e, testdata.Frames(testdata.Open(5), start))
	e.Process(detector.AbsentFrame(start.Add(1 * time.Second)))

	far := detector.PinchedIndexLandmarks(0.9, 0.2, 0.5) // wide gap: no pinch
	u := e.Process(detector.Frame{Hand: &far, Timestamp: start.Add(2 * time.Second)})

	cfg := DefaultConfig()
	wantX, wantY := NewMapper(cfg.ScreenWidth, cfg.ScreenHeight, cfg.EdgeMargin).Map(0.9, 0.2)
	if u.CursorX != wantX || u.CursorY != wantY {
		t.Errorf("cursor at (%d,%d) after gap, want reseeded (%d,%d)", u.CursorX, u.CursorY, wantX, wantY)
	}
}

func TestEngine_ResetClearsEverything(t *testing.T) {
	e := New(DefaultConfig())
	start := time.Unix(2000, 0)

	engage := testdata.Concat(testdata.Open(3), testdata.IndexPinch(4, 0.5, 0.45))
	processAll(e, testdata.Frames(engage, start))

	if e.Reset() {
		t.Error("a click-like pinch holds no button, reset should not report a cut drag")
	}

	snap := e.Snapshot()
	if snap.Index.State != "idle" || snap.Middle.State != "idle" {
		t.Errorf("channels should be idle after reset, got %s/%s", snap.Index.State, snap.Middle.State)
	}
	if snap.Frozen {
		t.Error("cursor should be unfrozen after reset")
	}
	if snap.HandPresent {
		t.Error("hand presence should clear on reset")
	}
}

func TestEngine_ResetReportsCutDrag(t *testing.T) {
	e := New(DefaultConfig())
	start := time.Unix(2000, 0)

	// Engage and travel past the deadzone so the drag presses a button,
	// then reset with the drag still in flight.
	midDrag := testdata.Concat(
		testdata.Open(3),
		testdata.IndexPinch(3, 0.3, 0.45),
		testdata.IndexDrag(8, 0.3, 0.45, 0.5, 0.45),
	)
	processAll(e, testdata.Frames(midDrag, start))

	if !e.Reset() {
		t.Error("reset mid-drag must report the cut drag so the button gets released")
	}
	if e.Reset() {
		t.Error("a second reset has nothing left to cut")
	}
}

func TestEngine_SetConfigValidates(t *testing.T) {
	e := New(DefaultConfig())

	bad := DefaultConfig()
	bad.ReleaseAbove = bad.EngageBelow // no hysteresis band
	if err := e.SetConfig(bad); err == nil {
		t.Error("expected error for collapsed hysteresis band")
	}

	good := DefaultConfig()
	good.Smoothing = 0.5
	if err := e.SetConfig(good); err != nil {
		t.Fatalf("SetConfig() error = %v", err)
	}
	if e.Config().Smoothing != 0.5 {
		t.Errorf("config not applied, smoothing = %f", e.Config().Smoothing)
	}
}
