package engine

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies a classified gesture event.
type EventType string

const (
	// Tap is a quick pinch-release on the primary (thumb-index) pair.
	Tap EventType = "tap"
	// DoubleTap is a quick pinch-release on the secondary (thumb-middle) pair.
	DoubleTap EventType = "double_tap"
	// PinchHoldStart fires once when a stationary pinch crosses the hold
	// duration. The right-click fires on PinchHoldEnd, not here.
	PinchHoldStart EventType = "pinch_hold_start"
	// PinchHoldEnd is the release of a stationary hold.
	PinchHoldEnd EventType = "pinch_hold_end"
	// DragStart, DragMove, DragEnd bracket a pinch that moved past the
	// drag deadzone. DragMove repeats once per frame while dragging.
	DragStart EventType = "drag_start"
	DragMove  EventType = "drag_move"
	DragEnd   EventType = "drag_end"
	// Flick is a fast release mapped to a scroll.
	Flick EventType = "flick"
)

// Terminal reports whether the event completes a pinch cycle. Every
// engage/disengage pair produces exactly one terminal event.
func (t EventType) Terminal() bool {
	switch t {
	case Tap, DoubleTap, PinchHoldEnd, DragEnd, Flick:
		return true
	}
	return false
}

// ChannelID names a monitored finger pair.
type ChannelID string

const (
	// ChannelIndex is the primary thumb-index pair (click, hold, drag, flick).
	ChannelIndex ChannelID = "index"
	// ChannelMiddle is the secondary thumb-middle pair (double-tap).
	ChannelMiddle ChannelID = "middle"
)

// FlickDirection is the dominant axis direction of a flick.
type FlickDirection string

const (
	FlickUp    FlickDirection = "up"
	FlickDown  FlickDirection = "down"
	FlickLeft  FlickDirection = "left"
	FlickRight FlickDirection = "right"
)

// Event is a discrete, timestamped gesture classification. It is created by
// the pinch state machine, consumed exactly once by the action emitter, then
// discarded.
type Event struct {
	ID      string    `json:"id"`
	Type    EventType `json:"type"`
	Channel ChannelID `json:"channel"`
	Time    time.Time `json:"time"`

	// ScreenX, ScreenY is where the action lands: the frozen cursor
	// position for click-like events, the live position for drag moves.
	ScreenX int `json:"screen_x"`
	ScreenY int `json:"screen_y"`

	// Duration, Motion and Velocity describe the completed pinch for
	// terminal events: engaged time, cumulative fingertip travel, and
	// release speed in normalized units per second.
	Duration time.Duration `json:"duration"`
	Motion   float64       `json:"motion"`
	Velocity float64       `json:"velocity"`

	// Forced marks a best-effort classification produced by the stuck
	// state timeout rather than an observed release.
	Forced bool `json:"forced,omitempty"`

	// Dir and Magnitude are set for flicks: scroll direction and 1-10
	// scroll clicks derived from the release velocity.
	Dir       FlickDirection `json:"dir,omitempty"`
	Magnitude int            `json:"magnitude,omitempty"`
}

func newEvent(t EventType, ch ChannelID, ts time.Time) Event {
	return Event{
		ID:      "evt_" + uuid.NewString(),
		Type:    t,
		Channel: ch,
		Time:    ts,
	}
}
