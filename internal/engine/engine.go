package engine

import (
	"log"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/detector"
)

// Engine is the gesture-to-action translation core. It consumes landmark
// frames strictly in arrival order and produces a stabilized cursor
// position plus discrete gesture events. All thresholds are evaluated
// synchronously per frame; nothing inside the engine blocks.
type Engine struct {
	mu  sync.Mutex
	cfg Config

	smoother *Smoother
	mapper   Mapper
	cursor   CursorState

	primary   *Channel // thumb-index: tap / hold / drag / flick
	secondary *Channel // thumb-middle: double-tap

	cooldownUntil time.Time
	handPresent   bool
	suppressed    uint64
	forced        uint64
}

// Update is the result of processing one frame.
type Update struct {
	CursorX     int
	CursorY     int
	CursorMoved bool
	Frozen      bool
	HandPresent bool
	Events      []Event
}

// Status is a point-in-time snapshot for telemetry.
type Status struct {
	HandPresent  bool          `json:"hand_present"`
	Frozen       bool          `json:"frozen"`
	CursorX      int           `json:"cursor_x"`
	CursorY      int           `json:"cursor_y"`
	Index        ChannelStatus `json:"index"`
	Middle       ChannelStatus `json:"middle"`
	Suppressed   uint64        `json:"suppressed_taps"`
	ForcedResets uint64        `json:"forced_resets"`
}

// ChannelStatus describes one pinch channel.
type ChannelStatus struct {
	State    string  `json:"state"`
	Distance float64 `json:"distance"`
	Strength float64 `json:"strength"`
}

// New creates an engine with the given configuration.
func New(cfg Config) *Engine {
	return &Engine{
		cfg:       cfg,
		smoother:  NewSmoother(cfg.Smoothing),
		mapper:    NewMapper(cfg.ScreenWidth, cfg.ScreenHeight, cfg.EdgeMargin),
		primary:   NewChannel(ChannelIndex),
		secondary: NewChannel(ChannelMiddle),
	}
}

// Process consumes one frame and returns the resulting cursor state and
// events. It must be called from a single goroutine; frames are processed
// strictly in arrival order.
func (e *Engine) Process(frame detector.Frame) Update {
	e.mu.Lock()
	defer e.mu.Unlock()

	pose, ok := PoseFrom(frame)
	if !ok {
		return e.processAbsent(frame.Timestamp)
	}

	now := frame.Timestamp
	if !e.handPresent {
		// Tracking resumed: reseed the smoother so the cursor does not
		// sweep across the screen from its stale position.
		e.smoother.Reset()
	}
	e.handPresent = true

	// Terminal events land on the position committed before the pinch
	// began, captured before this frame can move the cursor.
	clickX, clickY := e.cursor.Position()

	events := e.primary.Update(pose.IndexPinch, pose.Index.X, pose.Index.Y, now, e.cfg)
	events = append(events, e.secondary.Update(pose.MiddlePinch, pose.Middle.X, pose.Middle.Y, now, e.cfg)...)
	events = e.applyGhostFilter(events, now)

	e.updateFreeze()

	moved := false
	if !e.cursor.Frozen() {
		wasCommitted := e.cursor.Committed()
		sx, sy := e.smoother.Update(pose.Index.X, pose.Index.Y)
		px, py := e.mapper.Map(sx, sy)
		ox, oy := e.cursor.Position()
		e.cursor.Commit(px, py)
		moved = px != ox || py != oy || !wasCommitted
	}

	liveX, liveY := e.cursor.Position()
	for i := range events {
		if events[i].Type == DragMove || events[i].Type == DragStart {
			events[i].ScreenX, events[i].ScreenY = liveX, liveY
		} else {
			events[i].ScreenX, events[i].ScreenY = clickX, clickY
		}
	}

	return Update{
		CursorX:     liveX,
		CursorY:     liveY,
		CursorMoved: moved,
		Frozen:      e.cursor.Frozen(),
		HandPresent: true,
		Events:      events,
	}
}

// processAbsent handles a hand-absent frame: everything holds its last
// committed state, except that stuck engagements past MaxEngagedAge are
// force-reset with a best-effort classification.
func (e *Engine) processAbsent(now time.Time) Update {
	e.handPresent = false

	clickX, clickY := e.cursor.Position()

	events := e.primary.Expire(now, e.cfg)
	events = append(events, e.secondary.Expire(now, e.cfg)...)
	events = e.applyGhostFilter(events, now)

	if len(events) > 0 {
		e.updateFreeze()
	}

	for i := range events {
		events[i].ScreenX, events[i].ScreenY = clickX, clickY
	}

	x, y := e.cursor.Position()
	return Update{
		CursorX:     x,
		CursorY:     y,
		Frozen:      e.cursor.Frozen(),
		HandPresent: false,
		Events:      events,
	}
}

// applyGhostFilter arms the double-tap cooldown and suppresses taps that
// complete inside it, so an accidental extra tap cannot register right
// after a deliberate double-tap.
func (e *Engine) applyGhostFilter(events []Event, now time.Time) []Event {
	kept := events[:0]
	for _, ev := range events {
		if ev.Forced {
			e.forced++
			log.Printf("engine: forced %s on %s channel after %s engaged (stuck state)",
				ev.Type, ev.Channel, ev.Duration)
		}
		if ev.Type == Tap && now.Before(e.cooldownUntil) {
			e.suppressed++
			log.Printf("engine: tap suppressed by double-tap cooldown")
			continue
		}
		if ev.Type == DoubleTap {
			e.cooldownUntil = now.Add(e.cfg.DoubleTapCooldown)
		}
		kept = append(kept, ev)
	}
	return kept
}

// updateFreeze keeps CursorState.frozen in sync with the channel
// lifecycles: frozen while any channel holds a click-like pinch, live
// while the primary channel drags, unfrozen otherwise.
func (e *Engine) updateFreeze() {
	switch {
	case e.primary.Dragging():
		e.cursor.Unfreeze()
	case e.primary.Holding() || e.secondary.Holding():
		e.cursor.Freeze()
	default:
		e.cursor.Unfreeze()
	}
}

// Reset cancels the session: all channels force-reset to Idle without
// emitting events and the cursor unfreezes, regardless of in-flight state.
// It reports whether a drag was cut short, so the caller can release the
// held mouse button.
func (e *Engine) Reset() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	dragging := e.primary.Dragging()
	e.primary.Reset()
	e.secondary.Reset()
	e.cursor.Unfreeze()
	e.smoother.Reset()
	e.handPresent = false
	e.cooldownUntil = time.Time{}
	return dragging
}

// Config returns the current configuration.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// SetConfig applies a new configuration, taking effect on the next frame.
func (e *Engine) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.cfg = cfg
	e.smoother.SetAlpha(cfg.Smoothing)
	e.mapper = NewMapper(cfg.ScreenWidth, cfg.ScreenHeight, cfg.EdgeMargin)
	return nil
}

// Snapshot returns the current engine state for the status API.
func (e *Engine) Snapshot() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	x, y := e.cursor.Position()
	return Status{
		HandPresent:  e.handPresent,
		Frozen:       e.cursor.Frozen(),
		CursorX:      x,
		CursorY:      y,
		Index:        e.channelStatus(e.primary),
		Middle:       e.channelStatus(e.secondary),
		Suppressed:   e.suppressed,
		ForcedResets: e.forced,
	}
}

func (e *Engine) channelStatus(c *Channel) ChannelStatus {
	strength := 0.0
	if d := c.Distance(); d < e.cfg.ReleaseAbove {
		strength = 1 - d/e.cfg.ReleaseAbove
	}
	return ChannelStatus{
		State:    c.StateName(),
		Distance: c.Distance(),
		Strength: strength,
	}
}
