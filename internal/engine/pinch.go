package engine

import (
	"math"
	"time"
)

// channelState is the lifecycle position of one monitored finger pair.
//
//	Idle -> Engaging -> Engaged -> Releasing -> Idle
//	                       |           ^
//	                       v           |
//	                    Dragging ------+
//
// Engaging and Releasing each require one stable confirming sample, which
// debounces flicker when the distance oscillates near a threshold.
type channelState int

const (
	stateIdle channelState = iota
	stateEngaging
	stateEngaged
	stateDragging
	stateReleasing
)

func (s channelState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateEngaging:
		return "engaging"
	case stateEngaged:
		return "engaged"
	case stateDragging:
		return "dragging"
	case stateReleasing:
		return "releasing"
	}
	return "unknown"
}

// trailWindow is the release-velocity measurement window.
const trailWindow = 100 * time.Millisecond

// trailCap bounds the sample history (~0.5s at 30Hz is plenty).
const trailCap = 16

type trailSample struct {
	x, y float64
	t    time.Time
}

// Channel tracks the thumb-to-fingertip distance for one finger pair and
// classifies each completed engage/release cycle into exactly one terminal
// event. Channels are not safe for concurrent use; the engine serializes
// all updates.
type Channel struct {
	id    ChannelID
	state channelState

	engagedAt   time.Time
	releaseAt   time.Time
	lastSeen    time.Time
	lastRelease time.Time
	lastDist    float64

	prevX, prevY float64
	hasPrev      bool
	cumMove      float64
	moved        bool
	holdFired    bool

	trail []trailSample
}

// NewChannel creates an idle channel for the given finger pair.
func NewChannel(id ChannelID) *Channel {
	return &Channel{
		id:       id,
		lastDist: math.Inf(1),
		trail:    make([]trailSample, 0, trailCap),
	}
}

// Update feeds one frame's palm-scaled distance and fingertip position into
// the state machine and returns any events it produced.
func (c *Channel) Update(dist, x, y float64, now time.Time, cfg Config) []Event {
	c.lastDist = dist
	c.lastSeen = now

	var events []Event

	// Stuck-state guard: an engagement can never outlive MaxEngagedAge,
	// even with frames flowing.
	if c.state != stateIdle && now.Sub(c.engagedAt) > cfg.MaxEngagedAge {
		events = append(events, c.forceClassify(now, cfg))
		c.toIdle()
		return events
	}

	switch c.state {
	case stateIdle:
		if dist < cfg.EngageBelow {
			c.state = stateEngaging
			c.engagedAt = now
			c.cumMove = 0
			c.moved = false
			c.holdFired = false
			c.prevX, c.prevY = x, y
			c.hasPrev = true
			c.trail = c.trail[:0]
			c.pushTrail(x, y, now)
		}

	case stateEngaging:
		if dist < cfg.EngageBelow {
			c.state = stateEngaged
			c.trackMotion(x, y, now, cfg)
		} else {
			// Flicker: the pinch never stabilized, so no cycle began.
			c.toIdle()
		}

	case stateEngaged:
		c.trackMotion(x, y, now, cfg)
		switch {
		case dist > cfg.ReleaseAbove:
			c.state = stateReleasing
			c.releaseAt = now
		case c.moved:
			c.state = stateDragging
			events = append(events, c.finish(newEvent(DragStart, c.id, now)))
		case !c.holdFired && now.Sub(c.engagedAt) >= cfg.HoldMin:
			c.holdFired = true
			events = append(events, c.finish(newEvent(PinchHoldStart, c.id, now)))
		}

	case stateDragging:
		c.trackMotion(x, y, now, cfg)
		if dist > cfg.ReleaseAbove {
			c.state = stateReleasing
			c.releaseAt = now
		} else {
			events = append(events, c.finish(newEvent(DragMove, c.id, now)))
		}

	case stateReleasing:
		switch {
		case dist > cfg.ReleaseAbove:
			// Stable sample above threshold: classify and complete.
			events = append(events, c.classify(now, cfg))
			c.toIdle()
		case dist < cfg.EngageBelow:
			// Dipped back below the band before stabilizing.
			if c.moved {
				c.state = stateDragging
			} else {
				c.state = stateEngaged
			}
			c.trackMotion(x, y, now, cfg)
		}
		// Inside the hysteresis band: keep waiting.
	}

	return events
}

// Expire is called on hand-absent frames. If the engagement has exceeded
// MaxEngagedAge it forces a best-effort classification from the partial
// data observed before tracking was lost, rather than stalling forever.
func (c *Channel) Expire(now time.Time, cfg Config) []Event {
	if c.state == stateIdle {
		return nil
	}
	if now.Sub(c.engagedAt) <= cfg.MaxEngagedAge {
		return nil
	}
	ev := c.forceClassify(now, cfg)
	c.toIdle()
	return []Event{ev}
}

// Reset forces the channel to Idle without producing an event. Used on
// session cancellation, where no gesture should fire.
func (c *Channel) Reset() {
	c.state = stateIdle
	c.hasPrev = false
	c.cumMove = 0
	c.moved = false
	c.holdFired = false
	c.trail = c.trail[:0]
	c.lastDist = math.Inf(1)
}

// Holding reports whether the channel is in a click/hold phase where the
// cursor must stay frozen.
func (c *Channel) Holding() bool {
	switch c.state {
	case stateEngaging, stateEngaged:
		return true
	case stateReleasing:
		return !c.moved
	}
	return false
}

// Dragging reports whether the channel is in a drag, where the cursor must
// track hand motion live.
func (c *Channel) Dragging() bool {
	if c.state == stateDragging {
		return true
	}
	return c.state == stateReleasing && c.moved
}

// Idle reports whether the channel is between cycles.
func (c *Channel) Idle() bool {
	return c.state == stateIdle
}

// StateName returns the lifecycle state for telemetry.
func (c *Channel) StateName() string {
	return c.state.String()
}

// Distance returns the last observed palm-scaled distance.
func (c *Channel) Distance() float64 {
	return c.lastDist
}

func (c *Channel) trackMotion(x, y float64, now time.Time, cfg Config) {
	if c.hasPrev {
		c.cumMove += math.Hypot(x-c.prevX, y-c.prevY)
	}
	c.prevX, c.prevY = x, y
	c.hasPrev = true
	if c.cumMove > cfg.DragDeadzone {
		c.moved = true
	}
	c.pushTrail(x, y, now)
}

func (c *Channel) pushTrail(x, y float64, now time.Time) {
	if len(c.trail) >= trailCap {
		copy(c.trail, c.trail[1:])
		c.trail = c.trail[:trailCap-1]
	}
	c.trail = append(c.trail, trailSample{x: x, y: y, t: now})
}

// releaseVelocity measures the fingertip speed over the trailing
// measurement window, in normalized units per second.
func (c *Channel) releaseVelocity() float64 {
	if len(c.trail) < 3 {
		return 0
	}
	last := c.trail[len(c.trail)-1]
	target := last.t.Add(-trailWindow)

	start := c.trail[0]
	for _, s := range c.trail {
		if s.t.After(target) {
			break
		}
		start = s
	}

	dt := last.t.Sub(start.t).Seconds()
	if dt < 0.01 {
		return 0
	}
	return math.Hypot(last.x-start.x, last.y-start.y) / dt
}

// classify turns a completed cycle into its single terminal event.
// Tie-break order: motion beats duration beats velocity. A held-then-moved
// gesture is a drag, never a flick, even when released quickly, and a
// flick must be quick: only a pinch released inside the tap window scrolls.
func (c *Channel) classify(now time.Time, cfg Config) Event {
	dur := c.releaseAt.Sub(c.engagedAt)
	vel := c.releaseVelocity()

	var ev Event
	switch {
	case c.moved:
		ev = newEvent(DragEnd, c.id, now)
	case dur >= cfg.HoldMin:
		ev = newEvent(PinchHoldEnd, c.id, now)
	case dur < cfg.TapMax && vel > cfg.FlickVelocity:
		ev = newEvent(Flick, c.id, now)
		ev.Dir, ev.Magnitude = c.flick(vel)
	case dur < cfg.TapMax:
		ev = newEvent(c.tapType(), c.id, now)
	default:
		// Between tap and hold with no motion: released hold.
		ev = newEvent(PinchHoldEnd, c.id, now)
	}

	ev.Duration = dur
	ev.Motion = c.cumMove
	ev.Velocity = vel
	c.lastRelease = now
	return ev
}

// forceClassify produces the best-effort terminal event for a stuck
// engagement, using whatever partial duration and motion was observed.
// Defaults to a tap when nothing else clearly applies.
func (c *Channel) forceClassify(now time.Time, cfg Config) Event {
	dur := c.lastSeen.Sub(c.engagedAt)
	if dur < 0 {
		dur = 0
	}

	var ev Event
	switch {
	case c.moved:
		ev = newEvent(DragEnd, c.id, now)
	case dur >= cfg.HoldMin:
		ev = newEvent(PinchHoldEnd, c.id, now)
	default:
		ev = newEvent(c.tapType(), c.id, now)
	}

	ev.Duration = dur
	ev.Motion = c.cumMove
	ev.Forced = true
	c.lastRelease = now
	return ev
}

func (c *Channel) tapType() EventType {
	if c.id == ChannelMiddle {
		return DoubleTap
	}
	return Tap
}

// flick derives the scroll direction from the dominant axis of recent
// travel and scales the release speed to 1-10 scroll clicks.
func (c *Channel) flick(vel float64) (FlickDirection, int) {
	var dx, dy float64
	if len(c.trail) >= 2 {
		last := c.trail[len(c.trail)-1]
		first := c.trail[0]
		dx = last.x - first.x
		dy = last.y - first.y
	}

	var dir FlickDirection
	if math.Abs(dy) >= math.Abs(dx) {
		// Camera y grows downward.
		if dy > 0 {
			dir = FlickDown
		} else {
			dir = FlickUp
		}
	} else {
		if dx > 0 {
			dir = FlickRight
		} else {
			dir = FlickLeft
		}
	}

	mag := int(math.Round(vel * 10))
	if mag < 1 {
		mag = 1
	}
	if mag > 10 {
		mag = 10
	}
	return dir, mag
}

// finish stamps the in-flight cycle metrics onto a non-terminal event.
func (c *Channel) finish(ev Event) Event {
	ev.Duration = ev.Time.Sub(c.engagedAt)
	ev.Motion = c.cumMove
	return ev
}

func (c *Channel) toIdle() {
	c.state = stateIdle
	c.hasPrev = false
}
