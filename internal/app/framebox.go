package app

import (
	"sync"

	"github.com/ayusman/mudra/internal/detector"
)

// FrameBox is a single-slot handoff between the acquisition loop and the
// processing loop. Putting a frame while one is waiting replaces it: the
// processor always sees the newest frame and never works through a backlog
// of stale ones. Dropped counts the frames overwritten before pickup.
type FrameBox struct {
	mu      sync.Mutex
	frame   detector.Frame
	full    bool
	dropped uint64
	signal  chan struct{}
}

// NewFrameBox creates an empty box.
func NewFrameBox() *FrameBox {
	return &FrameBox{
		signal: make(chan struct{}, 1),
	}
}

// Put deposits a frame, replacing any frame not yet taken.
func (b *FrameBox) Put(frame detector.Frame) {
	b.mu.Lock()
	if b.full {
		b.dropped++
	}
	b.frame = frame
	b.full = true
	b.mu.Unlock()

	select {
	case b.signal <- struct{}{}:
	default:
	}
}

// Wait returns a channel that fires when a frame is available. The channel
// is reused; callers must follow each receive with Take.
func (b *FrameBox) Wait() <-chan struct{} {
	return b.signal
}

// Take removes and returns the current frame, if any.
func (b *FrameBox) Take() (detector.Frame, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.full {
		return detector.Frame{}, false
	}
	b.full = false
	return b.frame, true
}

// Dropped returns the number of frames overwritten before being taken.
func (b *FrameBox) Dropped() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}
