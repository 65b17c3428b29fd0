// Package detector provides hand landmark detection for the Mudra control engine.
package detector

import (
	"math"
	"time"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D represents a 3D point in normalized camera space.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks holds the 21 hand landmarks for one detected hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Frame is one observation delivered to the processing pipeline.
// A Frame with a nil Hand is a valid signal meaning "no hand tracked":
// downstream consumers hold their last committed state rather than treating
// it as an error.
type Frame struct {
	Hand      *HandLandmarks
	Timestamp time.Time
}

// AbsentFrame returns a frame carrying the "no hand tracked" signal.
func AbsentFrame(ts time.Time) Frame {
	return Frame{Timestamp: ts}
}

// HandPresent reports whether the frame carries a tracked hand.
func (f Frame) HandPresent() bool {
	return f.Hand != nil
}

// Distance3D calculates the Euclidean distance between two 3D points.
func Distance3D(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// PalmScale returns the wrist to middle-finger-MCP distance, used to make
// fingertip distance thresholds invariant to how far the hand is from the
// camera. Returns 0 for a degenerate hand (all points coincident).
func (h *HandLandmarks) PalmScale() float64 {
	if h == nil {
		return 0
	}
	return Distance3D(h.Points[Wrist], h.Points[MiddleMCP])
}
