// Package testdata builds synthetic hand landmark sequences for pipeline
// and engine tests. Sequences are expressed as scripts for the mock
// detector: one entry per frame, nil entries for lost tracking.
package testdata

import (
	"time"

	"github.com/ayusman/mudra/internal/detector"
)

// FrameStep is the nominal spacing between scripted frames (~30Hz).
const FrameStep = 33 * time.Millisecond

// PinchGap is a thumb-to-fingertip gap well inside the engage threshold at
// the mock hand's palm scale.
const PinchGap = 0.01

func ptr(lm detector.HandLandmarks) *detector.HandLandmarks {
	return &lm
}

// Open returns n open-hand frames at the given tip position.
func Open(n int) []*detector.HandLandmarks {
	script := make([]*detector.HandLandmarks, n)
	for i := range script {
		script[i] = ptr(detector.OpenHandLandmarks())
	}
	return script
}

// Lost returns n frames with no detected hand.
func Lost(n int) []*detector.HandLandmarks {
	return make([]*detector.HandLandmarks, n)
}

// IndexPinch returns n frames with the thumb-index pair pinched at a fixed
// position.
func IndexPinch(n int, tipX, tipY float64) []*detector.HandLandmarks {
	script := make([]*detector.HandLandmarks, n)
	for i := range script {
		script[i] = ptr(detector.PinchedIndexLandmarks(tipX, tipY, PinchGap))
	}
	return script
}

// MiddlePinch returns n frames with the thumb-middle pair pinched at a
// fixed position.
func MiddlePinch(n int, tipX, tipY float64) []*detector.HandLandmarks {
	script := make([]*detector.HandLandmarks, n)
	for i := range script {
		script[i] = ptr(detector.PinchedMiddleLandmarks(tipX, tipY, PinchGap))
	}
	return script
}

// IndexDrag returns a pinched sequence whose fingertip moves linearly from
// (fromX, fromY) to (toX, toY) over n frames.
func IndexDrag(n int, fromX, fromY, toX, toY float64) []*detector.HandLandmarks {
	script := make([]*detector.HandLandmarks, n)
	for i := range script {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		x := fromX + t*(toX-fromX)
		y := fromY + t*(toY-fromY)
		script[i] = ptr(detector.PinchedIndexLandmarks(x, y, PinchGap))
	}
	return script
}

// Concat joins scripts into one sequence.
func Concat(scripts ...[]*detector.HandLandmarks) []*detector.HandLandmarks {
	var out []*detector.HandLandmarks
	for _, s := range scripts {
		out = append(out, s...)
	}
	return out
}

// TapScript is a complete tap: settle, short pinch, release.
func TapScript() []*detector.HandLandmarks {
	return Concat(
		Open(3),
		IndexPinch(4, 0.5, 0.45), // ~130ms engaged, under the tap limit
		Open(3),
	)
}

// DoubleTapScript is a short thumb-middle pinch and release.
func DoubleTapScript() []*detector.HandLandmarks {
	return Concat(
		Open(3),
		MiddlePinch(4, 0.5, 0.45),
		Open(3),
	)
}

// HoldScript pinches without motion for longer than the hold threshold.
func HoldScript() []*detector.HandLandmarks {
	return Concat(
		Open(3),
		IndexPinch(20, 0.5, 0.45), // ~660ms engaged
		Open(3),
	)
}

// DragScript pinches, travels well past the drag deadzone, and releases.
func DragScript() []*detector.HandLandmarks {
	return Concat(
		Open(3),
		IndexPinch(3, 0.3, 0.45),
		IndexDrag(12, 0.3, 0.45, 0.6, 0.45),
		Open(3),
	)
}

// LostTrackingScript engages a pinch and then loses the hand entirely, so
// the stuck-state timeout has to finish the gesture.
func LostTrackingScript() []*detector.HandLandmarks {
	return Concat(
		Open(3),
		IndexPinch(4, 0.5, 0.45),
		Lost(6),
	)
}

// Frames converts a script to timestamped landmark frames, starting at
// start and spaced FrameStep apart.
func Frames(script []*detector.HandLandmarks, start time.Time) []detector.Frame {
	frames := make([]detector.Frame, len(script))
	for i, hand := range script {
		frames[i] = detector.Frame{
			Hand:      hand,
			Timestamp: start.Add(time.Duration(i) * FrameStep),
		}
	}
	return frames
}
