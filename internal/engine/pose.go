// Package engine translates hand landmark frames into desktop control
// events: a stabilized cursor position plus discrete gestures classified by
// a per-finger-pair pinch state machine.
package engine

import (
	"time"

	"github.com/ayusman/mudra/internal/detector"
)

// HandPose is the per-frame view the engine works from: fingertip positions
// in normalized camera space plus palm-scaled pinch distances. It is
// recomputed every frame and never retained across frames.
type HandPose struct {
	Thumb  detector.Point3D
	Index  detector.Point3D
	Middle detector.Point3D
	Ring   detector.Point3D
	Pinky  detector.Point3D

	// PalmScale is the wrist to middle-MCP distance used to normalize the
	// pinch distances below.
	PalmScale float64

	// IndexPinch and MiddlePinch are thumb-to-fingertip distances divided
	// by PalmScale, so the same thresholds work at any distance from the
	// camera.
	IndexPinch  float64
	MiddlePinch float64

	Timestamp time.Time
}

// minPalmScale guards the division; a hand collapsed below this is
// indistinguishable from tracking noise.
const minPalmScale = 1e-6

// PoseFrom derives a HandPose from a frame. The second return is false when
// the frame carries no usable hand (absent frame or degenerate landmarks);
// callers must then hold their last committed state.
func PoseFrom(frame detector.Frame) (HandPose, bool) {
	if frame.Hand == nil {
		return HandPose{}, false
	}

	scale := frame.Hand.PalmScale()
	if scale < minPalmScale {
		return HandPose{}, false
	}

	p := frame.Hand.Points
	pose := HandPose{
		Thumb:     p[detector.ThumbTip],
		Index:     p[detector.IndexTip],
		Middle:    p[detector.MiddleTip],
		Ring:      p[detector.RingTip],
		Pinky:     p[detector.PinkyTip],
		PalmScale: scale,
		Timestamp: frame.Timestamp,
	}
	pose.IndexPinch = detector.Distance3D(pose.Thumb, pose.Index) / scale
	pose.MiddlePinch = detector.Distance3D(pose.Thumb, pose.Middle) / scale

	return pose, true
}
