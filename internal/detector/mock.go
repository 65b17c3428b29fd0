package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It either returns a fixed hand or plays back a scripted sequence of
// results, one per Detect call.
type MockDetector struct {
	mu     sync.Mutex
	hand   *HandLandmarks
	script []*HandLandmarks
	cursor int
	err    error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHand sets the hand that will be returned by every Detect call.
// A nil hand simulates lost tracking.
func (m *MockDetector) SetHand(hand *HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hand = hand
	m.script = nil
}

// SetScript sets a sequence of results returned by successive Detect calls.
// Nil entries simulate frames where tracking was lost. After the script is
// exhausted the last entry repeats.
func (m *MockDetector) SetScript(script []*HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = script
	m.cursor = 0
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the pre-configured hand, script entry, or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (*HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	if m.script != nil {
		if m.cursor >= len(m.script) {
			return m.script[len(m.script)-1], nil
		}
		h := m.script[m.cursor]
		m.cursor++
		return h, nil
	}
	return m.hand, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// baseHand returns a neutral right hand: wrist at (0.5, 0.8), palm scale
// (wrist to middle MCP) of 0.18 in normalized camera units.
func baseHand() HandLandmarks {
	lm := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	lm.Points[Wrist] = Point3D{X: 0.5, Y: 0.8}
	lm.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.76}
	lm.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.7}
	lm.Points[ThumbIP] = Point3D{X: 0.59, Y: 0.63}

	lm.Points[IndexMCP] = Point3D{X: 0.54, Y: 0.64}
	lm.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.56}
	lm.Points[IndexDIP] = Point3D{X: 0.55, Y: 0.5}

	lm.Points[MiddleMCP] = Point3D{X: 0.5, Y: 0.62}
	lm.Points[MiddlePIP] = Point3D{X: 0.5, Y: 0.53}
	lm.Points[MiddleDIP] = Point3D{X: 0.5, Y: 0.46}
	lm.Points[MiddleTip] = Point3D{X: 0.5, Y: 0.4}

	lm.Points[RingMCP] = Point3D{X: 0.46, Y: 0.64}
	lm.Points[RingPIP] = Point3D{X: 0.45, Y: 0.56}
	lm.Points[RingDIP] = Point3D{X: 0.45, Y: 0.49}
	lm.Points[RingTip] = Point3D{X: 0.45, Y: 0.43}

	lm.Points[PinkyMCP] = Point3D{X: 0.42, Y: 0.67}
	lm.Points[PinkyPIP] = Point3D{X: 0.41, Y: 0.61}
	lm.Points[PinkyDIP] = Point3D{X: 0.41, Y: 0.56}
	lm.Points[PinkyTip] = Point3D{X: 0.41, Y: 0.51}

	lm.Points[ThumbTip] = Point3D{X: 0.56, Y: 0.5}
	lm.Points[IndexTip] = Point3D{X: 0.56, Y: 0.36}

	return lm
}

// OpenHandLandmarks returns a hand with all fingertips spread apart;
// neither pinch pair is anywhere near its engage threshold.
func OpenHandLandmarks() HandLandmarks {
	return baseHand()
}

// PinchedIndexLandmarks returns a hand whose thumb and index fingertips are
// gap apart (normalized camera units) at the given tip position. With the
// base palm scale of 0.18, a gap of 0.01 is a palm-scaled distance of ~0.056.
func PinchedIndexLandmarks(tipX, tipY, gap float64) HandLandmarks {
	lm := baseHand()
	lm.Points[IndexTip] = Point3D{X: tipX, Y: tipY}
	lm.Points[ThumbTip] = Point3D{X: tipX + gap, Y: tipY}
	return lm
}

// PinchedMiddleLandmarks returns a hand whose thumb and middle fingertips
// are gap apart at the given tip position.
func PinchedMiddleLandmarks(tipX, tipY, gap float64) HandLandmarks {
	lm := baseHand()
	lm.Points[MiddleTip] = Point3D{X: tipX, Y: tipY}
	lm.Points[ThumbTip] = Point3D{X: tipX + gap, Y: tipY}
	return lm
}
