package engine

import (
	"math"
	"testing"
)

func TestSmoother_SeedsOnFirstSample(t *testing.T) {
	s := NewSmoother(0.35)

	x, y := s.Update(0.4, 0.6)
	if x != 0.4 || y != 0.6 {
		t.Errorf("first sample should pass through, got (%f, %f)", x, y)
	}
}

func TestSmoother_StepNeverExceedsGap(t *testing.T) {
	// The output step is alpha times the gap to the raw sample, so it can
	// never overshoot the input.
	s := NewSmoother(0.35)

	raws := []struct{ x, y float64 }{
		{0.1, 0.1}, {0.9, 0.2}, {0.2, 0.8}, {0.5, 0.5}, {0.51, 0.49}, {0.0, 1.0},
	}

	prevX, prevY := s.Update(raws[0].x, raws[0].y)
	for _, raw := range raws[1:] {
		x, y := s.Update(raw.x, raw.y)

		if step, gap := math.Abs(x-prevX), math.Abs(raw.x-prevX); step > gap+1e-12 {
			t.Errorf("x step %f exceeds gap %f", step, gap)
		}
		if step, gap := math.Abs(y-prevY), math.Abs(raw.y-prevY); step > gap+1e-12 {
			t.Errorf("y step %f exceeds gap %f", step, gap)
		}
		prevX, prevY = x, y
	}
}

func TestSmoother_ConvergesToConstantInput(t *testing.T) {
	s := NewSmoother(0.35)
	s.Update(0.0, 0.0)

	var x, y float64
	for i := 0; i < 50; i++ {
		x, y = s.Update(1.0, 1.0)
	}
	if math.Abs(x-1.0) > 1e-6 || math.Abs(y-1.0) > 1e-6 {
		t.Errorf("smoother should converge to (1,1), got (%f, %f)", x, y)
	}
}

func TestSmoother_ResetReseeds(t *testing.T) {
	s := NewSmoother(0.35)
	s.Update(0.1, 0.1)
	s.Update(0.2, 0.2)

	s.Reset()
	if _, _, ok := s.Position(); ok {
		t.Error("position should be unset after reset")
	}

	x, y := s.Update(0.9, 0.9)
	if x != 0.9 || y != 0.9 {
		t.Errorf("post-reset sample should pass through, got (%f, %f)", x, y)
	}
}

func TestSmoother_SetAlphaIgnoresInvalid(t *testing.T) {
	s := NewSmoother(0.35)
	s.SetAlpha(0)
	s.SetAlpha(1.5)
	s.SetAlpha(-0.2)

	if s.alpha != 0.35 {
		t.Errorf("invalid alphas should be ignored, got %f", s.alpha)
	}

	s.SetAlpha(0.5)
	if s.alpha != 0.5 {
		t.Errorf("valid alpha should apply, got %f", s.alpha)
	}
}
