package engine

// Smoother applies exponential moving-average filtering to the tracked
// fingertip position to remove camera jitter before cursor mapping.
//
// Update rule: smoothed = alpha*raw + (1-alpha)*previous, seeded with the
// first raw sample. The per-frame output step is alpha times the gap between
// the raw sample and the previous output, so it never exceeds that gap.
type Smoother struct {
	alpha  float64
	x, y   float64
	seeded bool
}

// NewSmoother creates a smoother with the given EMA factor.
func NewSmoother(alpha float64) *Smoother {
	return &Smoother{alpha: alpha}
}

// SetAlpha changes the smoothing factor. Values outside (0, 1] are ignored.
func (s *Smoother) SetAlpha(alpha float64) {
	if alpha <= 0 || alpha > 1 {
		return
	}
	s.alpha = alpha
}

// Update feeds one raw sample and returns the smoothed position.
// The caller is responsible for skipping this while the cursor is frozen;
// frozen periods intentionally stop the filter's output from advancing.
func (s *Smoother) Update(rawX, rawY float64) (float64, float64) {
	if !s.seeded {
		s.x, s.y = rawX, rawY
		s.seeded = true
		return s.x, s.y
	}

	s.x = s.alpha*rawX + (1-s.alpha)*s.x
	s.y = s.alpha*rawY + (1-s.alpha)*s.y
	return s.x, s.y
}

// Position returns the last smoothed position; ok is false before the first
// sample.
func (s *Smoother) Position() (x, y float64, ok bool) {
	return s.x, s.y, s.seeded
}

// Reset discards the seed so the next sample re-initializes the filter.
// Used when tracking resumes after a long gap, where converging from the
// stale position would drag the cursor across the screen.
func (s *Smoother) Reset() {
	s.x, s.y = 0, 0
	s.seeded = false
}
