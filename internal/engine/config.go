package engine

import "time"

// Config holds every tunable parameter of the gesture engine. All values
// have documented defaults and can be changed at runtime without code
// changes, via the settings profile or the HTTP config API.
type Config struct {
	// Smoothing is the EMA factor for cursor smoothing. Higher values are
	// more responsive but jittery; lower values are smoother but laggier.
	Smoothing float64 `json:"smoothing"`

	// EdgeMargin is the fraction of the normalized range near each edge
	// that is clamped and stretched, so the full screen (corners included)
	// is reachable from a comfortable central hand zone.
	EdgeMargin float64 `json:"edge_margin"`

	// EngageBelow and ReleaseAbove are the pinch hysteresis thresholds on
	// the palm-scaled thumb-to-fingertip distance. The gap between them is
	// the hysteresis band that prevents chatter when the distance hovers
	// near a single threshold.
	EngageBelow  float64 `json:"engage_below"`
	ReleaseAbove float64 `json:"release_above"`

	// TapMax is the longest pinch that still counts as a tap.
	TapMax time.Duration `json:"tap_max"`

	// HoldMin is the hold duration after which a stationary pinch becomes
	// a hold (right-click equivalent).
	HoldMin time.Duration `json:"hold_min"`

	// DragDeadzone is the cumulative fingertip travel (normalized camera
	// units) a pinch must exceed to become a drag.
	DragDeadzone float64 `json:"drag_deadzone"`

	// FlickVelocity is the fingertip speed (normalized units per second,
	// measured over the trailing 100ms) a release must exceed to scroll.
	FlickVelocity float64 `json:"flick_velocity"`

	// DoubleTapCooldown is the ghost-prevention window: taps classified
	// within it after a double-tap are suppressed.
	DoubleTapCooldown time.Duration `json:"double_tap_cooldown"`

	// MaxEngagedAge bounds how long a channel may stay engaged before it
	// is force-reset with a best-effort classification.
	MaxEngagedAge time.Duration `json:"max_engaged_age"`

	// ScreenWidth and ScreenHeight are the output dimensions in pixels.
	ScreenWidth  int `json:"screen_width"`
	ScreenHeight int `json:"screen_height"`
}

// DefaultConfig returns the documented default parameters.
func DefaultConfig() Config {
	return Config{
		Smoothing:         0.35,
		EdgeMargin:        0.08,
		EngageBelow:       0.20,
		ReleaseAbove:      0.25,
		TapMax:            200 * time.Millisecond,
		HoldMin:           500 * time.Millisecond,
		DragDeadzone:      0.05,
		FlickVelocity:     0.30,
		DoubleTapCooldown: 300 * time.Millisecond,
		MaxEngagedAge:     3 * time.Second,
		ScreenWidth:       1920,
		ScreenHeight:      1080,
	}
}

// Validate checks that the parameters are usable together.
func (c Config) Validate() error {
	if c.Smoothing <= 0 || c.Smoothing > 1 {
		return errInvalid("smoothing must be in (0, 1]")
	}
	if c.EdgeMargin < 0 || c.EdgeMargin >= 0.5 {
		return errInvalid("edge_margin must be in [0, 0.5)")
	}
	if c.EngageBelow <= 0 {
		return errInvalid("engage_below must be positive")
	}
	if c.ReleaseAbove <= c.EngageBelow {
		return errInvalid("release_above must exceed engage_below")
	}
	if c.TapMax <= 0 || c.HoldMin <= c.TapMax {
		return errInvalid("need 0 < tap_max < hold_min")
	}
	if c.MaxEngagedAge <= c.HoldMin {
		return errInvalid("max_engaged_age must exceed hold_min")
	}
	if c.ScreenWidth <= 0 || c.ScreenHeight <= 0 {
		return errInvalid("screen dimensions must be positive")
	}
	return nil
}

type errInvalid string

func (e errInvalid) Error() string { return "engine config: " + string(e) }
