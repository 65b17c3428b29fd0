package engine

import "math"

// Mapper converts smoothed hand-space coordinates (nominally [0,1] but
// clipped) to absolute screen pixels. Positions within Margin of the [0,1]
// boundary clamp to the screen edge and the inner range stretches linearly,
// so every corner is reachable without extreme hand positions. The mapping
// is deterministic and monotonic in each axis.
type Mapper struct {
	Width  int
	Height int
	Margin float64
}

// NewMapper creates a mapper for the given screen dimensions and edge margin.
func NewMapper(width, height int, margin float64) Mapper {
	return Mapper{Width: width, Height: height, Margin: margin}
}

// Map converts a normalized position to screen pixels.
func (m Mapper) Map(nx, ny float64) (int, int) {
	return normToPixels(m.remapEdge(nx), m.Width), normToPixels(m.remapEdge(ny), m.Height)
}

// remapEdge stretches the inner [margin, 1-margin] range to [0, 1].
func (m Mapper) remapEdge(v float64) float64 {
	span := 1.0 - 2*m.Margin
	if span <= 0 {
		return clamp01(v)
	}
	return clamp01((v - m.Margin) / span)
}

func normToPixels(norm float64, span int) int {
	if span <= 1 {
		return 0
	}
	return int(math.Round(norm * float64(span-1)))
}

// clamp01 bounds a float to the [0..1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
