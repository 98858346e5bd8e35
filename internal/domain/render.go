package domain

import (
	"math"
	"strings"
)

// Characters used by StarBar.
const (
	StarMarker = '*'
	Divider    = '|'
	blank      = ' '

	// MaxBarMarkers is the largest marker count a Party visualization will
	// draw. Larger ratios are refused with a *VisualizationError.
	MaxBarMarkers = 1 << 20
)

// MetricKind selects which projection a visualization or average reads.
type MetricKind int

// Supported metrics.
const (
	// Seats renders projected seat counts.
	Seats MetricKind = iota
	// Votes renders projected vote share as a percentage.
	Votes
)

// String returns the lowercase metric name used in flags and config.
func (m MetricKind) String() string {
	switch m {
	case Seats:
		return "seats"
	case Votes:
		return "votes"
	default:
		return "unknown"
	}
}

// ParseMetricKind maps "seats" or "votes" (any case) to a MetricKind.
func ParseMetricKind(s string) (MetricKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "seats":
		return Seats, true
	case "votes":
		return Votes, true
	default:
		return Seats, false
	}
}

// StarBar renders value as a row of markers on a bar of width+1 positions
// with a divider inserted at ceil(width/2), the majority threshold.
//
// One marker stands for scale units of value, rounded down. A value that
// needs more markers than the bar holds is not truncated; the bar grows to
// fit. Negative values render no markers. StarBar returns "" when width or
// scale is not positive. Callers bound value/scale; the Party
// visualizations refuse ratios above MaxBarMarkers.
//
// For values that fit, the result is exactly width+2 bytes long.
func StarBar(value, scale float64, width int) string {
	if width <= 0 || !(scale > 0) {
		return ""
	}

	stars := 0
	if q := math.Floor(value / scale); q > 0 {
		stars = int(q)
	}

	positions := width + 1
	if stars > positions {
		positions = stars
	}
	cells := make([]byte, positions)
	for i := range cells {
		if i < stars {
			cells[i] = StarMarker
		} else {
			cells[i] = blank
		}
	}

	dividerAt := int(math.Ceil(float64(width) / 2.0))

	var b strings.Builder
	b.Grow(positions + 1)
	b.Write(cells[:dividerAt])
	b.WriteByte(Divider)
	b.Write(cells[dividerAt:])
	return b.String()
}
