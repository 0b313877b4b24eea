// Package colorscale maps a displacement risk value in [0,100] to a display
// color by linear interpolation over fixed anchor colors.
package colorscale

import "fmt"

// Anchor colors, evenly spaced over [0,100]: green, yellow, orange, red,
// dark red.
var anchors = []rgb{
	{0x2e, 0xcc, 0x71},
	{0xf1, 0xc4, 0x0f},
	{0xe6, 0x7e, 0x22},
	{0xe7, 0x4c, 0x3c},
	{0x7b, 0x24, 0x1c},
}

// Coarse risk bands kept for text output.
const (
	BandLow      = "low"
	BandModerate = "moderate"
	BandHigh     = "high"
)

// Band thresholds.
const (
	moderateThreshold = 40.0
	highThreshold     = 70.0
)

type rgb struct {
	r, g, b uint8
}

func (c rgb) hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b)
}

// ColorFor returns the hex color for a risk value. Values outside [0,100]
// clamp to the first/last anchor; the function is total over the real line
// and never fails.
func ColorFor(risk float64) string {
	if risk <= 0 {
		return anchors[0].hex()
	}
	last := len(anchors) - 1
	if risk >= 100 {
		return anchors[last].hex()
	}

	segment := 100.0 / float64(last)
	idx := int(risk / segment)
	if idx >= last {
		idx = last - 1
	}
	pos := (risk - float64(idx)*segment) / segment

	lo, hi := anchors[idx], anchors[idx+1]
	return rgb{
		r: lerp(lo.r, hi.r, pos),
		g: lerp(lo.g, hi.g, pos),
		b: lerp(lo.b, hi.b, pos),
	}.hex()
}

// BandFor returns the coarse classification for a risk value.
// Rules:
//   - low: risk < 40
//   - moderate: 40 <= risk < 70
//   - high: risk >= 70
func BandFor(risk float64) string {
	switch {
	case risk < moderateThreshold:
		return BandLow
	case risk < highThreshold:
		return BandModerate
	default:
		return BandHigh
	}
}

// lerp interpolates one 8-bit channel at normalized position pos in [0,1].
func lerp(lo, hi uint8, pos float64) uint8 {
	return uint8(float64(lo) + (float64(hi)-float64(lo))*pos + 0.5)
}
