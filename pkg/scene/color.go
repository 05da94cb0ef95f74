// Package scene holds the renderer-agnostic scene model: meshes, colors,
// placements, materials and lights, plus YAML decoding for scene files.
package scene

import "github.com/chewxy/math32"

// Color is an RGB triple. Channels are expected in [0,1] but the package
// tolerates out-of-range and non-finite input everywhere it consumes colors.
type Color struct {
	R, G, B float32
}

// White is the safe default color used when input is unusable.
var White = Color{1, 1, 1}

// IsValid reports whether all channels are finite numbers.
func (c Color) IsValid() bool {
	return !math32.IsNaN(c.R) && !math32.IsInf(c.R, 0) &&
		!math32.IsNaN(c.G) && !math32.IsInf(c.G, 0) &&
		!math32.IsNaN(c.B) && !math32.IsInf(c.B, 0)
}

// Clamped returns the color with every channel clamped to [0,1].
func (c Color) Clamped() Color {
	return Color{clamp01(c.R), clamp01(c.G), clamp01(c.B)}
}

// Safe returns a color guaranteed usable for emission: white when any
// channel is non-finite, otherwise the clamped color.
func (c Color) Safe() Color {
	if !c.IsValid() {
		return White
	}
	return c.Clamped()
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
