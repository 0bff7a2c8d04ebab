// Package geom provides the polygon-level primitives shared by the mesh,
// spatial index, shading and rendering packages.
package geom

import (
	"image/color"
	"math"
)

// Color is a linear RGBA color with components nominally in [0, 1].
// Components are not clamped; light accumulation can exceed 1.
type Color struct {
	R, G, B, A float64
}

// RGBA creates a Color from float components.
func RGBA(r, g, b, a float64) Color {
	return Color{r, g, b, a}
}

// RGB creates an opaque Color.
func RGB(r, g, b float64) Color {
	return Color{r, g, b, 1}
}

// White is the neutral shader value: multiplying by it leaves a color unchanged.
var White = Color{1, 1, 1, 1}

// Black is opaque black.
var Black = Color{0, 0, 0, 1}

// FromRGBA8 converts an 8-bit color to a Color.
func FromRGBA8(c color.RGBA) Color {
	return Color{
		float64(c.R) / 255,
		float64(c.G) / 255,
		float64(c.B) / 255,
		float64(c.A) / 255,
	}
}

// Mul modulates c by o component-wise.
func (c Color) Mul(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B, c.A * o.A}
}

// Add returns the component-wise sum, including alpha.
func (c Color) Add(o Color) Color {
	return Color{c.R + o.R, c.G + o.G, c.B + o.B, c.A + o.A}
}

// Scale multiplies the RGB components by s and leaves alpha untouched.
func (c Color) Scale(s float64) Color {
	return Color{c.R * s, c.G * s, c.B * s, c.A}
}

// Lerp linearly interpolates between c and o by t.
func (c Color) Lerp(o Color, t float64) Color {
	return Color{
		c.R + (o.R-c.R)*t,
		c.G + (o.G-c.G)*t,
		c.B + (o.B-c.B)*t,
		c.A + (o.A-c.A)*t,
	}
}

// Average returns the mean of the given colors, or the zero Color when none are given.
func Average(colors ...Color) Color {
	if len(colors) == 0 {
		return Color{}
	}
	var sum Color
	for _, c := range colors {
		sum = sum.Add(c)
	}
	n := float64(len(colors))
	return Color{sum.R / n, sum.G / n, sum.B / n, sum.A / n}
}

// Clamp clamps every component into [0, 1]. NaN becomes 0.
func (c Color) Clamp() Color {
	return Color{clamp01(c.R), clamp01(c.G), clamp01(c.B), clamp01(c.A)}
}

// RGBA8 converts to an 8-bit color after clamping.
func (c Color) RGBA8() color.RGBA {
	k := c.Clamp()
	return color.RGBA{
		uint8(math.Round(k.R * 255)),
		uint8(math.Round(k.G * 255)),
		uint8(math.Round(k.B * 255)),
		uint8(math.Round(k.A * 255)),
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
