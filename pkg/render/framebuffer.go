// Package render turns meshes into screen-space draw commands and executes
// them on a pixel framebuffer shown in the terminal.
package render

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/taigrr/gravity/pkg/geom"
	"github.com/taigrr/gravity/pkg/math3d"
)

// Sink executes screen-space primitives. Coordinates are in pixels with the
// origin at the top left.
type Sink interface {
	Clear(c geom.Color)
	FillPolygon(points []math3d.Vec2, c geom.Color)
	Line(a, b math3d.Vec2, thickness float64, c geom.Color)
	Text(pos math3d.Vec2, size float64, text string, c geom.Color)
}

// TextRun is a piece of text recorded by the framebuffer. Pixels carry no
// glyphs; terminal output draws runs as cells on top of the pixels.
type TextRun struct {
	Pos   math3d.Vec2
	Size  float64
	Text  string
	Color geom.Color
}

// Framebuffer is a 2D array of pixels that can be rendered to the terminal.
// We use double vertical resolution by using half-block characters (▀▄).
type Framebuffer struct {
	Width  int          // Width in "pixels" (same as terminal columns)
	Height int          // Height in "pixels" (2x terminal rows due to half-blocks)
	Pixels []color.RGBA // Row-major pixel data
	Texts  []TextRun    // Text runs since the last Clear
}

var _ Sink = (*Framebuffer)(nil)

// NewFramebuffer creates a new framebuffer with the given dimensions.
// Height should be 2x the desired terminal rows for half-block rendering.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// Clear fills the framebuffer with a solid color and drops recorded text.
func (fb *Framebuffer) Clear(c geom.Color) {
	px := c.RGBA8()
	for i := range fb.Pixels {
		fb.Pixels[i] = px
	}
	fb.Texts = fb.Texts[:0]
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// blend writes c over the pixel at (x, y) using c's alpha.
func (fb *Framebuffer) blend(x, y int, c geom.Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	a := c.Clamp().A
	if a >= 1 {
		fb.Pixels[y*fb.Width+x] = c.RGBA8()
		return
	}
	if a <= 0 {
		return
	}
	dst := geom.FromRGBA8(fb.Pixels[y*fb.Width+x])
	out := dst.Lerp(c.Clamp(), a)
	out.A = math.Max(dst.A, a)
	fb.Pixels[y*fb.Width+x] = out.RGBA8()
}

// FillPolygon fills a convex polygon given in either winding. The polygon
// is fanned from its first point and each triangle is filled with edge
// functions evaluated at pixel centers.
func (fb *Framebuffer) FillPolygon(points []math3d.Vec2, c geom.Color) {
	for i := 1; i+1 < len(points); i++ {
		fb.fillTriangle(points[0], points[i], points[i+1], c)
	}
}

// edgeCoeffs returns A, B, C for the edge function A*x + B*y + C, which is
// positive on one side of the edge from (x0, y0) to (x1, y1) and zero on it.
func edgeCoeffs(x0, y0, x1, y1 float64) (A, B, C float64) {
	A = y0 - y1
	B = x1 - x0
	C = x0*y1 - x1*y0
	return
}

func (fb *Framebuffer) fillTriangle(p0, p1, p2 math3d.Vec2, c geom.Color) {
	area2 := p1.Sub(p0).Cross(p2.Sub(p0))
	if area2 == 0 || math.IsNaN(area2) {
		return
	}
	if area2 < 0 {
		p1, p2 = p2, p1
	}

	minX := int(math.Max(0, math.Floor(min(p0.X, p1.X, p2.X))))
	maxX := int(math.Min(float64(fb.Width-1), math.Ceil(max(p0.X, p1.X, p2.X))))
	minY := int(math.Max(0, math.Floor(min(p0.Y, p1.Y, p2.Y))))
	maxY := int(math.Min(float64(fb.Height-1), math.Ceil(max(p0.Y, p1.Y, p2.Y))))
	if minX > maxX || minY > maxY {
		return
	}

	// Edge 0: p1 -> p2, Edge 1: p2 -> p0, Edge 2: p0 -> p1
	A0, B0, C0 := edgeCoeffs(p1.X, p1.Y, p2.X, p2.Y)
	A1, B1, C1 := edgeCoeffs(p2.X, p2.Y, p0.X, p0.Y)
	A2, B2, C2 := edgeCoeffs(p0.X, p0.Y, p1.X, p1.Y)

	px := float64(minX) + 0.5
	py := float64(minY) + 0.5
	w0Row := A0*px + B0*py + C0
	w1Row := A1*px + B1*py + C1
	w2Row := A2*px + B2*py + C2

	opaque := c.A >= 1
	px8 := c.RGBA8()

	for y := minY; y <= maxY; y++ {
		w0, w1, w2 := w0Row, w1Row, w2Row
		row := y * fb.Width
		for x := minX; x <= maxX; x++ {
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				if opaque {
					fb.Pixels[row+x] = px8
				} else {
					fb.blend(x, y, c)
				}
			}
			w0 += A0
			w1 += A1
			w2 += A2
		}
		w0Row += B0
		w1Row += B1
		w2Row += B2
	}
}

// Line draws a segment with a square brush of the given thickness in
// pixels. Thickness below one draws a single-pixel line.
func (fb *Framebuffer) Line(a, b math3d.Vec2, thickness float64, c geom.Color) {
	if !finite2(a) || !finite2(b) {
		return
	}
	r := int(math.Max(0, math.Round(thickness)-1)) / 2
	fb.DrawLine(int(math.Round(a.X)), int(math.Round(a.Y)), int(math.Round(b.X)), int(math.Round(b.Y)), func(x, y int) {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				fb.blend(x+dx, y+dy, c)
			}
		}
	})
}

// maxLineSteps bounds Bresenham walks for endpoints projected far off
// screen.
const maxLineSteps = 1 << 14

// DrawLine walks from (x0, y0) to (x1, y1) using Bresenham's algorithm and
// calls plot for every pixel.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for range maxLineSteps {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Text records a text run for the terminal overlay.
func (fb *Framebuffer) Text(pos math3d.Vec2, size float64, text string, c geom.Color) {
	fb.Texts = append(fb.Texts, TextRun{Pos: pos, Size: size, Text: text, Color: c})
}

// DrawRect draws a filled rectangle.
func (fb *Framebuffer) DrawRect(x, y, w, h int, c color.RGBA) {
	for py := y; py < y+h; py++ {
		for px := x; px < x+w; px++ {
			fb.SetPixel(px, py, c)
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func finite2(v math3d.Vec2) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, fb.ToImage())
}
