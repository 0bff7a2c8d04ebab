package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the internal framebuffer to terminal cells and draws them on
// the screen.
// The framebuffer height should be 2x the terminal height.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// Each terminal row represents 2 framebuffer rows
	// We use ▀ (upper half block) with fg=top color and bg=bottom color
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := row * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col < fb.Width; col++ {
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(fb.GetPixel(col, topY)),
					Bg: rgbaToColor(fb.GetPixel(col, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}

	for _, run := range fb.Texts {
		fb.drawText(scr, area, run)
	}
}

// drawText writes one rune per cell starting at the run's pixel position.
// The cell background keeps the color of the pixel underneath.
func (fb *Framebuffer) drawText(scr uv.Screen, area uv.Rectangle, run TextRun) {
	row := int(run.Pos.Y) / 2
	col := int(run.Pos.X)
	if row < area.Min.Y || row >= area.Max.Y {
		return
	}
	fg := rgbaToColor(run.Color.RGBA8())
	for _, r := range run.Text {
		if col >= area.Max.X {
			return
		}
		if col >= area.Min.X {
			scr.SetCell(col, row, &uv.Cell{
				Content: string(r),
				Width:   1,
				Style: uv.Style{
					Fg: fg,
					Bg: rgbaToColor(fb.GetPixel(col, row*2+1)),
				},
			})
		}
		col++
	}
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}

// Display is the part of a terminal the sink needs: a cell screen that can
// flush its contents.
type Display interface {
	uv.Screen
	Display() error
}

// TerminalSink renders into a framebuffer sized for half-block output and
// presents it on a terminal screen.
type TerminalSink struct {
	*Framebuffer
	screen Display
	cols   int
	rows   int
}

// NewTerminalSink creates a sink for a terminal of cols x rows cells.
func NewTerminalSink(screen Display, cols, rows int) *TerminalSink {
	s := &TerminalSink{screen: screen}
	s.Resize(cols, rows)
	return s
}

// Resize reallocates the framebuffer for a new terminal size.
func (s *TerminalSink) Resize(cols, rows int) {
	s.cols, s.rows = max(cols, 1), max(rows, 1)
	s.Framebuffer = NewFramebuffer(s.cols, s.rows*2)
}

// FramebufferSize returns the pixel size of the framebuffer.
func (s *TerminalSink) FramebufferSize() (int, int) {
	return s.Width, s.Height
}

// Present draws the framebuffer onto the screen and flushes it.
func (s *TerminalSink) Present() error {
	s.Draw(s.screen, uv.Rect(0, 0, s.cols, s.rows))
	return s.screen.Display()
}
