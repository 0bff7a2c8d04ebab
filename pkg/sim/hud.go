package sim

import (
	"fmt"

	"github.com/taigrr/gravity/pkg/geom"
)

// fpsSmoothing is the weight of the newest frame in the FPS average.
const fpsSmoothing = 0.1

var hudColor = geom.RGB(0.85, 0.85, 0.85)

type hud struct {
	fps    float64
	frames int
}

func (h *hud) tick(dt float64) {
	h.frames++
	if dt <= 0 {
		return
	}
	if h.fps == 0 {
		h.fps = 1 / dt
		return
	}
	h.fps += fpsSmoothing * (1/dt - h.fps)
}

// FPS returns the smoothed frame rate.
func (s *Simulation) FPS() float64 { return s.hud.fps }

// Frames returns the number of frames run so far.
func (s *Simulation) Frames() int { return s.hud.frames }

// HUDLines returns the status text drawn over the scene.
func (s *Simulation) HUDLines() []string {
	o := s.Graphics.Options
	light := "stars"
	switch {
	case !o.Lighting:
		light = "off"
	case o.Headlight:
		light = "headlight"
	}
	lines := []string{
		fmt.Sprintf("fps %.0f  bodies %d  polys %d/%d",
			s.hud.fps, len(s.Bodies), s.stats.Drawn, s.stats.Polygons),
		fmt.Sprintf("sort %s  light %s  shadows %t", s.Graphics.Orderer.Name(), light, o.Shadows),
	}
	if s.Paused {
		lines = append(lines, "paused")
	}
	return lines
}

func (s *Simulation) drawHUD() {
	for i, line := range s.HUDLines() {
		s.Graphics.DrawText(1, float64(1+2*i), 1, line, hudColor)
	}
}
