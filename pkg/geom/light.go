package geom

import (
	"github.com/taigrr/gravity/pkg/math3d"
)

// Light is a point light. Ambient, Diffuse and Specular are RGB colors
// stored as vectors; Lumens scales the diffuse and specular terms.
type Light struct {
	Position math3d.Vec3
	Target   math3d.Vec3
	Ambient  math3d.Vec3
	Diffuse  math3d.Vec3
	Specular math3d.Vec3
	Lumens   float64
}

// NewLight creates a white light at position aimed at target.
func NewLight(position, target math3d.Vec3, lumens float64) Light {
	return Light{
		Position: position,
		Target:   target,
		Ambient:  math3d.V3(0.08, 0.08, 0.08),
		Diffuse:  math3d.V3(1, 1, 1),
		Specular: math3d.V3(1, 1, 1),
		Lumens:   lumens,
	}
}

// Direction returns the unit vector from Position toward Target.
func (l Light) Direction() math3d.Vec3 {
	return l.Target.Sub(l.Position).Normalize()
}

// Follow moves the light to position and aims it at target. The
// camera headlight calls this every frame.
func (l *Light) Follow(position, target math3d.Vec3) {
	l.Position = position
	l.Target = target
}
