package geom

import (
	"github.com/taigrr/gravity/pkg/math3d"
)

// Plane represents a plane in 3D space using the equation: Ax + By + Cz + D = 0
// where (A, B, C) is the normal and D is the distance from origin.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// NewPlane builds a normalized plane from a normal and a point on it.
func NewPlane(normal, point math3d.Vec3) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, D: -n.Dot(point)}
}

// Normalize normalizes the plane equation so the normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1.0 / l)
	p.D /= l
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = in front (same side as normal), negative = behind.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Intersect returns the parameter t in [0, 1] where segment a→b crosses the
// plane. A segment parallel to the plane returns 0, so callers may see a
// duplicated vertex.
func (p Plane) Intersect(a, b math3d.Vec3) float64 {
	da := p.DistanceToPoint(a)
	db := p.DistanceToPoint(b)
	denom := da - db
	if denom == 0 {
		return 0
	}
	return da / denom
}
