package render

import (
	"math"

	"github.com/taigrr/gravity/pkg/geom"
	"github.com/taigrr/gravity/pkg/math3d"
)

// Frustum plane indices.
const (
	PlaneNear = iota
	PlaneFar
	PlaneLeft
	PlaneRight
	PlaneBottom
	PlaneTop
)

// Frustum is the view volume in camera space: X right, Y up, Z forward.
// A point is inside when every plane reports a non-negative distance.
type Frustum struct {
	Planes [6]geom.Plane
	Near   float64
	Far    float64
}

// NewFrustum builds the six planes from a vertical field of view in
// radians, a width/height aspect ratio and the clip distances.
func NewFrustum(fov, aspect, near, far float64) Frustum {
	tanY := math.Tan(fov / 2)
	tanX := tanY * aspect

	f := Frustum{Near: near, Far: far}
	f.Planes[PlaneNear] = geom.Plane{Normal: math3d.V3(0, 0, 1), D: -near}
	f.Planes[PlaneFar] = geom.Plane{Normal: math3d.V3(0, 0, -1), D: far}
	f.Planes[PlaneLeft] = geom.Plane{Normal: math3d.V3(1, 0, tanX)}
	f.Planes[PlaneRight] = geom.Plane{Normal: math3d.V3(-1, 0, tanX)}
	f.Planes[PlaneBottom] = geom.Plane{Normal: math3d.V3(0, 1, tanY)}
	f.Planes[PlaneTop] = geom.Plane{Normal: math3d.V3(0, -1, tanY)}
	for i := PlaneLeft; i <= PlaneTop; i++ {
		f.Planes[i].Normalize()
	}
	return f
}

// SetNear moves the near plane without touching the side planes.
func (f *Frustum) SetNear(near float64) {
	f.Near = near
	f.Planes[PlaneNear].D = -near
}

// SetFar moves the far plane without touching the side planes.
func (f *Frustum) SetFar(far float64) {
	f.Far = far
	f.Planes[PlaneFar].D = far
}

// IsPolygonOutside reports whether every vertex of the view-space polygon
// lies strictly behind one and the same plane. Polygons outside only by a
// combination of planes are not caught here; clipping removes them.
func (f *Frustum) IsPolygonOutside(p *geom.Polygon) bool {
	for i := range f.Planes {
		outside := true
		for _, v := range p.Verts() {
			if f.Planes[i].DistanceToPoint(v) >= 0 {
				outside = false
				break
			}
		}
		if outside {
			return true
		}
	}
	return false
}

// IsPolygonCrossing reports whether any vertex of the view-space polygon
// lies behind any plane, meaning the polygon needs clipping.
func (f *Frustum) IsPolygonCrossing(p *geom.Polygon) bool {
	for i := range f.Planes {
		for _, v := range p.Verts() {
			if f.Planes[i].DistanceToPoint(v) < 0 {
				return true
			}
		}
	}
	return false
}

// ContainsPoint checks if a view-space point is inside the frustum.
func (f *Frustum) ContainsPoint(p math3d.Vec3) bool {
	for i := range f.Planes {
		if f.Planes[i].DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

// IntersectsSphere tests a view-space sphere against the frustum. It may
// report false positives near the corners but never false negatives.
func (f *Frustum) IntersectsSphere(center math3d.Vec3, radius float64) bool {
	for i := range f.Planes {
		if f.Planes[i].DistanceToPoint(center) < -radius {
			return false
		}
	}
	return true
}
