package geom

import (
	"math"

	"github.com/taigrr/gravity/pkg/math3d"
)

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB creates an AABB from min and max points.
func NewAABB(min, max math3d.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns an inverted box that any Extend call replaces.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: math3d.V3(inf, inf, inf),
		Max: math3d.V3(-inf, -inf, -inf),
	}
}

// IsEmpty reports whether the box has never been extended.
func (b AABB) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Extend grows the box to include p.
func (b AABB) Extend(p math3d.Vec3) AABB {
	return AABB{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// Union returns the smallest box containing both boxes.
func (b AABB) Union(o AABB) AABB {
	return AABB{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// Center returns the center of the AABB.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the dimensions of the AABB.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// HalfSize returns half the dimensions (extents from center).
func (b AABB) HalfSize() math3d.Vec3 {
	return b.Size().Scale(0.5)
}

// SurfaceArea returns the total face area; empty boxes have zero area.
func (b AABB) SurfaceArea() float64 {
	if b.IsEmpty() {
		return 0
	}
	s := b.Size()
	return 2 * (s.X*s.Y + s.Y*s.Z + s.Z*s.X)
}

// ContainsPoint returns true if the point is inside the AABB.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Overlap returns the per-axis overlap lengths. A negative component means
// the boxes are separated along that axis.
func (b AABB) Overlap(o AABB) math3d.Vec3 {
	return math3d.V3(
		math.Min(b.Max.X, o.Max.X)-math.Max(b.Min.X, o.Min.X),
		math.Min(b.Max.Y, o.Max.Y)-math.Max(b.Min.Y, o.Min.Y),
		math.Min(b.Max.Z, o.Max.Z)-math.Max(b.Min.Z, o.Min.Z),
	)
}

// Intersects reports whether the boxes overlap with positive volume.
func (b AABB) Intersects(o AABB) bool {
	ov := b.Overlap(o)
	return ov.X > 0 && ov.Y > 0 && ov.Z > 0
}

// Translate returns the box shifted by offset.
func (b AABB) Translate(offset math3d.Vec3) AABB {
	return AABB{Min: b.Min.Add(offset), Max: b.Max.Add(offset)}
}

// Corners returns the 8 corners, bit 0 selecting X, bit 1 Y and bit 2 Z.
func (b AABB) Corners() [8]math3d.Vec3 {
	var c [8]math3d.Vec3
	for i := range 8 {
		c[i] = math3d.V3(
			pick(i&1 != 0, b.Max.X, b.Min.X),
			pick(i&2 != 0, b.Max.Y, b.Min.Y),
			pick(i&4 != 0, b.Max.Z, b.Min.Z),
		)
	}
	return c
}

// BoxEdges lists the 12 edges of Corners() as index pairs.
var BoxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7},
	{0, 2}, {1, 3}, {4, 6}, {5, 7},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// IntersectRay runs the slab test for the ray origin + t*dir, t >= 0.
// It returns the entry distance and whether the ray hits the box. Axes with
// a near-zero direction component only require the origin to lie inside
// the slab.
func (b AABB) IntersectRay(origin, dir math3d.Vec3) (float64, bool) {
	const eps = 1e-12
	tmin, tmax := 0.0, math.Inf(1)
	for axis := range 3 {
		o := origin.Component(axis)
		d := dir.Component(axis)
		lo := b.Min.Component(axis)
		hi := b.Max.Component(axis)
		if math.Abs(d) < eps {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
