package models

import (
	"fmt"
	"math"

	"github.com/taigrr/gravity/pkg/geom"
	"github.com/taigrr/gravity/pkg/math3d"
)

// Sphere generates a UV sphere centered at the origin with outward-facing
// polygons: triangles at the poles and quads in between. segments is the
// number of slices around Y, rings the number of stacks from pole to pole.
func Sphere(radius float64, segments, rings int, color geom.Color) (*Mesh, error) {
	if segments < 3 || rings < 2 {
		return nil, fmt.Errorf("sphere %dx%d: %w", segments, rings, ErrInvalidFace)
	}

	point := func(theta, phi float64) math3d.Vec3 {
		return math3d.V3(
			radius*math.Sin(theta)*math.Cos(phi),
			radius*math.Cos(theta),
			radius*math.Sin(theta)*math.Sin(phi),
		)
	}

	vertices := []math3d.Vec3{math3d.V3(0, radius, 0)}
	for r := 1; r < rings; r++ {
		theta := math.Pi * float64(r) / float64(rings)
		for s := range segments {
			phi := 2 * math.Pi * float64(s) / float64(segments)
			vertices = append(vertices, point(theta, phi))
		}
	}
	bottom := len(vertices)
	vertices = append(vertices, math3d.V3(0, -radius, 0))

	ring := func(r, s int) int {
		return 1 + (r-1)*segments + s%segments
	}

	var faces []Face
	for s := range segments {
		faces = append(faces, Tri(0, ring(1, s+1), ring(1, s)))
	}
	for r := 1; r < rings-1; r++ {
		for s := range segments {
			faces = append(faces, QuadFace(ring(r, s), ring(r, s+1), ring(r+1, s+1), ring(r+1, s)))
		}
	}
	for s := range segments {
		faces = append(faces, Tri(ring(rings-1, s), ring(rings-1, s+1), bottom))
	}

	return FromFaces("sphere", vertices, faces, color)
}

// Cuboid generates an axis-aligned box centered at the origin made of six
// outward-facing quads over 8 shared vertices.
func Cuboid(size math3d.Vec3, color geom.Color) (*Mesh, error) {
	h := size.Scale(0.5)
	vertices := make([]math3d.Vec3, 8)
	for i := range vertices {
		x, y, z := -h.X, -h.Y, -h.Z
		if i&1 != 0 {
			x = h.X
		}
		if i&2 != 0 {
			y = h.Y
		}
		if i&4 != 0 {
			z = h.Z
		}
		vertices[i] = math3d.V3(x, y, z)
	}

	faces := []Face{
		QuadFace(0, 2, 3, 1), // -Z
		QuadFace(4, 5, 7, 6), // +Z
		QuadFace(0, 4, 6, 2), // -X
		QuadFace(1, 3, 7, 5), // +X
		QuadFace(0, 1, 5, 4), // -Y
		QuadFace(2, 6, 7, 3), // +Y
	}
	return FromFaces("cuboid", vertices, faces, color)
}

// Grid generates a flat XZ grid of quads facing +Y, centered at the origin.
func Grid(width, depth, step float64, color geom.Color) (*Mesh, error) {
	if step <= 0 || width < step || depth < step {
		return nil, fmt.Errorf("grid %gx%g step %g: %w", width, depth, step, ErrEmptyMesh)
	}
	cols := int(width / step)
	rows := int(depth / step)
	x0 := -float64(cols) * step / 2
	z0 := -float64(rows) * step / 2

	vertices := make([]math3d.Vec3, 0, (cols+1)*(rows+1))
	for r := 0; r <= rows; r++ {
		for c := 0; c <= cols; c++ {
			vertices = append(vertices, math3d.V3(x0+float64(c)*step, 0, z0+float64(r)*step))
		}
	}

	idx := func(r, c int) int { return r*(cols+1) + c }
	faces := make([]Face, 0, cols*rows)
	for r := range rows {
		for c := range cols {
			faces = append(faces, QuadFace(idx(r, c), idx(r+1, c), idx(r+1, c+1), idx(r, c+1)))
		}
	}
	return FromFaces("grid", vertices, faces, color)
}
