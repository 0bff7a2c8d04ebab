package render

import (
	"github.com/taigrr/gravity/pkg/bvh"
	"github.com/taigrr/gravity/pkg/geom"
	"github.com/taigrr/gravity/pkg/math3d"
)

// Debug line colors.
var (
	ColorAxisX  = geom.RGB(1, 0.2, 0.2)
	ColorAxisY  = geom.RGB(0.2, 1, 0.2)
	ColorAxisZ  = geom.RGB(0.3, 0.4, 1)
	ColorHull   = geom.RGB(0, 1, 0.5)
	ColorBounds = geom.RGB(1, 0.8, 0.2)
	ColorLeaf   = geom.RGBA(1, 0.4, 0.8, 0.6)
)

// Wireframe queues 3D debug lines. Lines go straight through the camera's
// line projection and skip the polygon pipeline.
type Wireframe struct {
	camera    *Camera
	buf       *CommandBuffer
	Thickness float64
}

// NewWireframe creates a new wireframe renderer.
func NewWireframe(camera *Camera, buf *CommandBuffer) *Wireframe {
	return &Wireframe{
		camera:    camera,
		buf:       buf,
		Thickness: 1,
	}
}

// DrawLine3D draws a line in 3D space. It reports whether anything was
// queued.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, color geom.Color) bool {
	a, b, ok := w.camera.ProjectLine(p1, p2)
	if !ok {
		return false
	}
	w.buf.Line(a, b, w.Thickness, color)
	return true
}

// DrawBox draws the 12 edges of an axis-aligned box.
func (w *Wireframe) DrawBox(box geom.AABB, color geom.Color) {
	if box.IsEmpty() {
		return
	}
	corners := box.Corners()
	for _, e := range geom.BoxEdges {
		w.DrawLine3D(corners[e[0]], corners[e[1]], color)
	}
}

// DrawHull draws every edge of a convex hull. Edges shared by two faces
// are drawn once.
func (w *Wireframe) DrawHull(h geom.Hull, color geom.Color) {
	seen := make(map[[2]int]struct{}, len(h.Faces)*3/2)
	for _, f := range h.Faces {
		for i := range 3 {
			a, b := f[i], f[(i+1)%3]
			if a > b {
				a, b = b, a
			}
			if _, ok := seen[[2]int{a, b}]; ok {
				continue
			}
			seen[[2]int{a, b}] = struct{}{}
			w.DrawLine3D(h.Points[a], h.Points[b], color)
		}
	}
}

// DrawBVH draws the boxes of every leaf of the hierarchy.
func (w *Wireframe) DrawBVH(root *bvh.Node, color geom.Color) {
	for _, leaf := range root.Leaves() {
		w.DrawBox(leaf.Box, color)
	}
}

// DrawAxes draws the coordinate axes at the origin.
func (w *Wireframe) DrawAxes(length float64) {
	origin := math3d.Zero3()
	w.DrawLine3D(origin, math3d.V3(length, 0, 0), ColorAxisX)
	w.DrawLine3D(origin, math3d.V3(0, length, 0), ColorAxisY)
	w.DrawLine3D(origin, math3d.V3(0, 0, length), ColorAxisZ)
}

// DrawPoint draws a point as a small cross.
func (w *Wireframe) DrawPoint(pos math3d.Vec3, size float64, color geom.Color) {
	halfSize := size / 2
	w.DrawLine3D(
		math3d.V3(pos.X-halfSize, pos.Y, pos.Z),
		math3d.V3(pos.X+halfSize, pos.Y, pos.Z),
		color,
	)
	w.DrawLine3D(
		math3d.V3(pos.X, pos.Y-halfSize, pos.Z),
		math3d.V3(pos.X, pos.Y+halfSize, pos.Z),
		color,
	)
	w.DrawLine3D(
		math3d.V3(pos.X, pos.Y, pos.Z-halfSize),
		math3d.V3(pos.X, pos.Y, pos.Z+halfSize),
		color,
	)
}
