package render

import (
	"github.com/taigrr/gravity/pkg/geom"
	"github.com/taigrr/gravity/pkg/math3d"
)

// ClipPolygon clips a view-space polygon against every frustum plane in
// turn and appends the surviving pieces to dst. A polygon already inside a
// plane passes through that plane untouched, so a polygon fully inside the
// frustum comes back as itself. Pieces cut by a plane are fanned into
// triangles from the first surviving vertex.
func (f *Frustum) ClipPolygon(dst []geom.Polygon, p geom.Polygon) []geom.Polygon {
	pieces := []geom.Polygon{p}
	var next []geom.Polygon
	var loop []math3d.Vec3

	for i := range f.Planes {
		plane := &f.Planes[i]
		next = next[:0]
		for _, piece := range pieces {
			if insideAll(plane, &piece) {
				next = append(next, piece)
				continue
			}
			loop = clipLoop(loop[:0], plane, piece.Verts())
			next = append(next, geom.Fan(piece, loop)...)
		}
		pieces, next = next, pieces
		if len(pieces) == 0 {
			break
		}
	}
	return append(dst, pieces...)
}

func insideAll(plane *geom.Plane, p *geom.Polygon) bool {
	for _, v := range p.Verts() {
		if plane.DistanceToPoint(v) < 0 {
			return false
		}
	}
	return true
}

// clipLoop is one Sutherland-Hodgman pass of a closed vertex loop against
// plane. Edges parallel to the plane intersect at t = 0, which yields a
// duplicate vertex rather than a division by zero.
func clipLoop(dst []math3d.Vec3, plane *geom.Plane, verts []math3d.Vec3) []math3d.Vec3 {
	n := len(verts)
	for i := range n {
		cur := verts[i]
		nxt := verts[(i+1)%n]
		curIn := plane.DistanceToPoint(cur) >= 0
		nxtIn := plane.DistanceToPoint(nxt) >= 0

		if curIn {
			dst = append(dst, cur)
		}
		if curIn != nxtIn {
			t := plane.Intersect(cur, nxt)
			dst = append(dst, cur.Lerp(nxt, t))
		}
	}
	return dst
}
