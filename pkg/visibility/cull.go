// Package visibility decides which polygons are drawn and in what order:
// backface culling and back-to-front ordering for painter's rendering.
package visibility

import (
	"github.com/taigrr/gravity/pkg/geom"
	"github.com/taigrr/gravity/pkg/math3d"
)

// IsFrontFacing reports whether p faces the camera at cam. Degenerate
// polygons have a zero normal and are never front facing.
func IsFrontFacing(p *geom.Polygon, cam math3d.Vec3) bool {
	return p.Normal().Dot(p.Centroid().Sub(cam)) < 0
}

// BackfaceCull keeps the front-facing polygons, filtering polys in place.
func BackfaceCull(polys []geom.Polygon, cam math3d.Vec3) []geom.Polygon {
	out := polys[:0]
	for i := range polys {
		if IsFrontFacing(&polys[i], cam) {
			out = append(out, polys[i])
		}
	}
	return out
}
