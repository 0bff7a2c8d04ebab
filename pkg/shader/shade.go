package shader

import (
	"math"

	"github.com/taigrr/gravity/pkg/bvh"
	"github.com/taigrr/gravity/pkg/geom"
	"github.com/taigrr/gravity/pkg/math3d"
)

// shadowBias lifts shadow rays off the surface they start from.
const shadowBias = 1e-6

// Scene shades polygons from several lights at once.
type Scene struct {
	Lights []geom.Light
	Viewer math3d.Vec3

	// Shadows enables occlusion tests against Occluders. Occluded lights
	// contribute ambient only.
	Shadows   bool
	Occluders []*bvh.Node
}

// Shade sums the contribution of every light into the shader of each
// polygon. Without lights the shader is left white.
func (s *Scene) Shade(polys []geom.Polygon) {
	if len(s.Lights) == 0 {
		for i := range polys {
			polys[i].Shader = geom.White
		}
		return
	}
	for i := range polys {
		polys[i].Shader = s.ShadePolygon(&polys[i])
	}
}

// ShadePolygon returns the summed contribution of all lights to p.
func (s *Scene) ShadePolygon(p *geom.Polygon) geom.Color {
	n := p.Normal()
	var sum geom.Color
	for i := range s.Lights {
		light := &s.Lights[i]
		sum = sum.Add(geom.RGB(light.Ambient.X, light.Ambient.Y, light.Ambient.Z))
		if n.LenSq() == 0 {
			continue
		}
		if s.Shadows {
			from := p.Centroid().Add(n.Scale(shadowBias))
			if IsOccluded(from, light.Position, s.Occluders) {
				continue
			}
		}
		sum = sum.Add(direct(p, n, light, s.Viewer))
	}
	return sanitize(sum)
}

// IsOccluded reports whether any polygon in nodes blocks the segment from
// point to lightPos. Endpoints are excluded.
func IsOccluded(point, lightPos math3d.Vec3, nodes []*bvh.Node) bool {
	toLight := lightPos.Sub(point)
	dist := toLight.Len()
	if dist == 0 {
		return false
	}
	dir := toLight.Scale(1 / dist)

	for _, node := range nodes {
		for _, cand := range node.Traverse(point, dir) {
			for _, tri := range cand.Triangles() {
				t, hit := RayTriangle(point, dir, tri.Vertices[0], tri.Vertices[1], tri.Vertices[2])
				if hit && t > shadowBias && t < dist-shadowBias {
					return true
				}
			}
		}
	}
	return false
}

// RayTriangle is the Möller-Trumbore intersection of the ray origin + t*dir
// with triangle (a, b, c), hitting from either side.
func RayTriangle(origin, dir, a, b, c math3d.Vec3) (float64, bool) {
	const eps = 1e-12
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	pv := dir.Cross(e2)
	det := e1.Dot(pv)
	if math.Abs(det) < eps {
		return 0, false
	}
	inv := 1 / det
	tv := origin.Sub(a)
	u := tv.Dot(pv) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	qv := tv.Cross(e1)
	v := dir.Dot(qv) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(qv) * inv
	return t, t >= 0
}
