package geom

import (
	"github.com/taigrr/gravity/pkg/math3d"
)

// Kind tags the closed set of polygon shapes.
type Kind uint8

const (
	KindTriangle Kind = iota // 3 vertices
	KindQuad                 // 4 vertices
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindTriangle:
		return "triangle"
	case KindQuad:
		return "quad"
	default:
		return "unknown"
	}
}

// Material holds the per-surface PBR parameters.
type Material struct {
	Metallic  float64 // 0 = dielectric, 1 = metal
	Roughness float64 // 0 = mirror, 1 = fully rough
}

// DefaultMaterial is a rough dielectric.
var DefaultMaterial = Material{Metallic: 0, Roughness: 0.6}

// Polygon is a triangle or quad. Vertices beyond the kind's count are unused.
//
// The face normal is derived from the winding of the first two edges, so
// the authoring order decides which side is the front.
type Polygon struct {
	Kind     Kind
	Vertices [4]math3d.Vec3
	Face     [4]int   // source vertex indices, -1 when unused
	Color    Color    // static base color
	Shader   Color    // light contribution, recomputed every frame
	Material Material // surface response used by the shader
	Owner    int      // index of the source mesh within the current frame
}

// Triangle builds a triangle with a white shader.
func Triangle(a, b, c math3d.Vec3, col Color) Polygon {
	return Polygon{
		Kind:     KindTriangle,
		Vertices: [4]math3d.Vec3{a, b, c},
		Face:     [4]int{-1, -1, -1, -1},
		Color:    col,
		Shader:   White,
		Material: DefaultMaterial,
	}
}

// Quad builds a quad with a white shader.
func Quad(a, b, c, d math3d.Vec3, col Color) Polygon {
	return Polygon{
		Kind:     KindQuad,
		Vertices: [4]math3d.Vec3{a, b, c, d},
		Face:     [4]int{-1, -1, -1, -1},
		Color:    col,
		Shader:   White,
		Material: DefaultMaterial,
	}
}

// N returns the vertex count (3 or 4).
func (p *Polygon) N() int {
	if p.Kind == KindQuad {
		return 4
	}
	return 3
}

// Verts returns the used vertices. The slice aliases p.
func (p *Polygon) Verts() []math3d.Vec3 {
	return p.Vertices[:p.N()]
}

// Centroid returns the average of the vertices.
func (p *Polygon) Centroid() math3d.Vec3 {
	var sum math3d.Vec3
	for _, v := range p.Verts() {
		sum = sum.Add(v)
	}
	return sum.Scale(1 / float64(p.N()))
}

// Normal returns the unit face normal from the cross product of the first
// two edges. Degenerate polygons return the zero vector.
func (p *Polygon) Normal() math3d.Vec3 {
	e1 := p.Vertices[1].Sub(p.Vertices[0])
	e2 := p.Vertices[2].Sub(p.Vertices[1])
	return e1.Cross(e2).Normalize()
}

// Plane returns the supporting plane, normal along Normal().
func (p *Polygon) Plane() Plane {
	n := p.Normal()
	return Plane{Normal: n, D: -n.Dot(p.Vertices[0])}
}

// Edges returns the edge vectors in winding order.
func (p *Polygon) Edges() []math3d.Vec3 {
	n := p.N()
	edges := make([]math3d.Vec3, n)
	for i := range n {
		edges[i] = p.Vertices[(i+1)%n].Sub(p.Vertices[i])
	}
	return edges
}

// Translate shifts every vertex by offset in place.
func (p *Polygon) Translate(offset math3d.Vec3) {
	for i := range p.N() {
		p.Vertices[i] = p.Vertices[i].Add(offset)
	}
}

// Transform applies fn to every vertex in place.
func (p *Polygon) Transform(fn func(math3d.Vec3) math3d.Vec3) {
	for i := range p.N() {
		p.Vertices[i] = fn(p.Vertices[i])
	}
}

// Triangles splits a quad into two triangles (0,1,2) and (0,2,3).
// A triangle is returned unchanged.
func (p Polygon) Triangles() []Polygon {
	if p.Kind == KindTriangle {
		return []Polygon{p}
	}
	a, b := p, p
	a.Kind, b.Kind = KindTriangle, KindTriangle
	a.Vertices = [4]math3d.Vec3{p.Vertices[0], p.Vertices[1], p.Vertices[2]}
	a.Face = [4]int{p.Face[0], p.Face[1], p.Face[2], -1}
	b.Vertices = [4]math3d.Vec3{p.Vertices[0], p.Vertices[2], p.Vertices[3]}
	b.Face = [4]int{p.Face[0], p.Face[2], p.Face[3], -1}
	return []Polygon{a, b}
}

// Fan rebuilds polygons from an arbitrary convex vertex loop, keeping the
// attributes of template. Three vertices give a triangle; more vertices are
// fanned from the first one into triangles. Fewer than three give nothing.
// Face indices are reset since the new vertices no longer map to the source.
func Fan(template Polygon, verts []math3d.Vec3) []Polygon {
	if len(verts) < 3 {
		return nil
	}
	out := make([]Polygon, 0, len(verts)-2)
	for i := 1; i+1 < len(verts); i++ {
		t := template
		t.Kind = KindTriangle
		t.Vertices = [4]math3d.Vec3{verts[0], verts[i], verts[i+1]}
		t.Face = [4]int{-1, -1, -1, -1}
		out = append(out, t)
	}
	return out
}

// FromLoop is like Fan but keeps a four-vertex loop as a single quad.
func FromLoop(template Polygon, verts []math3d.Vec3) []Polygon {
	if len(verts) == 4 {
		q := template
		q.Kind = KindQuad
		q.Vertices = [4]math3d.Vec3{verts[0], verts[1], verts[2], verts[3]}
		q.Face = [4]int{-1, -1, -1, -1}
		return []Polygon{q}
	}
	return Fan(template, verts)
}
