// Package models provides the meshes rendered and simulated by gravity:
// the Mesh type with its derived acceleration structures, procedural
// generators, and OBJ/GLB loaders.
package models

import (
	"errors"
	"fmt"
	"slices"

	"github.com/taigrr/gravity/pkg/bvh"
	"github.com/taigrr/gravity/pkg/geom"
	"github.com/taigrr/gravity/pkg/math3d"
)

var (
	// ErrEmptyMesh is returned when a source yields no faces.
	ErrEmptyMesh = errors.New("mesh has no faces")
	// ErrInvalidFace is returned for faces with too few vertices or
	// out-of-range indices.
	ErrInvalidFace = errors.New("invalid face")
	// ErrUnsupportedFormat is returned by Load for unknown file extensions.
	ErrUnsupportedFormat = errors.New("unsupported mesh format")
)

// Face is a triangle or quad referencing Mesh.Vertices.
type Face struct {
	V        [4]int    // Indices into Mesh.Vertices; V[3] unused for triangles
	Kind     geom.Kind // KindTriangle or KindQuad
	Material int       // Index into Mesh.Materials (-1 for no material)
}

// Tri creates a triangle face with no material.
func Tri(a, b, c int) Face {
	return Face{V: [4]int{a, b, c, -1}, Kind: geom.KindTriangle, Material: -1}
}

// QuadFace creates a quad face with no material.
func QuadFace(a, b, c, d int) Face {
	return Face{V: [4]int{a, b, c, d}, Kind: geom.KindQuad, Material: -1}
}

// N returns the number of vertex indices in the face.
func (f Face) N() int {
	if f.Kind == geom.KindQuad {
		return 4
	}
	return 3
}

// Material represents a PBR material, from GLTF or assigned in code.
type Material struct {
	Name      string
	BaseColor geom.Color
	Metallic  float64 // 0 = dielectric, 1 = metal
	Roughness float64 // 0 = smooth, 1 = rough
}

// Mesh is an ordered set of polygons with the structures derived from it.
//
// Polygons, BVH and Hull are rebuilt from Vertices and Faces by Rebuild.
// Translate shifts all of them in place and keeps one snapshot for Revert.
type Mesh struct {
	Name      string
	Vertices  []math3d.Vec3
	Faces     []Face
	Materials []Material

	Color   geom.Color    // base color for faces without a material
	Surface geom.Material // PBR response for faces without a material
	Light   *geom.Light   // optional attached light, moves with the mesh

	// LeafSize overrides the BVH leaf threshold. Zero means the vertex count.
	LeafSize int

	// Derived by Rebuild.
	Polygons []geom.Polygon
	BVH      *bvh.Node
	Hull     geom.Hull
	Bounds   geom.AABB

	previous *snapshot
}

type snapshot struct {
	offset   math3d.Vec3
	vertices []math3d.Vec3
	polygons []geom.Polygon
	hull     []math3d.Vec3
	bounds   geom.AABB
	light    math3d.Vec3
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:    name,
		Color:   geom.White,
		Surface: geom.DefaultMaterial,
		Bounds:  geom.EmptyAABB(),
	}
}

// FromFaces builds a mesh from a vertex list and faces, validating every
// index, and derives its polygons, BVH and hull.
func FromFaces(name string, vertices []math3d.Vec3, faces []Face, color geom.Color) (*Mesh, error) {
	if len(faces) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyMesh)
	}
	for i, f := range faces {
		for _, idx := range f.V[:f.N()] {
			if idx < 0 || idx >= len(vertices) {
				return nil, fmt.Errorf("%s: face %d index %d: %w", name, i, idx, ErrInvalidFace)
			}
		}
	}

	m := NewMesh(name)
	m.Vertices = vertices
	m.Faces = faces
	m.Color = color
	m.Rebuild()
	return m, nil
}

// Rebuild regenerates polygons, BVH, hull and bounds from Vertices and
// Faces. It drops any pending Translate snapshot.
func (m *Mesh) Rebuild() {
	m.Polygons = make([]geom.Polygon, 0, len(m.Faces))
	for _, f := range m.Faces {
		m.Polygons = append(m.Polygons, m.polygon(f))
	}

	leaf := m.LeafSize
	if leaf <= 0 {
		leaf = len(m.Vertices)
	}
	m.BVH = bvh.Build(m.Polygons, leaf)
	m.Hull = geom.QuickHull(m.Vertices)
	m.CalculateBounds()
	m.previous = nil
}

func (m *Mesh) polygon(f Face) geom.Polygon {
	color, surface := m.Color, m.Surface
	if mat := m.GetMaterial(f.Material); mat != nil {
		color = mat.BaseColor
		surface = geom.Material{Metallic: mat.Metallic, Roughness: mat.Roughness}
	}

	var p geom.Polygon
	v := m.Vertices
	if f.Kind == geom.KindQuad {
		p = geom.Quad(v[f.V[0]], v[f.V[1]], v[f.V[2]], v[f.V[3]], color)
	} else {
		p = geom.Triangle(v[f.V[0]], v[f.V[1]], v[f.V[2]], color)
		f.V[3] = -1
	}
	p.Face = f.V
	p.Material = surface
	return p
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	box := geom.EmptyAABB()
	for _, v := range m.Vertices {
		box = box.Extend(v)
	}
	m.Bounds = box
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	if m.Bounds.IsEmpty() {
		return math3d.Vec3{}
	}
	return m.Bounds.Center()
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	if m.Bounds.IsEmpty() {
		return math3d.Vec3{}
	}
	return m.Bounds.Size()
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles once quads are split.
func (m *Mesh) TriangleCount() int {
	n := 0
	for _, f := range m.Faces {
		n += f.N() - 2
	}
	return n
}

// GetMaterial returns the material at index i.
// Returns nil if index is out of bounds or -1.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// SetColor changes the base color of every face without a material.
func (m *Mesh) SetColor(c geom.Color) {
	m.Color = c
	for i, f := range m.Faces {
		if m.GetMaterial(f.Material) == nil && i < len(m.Polygons) {
			m.Polygons[i].Color = c
		}
	}
}

// Triangulate splits every quad face into two triangles and rebuilds.
func (m *Mesh) Triangulate() {
	faces := make([]Face, 0, m.TriangleCount())
	for _, f := range m.Faces {
		if f.Kind != geom.KindQuad {
			faces = append(faces, f)
			continue
		}
		a := Tri(f.V[0], f.V[1], f.V[2])
		b := Tri(f.V[0], f.V[2], f.V[3])
		a.Material, b.Material = f.Material, f.Material
		faces = append(faces, a, b)
	}
	m.Faces = faces
	m.Rebuild()
}

// Translate shifts vertices, polygons, hull, BVH, bounds and the attached
// light by offset in place. The state before the shift is kept so that one
// Revert can undo it; a second Translate replaces the snapshot.
func (m *Mesh) Translate(offset math3d.Vec3) {
	snap := &snapshot{
		offset:   offset,
		vertices: slices.Clone(m.Vertices),
		polygons: slices.Clone(m.Polygons),
		hull:     slices.Clone(m.Hull.Points),
		bounds:   m.Bounds,
	}
	if m.Light != nil {
		snap.light = m.Light.Position
	}
	m.previous = snap

	for i := range m.Vertices {
		m.Vertices[i] = m.Vertices[i].Add(offset)
	}
	for i := range m.Polygons {
		m.Polygons[i].Translate(offset)
	}
	for i := range m.Hull.Points {
		m.Hull.Points[i] = m.Hull.Points[i].Add(offset)
	}
	m.BVH.Translate(offset)
	if !m.Bounds.IsEmpty() {
		m.Bounds = m.Bounds.Translate(offset)
	}
	if m.Light != nil {
		m.Light.Position = m.Light.Position.Add(offset)
	}
}

// CanRevert reports whether a Translate snapshot is pending.
func (m *Mesh) CanRevert() bool {
	return m.previous != nil
}

// Revert undoes the last Translate. It returns false when there is nothing
// to undo.
func (m *Mesh) Revert() bool {
	s := m.previous
	if s == nil {
		return false
	}
	copy(m.Vertices, s.vertices)
	copy(m.Polygons, s.polygons)
	copy(m.Hull.Points, s.hull)
	m.BVH.Translate(s.offset.Negate())
	m.Bounds = s.bounds
	if m.Light != nil {
		m.Light.Position = s.light
	}
	m.previous = nil
	return true
}

// Rotate turns every vertex around pivot by the Euler angles (X, then Y,
// then Z) and rebuilds. The attached light orbits with the mesh.
func (m *Mesh) Rotate(pivot, angles math3d.Vec3) {
	if angles == (math3d.Vec3{}) {
		return
	}
	for i := range m.Vertices {
		m.Vertices[i] = m.Vertices[i].RotateAround(pivot, angles)
	}
	if m.Light != nil {
		m.Light.Position = m.Light.Position.RotateAround(pivot, angles)
	}
	m.Rebuild()
}

// Clone creates a deep copy of the mesh, including its attached light.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  slices.Clone(m.Vertices),
		Faces:     slices.Clone(m.Faces),
		Materials: slices.Clone(m.Materials),
		Color:     m.Color,
		Surface:   m.Surface,
		LeafSize:  m.LeafSize,
	}
	if m.Light != nil {
		l := *m.Light
		clone.Light = &l
	}
	clone.Rebuild()
	return clone
}
