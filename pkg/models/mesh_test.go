package models

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/gravity/pkg/geom"
	"github.com/taigrr/gravity/pkg/math3d"
)

func TestCuboid(t *testing.T) {
	mesh, err := Cuboid(math3d.V3(2, 4, 6), geom.RGB(1, 0, 0))
	if err != nil {
		t.Fatalf("Cuboid: %v", err)
	}
	if mesh.VertexCount() != 8 {
		t.Errorf("vertices = %d, want 8", mesh.VertexCount())
	}
	if len(mesh.Polygons) != 6 {
		t.Errorf("polygons = %d, want 6 quads", len(mesh.Polygons))
	}
	if mesh.TriangleCount() != 12 {
		t.Errorf("TriangleCount = %d, want 12", mesh.TriangleCount())
	}
	if size := mesh.Size(); size != math3d.V3(2, 4, 6) {
		t.Errorf("size = %v, want (2, 4, 6)", size)
	}
	for i, p := range mesh.Polygons {
		if p.Normal().Dot(p.Centroid()) <= 0 {
			t.Errorf("face %d normal points inward", i)
		}
		if p.Color != geom.RGB(1, 0, 0) || p.Shader != geom.White {
			t.Errorf("face %d color = %+v shader = %+v", i, p.Color, p.Shader)
		}
	}
	if len(mesh.Hull.Points) != 8 {
		t.Errorf("hull points = %d, want 8", len(mesh.Hull.Points))
	}
	if mesh.BVH == nil {
		t.Fatal("BVH not built")
	}

	mesh.Triangulate()
	if len(mesh.Polygons) != 12 || len(mesh.Faces) != 12 {
		t.Errorf("after Triangulate: %d polygons, %d faces, want 12", len(mesh.Polygons), len(mesh.Faces))
	}
	for _, p := range mesh.Polygons {
		if p.Kind != geom.KindTriangle {
			t.Fatalf("found %v after Triangulate", p.Kind)
		}
	}
}

func TestSphere(t *testing.T) {
	const segments, rings = 12, 8
	mesh, err := Sphere(10, segments, rings, geom.White)
	if err != nil {
		t.Fatalf("Sphere: %v", err)
	}
	wantVerts := 2 + segments*(rings-1)
	if mesh.VertexCount() != wantVerts {
		t.Errorf("vertices = %d, want %d", mesh.VertexCount(), wantVerts)
	}
	wantFaces := 2*segments + segments*(rings-2)
	if len(mesh.Faces) != wantFaces {
		t.Errorf("faces = %d, want %d", len(mesh.Faces), wantFaces)
	}
	for i, v := range mesh.Vertices {
		if math.Abs(v.Len()-10) > 1e-9 {
			t.Errorf("vertex %d at radius %v", i, v.Len())
		}
	}
	for i, p := range mesh.Polygons {
		if p.Normal().Dot(p.Centroid()) <= 0 {
			t.Errorf("face %d normal points inward", i)
		}
	}

	if _, err := Sphere(1, 2, 8, geom.White); !errors.Is(err, ErrInvalidFace) {
		t.Errorf("Sphere with 2 segments error = %v, want ErrInvalidFace", err)
	}
}

func TestGrid(t *testing.T) {
	mesh, err := Grid(4, 2, 1, geom.White)
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	if len(mesh.Faces) != 8 {
		t.Errorf("faces = %d, want 8", len(mesh.Faces))
	}
	if mesh.VertexCount() != 15 {
		t.Errorf("vertices = %d, want 15", mesh.VertexCount())
	}
	for i, p := range mesh.Polygons {
		if n := p.Normal(); !n.ApproxEqual(math3d.V3(0, 1, 0), 1e-12) {
			t.Errorf("face %d normal = %v, want +Y", i, n)
		}
	}
	if c := mesh.Center(); !c.ApproxEqual(math3d.Vec3{}, 1e-12) {
		t.Errorf("center = %v, want origin", c)
	}

	if _, err := Grid(1, 1, 0, geom.White); !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("zero step error = %v, want ErrEmptyMesh", err)
	}
}

func TestFromFacesValidates(t *testing.T) {
	verts := []math3d.Vec3{math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0)}

	tests := []struct {
		name  string
		faces []Face
		want  error
	}{
		{"empty", nil, ErrEmptyMesh},
		{"negative index", []Face{Tri(-1, 1, 2)}, ErrInvalidFace},
		{"index past end", []Face{Tri(0, 1, 3)}, ErrInvalidFace},
		{"quad past end", []Face{QuadFace(0, 1, 2, 3)}, ErrInvalidFace},
		{"valid", []Face{Tri(0, 1, 2)}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromFaces(tc.name, verts, tc.faces, geom.White)
			if !errors.Is(err, tc.want) {
				t.Errorf("error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestFaceMaterial(t *testing.T) {
	verts := []math3d.Vec3{math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0), math3d.V3(1, 1, 0)}
	red := Tri(0, 1, 2)
	red.Material = 0
	plain := Tri(1, 3, 2)

	mesh, err := FromFaces("mat", verts, []Face{red, plain}, geom.RGB(0, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	mesh.Materials = []Material{{Name: "red", BaseColor: geom.RGB(1, 0, 0), Metallic: 1, Roughness: 0.2}}
	mesh.Rebuild()

	if mesh.Polygons[0].Color != geom.RGB(1, 0, 0) {
		t.Errorf("material face color = %+v", mesh.Polygons[0].Color)
	}
	if mesh.Polygons[0].Material != (geom.Material{Metallic: 1, Roughness: 0.2}) {
		t.Errorf("material face surface = %+v", mesh.Polygons[0].Material)
	}
	if mesh.Polygons[1].Color != geom.RGB(0, 0, 1) {
		t.Errorf("plain face color = %+v", mesh.Polygons[1].Color)
	}

	mesh.SetColor(geom.RGB(0, 1, 0))
	if mesh.Polygons[0].Color != geom.RGB(1, 0, 0) {
		t.Error("SetColor overrode a material color")
	}
	if mesh.Polygons[1].Color != geom.RGB(0, 1, 0) {
		t.Errorf("SetColor did not apply: %+v", mesh.Polygons[1].Color)
	}

	if mesh.GetMaterial(-1) != nil || mesh.GetMaterial(99) != nil {
		t.Error("GetMaterial out of range should return nil")
	}
}

func TestTranslateAndRevert(t *testing.T) {
	mesh, err := Cuboid(math3d.V3(2, 2, 2), geom.White)
	if err != nil {
		t.Fatal(err)
	}
	light := geom.NewLight(math3d.Vec3{}, math3d.V3(0, 0, 1), 100)
	mesh.Light = &light

	origVerts := append([]math3d.Vec3(nil), mesh.Vertices...)
	origBox := mesh.BVH.Box

	if mesh.Revert() {
		t.Error("Revert with no snapshot should report false")
	}

	offset := math3d.V3(10, -5, 3)
	mesh.Translate(offset)

	if !mesh.CanRevert() {
		t.Fatal("Translate should leave a snapshot")
	}
	for i, v := range mesh.Vertices {
		if v != origVerts[i].Add(offset) {
			t.Errorf("vertex %d = %v, want %v", i, v, origVerts[i].Add(offset))
		}
	}
	if c := mesh.Polygons[0].Centroid(); !mesh.Bounds.ContainsPoint(c) {
		t.Errorf("polygon centroid %v outside translated bounds", c)
	}
	if mesh.BVH.Box != origBox.Translate(offset) {
		t.Errorf("BVH box = %v, want translated", mesh.BVH.Box)
	}
	if mesh.Light.Position != offset {
		t.Errorf("light = %v, want %v", mesh.Light.Position, offset)
	}
	for _, p := range mesh.Hull.Points {
		if !mesh.Bounds.ContainsPoint(p) {
			t.Errorf("hull point %v outside translated bounds", p)
		}
	}

	if !mesh.Revert() {
		t.Fatal("Revert should succeed")
	}
	for i, v := range mesh.Vertices {
		if v != origVerts[i] {
			t.Errorf("reverted vertex %d = %v, want %v", i, v, origVerts[i])
		}
	}
	if !mesh.BVH.Box.Min.ApproxEqual(origBox.Min, 1e-12) || !mesh.BVH.Box.Max.ApproxEqual(origBox.Max, 1e-12) {
		t.Errorf("reverted BVH box = %v, want %v", mesh.BVH.Box, origBox)
	}
	if mesh.Light.Position != (math3d.Vec3{}) {
		t.Errorf("reverted light = %v", mesh.Light.Position)
	}
	if mesh.CanRevert() {
		t.Error("only one level of undo is kept")
	}
}

func TestRotate(t *testing.T) {
	mesh, err := Cuboid(math3d.V3(2, 2, 2), geom.White)
	if err != nil {
		t.Fatal(err)
	}
	mesh.Rotate(math3d.Vec3{}, math3d.V3(0, math.Pi/2, 0))

	// A quarter turn about Y maps the cube onto itself.
	if size := mesh.Size(); !size.ApproxEqual(math3d.V3(2, 2, 2), 1e-9) {
		t.Errorf("size after rotation = %v", size)
	}
	for i, p := range mesh.Polygons {
		if p.Normal().Dot(p.Centroid()) <= 0 {
			t.Errorf("face %d inward after rotation", i)
		}
	}
}

func TestClone(t *testing.T) {
	mesh, err := Cuboid(math3d.V3(1, 1, 1), geom.White)
	if err != nil {
		t.Fatal(err)
	}
	light := geom.NewLight(math3d.Vec3{}, math3d.V3(0, 0, 1), 100)
	mesh.Light = &light
	mesh.Materials = []Material{{Name: "mat1"}}

	clone := mesh.Clone()
	clone.Translate(math3d.V3(1, 0, 0))
	clone.Materials[0].Name = "modified"

	if mesh.Vertices[0] == clone.Vertices[0] {
		t.Error("clone shares vertices with original")
	}
	if mesh.Light.Position != (math3d.Vec3{}) {
		t.Error("clone shares its light with original")
	}
	if mesh.Materials[0].Name == "modified" {
		t.Error("clone shares materials with original")
	}
}
