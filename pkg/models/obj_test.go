package models

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/gravity/pkg/geom"
)

const cubeOBJ = `# unit cube
o box
v -1 -1 -1
v  1 -1 -1
v -1  1 -1
v  1  1 -1
v -1 -1  1
v  1 -1  1
v -1  1  1
v  1  1  1
f 1 3 4 2
f 5 6 8 7
f 1/1 5/2 7/3 3/4
f 2//1 4//1 8//1 6//1
f 1 2 6 5
f -6 -2 -1 -5
`

func TestParseOBJCube(t *testing.T) {
	mesh, err := ParseOBJ(strings.NewReader(cubeOBJ), "cube.obj", geom.White)
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if mesh.Name != "box" {
		t.Errorf("name = %q, want box", mesh.Name)
	}
	if mesh.VertexCount() != 8 {
		t.Errorf("vertices = %d, want 8", mesh.VertexCount())
	}
	if len(mesh.Faces) != 6 {
		t.Fatalf("faces = %d, want 6", len(mesh.Faces))
	}
	if mesh.Faces[0].V != [4]int{0, 2, 3, 1} {
		t.Errorf("first face = %v, want 1-based indices shifted to 0-based", mesh.Faces[0].V)
	}
	// -6 -2 -1 -5 with 8 vertices is 3 7 8 4 in 1-based terms.
	if mesh.Faces[5].V != [4]int{2, 6, 7, 3} {
		t.Errorf("relative face = %v, want [2 6 7 3]", mesh.Faces[5].V)
	}
	for i, p := range mesh.Polygons {
		if p.Normal().Dot(p.Centroid()) <= 0 {
			t.Errorf("face %d normal points inward", i)
		}
	}

	mesh.Triangulate()
	if len(mesh.Polygons) != 12 {
		t.Errorf("triangulated polygons = %d, want 12", len(mesh.Polygons))
	}
}

func TestParseOBJFanTriangulatesLargeFaces(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 2 1 0\nv 1 2 0\nv 0 1 0\nf 1 2 3 4 5\n"
	mesh, err := ParseOBJ(strings.NewReader(src), "pentagon", geom.White)
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if len(mesh.Faces) != 3 {
		t.Fatalf("faces = %d, want 3", len(mesh.Faces))
	}
	for _, f := range mesh.Faces {
		if f.Kind != geom.KindTriangle || f.V[0] != 0 {
			t.Errorf("face %v is not a fan triangle from vertex 0", f.V)
		}
	}
}

func TestParseOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"no faces", "v 0 0 0\nv 1 0 0\nv 0 1 0\n", ErrEmptyMesh},
		{"index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\n", ErrInvalidFace},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", ErrInvalidFace},
		{"two vertices", "v 0 0 0\nv 1 0 0\nf 1 2\n", ErrInvalidFace},
		{"garbage index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf a b c\n", ErrInvalidFace},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(tc.src), tc.name, geom.White)
			if !errors.Is(err, tc.want) {
				t.Errorf("error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestParseOBJBadVertex(t *testing.T) {
	if _, err := ParseOBJ(strings.NewReader("v 1 2\n"), "short", geom.White); err == nil {
		t.Error("expected error for vertex with two coordinates")
	}
	if _, err := ParseOBJ(strings.NewReader("v 1 x 2\n"), "nan", geom.White); err == nil {
		t.Error("expected error for non-numeric coordinate")
	}
}

func TestLoadOBJMissingFile(t *testing.T) {
	_, err := LoadOBJ(filepath.Join(t.TempDir(), "missing.obj"), geom.White)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want not-exist", err)
	}
}
