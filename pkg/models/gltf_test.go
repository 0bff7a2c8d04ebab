package models

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/gravity/pkg/geom"
)

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb", geom.White)
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	if loader == nil {
		t.Fatal("NewGLTFLoader returned nil")
	}
	if loader.Scale != 1 {
		t.Errorf("Scale should default to 1, got %v", loader.Scale)
	}
	if loader.FlipWinding {
		t.Error("FlipWinding should default to false")
	}
	if loader.Color != geom.White {
		t.Errorf("Color should default to white, got %+v", loader.Color)
	}
}

func TestLoadDispatch(t *testing.T) {
	dir := t.TempDir()
	obj := filepath.Join(dir, "tri.obj")
	if err := os.WriteFile(obj, []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	mesh, err := Load(obj, geom.White)
	if err != nil {
		t.Fatalf("Load(.obj): %v", err)
	}
	if len(mesh.Polygons) != 1 {
		t.Errorf("got %d polygons, want 1", len(mesh.Polygons))
	}

	if _, err := Load(filepath.Join(dir, "scene.stl"), geom.White); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load(.stl) error = %v, want ErrUnsupportedFormat", err)
	}
}
