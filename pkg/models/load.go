package models

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/taigrr/gravity/pkg/geom"
)

// Load picks a loader from the file extension: .obj, .glb or .gltf.
func Load(path string, color geom.Color) (*Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return LoadOBJ(path, color)
	case ".glb", ".gltf":
		return LoadGLB(path, color)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}
