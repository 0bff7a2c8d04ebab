package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/gravity/pkg/geom"
	"github.com/taigrr/gravity/pkg/math3d"
)

// LoadOBJ loads a Wavefront OBJ file. Only positions and faces are read;
// normals, texture coordinates and materials are ignored.
func LoadOBJ(path string, color geom.Color) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f, filepath.Base(path), color)
	if err != nil {
		return nil, fmt.Errorf("parse obj %s: %w", path, err)
	}
	return mesh, nil
}

// ParseOBJ reads OBJ data from r. Face indices are 1-based in the file and
// 0-based in the mesh; negative indices count back from the last vertex.
// Triangles and quads are kept as-is, larger faces are fanned into triangles.
func ParseOBJ(r io.Reader, name string, color geom.Color) (*Mesh, error) {
	var vertices []math3d.Vec3
	var faces []Face

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", line)
			}
			var xyz [3]float64
			for i := range 3 {
				v, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				xyz[i] = v
			}
			vertices = append(vertices, math3d.V3(xyz[0], xyz[1], xyz[2]))

		case "f":
			idx := make([]int, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				i, err := objIndex(tok, len(vertices))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				idx = append(idx, i)
			}
			switch {
			case len(idx) < 3:
				return nil, fmt.Errorf("line %d: %d vertices: %w", line, len(idx), ErrInvalidFace)
			case len(idx) == 3:
				faces = append(faces, Tri(idx[0], idx[1], idx[2]))
			case len(idx) == 4:
				faces = append(faces, QuadFace(idx[0], idx[1], idx[2], idx[3]))
			default:
				for i := 1; i+1 < len(idx); i++ {
					faces = append(faces, Tri(idx[0], idx[i], idx[i+1]))
				}
			}

		case "o":
			if len(fields) > 1 {
				name = fields[1]
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	return FromFaces(name, vertices, faces, color)
}

// objIndex converts a face token such as "7", "7/1" or "-2//3" to a
// 0-based vertex index.
func objIndex(tok string, count int) (int, error) {
	head, _, _ := strings.Cut(tok, "/")
	n, err := strconv.Atoi(head)
	if err != nil {
		return 0, fmt.Errorf("face index %q: %w", tok, ErrInvalidFace)
	}
	switch {
	case n > 0:
		n--
	case n < 0:
		n += count
	default:
		return 0, fmt.Errorf("face index 0: %w", ErrInvalidFace)
	}
	if n < 0 || n >= count {
		return 0, fmt.Errorf("face index %q out of range: %w", tok, ErrInvalidFace)
	}
	return n, nil
}
