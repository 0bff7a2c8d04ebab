package models

import (
	"encoding/binary"
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/gravity/pkg/geom"
	"github.com/taigrr/gravity/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// Color is used for primitives without a material.
	Color geom.Color
	// FlipWinding reverses every triangle, for assets authored clockwise.
	FlipWinding bool
	// Scale multiplies every position. Zero means 1.
	Scale float64
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{Color: geom.White, Scale: 1}
}

// LoadGLB loads a binary GLTF (.glb) file.
func LoadGLB(path string, color geom.Color) (*Mesh, error) {
	loader := NewGLTFLoader()
	loader.Color = color
	return loader.Load(path)
}

// Load loads a GLTF or GLB file and returns a Mesh. All triangle
// primitives of all meshes are merged; node transforms are ignored.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	var vertices []math3d.Vec3
	var faces []Face
	for _, m := range doc.Meshes {
		vertices, faces, err = l.appendMesh(doc, m, vertices, faces)
		if err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	mesh, err := FromFaces(filepath.Base(path), vertices, faces, l.Color)
	if err != nil {
		return nil, err
	}
	mesh.Materials = readMaterials(doc)
	mesh.Rebuild()
	return mesh, nil
}

// appendMesh extracts positions and triangles from every triangle
// primitive of m.
func (l *GLTFLoader) appendMesh(doc *gltf.Document, m *gltf.Mesh, vertices []math3d.Vec3, faces []Face) ([]math3d.Vec3, []Face, error) {
	scale := l.Scale
	if scale == 0 {
		scale = 1
	}

	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Lines, points and strips are not rendered.
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readPositions(doc, posIdx)
		if err != nil {
			return nil, nil, fmt.Errorf("read positions: %w", err)
		}

		var indices []int
		if prim.Indices != nil {
			indices, err = readIndices(doc, *prim.Indices)
			if err != nil {
				return nil, nil, fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		material := -1
		if prim.Material != nil {
			material = *prim.Material
		}

		base := len(vertices)
		for _, p := range positions {
			vertices = append(vertices, p.Scale(scale))
		}
		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := base+indices[i], base+indices[i+1], base+indices[i+2]
			if l.FlipWinding {
				b, c = c, b
			}
			f := Tri(a, b, c)
			f.Material = material
			faces = append(faces, f)
		}
	}
	return vertices, faces, nil
}

// readMaterials converts the metallic-roughness materials of doc.
func readMaterials(doc *gltf.Document) []Material {
	out := make([]Material, 0, len(doc.Materials))
	for _, m := range doc.Materials {
		mat := Material{Name: m.Name, BaseColor: geom.White, Metallic: 1, Roughness: 1}
		if pbr := m.PBRMetallicRoughness; pbr != nil {
			if c := pbr.BaseColorFactor; c != nil {
				mat.BaseColor = geom.RGBA(c[0], c[1], c[2], c[3])
			}
			if pbr.MetallicFactor != nil {
				mat.Metallic = *pbr.MetallicFactor
			}
			if pbr.RoughnessFactor != nil {
				mat.Roughness = *pbr.RoughnessFactor
			}
		}
		out = append(out, mat)
	}
	return out
}

// accessorBytes returns the buffer bytes behind accessor and the stride
// between elements.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view")
	}
	view := doc.BufferViews[*accessor.BufferView]
	data := doc.Buffers[view.Buffer].Data
	if data == nil {
		return nil, 0, fmt.Errorf("buffer has no data")
	}

	stride := view.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	start := view.ByteOffset + accessor.ByteOffset
	end := start + stride*(accessor.Count-1) + elemSize
	if accessor.Count == 0 {
		end = start
	}
	if start < 0 || end > len(data) {
		return nil, 0, fmt.Errorf("accessor range [%d,%d) exceeds buffer of %d bytes", start, end, len(data))
	}
	return data[start:end], stride, nil
}

// readPositions reads a float VEC3 accessor.
func readPositions(doc *gltf.Document, idx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[idx]
	if accessor.Type != gltf.AccessorVec3 || accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC3, got %v/%v", accessor.Type, accessor.ComponentType)
	}
	data, stride, err := accessorBytes(doc, accessor, 12)
	if err != nil {
		return nil, err
	}

	out := make([]math3d.Vec3, accessor.Count)
	for i := range out {
		b := data[i*stride:]
		out[i] = math3d.V3(
			float64(math.Float32frombits(binary.LittleEndian.Uint32(b[0:]))),
			float64(math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))),
			float64(math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))),
		)
	}
	return out, nil
}

// readIndices reads an unsigned SCALAR accessor of any width.
func readIndices(doc *gltf.Document, idx int) ([]int, error) {
	accessor := doc.Accessors[idx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", accessor.Type)
	}

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index type: %v", accessor.ComponentType)
	}
	data, stride, err := accessorBytes(doc, accessor, size)
	if err != nil {
		return nil, err
	}

	out := make([]int, accessor.Count)
	for i := range out {
		b := data[i*stride:]
		switch size {
		case 1:
			out[i] = int(b[0])
		case 2:
			out[i] = int(binary.LittleEndian.Uint16(b))
		default:
			out[i] = int(binary.LittleEndian.Uint32(b))
		}
	}
	return out, nil
}
