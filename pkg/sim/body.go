// Package sim owns the bodies of a scene, advances their physics and feeds
// their meshes to the renderer once per frame.
package sim

import (
	"github.com/taigrr/gravity/pkg/geom"
	"github.com/taigrr/gravity/pkg/math3d"
	"github.com/taigrr/gravity/pkg/models"
	"github.com/taigrr/gravity/pkg/physics"
)

// Kind is the closed set of body kinds.
type Kind uint8

const (
	KindShape Kind = iota // a plain mesh
	KindStar              // a mesh carrying a light
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindShape:
		return "shape"
	case KindStar:
		return "star"
	default:
		return "unknown"
	}
}

// Body is one simulated object.
type Body struct {
	Name    string
	Kind    Kind
	Physics *physics.Physics
}

// NewShape wraps mesh in a body of the given mass and collision radius.
func NewShape(name string, mesh *models.Mesh, mass, scale float64) *Body {
	return &Body{Name: name, Kind: KindShape, Physics: physics.New(mesh, mass, scale)}
}

// NewStar wraps mesh in a body and attaches a light at its center. The
// light moves with the mesh.
func NewStar(name string, mesh *models.Mesh, mass, scale, lumens float64) *Body {
	center := mesh.Center()
	light := geom.NewLight(center, center, lumens)
	light.Diffuse = math3d.V3(mesh.Color.R, mesh.Color.G, mesh.Color.B)
	mesh.Light = &light
	return &Body{Name: name, Kind: KindStar, Physics: physics.New(mesh, mass, scale)}
}

// Mesh returns the body's mesh.
func (b *Body) Mesh() *models.Mesh {
	return b.Physics.Mesh
}

// Place moves mesh so that its center is at pos. The move cannot be
// reverted.
func Place(mesh *models.Mesh, pos math3d.Vec3) {
	mesh.Translate(pos.Sub(mesh.Center()))
	mesh.Rebuild()
}
