// Package physics moves meshes with toy Newtonian gravity and elastic
// sphere collisions. It is illustrative, not a validated integrator.
package physics

import (
	"math"
	"math/rand/v2"

	"github.com/taigrr/gravity/pkg/bvh"
	"github.com/taigrr/gravity/pkg/math3d"
	"github.com/taigrr/gravity/pkg/models"
)

// DefaultG is the gravitational constant used when none is given.
const DefaultG = 1.0

// separationSlop is added to every push so resolved pairs end up just
// apart instead of exactly touching.
const separationSlop = 1e-3

// Physics is the dynamic state of one body. Forces are impulses: the
// accelerations are recomputed every tick and zeroed by Update.
type Physics struct {
	Mesh *models.Mesh

	Position     math3d.Vec3
	Velocity     math3d.Vec3
	Acceleration math3d.Vec3

	// Spin is a per-axis Euler rate in radians per second.
	SpinVelocity     math3d.Vec3
	SpinAcceleration math3d.Vec3

	Mass  float64
	Scale float64 // collision sphere radius
	G     float64

	// Rand picks the contact normal for coincident centers. Step draws it
	// from the lower-indexed body of the pair. Nil uses the global source.
	Rand *rand.Rand

	meshAt math3d.Vec3 // where the mesh currently sits
	prevAt math3d.Vec3 // where it sat before the last Update
}

// State is the read-only view of a body that others react to within a
// tick.
type State struct {
	Position math3d.Vec3
	Velocity math3d.Vec3
	Mass     float64
	Scale    float64
	BVH      *bvh.Node
}

// New pairs mesh with a body of the given mass and collision radius,
// positioned at the center of the mesh.
func New(mesh *models.Mesh, mass, scale float64) *Physics {
	p := &Physics{Mesh: mesh, Mass: mass, Scale: scale, G: DefaultG}
	if mesh != nil {
		p.Position = mesh.Center()
	}
	p.meshAt = p.Position
	p.prevAt = p.Position
	return p
}

// State snapshots the body for this tick.
func (p *Physics) State() State {
	s := State{Position: p.Position, Velocity: p.Velocity, Mass: p.Mass, Scale: p.Scale}
	if p.Mesh != nil {
		s.BVH = p.Mesh.BVH
	}
	return s
}

// ApplyForces reacts to other. When the collision spheres overlap, or
// will within dt at the current closing speed, the body is pushed out by
// its mass share of the penetration and exchanges velocity along the
// contact normal. Gravity toward other is then added to Acceleration.
// Only p is modified. Coincident centers get a random normal in the XY
// plane; Step shares one normal between both bodies of such a pair.
func (p *Physics) ApplyForces(other State, dt float64) {
	var fallback math3d.Vec3
	if other.Position.Distance(p.Position) == 0 {
		fallback = p.randomXY()
	}
	p.applyForces(other, dt, fallback)
}

// applyForces is ApplyForces with the normal used when the centers
// coincide.
func (p *Physics) applyForces(other State, dt float64, fallback math3d.Vec3) {
	delta := other.Position.Sub(p.Position)
	dist := delta.Len()

	normal := fallback
	if dist > 0 {
		normal = delta.Scale(1 / dist)
	}

	contact := p.Scale + other.Scale
	margin := dt * p.Velocity.Sub(other.Velocity).Len()
	if dist < contact+margin {
		if depth := contact - dist; depth > 0 {
			p.Position = p.Position.Sub(normal.Scale((depth + separationSlop) * p.pushShare(other.Mass)))
		}
		p.collide(other, normal)
	}

	if dist > 0 {
		// Inside the spheres the pull is capped at its value on contact.
		d2 := math.Max(dist*dist, contact*contact)
		if d2 > 0 {
			p.Acceleration = p.Acceleration.Add(normal.Scale(p.G * other.Mass / d2))
		}
	}
}

// pushShare is the fraction of a push taken by p: the lighter body moves
// more.
func (p *Physics) pushShare(otherMass float64) float64 {
	total := p.Mass + otherMass
	if total <= 0 {
		return 0.5
	}
	return otherMass / total
}

// collide applies the 1D elastic collision along normal (pointing from p
// toward other) when the pair is approaching.
func (p *Physics) collide(other State, normal math3d.Vec3) {
	total := p.Mass + other.Mass
	if total <= 0 {
		return
	}
	v1 := p.Velocity.Dot(normal)
	v2 := other.Velocity.Dot(normal)
	if v1-v2 <= 0 {
		return
	}
	v1After := (v1*(p.Mass-other.Mass) + 2*other.Mass*v2) / total
	p.Velocity = p.Velocity.Add(normal.Scale(v1After - v1))
}

func (p *Physics) randomXY() math3d.Vec3 {
	var a float64
	if p.Rand != nil {
		a = p.Rand.Float64()
	} else {
		a = rand.Float64()
	}
	a *= 2 * math.Pi
	return math3d.V3(math.Cos(a), math.Sin(a), 0)
}

// Update integrates with semi-implicit Euler, spins the mesh about its
// center and moves it to the new position, then zeroes the accelerations.
func (p *Physics) Update(dt float64) {
	p.Velocity = p.Velocity.Add(p.Acceleration.Scale(dt))
	p.Position = p.Position.Add(p.Velocity.Scale(dt))
	p.SpinVelocity = p.SpinVelocity.Add(p.SpinAcceleration.Scale(dt))

	if p.Mesh != nil {
		// Rotate rebuilds the mesh, so it runs before Translate to keep the
		// translation snapshot for Revert.
		if spin := p.SpinVelocity.Scale(dt); spin != (math3d.Vec3{}) {
			p.Mesh.Rotate(p.meshAt, spin)
		}
		p.Mesh.Translate(p.Position.Sub(p.meshAt))
	}
	p.prevAt = p.meshAt
	p.meshAt = p.Position

	p.Acceleration = math3d.Vec3{}
	p.SpinAcceleration = math3d.Vec3{}
}

// Revert undoes the translation of the last Update. Velocity is kept.
func (p *Physics) Revert() bool {
	if p.Mesh == nil || !p.Mesh.Revert() {
		return false
	}
	p.Position = p.prevAt
	p.meshAt = p.prevAt
	return true
}

// Speed returns the magnitude of the velocity.
func (p *Physics) Speed() float64 { return p.Velocity.Len() }
