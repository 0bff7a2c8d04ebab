package physics

import "github.com/taigrr/gravity/pkg/math3d"

// Step advances every body by dt. Each body reacts to a snapshot of all
// the others taken at the start of the tick, so the result does not depend
// on the order of bodies. A pair with coincident centers is split along
// one shared normal, so both bodies move apart and exchange velocity on
// the same axis.
func Step(bodies []*Physics, dt float64) {
	states := make([]State, len(bodies))
	for i, b := range bodies {
		states[i] = b.State()
	}
	fallbacks := coincidentNormals(bodies, states)
	for i, b := range bodies {
		for j := range states {
			if i == j {
				continue
			}
			var fallback math3d.Vec3
			if n, ok := fallbacks[pairKey{min(i, j), max(i, j)}]; ok {
				fallback = n
				if i > j {
					fallback = n.Negate()
				}
			}
			b.applyForces(states[j], dt, fallback)
		}
	}
	for _, b := range bodies {
		b.Update(dt)
	}
}

type pairKey struct{ lo, hi int }

// coincidentNormals draws one normal for each pair sharing a center,
// pointing from the lower index toward the higher.
func coincidentNormals(bodies []*Physics, states []State) map[pairKey]math3d.Vec3 {
	var normals map[pairKey]math3d.Vec3
	for i := range states {
		for j := i + 1; j < len(states); j++ {
			if states[i].Position.Distance(states[j].Position) > 0 {
				continue
			}
			if normals == nil {
				normals = make(map[pairKey]math3d.Vec3)
			}
			normals[pairKey{i, j}] = bodies[i].randomXY()
		}
	}
	return normals
}

// ResolvePenetrations tests every pair of meshes with their BVHs and
// reverts the last move of both bodies of each pair that still
// interpenetrates. It returns the number of bodies reverted.
func ResolvePenetrations(bodies []*Physics) int {
	reverted := make([]bool, len(bodies))
	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			a, b := bodies[i], bodies[j]
			if a.Mesh == nil || b.Mesh == nil {
				continue
			}
			if a.Position.Distance(b.Position) > a.Scale+b.Scale {
				continue
			}
			if _, hit := a.Mesh.BVH.IsIntersecting(b.Mesh.BVH); !hit {
				continue
			}
			reverted[i] = reverted[i] || a.Revert()
			reverted[j] = reverted[j] || b.Revert()
		}
	}
	var n int
	for _, r := range reverted {
		if r {
			n++
		}
	}
	return n
}
