package bvh

import (
	"math"

	"github.com/taigrr/gravity/pkg/math3d"
)

// axisEpsilon is the squared length under which a candidate separating
// axis is skipped. Degenerate polygons produce such axes.
const axisEpsilon = 1e-10

// Contact describes a detected overlap between two trees.
type Contact struct {
	Normal math3d.Vec3 // unit axis pointing from other toward n
	Depth  float64     // penetration along Normal
}

// MTV returns the minimum translation vector that moves n out of other.
func (c Contact) MTV() math3d.Vec3 {
	return c.Normal.Scale(c.Depth)
}

type pair struct{ a, b *Node }

// worldAxes are always tested so that open surface patches, whose own
// normals and edges miss the sides of their hull, still separate along the
// box axes.
var worldAxes = [3]math3d.Vec3{{X: 1}, {Y: 1}, {Z: 1}}

// IsIntersecting tests n against other. Node pairs are expanded with an
// explicit stack, pruning pairs whose boxes do not overlap; leaf pairs run
// a full separating axis test over the box axes, both face normal sets and
// the cross products of every edge pair. The deepest leaf contact is returned, with
// its normal oriented from other's leaf center toward n's.
func (n *Node) IsIntersecting(other *Node) (Contact, bool) {
	if n == nil || other == nil {
		return Contact{}, false
	}

	var best Contact
	found := false
	stack := []pair{{n, other}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		// Flat leaves have zero-thickness boxes, so touching counts.
		if ov := p.a.Box.Overlap(p.b.Box); ov.X < 0 || ov.Y < 0 || ov.Z < 0 {
			continue
		}

		switch {
		case p.a.IsLeaf() && p.b.IsLeaf():
			axis, depth, hit := separatingAxis(p.a, p.b)
			if !hit {
				continue
			}
			if axis.Dot(p.a.Box.Center().Sub(p.b.Box.Center())) < 0 {
				axis = axis.Negate()
			}
			if !found || depth > best.Depth {
				best = Contact{Normal: axis, Depth: depth}
				found = true
			}
		case p.a.IsLeaf():
			stack = appendChildren(stack, p.a, p.b, false)
		case p.b.IsLeaf():
			stack = appendChildren(stack, p.b, p.a, true)
		case p.a.Box.SurfaceArea() >= p.b.Box.SurfaceArea():
			stack = appendChildren(stack, p.b, p.a, true)
		default:
			stack = appendChildren(stack, p.a, p.b, false)
		}
	}
	return best, found
}

// appendChildren pushes fixed paired with each child of split. When
// swapped is set the split node belongs on the left of the pair.
func appendChildren(stack []pair, fixed, split *Node, swapped bool) []pair {
	for _, c := range []*Node{split.Right, split.Left} {
		if c == nil {
			continue
		}
		if swapped {
			stack = append(stack, pair{c, fixed})
		} else {
			stack = append(stack, pair{fixed, c})
		}
	}
	return stack
}

// separatingAxis treats the vertex sets of both leaves as convex shapes and
// searches for a separating axis. It returns the axis of least overlap when
// none separates.
func separatingAxis(a, b *Node) (math3d.Vec3, float64, bool) {
	vertsA := leafVertices(a)
	vertsB := leafVertices(b)
	if len(vertsA) == 0 || len(vertsB) == 0 {
		return math3d.Vec3{}, 0, false
	}

	axes := appendUnique(nil, worldAxes[:]...)
	axes = appendUnique(axes, a.Normals...)
	axes = appendUnique(axes, b.Normals...)
	edgesA := appendUnique(nil, leafEdges(a)...)
	edgesB := appendUnique(nil, leafEdges(b)...)
	for _, ea := range edgesA {
		for _, eb := range edgesB {
			if c := ea.Cross(eb); c.LenSq() > axisEpsilon {
				axes = append(axes, c.Normalize())
			}
		}
	}

	minDepth := math.Inf(1)
	var minAxis math3d.Vec3
	for _, axis := range axes {
		minA, maxA := project(vertsA, axis)
		minB, maxB := project(vertsB, axis)
		overlap := math.Min(maxA, maxB) - math.Max(minA, minB)
		if overlap <= 0 {
			return math3d.Vec3{}, 0, false
		}
		if overlap < minDepth {
			minDepth, minAxis = overlap, axis
		}
	}
	if math.IsInf(minDepth, 1) {
		return math3d.Vec3{}, 0, false
	}
	return minAxis, minDepth, true
}

// appendUnique normalizes each vector and appends it unless it is
// near-zero or parallel to one already present.
func appendUnique(dst []math3d.Vec3, vs ...math3d.Vec3) []math3d.Vec3 {
outer:
	for _, v := range vs {
		if v.LenSq() <= axisEpsilon {
			continue
		}
		u := v.Normalize()
		for _, d := range dst {
			if math.Abs(u.Dot(d)) > 1-1e-9 {
				continue outer
			}
		}
		dst = append(dst, u)
	}
	return dst
}

func leafVertices(n *Node) []math3d.Vec3 {
	out := make([]math3d.Vec3, 0, len(n.Polygons)*3)
	for i := range n.Polygons {
		out = append(out, n.Polygons[i].Verts()...)
	}
	return out
}

func leafEdges(n *Node) []math3d.Vec3 {
	out := make([]math3d.Vec3, 0, len(n.Polygons)*3)
	for i := range n.Polygons {
		out = append(out, n.Polygons[i].Edges()...)
	}
	return out
}

func project(verts []math3d.Vec3, axis math3d.Vec3) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range verts {
		d := v.Dot(axis)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}
