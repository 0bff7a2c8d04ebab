// Package bvh implements a bounding volume hierarchy over mesh polygons.
//
// The tree is built once per mesh with a surface area heuristic and answers
// three queries: box distance between two trees, ray traversal returning
// candidate polygons, and a separating axis collision test that yields a
// minimum translation vector.
package bvh

import (
	"math"
	"slices"

	"github.com/taigrr/gravity/pkg/geom"
	"github.com/taigrr/gravity/pkg/math3d"
)

// Node is one node of the hierarchy. Every node keeps the polygons it
// covers and their face normals; leaves have no children.
type Node struct {
	Box      geom.AABB
	Polygons []geom.Polygon
	Normals  []math3d.Vec3
	Left     *Node
	Right    *Node
}

// Build constructs a hierarchy over polys. Nodes holding at most leafSize
// polygons become leaves. The result depends only on the polygon order, so
// identical input always yields an identical tree. Build returns nil for an
// empty polygon set.
func Build(polys []geom.Polygon, leafSize int) *Node {
	if len(polys) == 0 {
		return nil
	}
	own := slices.Clone(polys)
	return build(own, max(leafSize, 1))
}

func build(polys []geom.Polygon, leafSize int) *Node {
	n := &Node{
		Box:      boundsOf(polys),
		Polygons: polys,
		Normals:  make([]math3d.Vec3, len(polys)),
	}
	for i := range polys {
		n.Normals[i] = polys[i].Normal()
	}
	if len(polys) <= leafSize || len(polys) < 2 {
		return n
	}

	left, right := splitSAH(polys)
	n.Left = build(left, leafSize)
	n.Right = build(right, leafSize)
	return n
}

// splitSAH scans the three axes and returns the partition with the lowest
// surface area cost. Ties keep the first candidate found, scanning X, Y, Z
// and then split positions in ascending order.
func splitSAH(polys []geom.Polygon) ([]geom.Polygon, []geom.Polygon) {
	count := len(polys)
	centroids := make([]math3d.Vec3, count)
	for i := range polys {
		centroids[i] = polys[i].Centroid()
	}

	bestCost := math.Inf(1)
	bestSplit := count / 2
	var bestOrder []int

	prefix := make([]geom.AABB, count)
	suffix := make([]geom.AABB, count)
	for axis := range 3 {
		order := make([]int, count)
		for i := range order {
			order[i] = i
		}
		slices.SortStableFunc(order, func(a, b int) int {
			ca, cb := centroids[a].Component(axis), centroids[b].Component(axis)
			switch {
			case ca < cb:
				return -1
			case ca > cb:
				return 1
			}
			return 0
		})

		box := geom.EmptyAABB()
		for i, idx := range order {
			box = box.Union(boundsOf(polys[idx : idx+1]))
			prefix[i] = box
		}

		box = geom.EmptyAABB()
		for i := count - 1; i >= 0; i-- {
			box = box.Union(boundsOf(polys[order[i] : order[i]+1]))
			suffix[i] = box
		}

		for i := 1; i < count; i++ {
			cost := prefix[i-1].SurfaceArea()*float64(i) + suffix[i].SurfaceArea()*float64(count-i)
			if cost < bestCost {
				bestCost, bestSplit = cost, i
				bestOrder = order
			}
		}
	}

	if bestOrder == nil {
		bestOrder = make([]int, count)
		for i := range bestOrder {
			bestOrder[i] = i
		}
	}
	left := make([]geom.Polygon, 0, bestSplit)
	right := make([]geom.Polygon, 0, count-bestSplit)
	for i, idx := range bestOrder {
		if i < bestSplit {
			left = append(left, polys[idx])
		} else {
			right = append(right, polys[idx])
		}
	}
	return left, right
}

// boundsOf returns the box around every vertex of polys.
func boundsOf(polys []geom.Polygon) geom.AABB {
	box := geom.EmptyAABB()
	for i := range polys {
		for _, v := range polys[i].Verts() {
			box = box.Extend(v)
		}
	}
	return box
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// Walk visits every node depth-first, parents before children.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(cur)
		if cur.Right != nil {
			stack = append(stack, cur.Right)
		}
		if cur.Left != nil {
			stack = append(stack, cur.Left)
		}
	}
}

// Leaves returns the leaf nodes in depth-first order.
func (n *Node) Leaves() []*Node {
	var out []*Node
	n.Walk(func(c *Node) {
		if c.IsLeaf() {
			out = append(out, c)
		}
	})
	return out
}

// Depth returns the number of levels in the tree.
func (n *Node) Depth() int {
	if n == nil {
		return 0
	}
	return 1 + max(n.Left.Depth(), n.Right.Depth())
}

// Translate shifts every box and polygon in the tree by offset.
// Normals are unaffected.
func (n *Node) Translate(offset math3d.Vec3) {
	n.Walk(func(c *Node) {
		c.Box = c.Box.Translate(offset)
		for i := range c.Polygons {
			c.Polygons[i].Translate(offset)
		}
	})
}

// Distance compares the root boxes of n and other. Overlapping boxes give
// a negative value whose magnitude is the smallest per-axis overlap.
// Otherwise it returns the distance between the box centers. Callers must
// branch on the sign.
func (n *Node) Distance(other *Node) float64 {
	if n == nil || other == nil {
		return math.Inf(1)
	}
	ov := n.Box.Overlap(other.Box)
	if ov.X > 0 && ov.Y > 0 && ov.Z > 0 {
		return -math.Min(ov.X, math.Min(ov.Y, ov.Z))
	}
	return n.Box.Center().Distance(other.Box.Center())
}

// Traverse returns the polygons of every leaf whose box the ray
// origin + t*dir (t >= 0) passes through. The result is unordered and may
// contain polygons the ray misses; callers pick the nearest hit themselves.
func (n *Node) Traverse(origin, dir math3d.Vec3) []geom.Polygon {
	if n == nil {
		return nil
	}
	var out []geom.Polygon
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, hit := cur.Box.IntersectRay(origin, dir); !hit {
			continue
		}
		if cur.IsLeaf() {
			out = append(out, cur.Polygons...)
			continue
		}
		if cur.Right != nil {
			stack = append(stack, cur.Right)
		}
		if cur.Left != nil {
			stack = append(stack, cur.Left)
		}
	}
	return out
}
