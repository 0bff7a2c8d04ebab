package visibility

import (
	"github.com/taigrr/gravity/pkg/geom"
	"github.com/taigrr/gravity/pkg/math3d"
)

// planeEpsilon is the distance under which a vertex counts as lying on a
// splitting plane.
const planeEpsilon = 1e-9

// BSPSort orders polygons exactly by building a binary space partition
// over them every frame. Polygons straddling a splitting plane are cut in
// two, so the output can be longer than the input.
type BSPSort struct {
	out []geom.Polygon
}

// NewBSPSort creates a BSP orderer.
func NewBSPSort() *BSPSort { return &BSPSort{} }

// Name returns the strategy name.
func (s *BSPSort) Name() string { return StrategyBSP }

// Order builds the tree and walks it back to front from cam. The result
// reuses an internal buffer and is valid until the next call.
func (s *BSPSort) Order(polys []geom.Polygon, cam math3d.Vec3) []geom.Polygon {
	root := BuildBSP(polys)
	s.out = root.BackToFront(s.out[:0], cam)
	return s.out
}

// BSPNode is one splitting plane with the polygons lying on it.
type BSPNode struct {
	Plane    geom.Plane
	Coplanar []geom.Polygon
	Front    *BSPNode
	Back     *BSPNode
}

// BuildBSP builds a tree using the first non-degenerate polygon of each
// set as the splitter. Degenerate polygons have no plane and ride along in
// the node that holds them.
func BuildBSP(polys []geom.Polygon) *BSPNode {
	if len(polys) == 0 {
		return nil
	}

	splitter := -1
	for i := range polys {
		if polys[i].Normal().LenSq() > 0 {
			splitter = i
			break
		}
	}
	if splitter < 0 {
		return &BSPNode{Coplanar: append([]geom.Polygon(nil), polys...)}
	}

	node := &BSPNode{Plane: polys[splitter].Plane()}
	var front, back []geom.Polygon
	for i := range polys {
		if i == splitter {
			node.Coplanar = append(node.Coplanar, polys[i])
			continue
		}
		switch s, f, b := split(&node.Plane, polys[i]); s {
		case sideOn:
			node.Coplanar = append(node.Coplanar, polys[i])
		case sideFront:
			front = append(front, polys[i])
		case sideBack:
			back = append(back, polys[i])
		default:
			front = append(front, f...)
			back = append(back, b...)
		}
	}
	node.Front = BuildBSP(front)
	node.Back = BuildBSP(back)
	return node
}

// BackToFront appends the polygons of the tree to dst, farthest from cam
// first.
func (n *BSPNode) BackToFront(dst []geom.Polygon, cam math3d.Vec3) []geom.Polygon {
	if n == nil {
		return dst
	}
	near, far := n.Front, n.Back
	if n.Plane.DistanceToPoint(cam) < 0 {
		near, far = far, near
	}
	dst = far.BackToFront(dst, cam)
	dst = append(dst, n.Coplanar...)
	return near.BackToFront(dst, cam)
}

// Count returns the number of polygons stored in the tree.
func (n *BSPNode) Count() int {
	if n == nil {
		return 0
	}
	return len(n.Coplanar) + n.Front.Count() + n.Back.Count()
}

type side uint8

const (
	sideOn side = iota
	sideFront
	sideBack
	sideSpanning
)

// split classifies p against plane and, when p spans it, cuts p into the
// parts in front of and behind the plane.
func split(plane *geom.Plane, p geom.Polygon) (side, []geom.Polygon, []geom.Polygon) {
	verts := p.Verts()
	var dist [4]float64
	var nFront, nBack int
	for i, v := range verts {
		dist[i] = plane.DistanceToPoint(v)
		switch {
		case dist[i] > planeEpsilon:
			nFront++
		case dist[i] < -planeEpsilon:
			nBack++
		}
	}
	switch {
	case nFront == 0 && nBack == 0:
		return sideOn, nil, nil
	case nBack == 0:
		return sideFront, nil, nil
	case nFront == 0:
		return sideBack, nil, nil
	}

	var front, back []math3d.Vec3
	n := len(verts)
	for i := range n {
		j := (i + 1) % n
		a, b := verts[i], verts[j]
		da, db := dist[i], dist[j]
		if da >= -planeEpsilon {
			front = append(front, a)
		}
		if da <= planeEpsilon {
			back = append(back, a)
		}
		if (da > planeEpsilon && db < -planeEpsilon) || (da < -planeEpsilon && db > planeEpsilon) {
			x := a.Lerp(b, da/(da-db))
			front = append(front, x)
			back = append(back, x)
		}
	}
	return sideSpanning, geom.FromLoop(p, front), geom.FromLoop(p, back)
}
