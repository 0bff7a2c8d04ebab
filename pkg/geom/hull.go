package geom

import (
	"math"

	"github.com/taigrr/gravity/pkg/math3d"
)

// Hull is a convex hull: its vertices and outward-wound triangular faces
// indexing into Points. Faces is empty when the input was degenerate.
type Hull struct {
	Points []math3d.Vec3
	Faces  [][3]int
}

type hullFace struct {
	v       [3]int
	normal  math3d.Vec3
	d       float64
	outside []int
	dead    bool
}

func (f *hullFace) dist(p math3d.Vec3) float64 {
	return f.normal.Dot(p) - f.d
}

// QuickHull computes the 3D convex hull of points. Inputs with fewer than
// four distinct points, or whose points are collinear or coplanar, return
// the deduplicated point set with no faces.
func QuickHull(points []math3d.Vec3) Hull {
	pts := dedupe(points)
	if len(pts) < 4 {
		return Hull{Points: pts}
	}

	eps := hullEpsilon(pts)
	simplex, ok := initialSimplex(pts, eps)
	if !ok {
		return Hull{Points: pts}
	}

	inner := pts[simplex[0]].Add(pts[simplex[1]]).Add(pts[simplex[2]]).Add(pts[simplex[3]]).Scale(0.25)
	var faces []*hullFace
	newFace := func(a, b, c int) *hullFace {
		n := pts[b].Sub(pts[a]).Cross(pts[c].Sub(pts[a])).Normalize()
		f := &hullFace{v: [3]int{a, b, c}, normal: n, d: n.Dot(pts[a])}
		if f.dist(inner) > 0 {
			f.v = [3]int{a, c, b}
			f.normal = n.Negate()
			f.d = -f.d
		}
		faces = append(faces, f)
		return f
	}

	s := simplex
	initial := []*hullFace{
		newFace(s[0], s[1], s[2]),
		newFace(s[0], s[1], s[3]),
		newFace(s[0], s[2], s[3]),
		newFace(s[1], s[2], s[3]),
	}
	inSimplex := map[int]bool{s[0]: true, s[1]: true, s[2]: true, s[3]: true}
	for i := range pts {
		if inSimplex[i] {
			continue
		}
		assign(initial, pts, i, eps)
	}

	for {
		var cur *hullFace
		for _, f := range faces {
			if !f.dead && len(f.outside) > 0 {
				cur = f
				break
			}
		}
		if cur == nil {
			break
		}

		apex := cur.outside[0]
		best := cur.dist(pts[apex])
		for _, i := range cur.outside[1:] {
			if d := cur.dist(pts[i]); d > best {
				apex, best = i, d
			}
		}
		p := pts[apex]

		var visible []*hullFace
		edges := make(map[[2]int]bool)
		for _, f := range faces {
			if f.dead || f.dist(p) <= eps {
				continue
			}
			visible = append(visible, f)
			for k := range 3 {
				edges[[2]int{f.v[k], f.v[(k+1)%3]}] = true
			}
		}

		var orphans []int
		var created []*hullFace
		for _, f := range visible {
			f.dead = true
			for _, i := range f.outside {
				if i != apex {
					orphans = append(orphans, i)
				}
			}
			f.outside = nil
			for k := range 3 {
				a, b := f.v[k], f.v[(k+1)%3]
				if edges[[2]int{b, a}] {
					continue
				}
				nf := &hullFace{v: [3]int{a, b, apex}}
				nf.normal = pts[b].Sub(pts[a]).Cross(p.Sub(pts[a])).Normalize()
				nf.d = nf.normal.Dot(pts[a])
				faces = append(faces, nf)
				created = append(created, nf)
			}
		}
		for _, i := range orphans {
			assign(created, pts, i, eps)
		}
	}

	remap := make(map[int]int)
	var out Hull
	for _, f := range faces {
		if f.dead {
			continue
		}
		var tri [3]int
		for k, i := range f.v {
			j, ok := remap[i]
			if !ok {
				j = len(out.Points)
				remap[i] = j
				out.Points = append(out.Points, pts[i])
			}
			tri[k] = j
		}
		out.Faces = append(out.Faces, tri)
	}
	return out
}

// assign adds point i to the outside set of the first face it lies above.
func assign(faces []*hullFace, pts []math3d.Vec3, i int, eps float64) {
	for _, f := range faces {
		if f.dist(pts[i]) > eps {
			f.outside = append(f.outside, i)
			return
		}
	}
}

func initialSimplex(pts []math3d.Vec3, eps float64) ([4]int, bool) {
	var s [4]int
	lo, hi := 0, 0
	for i, p := range pts {
		if p.X < pts[lo].X {
			lo = i
		}
		if p.X > pts[hi].X {
			hi = i
		}
	}
	if lo == hi {
		// All points share an X; fall back to the farthest pair from pts[0].
		for i, p := range pts {
			if p.Distance(pts[0]) > pts[hi].Distance(pts[0]) {
				hi = i
			}
		}
	}
	if pts[lo].Distance(pts[hi]) <= eps {
		return s, false
	}
	s[0], s[1] = lo, hi

	axis := pts[hi].Sub(pts[lo])
	best := -1.0
	for i, p := range pts {
		d := axis.Cross(p.Sub(pts[lo])).Len()
		if d > best {
			best, s[2] = d, i
		}
	}
	if best/axis.Len() <= eps {
		return s, false
	}

	n := axis.Cross(pts[s[2]].Sub(pts[lo])).Normalize()
	best = -1
	for i, p := range pts {
		d := math.Abs(n.Dot(p.Sub(pts[lo])))
		if d > best {
			best, s[3] = d, i
		}
	}
	if best <= eps {
		return s, false
	}
	return s, true
}

func hullEpsilon(pts []math3d.Vec3) float64 {
	box := EmptyAABB()
	for _, p := range pts {
		box = box.Extend(p)
	}
	size := box.Size()
	extent := math.Max(size.X, math.Max(size.Y, size.Z))
	return math.Max(extent*1e-9, 1e-12)
}

// dedupe drops points that are ApproxEqual to an earlier one, keeping order.
func dedupe(points []math3d.Vec3) []math3d.Vec3 {
	out := make([]math3d.Vec3, 0, len(points))
outer:
	for _, p := range points {
		for _, q := range out {
			if p.ApproxEqual(q, 1e-9) {
				continue outer
			}
		}
		out = append(out, p)
	}
	return out
}
