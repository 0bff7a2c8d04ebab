package visibility

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/taigrr/gravity/pkg/geom"
	"github.com/taigrr/gravity/pkg/math3d"
)

// ErrUnknownStrategy is returned by ByName for an unknown strategy name.
var ErrUnknownStrategy = errors.New("unknown sort strategy")

// Orderer arranges polygons back to front as seen from cam. The result may
// alias polys and may hold more polygons than the input when an
// implementation splits them.
type Orderer interface {
	Order(polys []geom.Polygon, cam math3d.Vec3) []geom.Polygon
	Name() string
}

// Strategy names accepted by ByName.
const (
	StrategyCentroid = "centroid"
	StrategyFarthest = "farthest"
	StrategyBSP      = "bsp"
)

// Strategies lists the strategy names in cycling order.
var Strategies = []string{StrategyCentroid, StrategyFarthest, StrategyBSP}

// ByName returns a fresh orderer for a strategy name.
func ByName(name string) (Orderer, error) {
	switch name {
	case StrategyCentroid:
		return NewDepthSort(StrategyCentroid, CentroidDistance), nil
	case StrategyFarthest:
		return NewDepthSort(StrategyFarthest, FarthestVertexDistance), nil
	case StrategyBSP:
		return NewBSPSort(), nil
	default:
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownStrategy)
	}
}

// DistanceFunc measures how far a polygon is from the camera.
type DistanceFunc func(p *geom.Polygon, cam math3d.Vec3) float64

// CentroidDistance is the distance from cam to the polygon centroid.
func CentroidDistance(p *geom.Polygon, cam math3d.Vec3) float64 {
	return p.Centroid().Distance(cam)
}

// FarthestVertexDistance is the distance from cam to the polygon's farthest
// vertex.
func FarthestVertexDistance(p *geom.Polygon, cam math3d.Vec3) float64 {
	var d float64
	for _, v := range p.Verts() {
		d = max(d, v.Distance(cam))
	}
	return d
}

type depthKey struct {
	dist  float64
	index int
}

// DepthSort is a painter's sort by a per-polygon distance. Equal distances
// keep their input order, so the result is the same every frame.
type DepthSort struct {
	name     string
	distance DistanceFunc
	keys     []depthKey
	tmp      []geom.Polygon
}

// NewDepthSort creates a depth sort using distance.
func NewDepthSort(name string, distance DistanceFunc) *DepthSort {
	return &DepthSort{name: name, distance: distance}
}

// Name returns the strategy name.
func (s *DepthSort) Name() string { return s.name }

// Order sorts polys in place, farthest first.
func (s *DepthSort) Order(polys []geom.Polygon, cam math3d.Vec3) []geom.Polygon {
	s.keys = s.keys[:0]
	for i := range polys {
		s.keys = append(s.keys, depthKey{dist: s.distance(&polys[i], cam), index: i})
	}
	slices.SortFunc(s.keys, func(a, b depthKey) int {
		if c := cmp.Compare(b.dist, a.dist); c != 0 {
			return c
		}
		return cmp.Compare(a.index, b.index)
	})

	s.tmp = append(s.tmp[:0], polys...)
	for i, k := range s.keys {
		polys[i] = s.tmp[k.index]
	}
	return polys
}
