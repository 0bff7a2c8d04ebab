package shader

import (
	"math"
	"testing"

	"github.com/taigrr/gravity/pkg/bvh"
	"github.com/taigrr/gravity/pkg/geom"
	"github.com/taigrr/gravity/pkg/math3d"
	"github.com/taigrr/gravity/pkg/models"
)

// floor is a unit quad at the origin facing +Y.
func floor(mat geom.Material, col geom.Color) geom.Polygon {
	p := geom.Quad(
		math3d.V3(-0.5, 0, -0.5), math3d.V3(-0.5, 0, 0.5),
		math3d.V3(0.5, 0, 0.5), math3d.V3(0.5, 0, -0.5),
		col,
	)
	p.Material = mat
	return p
}

func finiteNonNegative(c geom.Color) bool {
	for _, v := range []float64{c.R, c.G, c.B, c.A} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return false
		}
	}
	return true
}

func TestFloorNormalIsUp(t *testing.T) {
	p := floor(geom.DefaultMaterial, geom.White)
	if n := p.Normal(); !n.ApproxEqual(math3d.V3(0, 1, 0), 1e-12) {
		t.Fatalf("normal = %v, want +Y", n)
	}
}

func TestShadePolygonBounds(t *testing.T) {
	tests := []struct {
		name   string
		light  math3d.Vec3
		viewer math3d.Vec3
		mat    geom.Material
		color  geom.Color
	}{
		{"overhead", math3d.V3(0, 10, 0), math3d.V3(0, 10, 0), geom.DefaultMaterial, geom.White},
		{"grazing light", math3d.V3(100, 1e-9, 0), math3d.V3(0, 5, 5), geom.DefaultMaterial, geom.White},
		{"grazing viewer", math3d.V3(0, 10, 0), math3d.V3(100, 1e-12, 0), geom.Material{Metallic: 1, Roughness: 0}, geom.White},
		{"light below", math3d.V3(0, -10, 0), math3d.V3(0, 10, 0), geom.DefaultMaterial, geom.White},
		{"light at centroid", math3d.Vec3{}, math3d.V3(0, 10, 0), geom.DefaultMaterial, geom.White},
		{"viewer at centroid", math3d.V3(0, 10, 0), math3d.Vec3{}, geom.DefaultMaterial, geom.White},
		{"mirror metal", math3d.V3(1, 10, 0), math3d.V3(-1, 10, 0), geom.Material{Metallic: 1, Roughness: 0}, geom.RGB(1, 0.8, 0.3)},
		{"out of range material", math3d.V3(0, 10, 0), math3d.V3(0, 10, 0), geom.Material{Metallic: 7, Roughness: -3}, geom.RGB(2, -1, math.NaN())},
		{"far away", math3d.V3(0, 1e12, 0), math3d.V3(0, 10, 0), geom.DefaultMaterial, geom.White},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := floor(tc.mat, tc.color)
			light := geom.NewLight(tc.light, math3d.Vec3{}, 1)
			got := ShadePolygon(&p, &light, tc.viewer)
			if !finiteNonNegative(got) {
				t.Errorf("shader = %+v, want finite non-negative", got)
			}
		})
	}
}

func TestShadePolygonDegenerate(t *testing.T) {
	p := geom.Triangle(math3d.Vec3{}, math3d.Vec3{}, math3d.Vec3{}, geom.White)
	light := geom.NewLight(math3d.V3(0, 1, 0), math3d.Vec3{}, 1)
	got := ShadePolygon(&p, &light, math3d.V3(0, 2, 0))
	want := geom.RGB(light.Ambient.X, light.Ambient.Y, light.Ambient.Z)
	if got != want {
		t.Errorf("degenerate shader = %+v, want ambient %+v", got, want)
	}
}

func TestShadeFacingBrighterThanGrazing(t *testing.T) {
	p := floor(geom.DefaultMaterial, geom.White)
	viewer := math3d.V3(0, 10, 10)

	overhead := geom.NewLight(math3d.V3(0, 10, 0), math3d.Vec3{}, 1)
	grazing := geom.NewLight(math3d.V3(10, 1, 0), math3d.Vec3{}, 1)
	below := geom.NewLight(math3d.V3(0, -10, 0), math3d.Vec3{}, 1)

	a := ShadePolygon(&p, &overhead, viewer)
	b := ShadePolygon(&p, &grazing, viewer)
	c := ShadePolygon(&p, &below, viewer)

	if a.G <= b.G {
		t.Errorf("overhead %v should be brighter than grazing %v", a.G, b.G)
	}
	if math.Abs(c.G-below.Ambient.Y) > 1e-12 {
		t.Errorf("light behind the surface gives %v, want ambient %v", c.G, below.Ambient.Y)
	}
}

func TestAttenuation(t *testing.T) {
	tests := []struct {
		d    float64
		want float64
	}{
		{0, 2},
		{ReferenceDistance, 1},
		{3 * ReferenceDistance, 0.2},
	}
	for _, tc := range tests {
		if got := Attenuation(2, tc.d); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("Attenuation(2, %v) = %v, want %v", tc.d, got, tc.want)
		}
	}
}

func TestFresnelAndDistribution(t *testing.T) {
	if f := fresnelSchlick(1, 0.04); math.Abs(f-0.04) > 1e-12 {
		t.Errorf("head-on fresnel = %v, want F0", f)
	}
	if f := fresnelSchlick(0, 0.04); math.Abs(f-1) > 1e-12 {
		t.Errorf("grazing fresnel = %v, want 1", f)
	}
	// A rough surface (alpha = 1) has a uniform distribution of 1/π.
	if d := distributionGGX(0.3, 1); math.Abs(d-1/math.Pi) > 1e-12 {
		t.Errorf("GGX at roughness 1 = %v, want 1/π", d)
	}
	if g := geometrySmith(0, 1, 0.5); g != 0 {
		t.Errorf("Smith at nDotV = 0 is %v, want 0", g)
	}
}

func TestApplyPBRLighting(t *testing.T) {
	mesh, err := models.Cuboid(math3d.V3(2, 2, 2), geom.White)
	if err != nil {
		t.Fatal(err)
	}
	light := geom.NewLight(math3d.V3(0, 0, -10), math3d.Vec3{}, 1)
	ApplyPBRLighting(mesh, &light, math3d.V3(0, 0, -10))

	var lit int
	for i, p := range mesh.Polygons {
		if !finiteNonNegative(p.Shader) {
			t.Errorf("face %d shader = %+v", i, p.Shader)
		}
		if p.Color != geom.White {
			t.Errorf("face %d color changed to %+v", i, p.Color)
		}
		if p.Shader.R > light.Ambient.X+1e-9 {
			lit++
		}
	}
	if lit != 1 {
		t.Errorf("%d faces lit, want only the -Z face", lit)
	}
}

func TestSceneShade(t *testing.T) {
	polys := []geom.Polygon{floor(geom.DefaultMaterial, geom.White)}

	empty := Scene{}
	empty.Shade(polys)
	if polys[0].Shader != geom.White {
		t.Errorf("no lights: shader = %+v, want white", polys[0].Shader)
	}

	one := geom.NewLight(math3d.V3(0, 10, 0), math3d.Vec3{}, 1)
	single := Scene{Lights: []geom.Light{one}, Viewer: math3d.V3(0, 10, 0)}
	single.Shade(polys)
	s1 := polys[0].Shader

	double := Scene{Lights: []geom.Light{one, one}, Viewer: math3d.V3(0, 10, 0)}
	double.Shade(polys)
	s2 := polys[0].Shader
	if math.Abs(s2.G-2*s1.G) > 1e-9 {
		t.Errorf("two identical lights give %v, want %v", s2.G, 2*s1.G)
	}
}

func TestShadows(t *testing.T) {
	blocker, err := models.Cuboid(math3d.V3(2, 0.2, 2), geom.White)
	if err != nil {
		t.Fatal(err)
	}
	blocker.Translate(math3d.V3(0, 5, 0))

	// Rays stay off the x = z diagonals of the slab's quads.
	light := geom.NewLight(math3d.V3(0.3, 10, 0.1), math3d.Vec3{}, 1)
	if !IsOccluded(math3d.Vec3{}, light.Position, []*bvh.Node{blocker.BVH}) {
		t.Fatal("slab between point and light should occlude")
	}
	if IsOccluded(math3d.V3(5, 0, 0), math3d.V3(5, 10, 0), []*bvh.Node{blocker.BVH}) {
		t.Error("ray beside the slab should not be occluded")
	}
	if IsOccluded(math3d.Vec3{}, math3d.V3(0.3, 4, 0.1), []*bvh.Node{blocker.BVH}) {
		t.Error("light below the slab should not be occluded")
	}

	polys := []geom.Polygon{floor(geom.DefaultMaterial, geom.White)}
	scene := Scene{
		Lights:    []geom.Light{light},
		Viewer:    math3d.V3(0, 10, 0),
		Shadows:   true,
		Occluders: []*bvh.Node{blocker.BVH},
	}
	scene.Shade(polys)
	if polys[0].Shader.G != light.Ambient.Y {
		t.Errorf("shadowed shader = %+v, want ambient only", polys[0].Shader)
	}
}

func TestRayTriangle(t *testing.T) {
	a, b, c := math3d.V3(-1, -1, 5), math3d.V3(1, -1, 5), math3d.V3(0, 1, 5)
	tests := []struct {
		name   string
		origin math3d.Vec3
		dir    math3d.Vec3
		hit    bool
		t      float64
	}{
		{"straight hit", math3d.Vec3{}, math3d.V3(0, 0, 1), true, 5},
		{"from behind", math3d.V3(0, 0, 10), math3d.V3(0, 0, -1), true, 5},
		{"miss", math3d.V3(3, 0, 0), math3d.V3(0, 0, 1), false, 0},
		{"parallel", math3d.Vec3{}, math3d.V3(1, 0, 0), false, 0},
		{"pointing away", math3d.Vec3{}, math3d.V3(0, 0, -1), false, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, hit := RayTriangle(tc.origin, tc.dir, a, b, c)
			if hit != tc.hit {
				t.Fatalf("hit = %v, want %v", hit, tc.hit)
			}
			if hit && math.Abs(got-tc.t) > 1e-12 {
				t.Errorf("t = %v, want %v", got, tc.t)
			}
		})
	}
}
