// Package shader computes per-polygon lighting with a Cook-Torrance
// metallic/roughness model. The result goes into Polygon.Shader and is
// multiplied with Polygon.Color when the polygon is drawn.
package shader

import (
	"math"

	"github.com/taigrr/gravity/pkg/geom"
	"github.com/taigrr/gravity/pkg/math3d"
	"github.com/taigrr/gravity/pkg/models"
)

// ReferenceDistance is the distance at which a light delivers half of its
// lumens: attenuation = lumens * R² / (R² + d²).
const ReferenceDistance = 1000.0

// minDenominator keeps the specular denominator away from zero.
const minDenominator = math.SmallestNonzeroFloat64

// dielectricF0 is the base reflectance of non-metals.
const dielectricF0 = 0.04

// minRoughness keeps the GGX lobe finite for mirror-like surfaces.
const minRoughness = 0.04

// Attenuation returns the light intensity reaching distance d.
func Attenuation(lumens, d float64) float64 {
	r2 := ReferenceDistance * ReferenceDistance
	return lumens * r2 / (r2 + d*d)
}

// ShadePolygon returns the contribution of light to p as seen from viewer.
// Every component of the result is finite and non-negative.
func ShadePolygon(p *geom.Polygon, light *geom.Light, viewer math3d.Vec3) geom.Color {
	ambient := geom.RGB(light.Ambient.X, light.Ambient.Y, light.Ambient.Z)
	n := p.Normal()
	if n.LenSq() == 0 {
		return sanitize(ambient)
	}
	return sanitize(ambient.Add(direct(p, n, light, viewer)))
}

// direct is the diffuse plus specular term without ambient.
func direct(p *geom.Polygon, n math3d.Vec3, light *geom.Light, viewer math3d.Vec3) geom.Color {
	pos := p.Centroid()
	toLight := light.Position.Sub(pos)
	d := toLight.Len()
	l := toLight.Normalize()
	if d == 0 {
		l = n
	}
	v := viewer.Sub(pos).Normalize()
	if v.LenSq() == 0 {
		v = n
	}
	h := l.Add(v).Normalize()
	if h.LenSq() == 0 {
		h = n
	}

	nDotL := math.Max(n.Dot(l), 0)
	if nDotL == 0 {
		return geom.Color{}
	}
	nDotV := math.Max(n.Dot(v), 0)
	nDotH := math.Max(n.Dot(h), 0)
	hDotV := math.Max(h.Dot(v), 0)

	metallic := clamp(p.Material.Metallic, 0, 1)
	roughness := clamp(p.Material.Roughness, minRoughness, 1)
	albedo := [3]float64{p.Color.R, p.Color.G, p.Color.B}

	ndf := distributionGGX(nDotH, roughness)
	geo := geometrySmith(nDotV, nDotL, roughness)
	denom := math.Max(4*nDotV*nDotL, minDenominator)

	radiance := Attenuation(light.Lumens, d) * nDotL
	diffuse := [3]float64{light.Diffuse.X, light.Diffuse.Y, light.Diffuse.Z}
	specular := [3]float64{light.Specular.X, light.Specular.Y, light.Specular.Z}

	var out [3]float64
	for i := range 3 {
		f0 := dielectricF0 + (albedo[i]-dielectricF0)*metallic
		f := fresnelSchlick(hDotV, f0)
		kd := (1 - f) * (1 - metallic)
		spec := ndf * geo * f / denom
		out[i] = (kd*diffuse[i] + spec*specular[i]) * radiance
	}
	return geom.Color{R: out[0], G: out[1], B: out[2]}
}

// fresnelSchlick approximates the reflectance at angle cosTheta.
func fresnelSchlick(cosTheta, f0 float64) float64 {
	return f0 + (1-f0)*math.Pow(1-clamp(cosTheta, 0, 1), 5)
}

// distributionGGX is the Trowbridge-Reitz microfacet distribution with
// alpha = roughness².
func distributionGGX(nDotH, roughness float64) float64 {
	a := roughness * roughness
	a2 := a * a
	t := nDotH*nDotH*(a2-1) + 1
	return a2 / math.Max(math.Pi*t*t, minDenominator)
}

// geometrySmith combines Schlick-GGX masking for view and light with the
// direct-lighting k = (roughness+1)²/8.
func geometrySmith(nDotV, nDotL, roughness float64) float64 {
	k := (roughness + 1) * (roughness + 1) / 8
	g := func(x float64) float64 {
		return x / math.Max(x*(1-k)+k, minDenominator)
	}
	return g(nDotV) * g(nDotL)
}

// ApplyPBRLighting writes the contribution of light into the shader of
// every polygon of mesh and returns mesh.
func ApplyPBRLighting(mesh *models.Mesh, light *geom.Light, viewer math3d.Vec3) *models.Mesh {
	for i := range mesh.Polygons {
		mesh.Polygons[i].Shader = ShadePolygon(&mesh.Polygons[i], light, viewer)
	}
	return mesh
}

func sanitize(c geom.Color) geom.Color {
	fix := func(v float64) float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return 0
		}
		return v
	}
	return geom.Color{R: fix(c.R), G: fix(c.G), B: fix(c.B), A: 1}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
