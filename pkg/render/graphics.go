package render

import (
	"github.com/taigrr/gravity/pkg/bvh"
	"github.com/taigrr/gravity/pkg/geom"
	"github.com/taigrr/gravity/pkg/math3d"
	"github.com/taigrr/gravity/pkg/models"
	"github.com/taigrr/gravity/pkg/shader"
	"github.com/taigrr/gravity/pkg/visibility"
)

// DefaultHeadlightLumens is the headlight intensity when none is set.
const DefaultHeadlightLumens = 1.5

// Options switches the optional stages of the frame pipeline.
type Options struct {
	// Lighting enables shading. When false every polygon is drawn with
	// its base color.
	Lighting bool
	// Headlight lights the scene from the camera instead of from the
	// lights attached to meshes.
	Headlight       bool
	HeadlightLumens float64
	// Shadows casts occlusion rays against the meshes that carry no light.
	Shadows bool

	DebugHulls  bool
	DebugBounds bool

	Background geom.Color
}

// DefaultOptions returns lit rendering with mesh lights and no debug
// overlays.
func DefaultOptions() Options {
	return Options{
		Lighting:        true,
		HeadlightLumens: DefaultHeadlightLumens,
		Background:      geom.RGB(0.02, 0.02, 0.05),
	}
}

// Stats counts what one frame went through.
type Stats struct {
	Meshes   int // meshes submitted
	Polygons int // polygons before culling
	Visible  int // polygons after backface culling
	Drawn    int // screen-space polygons after clipping
}

// Graphics runs the per-frame pipeline and records the result into a
// command buffer.
type Graphics struct {
	Camera  *Camera
	Buffer  *CommandBuffer
	Orderer visibility.Orderer
	Options Options

	headlight geom.Light
	scene     shader.Scene
	polys     []geom.Polygon
	emissive  []bool
	wire      *Wireframe
}

// NewGraphics creates a pipeline drawing through camera. A nil orderer
// uses the centroid depth sort.
func NewGraphics(camera *Camera, orderer visibility.Orderer, opts Options) *Graphics {
	if orderer == nil {
		orderer = visibility.NewDepthSort(visibility.StrategyCentroid, visibility.CentroidDistance)
	}
	if opts.HeadlightLumens <= 0 {
		opts.HeadlightLumens = DefaultHeadlightLumens
	}
	buf := NewCommandBuffer()
	return &Graphics{
		Camera:    camera,
		Buffer:    buf,
		Orderer:   orderer,
		Options:   opts,
		headlight: geom.NewLight(camera.Position, camera.Target, opts.HeadlightLumens),
		wire:      NewWireframe(camera, buf),
	}
}

// Wireframe returns the debug line renderer sharing the command buffer.
func (g *Graphics) Wireframe() *Wireframe { return g.wire }

// Draw records one frame of meshes into the command buffer. The order of
// the stages is fixed: culling, sorting and lighting work on world-space
// polygons, so they all run before the projection.
func (g *Graphics) Draw(meshes []*models.Mesh) Stats {
	stats := Stats{Meshes: len(meshes)}
	g.Buffer.Fill(g.Options.Background)

	g.drawDebug(meshes)

	g.polys = g.polys[:0]
	g.emissive = g.emissive[:0]
	for i, m := range meshes {
		if m == nil {
			g.emissive = append(g.emissive, false)
			continue
		}
		g.emissive = append(g.emissive, m.Light != nil)
		for _, p := range m.Polygons {
			p.Owner = i
			g.polys = append(g.polys, p)
		}
	}
	stats.Polygons = len(g.polys)

	g.polys = visibility.BackfaceCull(g.polys, g.Camera.Position)
	stats.Visible = len(g.polys)

	g.polys = g.Orderer.Order(g.polys, g.Camera.Position)

	g.light(meshes)

	projected := g.Camera.ApplyProjectionPolygons(g.polys)
	for i := range projected {
		g.Buffer.Polygon(&projected[i])
	}
	stats.Drawn = len(projected)
	return stats
}

func (g *Graphics) drawDebug(meshes []*models.Mesh) {
	if !g.Options.DebugHulls && !g.Options.DebugBounds {
		return
	}
	for _, m := range meshes {
		if m == nil {
			continue
		}
		if g.Options.DebugHulls {
			g.wire.DrawHull(m.Hull, ColorHull)
		}
		if g.Options.DebugBounds {
			g.wire.DrawBox(m.Bounds, ColorBounds)
		}
	}
}

func (g *Graphics) light(meshes []*models.Mesh) {
	if !g.Options.Lighting {
		for i := range g.polys {
			g.polys[i].Shader = geom.White
		}
		return
	}

	s := &g.scene
	s.Lights = s.Lights[:0]
	s.Occluders = s.Occluders[:0]
	s.Viewer = g.Camera.Position
	s.Shadows = g.Options.Shadows

	if g.Options.Headlight {
		g.headlight.Lumens = g.Options.HeadlightLumens
		g.headlight.Follow(g.Camera.Position, g.Camera.Target)
		s.Lights = append(s.Lights, g.headlight)
		s.Occluders = appendOccluders(s.Occluders, meshes)
		s.Shade(g.polys)
		return
	}

	for _, m := range meshes {
		if m != nil && m.Light != nil {
			s.Lights = append(s.Lights, *m.Light)
		}
	}
	s.Occluders = appendOccluders(s.Occluders, meshes)
	s.Shade(g.polys)

	// Emitters glow at their own color.
	for i := range g.polys {
		if g.emissive[g.polys[i].Owner] {
			g.polys[i].Shader = geom.White
		}
	}
}

func appendOccluders(dst []*bvh.Node, meshes []*models.Mesh) []*bvh.Node {
	for _, m := range meshes {
		if m != nil && m.Light == nil && m.BVH != nil {
			dst = append(dst, m.BVH)
		}
	}
	return dst
}

// DrawText queues a HUD text run at a screen position.
func (g *Graphics) DrawText(x, y, size float64, text string, c geom.Color) {
	g.Buffer.Text(math3d.V2(x, y), size, text, c)
}

// Flush hands the recorded frame to sink and empties the buffer.
func (g *Graphics) Flush(sink Sink) {
	g.Buffer.Flush(sink)
}
