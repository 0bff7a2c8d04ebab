package main

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/taigrr/gravity/internal/config"
	"github.com/taigrr/gravity/internal/logger"
	"github.com/taigrr/gravity/pkg/geom"
	"github.com/taigrr/gravity/pkg/math3d"
	"github.com/taigrr/gravity/pkg/models"
	"github.com/taigrr/gravity/pkg/render"
	"github.com/taigrr/gravity/pkg/sim"
	"github.com/taigrr/gravity/pkg/visibility"
)

func vec(v config.Vector) math3d.Vec3 { return math3d.V3(v[0], v[1], v[2]) }

func rgb(v config.Vector) geom.Color { return geom.RGB(v[0], v[1], v[2]) }

func degrees(d float64) float64 { return d * math.Pi / 180 }

// newCamera builds the camera for a framebuffer of width x height pixels.
func newCamera(cfg config.CameraConfig, width, height int) *render.Camera {
	cam := render.NewCamera(vec(cfg.Position), vec(cfg.Target), degrees(cfg.FOV), width, height, cfg.Near, cfg.Far)
	cam.PitchLimit = degrees(cfg.PitchLimit)
	cam.Sensitivity = cfg.Sensitivity
	cam.ApplyDirectionAdjustment()
	return cam
}

func renderOptions(cfg *config.Config) render.Options {
	opts := render.DefaultOptions()
	opts.Lighting = cfg.Render.Lighting
	opts.Headlight = cfg.Render.Headlight
	opts.HeadlightLumens = cfg.Render.HeadlightLumens
	opts.Shadows = cfg.Render.Shadows
	opts.DebugHulls = cfg.Render.DebugHulls
	opts.DebugBounds = cfg.Render.DebugBounds
	opts.Background = rgb(cfg.Display.Background)
	return opts
}

func simOptions(cfg *config.Config) sim.Options {
	return sim.Options{
		G:           cfg.Physics.G,
		TimeScale:   cfg.Physics.TimeScale,
		Narrowphase: cfg.Physics.Narrowphase,
		ShootMass:   cfg.Physics.ShootMass,
		ShootSpeed:  cfg.Physics.ShootSpeed,
		ShootScale:  cfg.Physics.ShootScale,
		ShootColor:  rgb(cfg.Physics.ShootColor),
		MoveSpeed:   cfg.Camera.MoveSpeed,
		ShowHUD:     cfg.Display.ShowHUD,
	}
}

// newSimulation wires the engine from cfg and spawns the configured scene.
func newSimulation(cfg *config.Config, width, height int) (*sim.Simulation, error) {
	orderer, err := visibility.ByName(cfg.Render.Sort)
	if err != nil {
		return nil, err
	}
	cam := newCamera(cfg.Camera, width, height)
	g := render.NewGraphics(cam, orderer, renderOptions(cfg))
	look := sim.NewLookController(cfg.Display.FPS, cfg.Camera.Sensitivity)

	s := sim.New(g, look, simOptions(cfg))
	for i, bc := range cfg.Scene.Bodies {
		b, err := buildBody(bc)
		if err != nil {
			return nil, fmt.Errorf("body %d %q: %w", i, bc.Name, err)
		}
		s.AddBody(b)
	}
	return s, nil
}

func buildBody(bc config.BodyConfig) (*sim.Body, error) {
	mesh, err := buildMesh(bc.Mesh, rgb(bc.Color))
	if err != nil {
		return nil, err
	}
	if bc.Metallic != 0 || bc.Roughness != 0 {
		mesh.Surface = geom.Material{Metallic: bc.Metallic, Roughness: bc.Roughness}
		mesh.Rebuild()
	}
	sim.Place(mesh, vec(bc.Position))

	var b *sim.Body
	switch bc.Kind {
	case config.KindStar:
		b = sim.NewStar(bc.Name, mesh, bc.Mass, bc.Scale, bc.Lumens)
	case config.KindShape:
		b = sim.NewShape(bc.Name, mesh, bc.Mass, bc.Scale)
	default:
		return nil, fmt.Errorf("kind %q: %w", bc.Kind, config.ErrInvalid)
	}
	b.Physics.Velocity = vec(bc.Velocity)
	b.Physics.SpinVelocity = vec(bc.Spin)
	return b, nil
}

func buildMesh(mc config.MeshConfig, c geom.Color) (*models.Mesh, error) {
	switch mc.Source {
	case config.MeshSphere:
		segments, rings := mc.Segments, mc.Rings
		if segments == 0 {
			segments = 16
		}
		if rings == 0 {
			rings = 10
		}
		return models.Sphere(mc.Radius, segments, rings, c)
	case config.MeshCuboid:
		return models.Cuboid(vec(mc.Size), c)
	case config.MeshGrid:
		return models.Grid(mc.Size[0], mc.Size[2], mc.Step, c)
	case config.MeshFile:
		m, err := models.Load(mc.Path, c)
		if err != nil {
			return nil, err
		}
		logger.Info("mesh loaded",
			zap.String("path", mc.Path),
			zap.Int("vertices", m.VertexCount()),
			zap.Int("triangles", m.TriangleCount()),
		)
		return m, nil
	default:
		return nil, fmt.Errorf("mesh source %q: %w", mc.Source, config.ErrInvalid)
	}
}
