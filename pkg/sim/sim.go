package sim

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/gravity/internal/logger"
	"github.com/taigrr/gravity/pkg/geom"
	"github.com/taigrr/gravity/pkg/models"
	"github.com/taigrr/gravity/pkg/physics"
	"github.com/taigrr/gravity/pkg/render"
	"github.com/taigrr/gravity/pkg/visibility"
)

// ErrNoMesh is returned when a body has lost its mesh.
var ErrNoMesh = errors.New("body has no mesh")

// Options are the construction parameters of a simulation.
type Options struct {
	G           float64 // gravitational constant given to new bodies
	TimeScale   float64 // simulated seconds per real second
	Narrowphase bool    // revert moves that leave meshes interpenetrating

	ShootMass  float64
	ShootSpeed float64
	ShootScale float64
	ShootColor geom.Color

	MoveSpeed float64 // camera velocity added per key press
	ShowHUD   bool
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		G:          physics.DefaultG,
		TimeScale:  1,
		ShootMass:  5,
		ShootSpeed: 300,
		ShootScale: 20,
		ShootColor: geom.RGB(0.9, 0.3, 0.3),
		MoveSpeed:  400,
		ShowHUD:    true,
	}
}

// Simulation owns the bodies, the camera and the render pipeline. A frame
// runs the physics to completion before the renderer reads any mesh.
type Simulation struct {
	Bodies   []*Body
	Camera   *render.Camera
	Graphics *render.Graphics
	Look     *LookController
	Options  Options
	Paused   bool

	stats   render.Stats
	hud     hud
	shots   int
	physics []*physics.Physics
	log     *zap.Logger
}

// New creates an empty simulation drawing through graphics.
func New(graphics *render.Graphics, look *LookController, opts Options) *Simulation {
	if opts.TimeScale <= 0 {
		opts.TimeScale = 1
	}
	return &Simulation{
		Camera:   graphics.Camera,
		Graphics: graphics,
		Look:     look,
		Options:  opts,
		log:      logger.Named("sim"),
	}
}

// AddBody adds b to the scene.
func (s *Simulation) AddBody(b *Body) {
	if s.Options.G > 0 {
		b.Physics.G = s.Options.G
	}
	s.Bodies = append(s.Bodies, b)
	s.physics = append(s.physics, b.Physics)
	s.log.Info("body added",
		zap.String("name", b.Name),
		zap.Stringer("kind", b.Kind),
		zap.Float64("mass", b.Physics.Mass),
		zap.Int("polygons", len(b.Mesh().Polygons)),
	)
}

// Stats returns the render counters of the last frame.
func (s *Simulation) Stats() render.Stats { return s.stats }

// Step advances the physics by dt simulated seconds.
func (s *Simulation) Step(dt float64) {
	physics.Step(s.physics, dt)
	if s.Options.Narrowphase {
		if n := physics.ResolvePenetrations(s.physics); n > 0 {
			s.log.Debug("reverted interpenetrating bodies", zap.Int("count", n))
		}
	}
}

// CollectMeshes gathers the mesh of every body. Meshes are only read, so
// bodies are visited concurrently.
func (s *Simulation) CollectMeshes(ctx context.Context) ([]*models.Mesh, error) {
	meshes := make([]*models.Mesh, len(s.Bodies))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, b := range s.Bodies {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m := b.Mesh()
			if m == nil {
				return fmt.Errorf("body %d %q: %w", i, b.Name, ErrNoMesh)
			}
			meshes[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return meshes, nil
}

// Frame runs one tick of dt real seconds: input, physics unless paused,
// then the render pipeline and the HUD. The recorded commands stay in the
// graphics buffer for the caller to flush.
func (s *Simulation) Frame(ctx context.Context, dt float64) (render.Stats, error) {
	if err := ctx.Err(); err != nil {
		return render.Stats{}, err
	}

	if s.Look != nil {
		s.Look.Update(s.Camera, dt)
	}
	if !s.Paused {
		s.Step(dt * s.Options.TimeScale)
	}

	meshes, err := s.CollectMeshes(ctx)
	if err != nil {
		return render.Stats{}, fmt.Errorf("collect meshes: %w", err)
	}
	s.stats = s.Graphics.Draw(meshes)

	s.hud.tick(dt)
	if s.Options.ShowHUD {
		s.drawHUD()
	}
	return s.stats, nil
}

// Shoot spawns a sphere just ahead of the camera moving along the look
// direction with the configured mass and speed.
func (s *Simulation) Shoot() (*Body, error) {
	o := s.Options
	mesh, err := models.Sphere(o.ShootScale, 12, 8, o.ShootColor)
	if err != nil {
		return nil, fmt.Errorf("shoot: %w", err)
	}
	pos := s.Camera.Position.Add(s.Camera.Look.Scale(3 * o.ShootScale))
	Place(mesh, pos)

	s.shots++
	b := NewShape(fmt.Sprintf("shot-%d", s.shots), mesh, o.ShootMass, o.ShootScale)
	b.Physics.Velocity = s.Camera.Look.Scale(o.ShootSpeed)
	s.AddBody(b)
	return b, nil
}

// MouseMove turns the camera by a mouse delta.
func (s *Simulation) MouseMove(dx, dy float64) {
	if s.Look != nil {
		s.Look.MouseMove(dx, dy)
		return
	}
	s.Camera.MouseMove(dx, dy)
}

// Move pushes the camera along its look, side and up axes. Each unit is
// one key press.
func (s *Simulation) Move(forward, right, up float64) {
	v := s.Options.MoveSpeed
	if s.Look != nil {
		s.Look.Push(forward*v, right*v, up*v)
		return
	}
	s.Camera.Move(forward*v, right*v, up*v)
}

// ToggleHeadlight switches between the camera headlight and the lights
// carried by stars.
func (s *Simulation) ToggleHeadlight() bool {
	o := &s.Graphics.Options
	o.Headlight = !o.Headlight
	return o.Headlight
}

// ToggleLighting switches shading on or off.
func (s *Simulation) ToggleLighting() bool {
	o := &s.Graphics.Options
	o.Lighting = !o.Lighting
	return o.Lighting
}

// ToggleShadows switches shadow rays on or off.
func (s *Simulation) ToggleShadows() bool {
	o := &s.Graphics.Options
	o.Shadows = !o.Shadows
	return o.Shadows
}

// ToggleHulls switches the convex hull overlay.
func (s *Simulation) ToggleHulls() bool {
	o := &s.Graphics.Options
	o.DebugHulls = !o.DebugHulls
	return o.DebugHulls
}

// ToggleBounds switches the bounding box overlay.
func (s *Simulation) ToggleBounds() bool {
	o := &s.Graphics.Options
	o.DebugBounds = !o.DebugBounds
	return o.DebugBounds
}

// ToggleHUD switches the text overlay.
func (s *Simulation) ToggleHUD() bool {
	s.Options.ShowHUD = !s.Options.ShowHUD
	return s.Options.ShowHUD
}

// TogglePause stops or resumes the physics. Rendering and camera motion
// continue while paused.
func (s *Simulation) TogglePause() bool {
	s.Paused = !s.Paused
	return s.Paused
}

// CycleSort switches to the next polygon ordering strategy and returns its
// name.
func (s *Simulation) CycleSort() (string, error) {
	current := s.Graphics.Orderer.Name()
	next := visibility.Strategies[0]
	for i, name := range visibility.Strategies {
		if name == current {
			next = visibility.Strategies[(i+1)%len(visibility.Strategies)]
			break
		}
	}
	o, err := visibility.ByName(next)
	if err != nil {
		return "", err
	}
	s.Graphics.Orderer = o
	s.log.Debug("sort strategy", zap.String("name", next))
	return next, nil
}
