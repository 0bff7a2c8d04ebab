package sim

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/taigrr/gravity/pkg/geom"
	"github.com/taigrr/gravity/pkg/math3d"
	"github.com/taigrr/gravity/pkg/models"
	"github.com/taigrr/gravity/pkg/physics"
	"github.com/taigrr/gravity/pkg/render"
	"github.com/taigrr/gravity/pkg/visibility"
)

const testFPS = 60

func sphere(t testing.TB, radius float64, at math3d.Vec3) *models.Mesh {
	t.Helper()
	m, err := models.Sphere(radius, 12, 8, geom.White)
	if err != nil {
		t.Fatal(err)
	}
	Place(m, at)
	return m
}

func newTestSim(t testing.TB) *Simulation {
	t.Helper()
	cam := render.NewCamera(math3d.V3(0, 0, -1000), math3d.Zero3(), math.Pi/2, 160, 120, 0.1, 50000)
	g := render.NewGraphics(cam, nil, render.DefaultOptions())
	return New(g, NewLookController(testFPS, 0.01), DefaultOptions())
}

func TestKind(t *testing.T) {
	tests := []struct {
		kind Kind
		name string
	}{
		{KindShape, "shape"},
		{KindStar, "star"},
		{Kind(9), "unknown"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.kind.String(); got != tc.name {
				t.Errorf("String() = %q, want %q", got, tc.name)
			}
		})
	}
}

func TestNewStarCarriesLight(t *testing.T) {
	m := sphere(t, 10, math3d.V3(50, 0, 0))
	m.SetColor(geom.RGB(1, 0.5, 0))
	b := NewStar("sun", m, 100, 10, 2)

	if b.Kind != KindStar || b.Mesh().Light == nil {
		t.Fatalf("star = %+v, want a mesh with a light", b)
	}
	light := b.Mesh().Light
	if !light.Position.ApproxEqual(m.Center(), 1e-9) {
		t.Errorf("light at %v, want mesh center %v", light.Position, m.Center())
	}
	if light.Diffuse != math3d.V3(1, 0.5, 0) || light.Lumens != 2 {
		t.Errorf("light = %+v", light)
	}

	// The light travels with the mesh.
	m.Translate(math3d.V3(0, 10, 0))
	if !light.Position.ApproxEqual(m.Center(), 1e-9) {
		t.Errorf("light at %v after move, want %v", light.Position, m.Center())
	}

	if rock := NewShape("rock", sphere(t, 5, math3d.Zero3()), 1, 5); rock.Mesh().Light != nil {
		t.Error("shape should not carry a light")
	}
}

func TestPlace(t *testing.T) {
	m := sphere(t, 10, math3d.V3(100, -20, 5))
	if c := m.Center(); !c.ApproxEqual(math3d.V3(100, -20, 5), 1e-9) {
		t.Errorf("center = %v", c)
	}
	if m.CanRevert() {
		t.Error("placing a mesh should not leave a pending revert")
	}
}

func TestLookControllerEasesRotation(t *testing.T) {
	cam := render.NewCamera(math3d.Zero3(), math3d.V3(0, 0, 10), math.Pi/2, 160, 120, 0.1, 100)
	l := NewLookController(testFPS, 0.01)
	l.MouseMove(100, 0)

	l.Update(cam, 1.0/testFPS)
	if cam.Yaw <= 0 || cam.Yaw >= 1 {
		t.Errorf("yaw after one frame = %v, want partway to 1", cam.Yaw)
	}
	for range 2 * testFPS {
		l.Update(cam, 1.0/testFPS)
	}
	if math.Abs(cam.Yaw-1) > 1e-3 {
		t.Errorf("yaw = %v, want it to settle at 1", cam.Yaw)
	}
	if math.Abs(cam.Pitch) > 1e-12 {
		t.Errorf("pitch = %v, want 0", cam.Pitch)
	}
}

func TestLookControllerMotionDecays(t *testing.T) {
	cam := render.NewCamera(math3d.Zero3(), math3d.V3(0, 0, 10), math.Pi/2, 160, 120, 0.1, 100)
	l := NewLookController(testFPS, 0.01)
	l.Push(100, 0, 0)
	if !l.Moving() {
		t.Fatal("controller should be moving after a push")
	}

	for range 5 * testFPS {
		l.Update(cam, 1.0/testFPS)
	}
	if l.Moving() {
		t.Error("velocity should decay to rest")
	}
	if cam.Position.Z <= 0 || cam.Position.X != 0 {
		t.Errorf("position = %v, want a move along +Z", cam.Position)
	}

	l.Push(0, 50, 0)
	l.Stop()
	if l.Moving() {
		t.Error("Stop should zero the velocity")
	}
}

func TestSimulationStepAttracts(t *testing.T) {
	s := newTestSim(t)
	a := NewShape("a", sphere(t, 5, math3d.V3(-100, 0, 0)), 1000, 5)
	b := NewShape("b", sphere(t, 5, math3d.V3(100, 0, 0)), 1000, 5)
	s.AddBody(a)
	s.AddBody(b)

	before := a.Physics.Position.Distance(b.Physics.Position)
	for range 10 {
		s.Step(0.1)
	}
	after := a.Physics.Position.Distance(b.Physics.Position)
	if after >= before {
		t.Errorf("distance %v -> %v, want the bodies to approach", before, after)
	}
	// The meshes follow the bodies.
	if !a.Mesh().Center().ApproxEqual(a.Physics.Position, 1e-6) {
		t.Errorf("mesh center %v, body at %v", a.Mesh().Center(), a.Physics.Position)
	}
}

func TestSimulationAddBodyUsesG(t *testing.T) {
	s := newTestSim(t)
	s.Options.G = 3
	b := NewShape("a", sphere(t, 5, math3d.Zero3()), 1, 5)
	s.AddBody(b)
	if b.Physics.G != 3 {
		t.Errorf("G = %v, want 3", b.Physics.G)
	}
}

func TestCollectMeshes(t *testing.T) {
	s := newTestSim(t)
	var want []*models.Mesh
	for i := range 8 {
		m := sphere(t, 5, math3d.V3(float64(i)*20, 0, 0))
		s.AddBody(NewShape("s", m, 1, 5))
		want = append(want, m)
	}

	got, err := s.CollectMeshes(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, want) {
		t.Error("meshes are not in body order")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.CollectMeshes(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}

	s.Bodies = append(s.Bodies, &Body{Name: "ghost", Physics: physics.New(nil, 1, 1)})
	if _, err := s.CollectMeshes(context.Background()); !errors.Is(err, ErrNoMesh) {
		t.Errorf("err = %v, want ErrNoMesh", err)
	}
}

func TestSimulationFrame(t *testing.T) {
	s := newTestSim(t)
	sun := sphere(t, 50, math3d.Zero3())
	sun.SetColor(geom.RGB(1, 0.9, 0.6))
	s.AddBody(NewStar("sun", sun, 1000, 50, 2))
	rock := NewShape("rock", sphere(t, 10, math3d.V3(200, 0, 0)), 1, 10)
	s.AddBody(rock)

	stats, err := s.Frame(context.Background(), 1.0/30)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Meshes != 2 || stats.Drawn == 0 {
		t.Errorf("stats = %+v", stats)
	}
	if s.Stats() != stats {
		t.Errorf("Stats() = %+v, want %+v", s.Stats(), stats)
	}
	if s.Frames() != 1 || math.Abs(s.FPS()-30) > 1e-9 {
		t.Errorf("frames = %d, fps = %v", s.Frames(), s.FPS())
	}

	var texts int
	for _, c := range s.Graphics.Buffer.Commands() {
		if c.Kind == render.CommandText {
			texts++
		}
	}
	if texts != len(s.HUDLines()) {
		t.Errorf("HUD text runs = %d, want %d", texts, len(s.HUDLines()))
	}
	if rock.Physics.Velocity.X >= 0 {
		t.Errorf("rock velocity = %v, want a pull toward the sun", rock.Physics.Velocity)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Frame(ctx, 1.0/30); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestSimulationPause(t *testing.T) {
	s := newTestSim(t)
	b := NewShape("drifter", sphere(t, 10, math3d.Zero3()), 1, 10)
	b.Physics.Velocity = math3d.V3(10, 0, 0)
	s.AddBody(b)
	start := b.Physics.Position

	if !s.TogglePause() {
		t.Fatal("TogglePause should report paused")
	}
	s.Graphics.Buffer.Reset()
	if _, err := s.Frame(context.Background(), 0.1); err != nil {
		t.Fatal(err)
	}
	if b.Physics.Position != start {
		t.Errorf("paused body moved to %v", b.Physics.Position)
	}
	if !slices.Contains(s.HUDLines(), "paused") {
		t.Errorf("HUD = %v, want a paused line", s.HUDLines())
	}

	s.TogglePause()
	s.Graphics.Buffer.Reset()
	if _, err := s.Frame(context.Background(), 0.1); err != nil {
		t.Fatal(err)
	}
	if math.Abs(b.Physics.Position.X-start.X-1) > 1e-9 {
		t.Errorf("position = %v, want 1 along x from %v", b.Physics.Position, start)
	}
}

func TestSimulationShoot(t *testing.T) {
	s := newTestSim(t)
	b, err := s.Shoot()
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Bodies) != 1 || s.Bodies[0] != b {
		t.Fatalf("bodies = %v", s.Bodies)
	}

	o := s.Options
	wantVel := s.Camera.Look.Scale(o.ShootSpeed)
	if !b.Physics.Velocity.ApproxEqual(wantVel, 1e-9) {
		t.Errorf("velocity = %v, want %v", b.Physics.Velocity, wantVel)
	}
	wantPos := s.Camera.Position.Add(s.Camera.Look.Scale(3 * o.ShootScale))
	if !b.Mesh().Center().ApproxEqual(wantPos, 1e-6) {
		t.Errorf("spawned at %v, want %v", b.Mesh().Center(), wantPos)
	}
	if b.Physics.Mass != o.ShootMass || b.Kind != KindShape {
		t.Errorf("shot = %+v", b.Physics)
	}

	second, err := s.Shoot()
	if err != nil {
		t.Fatal(err)
	}
	if second.Name == b.Name {
		t.Errorf("shots share the name %q", b.Name)
	}
}

func TestSimulationCycleSort(t *testing.T) {
	s := newTestSim(t)
	for i := range visibility.Strategies {
		want := visibility.Strategies[(i+1)%len(visibility.Strategies)]
		got, err := s.CycleSort()
		if err != nil {
			t.Fatal(err)
		}
		if got != want || s.Graphics.Orderer.Name() != want {
			t.Errorf("cycle %d = %q, want %q", i, got, want)
		}
	}
}

func TestSimulationToggles(t *testing.T) {
	s := newTestSim(t)
	o := &s.Graphics.Options

	tests := []struct {
		name   string
		toggle func() bool
		field  *bool
	}{
		{"lighting", s.ToggleLighting, &o.Lighting},
		{"headlight", s.ToggleHeadlight, &o.Headlight},
		{"shadows", s.ToggleShadows, &o.Shadows},
		{"hulls", s.ToggleHulls, &o.DebugHulls},
		{"bounds", s.ToggleBounds, &o.DebugBounds},
		{"hud", s.ToggleHUD, &s.Options.ShowHUD},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := *tc.field
			if got := tc.toggle(); got == before || *tc.field == before {
				t.Errorf("toggle returned %v, field %v; was %v", got, *tc.field, before)
			}
			tc.toggle()
			if *tc.field != before {
				t.Error("second toggle should restore the setting")
			}
		})
	}
}

func TestSimulationMove(t *testing.T) {
	s := newTestSim(t)
	s.Move(1, 0, 0)
	if !s.Look.Moving() {
		t.Fatal("a move should push the look controller")
	}

	s.Look = nil
	start := s.Camera.Position
	s.Move(1, 0, 0)
	if d := s.Camera.Position.Sub(start).Len(); math.Abs(d-s.Options.MoveSpeed) > 1e-9 {
		t.Errorf("moved %v without smoothing, want %v", d, s.Options.MoveSpeed)
	}
}

func BenchmarkSimulationFrame(b *testing.B) {
	s := newTestSim(b)
	for i := range 6 {
		s.AddBody(NewShape("s", sphere(b, 20, math3d.V3(float64(i)*60-150, 0, 0)), 10, 20))
	}
	ctx := context.Background()

	for b.Loop() {
		if _, err := s.Frame(ctx, 1.0/60); err != nil {
			b.Fatal(err)
		}
		s.Graphics.Buffer.Reset()
	}
}
