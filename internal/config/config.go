// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all settings of the viewer.
type Config struct {
	Display DisplayConfig `yaml:"display"`
	Camera  CameraConfig  `yaml:"camera"`
	Render  RenderConfig  `yaml:"render"`
	Physics PhysicsConfig `yaml:"physics"`
	Scene   SceneConfig   `yaml:"scene"`
	Logging LoggingConfig `yaml:"logging"`
}

// Vector is an x, y, z triple written as a YAML sequence.
type Vector [3]float64

// DisplayConfig holds terminal output settings. Width and height of zero
// use the terminal size.
type DisplayConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	FPS        int    `yaml:"fps"`
	Background Vector `yaml:"background"` // RGB in [0, 1]
	ShowHUD    bool   `yaml:"show_hud"`
}

// CameraConfig holds the initial view and input sensitivities.
type CameraConfig struct {
	Position    Vector  `yaml:"position"`
	Target      Vector  `yaml:"target"`
	FOV         float64 `yaml:"fov"` // vertical, degrees
	Near        float64 `yaml:"near"`
	Far         float64 `yaml:"far"`
	Sensitivity float64 `yaml:"sensitivity"` // radians per mouse cell
	PitchLimit  float64 `yaml:"pitch_limit"` // degrees
	MoveSpeed   float64 `yaml:"move_speed"`  // units per second per key press
}

// RenderConfig switches pipeline stages.
type RenderConfig struct {
	Lighting        bool    `yaml:"lighting"`
	Headlight       bool    `yaml:"headlight"`
	HeadlightLumens float64 `yaml:"headlight_lumens"`
	Shadows         bool    `yaml:"shadows"`
	DebugHulls      bool    `yaml:"debug_hulls"`
	DebugBounds     bool    `yaml:"debug_bounds"`
	Sort            string  `yaml:"sort"` // centroid, farthest or bsp
}

// PhysicsConfig holds the simulation constants and the bodies spawned by
// the shoot key.
type PhysicsConfig struct {
	G           float64 `yaml:"g"`
	TimeScale   float64 `yaml:"time_scale"`
	Narrowphase bool    `yaml:"narrowphase"`
	ShootMass   float64 `yaml:"shoot_mass"`
	ShootSpeed  float64 `yaml:"shoot_speed"`
	ShootScale  float64 `yaml:"shoot_scale"`
	ShootColor  Vector  `yaml:"shoot_color"`
}

// SceneConfig lists the bodies present at startup.
type SceneConfig struct {
	Bodies []BodyConfig `yaml:"bodies"`
}

// Body kinds.
const (
	KindShape = "shape"
	KindStar  = "star"
)

// Mesh sources.
const (
	MeshSphere = "sphere"
	MeshCuboid = "cuboid"
	MeshGrid   = "grid"
	MeshFile   = "file" // .obj or .glb
)

// BodyConfig describes one body.
type BodyConfig struct {
	Name      string     `yaml:"name"`
	Kind      string     `yaml:"kind"`
	Mesh      MeshConfig `yaml:"mesh"`
	Position  Vector     `yaml:"position"`
	Velocity  Vector     `yaml:"velocity"`
	Spin      Vector     `yaml:"spin"` // radians per second per axis
	Mass      float64    `yaml:"mass"`
	Scale     float64    `yaml:"scale"` // collision radius
	Color     Vector     `yaml:"color"`
	Metallic  float64    `yaml:"metallic"`
	Roughness float64    `yaml:"roughness"`
	Lumens    float64    `yaml:"lumens"` // stars only
}

// MeshConfig selects a mesh source.
type MeshConfig struct {
	Source   string  `yaml:"source"`
	Path     string  `yaml:"path"`
	Radius   float64 `yaml:"radius"`
	Size     Vector  `yaml:"size"`
	Segments int     `yaml:"segments"`
	Rings    int     `yaml:"rings"`
	Step     float64 `yaml:"step"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with a small demo scene: a star orbited by two
// planets.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			FPS:        30,
			Background: Vector{0.02, 0.02, 0.05},
			ShowHUD:    true,
		},
		Camera: CameraConfig{
			Position:    Vector{0, 150, -900},
			Target:      Vector{0, 0, 0},
			FOV:         70,
			Near:        0.1,
			Far:         50000,
			Sensitivity: 0.02,
			PitchLimit:  89,
			MoveSpeed:   400,
		},
		Render: RenderConfig{
			Lighting:        true,
			HeadlightLumens: 1.5,
			Sort:            "centroid",
		},
		Physics: PhysicsConfig{
			G:          1,
			TimeScale:  1,
			ShootMass:  5,
			ShootSpeed: 300,
			ShootScale: 20,
			ShootColor: Vector{0.9, 0.3, 0.3},
		},
		Scene: SceneConfig{
			Bodies: []BodyConfig{
				{
					Name:   "sun",
					Kind:   KindStar,
					Mesh:   MeshConfig{Source: MeshSphere, Radius: 80, Segments: 20, Rings: 12},
					Mass:   40000,
					Scale:  80,
					Color:  Vector{1, 0.85, 0.4},
					Lumens: 2,
				},
				{
					Name:      "rock",
					Kind:      KindShape,
					Mesh:      MeshConfig{Source: MeshSphere, Radius: 30, Segments: 16, Rings: 10},
					Position:  Vector{400, 0, 0},
					Velocity:  Vector{0, 0, 10},
					Spin:      Vector{0, 0.5, 0},
					Mass:      10,
					Scale:     30,
					Color:     Vector{0.4, 0.6, 0.9},
					Roughness: 0.6,
				},
				{
					Name:      "crate",
					Kind:      KindShape,
					Mesh:      MeshConfig{Source: MeshCuboid, Size: Vector{40, 40, 40}},
					Position:  Vector{-250, 50, 100},
					Velocity:  Vector{0, 0, -12},
					Spin:      Vector{0.3, 0.2, 0},
					Mass:      5,
					Scale:     35,
					Color:     Vector{0.7, 0.7, 0.7},
					Metallic:  0.8,
					Roughness: 0.3,
				},
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

var sortStrategies = []string{"centroid", "farthest", "bsp"}

// Validate reports the first setting the viewer cannot use.
func (c *Config) Validate() error {
	if c.Display.FPS <= 0 {
		return fmt.Errorf("display.fps %d: %w", c.Display.FPS, ErrInvalid)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return fmt.Errorf("camera.fov %v: %w", c.Camera.FOV, ErrInvalid)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("camera clip planes %v..%v: %w", c.Camera.Near, c.Camera.Far, ErrInvalid)
	}
	if c.Camera.PitchLimit <= 0 || c.Camera.PitchLimit > 90 {
		return fmt.Errorf("camera.pitch_limit %v: %w", c.Camera.PitchLimit, ErrInvalid)
	}
	if !slices.Contains(sortStrategies, c.Render.Sort) {
		return fmt.Errorf("render.sort %q: %w", c.Render.Sort, ErrInvalid)
	}
	for i, b := range c.Scene.Bodies {
		if err := b.validate(); err != nil {
			return fmt.Errorf("scene.bodies[%d] %s: %w", i, b.Name, err)
		}
	}
	return nil
}

func (b BodyConfig) validate() error {
	switch b.Kind {
	case KindShape, KindStar:
	default:
		return fmt.Errorf("kind %q: %w", b.Kind, ErrInvalid)
	}
	if b.Mass <= 0 {
		return fmt.Errorf("mass %v: %w", b.Mass, ErrInvalid)
	}
	if b.Scale < 0 {
		return fmt.Errorf("scale %v: %w", b.Scale, ErrInvalid)
	}
	switch b.Mesh.Source {
	case MeshSphere:
		if b.Mesh.Radius <= 0 {
			return fmt.Errorf("sphere radius %v: %w", b.Mesh.Radius, ErrInvalid)
		}
	case MeshCuboid:
		if b.Mesh.Size[0] <= 0 || b.Mesh.Size[1] <= 0 || b.Mesh.Size[2] <= 0 {
			return fmt.Errorf("cuboid size %v: %w", b.Mesh.Size, ErrInvalid)
		}
	case MeshGrid:
		if b.Mesh.Step <= 0 {
			return fmt.Errorf("grid step %v: %w", b.Mesh.Step, ErrInvalid)
		}
	case MeshFile:
		if b.Mesh.Path == "" {
			return fmt.Errorf("mesh file without a path: %w", ErrInvalid)
		}
	default:
		return fmt.Errorf("mesh source %q: %w", b.Mesh.Source, ErrInvalid)
	}
	return nil
}
