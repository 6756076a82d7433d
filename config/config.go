package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBodyCount    = 20
	DefaultBodySize     = 0.4
	DefaultSpawnRange   = 6.0
	DefaultStrength     = 0.5
	DefaultSlots        = 21
	DefaultControlSize  = 0.075
	DefaultPlaneScale   = 0.01
	DefaultPointerDepth = 0.2
	DefaultDt           = 1.0 / 60.0
	DefaultFPS          = 60
)

// ErrInvalid is wrapped by every validation error
var ErrInvalid = errors.New("config: invalid")

type ControlMode string

const (
	// ControlTracking drives a pool of proxies from detected hand landmarks
	ControlTracking ControlMode = "tracking"
	// ControlPointer drives a single large proxy from the pointing device
	ControlPointer ControlMode = "pointer"
)

type Config struct {
	// Seed drives spawn placement; 0 picks a time based seed
	Seed    int64         `yaml:"seed"`
	Bodies  BodiesConfig  `yaml:"bodies"`
	Field   FieldConfig   `yaml:"field"`
	Control ControlConfig `yaml:"control"`
	Video   VideoConfig   `yaml:"video"`
	Physics PhysicsConfig `yaml:"physics"`
	Render  RenderConfig  `yaml:"render"`
	Log     LogConfig     `yaml:"log"`
}

type BodiesConfig struct {
	Count int     `yaml:"count"`
	Size  float64 `yaml:"size"`
	// Density defaults to half the size when zero
	Density     float64    `yaml:"density"`
	SpawnRange  float64    `yaml:"spawn_range"`
	SpawnOffset [3]float64 `yaml:"spawn_offset"`
}

type FieldConfig struct {
	Center   [3]float64 `yaml:"center"`
	Strength float64    `yaml:"strength"`
}

type ControlConfig struct {
	Mode ControlMode `yaml:"mode"`
	// Slots is the tracking pool size, the number of landmarks per hand
	Slots int `yaml:"slots"`
	// Size is the visual radius; the collider is ColliderScale times larger
	Size          float64    `yaml:"size"`
	ColliderScale float64    `yaml:"collider_scale"`
	Parked        [3]float64 `yaml:"parked"`
	PointerDepth  float64    `yaml:"pointer_depth"`
}

type VideoConfig struct {
	// Source is one of synthetic, replay, none
	Source     string  `yaml:"source"`
	ReplayFile string  `yaml:"replay_file"`
	PlaneScale float64 `yaml:"plane_scale"`
	// Hands and DropEvery tune the synthetic source
	Hands     int `yaml:"hands"`
	DropEvery int `yaml:"drop_every"`
}

type PhysicsConfig struct {
	Dt       float64 `yaml:"dt"`
	Workers  int     `yaml:"workers"`
	CellSize float64 `yaml:"cell_size"`
	Cells    int     `yaml:"cells"`
}

type RenderConfig struct {
	// Engine is one of headless, terminal, raylib
	Engine string `yaml:"engine"`
	FPS    int    `yaml:"fps"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Debug  bool   `yaml:"debug"`
	// Frames stops the run after that many frames when positive
	Frames int `yaml:"frames"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() *Config {
	return &Config{
		Bodies: BodiesConfig{
			Count:       DefaultBodyCount,
			Size:        DefaultBodySize,
			Density:     DefaultBodySize * 0.5,
			SpawnRange:  DefaultSpawnRange,
			SpawnOffset: [3]float64{0, 3, 0},
		},
		Field: FieldConfig{
			Strength: DefaultStrength,
		},
		Control: ControlConfig{
			Mode:          ControlTracking,
			Slots:         DefaultSlots,
			Size:          DefaultControlSize,
			ColliderScale: 10,
			Parked:        [3]float64{0, 0, 10},
			PointerDepth:  DefaultPointerDepth,
		},
		Video: VideoConfig{
			Source:     "synthetic",
			PlaneScale: DefaultPlaneScale,
			Hands:      1,
		},
		Physics: PhysicsConfig{
			Dt:       DefaultDt,
			Workers:  1,
			CellSize: 1.0,
			Cells:    1024,
		},
		Render: RenderConfig{
			Engine: "terminal",
			FPS:    DefaultFPS,
			Width:  1280,
			Height: 720,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML file over the defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if cfg.Bodies.Density == 0 {
		cfg.Bodies.Density = cfg.Bodies.Size * 0.5
	}

	return cfg, cfg.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Marshal returns the YAML form of the config
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate rejects values that would make the pools or the world unusable
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.Bodies.Count > 0, "bodies.count must be positive, got %d", c.Bodies.Count)
	check(c.Bodies.Size > 0, "bodies.size must be positive, got %v", c.Bodies.Size)
	check(c.Bodies.Density > 0, "bodies.density must be positive, got %v", c.Bodies.Density)
	check(c.Bodies.SpawnRange >= 0, "bodies.spawn_range must not be negative, got %v", c.Bodies.SpawnRange)
	check(c.Field.Strength >= 0, "field.strength must not be negative, got %v", c.Field.Strength)
	check(c.Control.Mode == ControlTracking || c.Control.Mode == ControlPointer, "control.mode %q is not tracking or pointer", c.Control.Mode)
	check(c.Control.Slots > 0, "control.slots must be positive, got %d", c.Control.Slots)
	check(c.Control.Size > 0, "control.size must be positive, got %v", c.Control.Size)
	check(c.Control.ColliderScale > 0, "control.collider_scale must be positive, got %v", c.Control.ColliderScale)
	check(c.Video.Source == "synthetic" || c.Video.Source == "replay" || c.Video.Source == "none", "video.source %q is not synthetic, replay or none", c.Video.Source)
	check(c.Video.Source != "replay" || c.Video.ReplayFile != "", "video.replay_file is required with the replay source")
	check(c.Video.PlaneScale > 0, "video.plane_scale must be positive, got %v", c.Video.PlaneScale)
	check(c.Video.Hands >= 0, "video.hands must not be negative, got %d", c.Video.Hands)
	check(c.Physics.Dt > 0, "physics.dt must be positive, got %v", c.Physics.Dt)
	check(c.Physics.CellSize > 0, "physics.cell_size must be positive, got %v", c.Physics.CellSize)
	check(c.Physics.Cells > 0, "physics.cells must be positive, got %d", c.Physics.Cells)
	check(c.Render.Engine == "headless" || c.Render.Engine == "terminal" || c.Render.Engine == "raylib", "render.engine %q is not headless, terminal or raylib", c.Render.Engine)
	check(c.Render.FPS >= 0, "render.fps must not be negative, got %d", c.Render.FPS)

	return errors.Join(errs...)
}
