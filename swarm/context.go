package swarm

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/akmonengine/handswarm/actor"
	"github.com/akmonengine/handswarm/config"
	"github.com/akmonengine/handswarm/perception"
	"github.com/akmonengine/handswarm/physics"
	"github.com/akmonengine/handswarm/render"
	"github.com/go-gl/mathgl/mgl64"
)

// Default video size, used for the backdrop until the source reports its own
const (
	defaultVideoWidth  = 640
	defaultVideoHeight = 480
)

// Context holds everything a Loop works on. It is built once; the pools keep
// their size for the whole run.
type Context struct {
	Config   *config.Config
	Seed     int64
	World    *physics.World
	Field    AttractionField
	Bodies   []*DynamicBody
	Controls []*ControlPoint
	Backdrop *Backdrop
	Engine   render.Engine
	Video    perception.VideoSource
	Detector perception.Detector
	Logger   *slog.Logger

	pool     []Updatable
	controls map[*actor.RigidBody]*ControlPoint
}

// NewContext creates the world, spawns the swarm and the control pool
// described by cfg, with one mesh per body created on engine.
func NewContext(cfg *config.Config, engine render.Engine, video perception.VideoSource, detector perception.Detector, logger *slog.Logger) (*Context, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	world := physics.NewWorld(cfg.Physics.CellSize, cfg.Physics.Cells)
	world.Workers = max(cfg.Physics.Workers, 1)

	c := &Context{
		Config:   cfg,
		Seed:     seed,
		World:    world,
		Field:    AttractionField{Center: mgl64.Vec3(cfg.Field.Center), Strength: cfg.Field.Strength},
		Backdrop: NewBackdrop(cfg.Video.PlaneScale, defaultVideoWidth, defaultVideoHeight),
		Engine:   engine,
		Video:    video,
		Detector: detector,
		Logger:   logger,
		controls: make(map[*actor.RigidBody]*ControlPoint),
	}

	spawner := NewSpawner(seed, cfg.Bodies.SpawnRange, mgl64.Vec3(cfg.Bodies.SpawnOffset))
	for i := range cfg.Bodies.Count {
		mesh := engine.NewMesh(render.GeometryTetra, render.SwarmMaterial)
		body := NewDynamicBody(i, spawner.Next(), cfg.Bodies.Size, cfg.Bodies.Density, mesh)
		c.Bodies = append(c.Bodies, body)
		world.AddBody(body.Rigid)
	}

	parked := mgl64.Vec3(cfg.Control.Parked)
	slots, collider := cfg.Control.Slots, cfg.Control.Size
	if cfg.Control.Mode == config.ControlPointer {
		slots, collider = 1, cfg.Control.Size*cfg.Control.ColliderScale
	}
	for slot := range slots {
		mesh := engine.NewMesh(render.GeometryIcosphere, render.ControlMaterial)
		control := NewControlPoint(slot, cfg.Control.Size, collider, parked, mesh)
		c.Controls = append(c.Controls, control)
		c.pool = append(c.pool, control)
		c.controls[control.Rigid] = control
		world.AddBody(control.Rigid)
	}

	if err := c.checkPools(); err != nil {
		return nil, err
	}

	logger.Info("simulation context ready",
		"seed", seed,
		"bodies", len(c.Bodies),
		"controls", len(c.Controls),
		"mode", cfg.Control.Mode)

	return c, nil
}

// Pool returns the control points as the mapper's slots
func (c *Context) Pool() []Updatable {
	return c.pool
}

// IsControl reports whether body is the rigid body of a control point
func (c *Context) IsControl(body *actor.RigidBody) bool {
	_, ok := c.controls[body]
	return ok
}

// MeanRadius is the mean distance of the bodies to the field center
func (c *Context) MeanRadius() float64 {
	if len(c.Bodies) == 0 {
		return 0
	}

	var sum float64
	for _, b := range c.Bodies {
		sum += b.Position().Sub(c.Field.Center).Len()
	}

	return sum / float64(len(c.Bodies))
}

func (c *Context) checkPools() error {
	want := c.Config.Control.Slots
	if c.Config.Control.Mode == config.ControlPointer {
		want = 1
	}
	if len(c.Bodies) != c.Config.Bodies.Count {
		return fmt.Errorf("%w: %d bodies, want %d", ErrPoolSize, len(c.Bodies), c.Config.Bodies.Count)
	}
	if len(c.Controls) != want || len(c.pool) != want {
		return fmt.Errorf("%w: %d control points, want %d", ErrPoolSize, len(c.Controls), want)
	}
	if len(c.World.Bodies) != len(c.Bodies)+len(c.Controls) {
		return fmt.Errorf("%w: world holds %d bodies, want %d", ErrPoolSize, len(c.World.Bodies), len(c.Bodies)+len(c.Controls))
	}

	return nil
}
