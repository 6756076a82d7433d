package swarm

import (
	"context"
	"fmt"
	"time"

	"github.com/akmonengine/handswarm/config"
	"github.com/akmonengine/handswarm/physics"
	"github.com/akmonengine/handswarm/render"
	"github.com/go-gl/mathgl/mgl64"
)

type State int

const (
	Uninitialized State = iota
	Running
	Halted
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	case Halted:
		return "halted"
	}

	return "unknown"
}

// tracking is the condition of the control input, logged on change only
type tracking string

const (
	trackingOK       tracking = "tracking"
	trackingNoHands  tracking = "no hands"
	trackingNoVideo  tracking = "no video frame"
	trackingDetect   tracking = "detection failed"
	trackingDegraded tracking = "video unavailable"
	trackingPointer  tracking = "pointer"
	trackingNoCursor tracking = "no pointer"
)

// Loop is the per-frame driver. Each frame it applies the field, steps the
// world, syncs the meshes, reads the control input, moves the control points
// and renders, in that order.
type Loop struct {
	ctx      *Context
	state    State
	mapper   TrackingMapper
	pointer  PointerMapper
	degraded bool
	tracking tracking
	stats    Stats
}

func NewLoop(c *Context) *Loop {
	l := &Loop{
		ctx:     c,
		mapper:  TrackingMapper{Parked: mgl64.Vec3(c.Config.Control.Parked)},
		pointer: PointerMapper{Depth: c.Config.Control.PointerDepth},
	}

	c.World.Events.Subscribe(physics.COLLISION_ENTER, func(event physics.Event) {
		a, b := event.Bodies()
		if c.IsControl(a) != c.IsControl(b) {
			l.stats.Touches++
		}
	})

	return l
}

func (l *Loop) State() State {
	return l.state
}

func (l *Loop) Stats() Stats {
	return l.stats
}

// Degraded reports whether the video source failed to start
func (l *Loop) Degraded() bool {
	return l.degraded
}

// Init waits for the detector and the video source. A detector failure is
// fatal, a video failure leaves the loop running on the swarm alone.
func (l *Loop) Init(ctx context.Context) error {
	switch l.state {
	case Running:
		return ErrAlreadyRunning
	case Halted:
		return ErrWorldCorrupt
	}

	gate := NewReadiness(l.ctx.Logger)
	gate.Require("detector", l.ctx.Detector.Init)
	gate.Optional("video", l.ctx.Video.Authorize, func(err error) {
		l.degraded = true
	})
	if err := gate.Wait(ctx); err != nil {
		return err
	}
	if err := l.ctx.checkPools(); err != nil {
		return err
	}

	l.state = Running
	l.ctx.Logger.Info("loop running", "degraded", l.degraded)

	return nil
}

// Start initializes the loop then hands Frame to the engine until ctx is
// done, the engine stops or a frame fails.
func (l *Loop) Start(ctx context.Context) error {
	if err := l.Init(ctx); err != nil {
		return err
	}

	err := l.ctx.Engine.Run(ctx, l.Frame)
	l.ctx.Logger.Info("loop stopped", "frames", l.stats.Frames, "touches", l.stats.Touches, "error", err)

	return err
}

// Frame runs one simulation frame. A physics failure halts the loop.
func (l *Loop) Frame() error {
	if l.state != Running {
		return ErrNotRunning
	}
	start := time.Now()
	c := l.ctx

	for _, body := range c.Bodies {
		body.ApplyField(c.Field)
	}

	if err := c.World.Step(c.Config.Physics.Dt); err != nil {
		l.state = Halted
		c.Logger.Error("physics step failed", "frame", l.stats.Frames, "error", err)
		return &FrameError{Frame: l.stats.Frames, Err: fmt.Errorf("%w: %w", ErrWorldCorrupt, err)}
	}

	for _, body := range c.Bodies {
		body.SyncVisual()
	}

	if c.Config.Control.Mode == config.ControlPointer {
		l.followPointer()
	} else {
		l.followHands()
	}

	l.stats.Frames++
	l.stats.Contacts = len(c.World.Contacts())
	l.stats.MeanRadius = c.MeanRadius()

	if setter, ok := c.Engine.(render.BackdropSetter); ok {
		plane := c.Backdrop.Plane()
		setter.SetBackdrop(plane.Width, plane.Height)
	}
	if drawer, ok := c.Engine.(render.DebugDrawer); ok && c.Config.Render.Debug {
		drawer.SetDebugLines(c.World.DebugRender())
	}
	if setter, ok := c.Engine.(render.StatusSetter); ok {
		setter.SetStatus(fmt.Sprintf("%s | %s", l.stats, l.tracking))
	}

	if err := c.Engine.Render(); err != nil {
		return fmt.Errorf("swarm: render: %w", err)
	}
	l.stats.LastFrame = time.Since(start)

	return nil
}

// followHands reads the current video frame, detects landmarks and places
// the control pool on them. Without a usable frame nothing moves.
func (l *Loop) followHands() {
	c := l.ctx
	if l.degraded {
		l.stats.Skipped++
		l.setTracking(trackingDegraded, nil)
		return
	}

	video, ok := c.Video.Frame()
	if !ok || video.Width <= 0 || video.Height <= 0 {
		l.stats.Skipped++
		l.setTracking(trackingNoVideo, nil)
		return
	}
	c.Backdrop.SetVideoSize(video.Width, video.Height)

	frame, err := c.Detector.Detect(video, video.Timestamp)
	if err != nil {
		l.stats.DetectFailures++
		l.setTracking(trackingDetect, err)
		return
	}

	result := l.mapper.Apply(frame, c.Pool(), c.Backdrop.Plane())
	if result.Parked {
		l.setTracking(trackingNoHands, nil)
		return
	}
	l.stats.Tracked++
	if result.Clamped > 0 {
		c.Logger.Debug("point set size differs from pool", "sets", result.Sets, "clamped", result.Clamped, "pool", len(c.Controls))
	}
	l.setTracking(trackingOK, nil)
}

func (l *Loop) followPointer() {
	c := l.ctx
	source, ok := c.Engine.(render.PointerSource)
	if !ok {
		l.stats.Skipped++
		l.setTracking(trackingNoCursor, nil)
		return
	}

	u, v, ok := source.Pointer()
	if !ok {
		l.stats.Skipped++
		l.setTracking(trackingNoCursor, nil)
		return
	}

	camera, _ := c.Engine.(render.Unprojector)
	l.pointer.Apply(u, v, c.Pool(), c.Backdrop.Plane(), camera)
	l.stats.Tracked++
	l.setTracking(trackingPointer, nil)
}

func (l *Loop) setTracking(t tracking, err error) {
	if t == l.tracking {
		return
	}
	previous := l.tracking
	l.tracking = t

	switch t {
	case trackingOK, trackingPointer:
		l.ctx.Logger.Info("control input", "state", string(t), "previous", string(previous), "frame", l.stats.Frames)
	case trackingDetect:
		l.ctx.Logger.Warn("control input", "state", string(t), "previous", string(previous), "frame", l.stats.Frames, "error", err)
	default:
		l.ctx.Logger.Warn("control input", "state", string(t), "previous", string(previous), "frame", l.stats.Frames)
	}
}
