package swarm

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/handswarm/config"
	"github.com/akmonengine/handswarm/logging"
	"github.com/akmonengine/handswarm/perception"
	"github.com/akmonengine/handswarm/render"
)

var errDetect = errors.New("inference failed")

// scripted is a video source and detector replaying a fixed list of results.
// Each entry is used by one frame; the last one repeats.
type scripted struct {
	mu      sync.Mutex
	authErr error
	initErr error
	steps   []step
	calls   int
	detects int
}

type step struct {
	noVideo bool
	width   int
	height  int
	frame   perception.Frame
	err     error
}

func (s *scripted) Authorize(context.Context) error { return s.authErr }

func (s *scripted) Init(context.Context) error { return s.initErr }

func (s *scripted) current() step {
	if len(s.steps) == 0 {
		return step{width: 600, height: 400}
	}
	return s.steps[min(s.calls, len(s.steps)-1)]
}

func (s *scripted) Frame() (perception.VideoFrame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.current()
	if st.noVideo {
		s.calls++
		return perception.VideoFrame{}, false
	}
	return perception.VideoFrame{Index: s.calls, Width: st.width, Height: st.height, Timestamp: time.Now()}, true
}

func (s *scripted) Detect(perception.VideoFrame, time.Time) (perception.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.current()
	s.calls++
	s.detects++
	return st.frame, st.err
}

// pointerEngine is a headless engine with a settable pointer
type pointerEngine struct {
	*render.Headless
	u, v float64
	ok   bool
}

func (p *pointerEngine) Pointer() (float64, float64, bool) { return p.u, p.v, p.ok }

// recordingMesh counts the calls a mesh receives
type recordingMesh struct {
	position  mgl64.Vec3
	rotation  mgl64.Quat
	scale     float64
	positions int
}

func (m *recordingMesh) SetPosition(p mgl64.Vec3) { m.position = p; m.positions++ }
func (m *recordingMesh) SetRotation(q mgl64.Quat) { m.rotation = q }
func (m *recordingMesh) SetScale(s float64)       { m.scale = s }

// testConfig is a small deterministic setup: a 600x400 video maps on a 6x4
// backdrop.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Seed = 42
	cfg.Bodies.Count = 5
	cfg.Control.Slots = 3
	cfg.Render.Engine = "headless"
	return cfg
}

func newTestLoop(cfg *config.Config, engine render.Engine, source *scripted) (*Loop, *Context, error) {
	c, err := NewContext(cfg, engine, source, source, logging.Discard())
	if err != nil {
		return nil, nil, err
	}
	return NewLoop(c), c, nil
}

func hand(points ...[3]float64) perception.PointSet {
	set := make(perception.PointSet, len(points))
	for i, p := range points {
		set[i] = perception.Point{U: p[0], V: p[1], Depth: p[2]}
	}
	return set
}

func positions(pool []*ControlPoint) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(pool))
	for i, c := range pool {
		out[i] = c.Position()
	}
	return out
}
