package render

import (
	"context"
	"time"
)

// Headless renders nothing. It drives the frame function as fast as possible,
// or at FPS when set, for MaxFrames frames when set.
type Headless struct {
	*Scene

	FPS       int
	MaxFrames int
	// OnRender is called by Render with the scene, when set
	OnRender func(scene *Scene)

	frames   int
	rendered int
	debug    []float32
	status   string
}

func NewHeadless(width, height int) *Headless {
	return &Headless{Scene: NewScene(width, height)}
}

func (h *Headless) Run(ctx context.Context, frame FrameFunc) error {
	var tick <-chan time.Time
	if h.FPS > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(h.FPS))
		defer ticker.Stop()
		tick = ticker.C
	}

	for h.MaxFrames <= 0 || h.frames < h.MaxFrames {
		if tick != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-tick:
			}
		} else if ctx.Err() != nil {
			return nil
		}

		h.frames++
		if err := frame(); err != nil {
			return err
		}
	}

	return nil
}

func (h *Headless) Render() error {
	h.rendered++
	if h.OnRender != nil {
		h.OnRender(h.Scene)
	}

	return nil
}

// Rendered returns the number of Render calls
func (h *Headless) Rendered() int {
	return h.rendered
}

func (h *Headless) SetDebugLines(vertices, _ []float32) {
	h.debug = vertices
}

// DebugVertexCount returns the number of vertices of the last debug view
func (h *Headless) DebugVertexCount() int {
	return len(h.debug) / 3
}

func (h *Headless) SetStatus(status string) {
	h.status = status
}

func (h *Headless) Status() string {
	return h.status
}
