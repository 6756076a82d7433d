package swarm

import "sync"

// Backdrop is the video plane's size. It is written when the video reports
// new dimensions and read by every frame; the last write wins.
type Backdrop struct {
	mu    sync.RWMutex
	scale float64
	plane Plane
}

// NewBackdrop sizes the plane for a width x height video, scale world units
// per pixel.
func NewBackdrop(scale float64, width, height int) *Backdrop {
	b := &Backdrop{scale: scale}
	b.SetVideoSize(width, height)

	return b
}

// SetVideoSize resizes the plane. Non-positive sizes are ignored, they come
// from a stream without metadata yet.
func (b *Backdrop) SetVideoSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}

	b.mu.Lock()
	b.plane = Plane{Width: float64(width) * b.scale, Height: float64(height) * b.scale}
	b.mu.Unlock()
}

func (b *Backdrop) Plane() Plane {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.plane
}
