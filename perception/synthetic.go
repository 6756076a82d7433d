package perception

import (
	"context"
	"math"
	"sync"
	"time"
)

// handShape is an open right hand, wrist first, in normalized frame units
// relative to the palm center.
var handShape = [LandmarksPerHand][2]float64{
	{0, 0.10},
	{-0.03, 0.08}, {-0.06, 0.05}, {-0.08, 0.02}, {-0.10, 0.00},
	{-0.03, 0.00}, {-0.035, -0.04}, {-0.04, -0.07}, {-0.045, -0.10},
	{0.00, -0.01}, {0.00, -0.055}, {0.00, -0.085}, {0.00, -0.115},
	{0.025, 0.00}, {0.03, -0.04}, {0.035, -0.07}, {0.04, -0.095},
	{0.05, 0.02}, {0.06, -0.01}, {0.07, -0.035}, {0.075, -0.06},
}

// Synthetic is a camera and a detector in one: it produces frames of a fixed
// size and hands orbiting the frame center.
type Synthetic struct {
	Width, Height int
	// Hands is the number of hands reported per frame
	Hands int
	// Orbit is the radius of the palm's circular path, in normalized units
	Orbit float64
	// FramesPerTurn is the number of frames for a full revolution
	FramesPerTurn int
	// DropEvery reports no hand on every n-th frame when positive
	DropEvery int
	// InitDelay simulates the model download
	InitDelay time.Duration
	// Now is the clock used for frame timestamps, time.Now when nil
	Now func() time.Time

	mu          sync.Mutex
	index       int
	initialized bool
}

// NewSynthetic creates a 640x480 source with one hand
func NewSynthetic() *Synthetic {
	return &Synthetic{
		Width:         640,
		Height:        480,
		Hands:         1,
		Orbit:         0.2,
		FramesPerTurn: 240,
	}
}

func (s *Synthetic) Authorize(ctx context.Context) error {
	return ctx.Err()
}

// Frame always has a new frame ready
func (s *Synthetic) Frame() (VideoFrame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	frame := VideoFrame{Index: s.index, Width: s.Width, Height: s.Height, Timestamp: now()}
	s.index++

	return frame, true
}

func (s *Synthetic) Init(ctx context.Context) error {
	if s.InitDelay > 0 {
		select {
		case <-time.After(s.InitDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.mu.Lock()
	s.initialized = true
	s.mu.Unlock()

	return nil
}

func (s *Synthetic) Detect(frame VideoFrame, _ time.Time) (Frame, error) {
	s.mu.Lock()
	initialized := s.initialized
	s.mu.Unlock()
	if !initialized {
		return Frame{}, ErrNotInitialized
	}

	if s.DropEvery > 0 && frame.Index%s.DropEvery == s.DropEvery-1 {
		return Frame{}, nil
	}

	turn := max(1, s.FramesPerTurn)
	result := Frame{Sets: make([]PointSet, 0, s.Hands)}
	for hand := range s.Hands {
		angle := 2*math.Pi*float64(frame.Index%turn)/float64(turn) + math.Pi*float64(hand)
		cu := 0.5 + s.Orbit*math.Cos(angle)
		cv := 0.5 + s.Orbit*math.Sin(angle)
		result.Sets = append(result.Sets, HandAt(cu, cv))
	}

	return result, nil
}

// HandAt returns the synthetic hand with its palm centered on (u, v)
func HandAt(u, v float64) PointSet {
	set := make(PointSet, LandmarksPerHand)
	for j, offset := range handShape {
		set[j] = Point{
			U:     u + offset[0],
			V:     v + offset[1],
			Depth: -0.01 * float64(j%4),
		}
	}

	return set
}
