// Package perception describes what the simulation consumes from the video
// and landmark-detection side: video frames with dimensions, and per-frame
// sets of normalized landmark points.
package perception

import (
	"context"
	"errors"
	"time"
)

// LandmarksPerHand is the number of landmarks a hand detector reports
const LandmarksPerHand = 21

var (
	// ErrPermissionDenied is returned by VideoSource.Authorize when the camera
	// cannot be used. The simulation keeps running without tracking.
	ErrPermissionDenied = errors.New("perception: camera permission denied")

	// ErrNotInitialized is returned by Detect before Init completed
	ErrNotInitialized = errors.New("perception: detector not initialized")

	// ErrNoRecording is returned when a replay recording holds no frame
	ErrNoRecording = errors.New("perception: recording has no frames")
)

// Point is a normalized landmark: U and V in [0,1] across the video frame,
// Depth relative to the hand's wrist.
type Point struct {
	U     float64 `yaml:"u"`
	V     float64 `yaml:"v"`
	Depth float64 `yaml:"depth"`
}

// PointSet is one detected hand, LandmarksPerHand points in detector order
type PointSet []Point

// Frame is one detection result. It lives for a single simulation frame.
type Frame struct {
	Sets []PointSet
}

// Empty reports whether nothing was detected
func (f Frame) Empty() bool {
	return len(f.Sets) == 0
}

// VideoFrame is a captured frame's metadata
type VideoFrame struct {
	Index     int
	Width     int
	Height    int
	Timestamp time.Time
}

// VideoSource is a live stream
type VideoSource interface {
	// Authorize requests the camera and attaches the stream
	Authorize(ctx context.Context) error
	// Frame returns the current frame, ok is false when no frame with usable
	// dimensions is available yet
	Frame() (frame VideoFrame, ok bool)
}

// Detector is a landmark model
type Detector interface {
	// Init loads the model. It is called once, before any Detect.
	Init(ctx context.Context) error
	// Detect runs inference on the given frame, synchronously
	Detect(frame VideoFrame, timestamp time.Time) (Frame, error)
}
