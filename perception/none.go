package perception

import (
	"context"
	"time"
)

// NoCamera is a source whose authorization is always refused. Paired with
// any detector it leaves the simulation in degraded mode.
type NoCamera struct{}

func (NoCamera) Authorize(context.Context) error { return ErrPermissionDenied }

func (NoCamera) Frame() (VideoFrame, bool) { return VideoFrame{}, false }

// NoDetector reports no hand, ever
type NoDetector struct{}

func (NoDetector) Init(ctx context.Context) error { return ctx.Err() }

func (NoDetector) Detect(VideoFrame, time.Time) (Frame, error) { return Frame{}, nil }
