package perception

import (
	"context"
	"fmt"
)

// Capture initializes detector and source, then records n frames of
// detections. Frames the source does not have ready are not counted.
func Capture(ctx context.Context, source VideoSource, detector Detector, n int) (*Recording, error) {
	if err := detector.Init(ctx); err != nil {
		return nil, fmt.Errorf("perception: detector: %w", err)
	}
	if err := source.Authorize(ctx); err != nil {
		return nil, fmt.Errorf("perception: video: %w", err)
	}

	rec := &Recording{Frames: make([]RecordedFrame, 0, n)}
	for len(rec.Frames) < n {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		frame, ok := source.Frame()
		if !ok {
			continue
		}
		detected, err := detector.Detect(frame, frame.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("perception: frame %d: %w", frame.Index, err)
		}

		rec.Width, rec.Height = frame.Width, frame.Height
		rec.Frames = append(rec.Frames, RecordedFrame{Hands: detected.Sets})
	}

	return rec, nil
}
