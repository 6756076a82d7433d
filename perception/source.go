package perception

import (
	"fmt"

	"github.com/akmonengine/handswarm/config"
)

// FromConfig builds the video source and the detector named by cfg.Source.
// The synthetic and replay sources are their own detector.
func FromConfig(cfg config.VideoConfig) (VideoSource, Detector, error) {
	switch cfg.Source {
	case "synthetic":
		s := NewSynthetic()
		s.Hands = cfg.Hands
		s.DropEvery = cfg.DropEvery
		return s, s, nil
	case "replay":
		r := NewReplay(cfg.ReplayFile)
		return r, r, nil
	case "none":
		return NoCamera{}, NoDetector{}, nil
	}

	return nil, nil, fmt.Errorf("perception: unknown video source %q", cfg.Source)
}
