package swarm

import (
	"fmt"
	"time"
)

// Stats are the loop's counters since Start
type Stats struct {
	Frames int
	// Tracked counts frames where the control input moved the proxies: a
	// detected hand, or the pointer
	Tracked int
	// Skipped counts frames without a usable video frame or pointer
	Skipped        int
	DetectFailures int
	// Touches counts contacts starting between a control point and a body
	Touches  int
	Contacts int
	// MeanRadius is the mean distance of the bodies to the field center
	MeanRadius float64
	LastFrame  time.Duration
}

func (s Stats) String() string {
	return fmt.Sprintf("frame %d | tracked %d | touches %d | contacts %d | radius %.2f | %s",
		s.Frames, s.Tracked, s.Touches, s.Contacts, s.MeanRadius, s.LastFrame.Round(time.Microsecond))
}
