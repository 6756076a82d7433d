package swarm

import (
	"errors"
	"fmt"
)

var (
	// ErrWorldCorrupt means a physics step failed; the loop halts
	ErrWorldCorrupt = errors.New("swarm: physics world corrupt")

	// ErrPoolSize means a pool does not hold its fixed number of entries
	ErrPoolSize = errors.New("swarm: pool size mismatch")

	// ErrNotRunning is returned by Frame before the loop started
	ErrNotRunning = errors.New("swarm: loop is not running")

	// ErrAlreadyRunning is returned by Start on a running loop
	ErrAlreadyRunning = errors.New("swarm: loop already running")
)

// InitError is a fatal failure of a dependency while starting the loop
type InitError struct {
	Dependency string
	Err        error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("swarm: initializing %s: %v", e.Dependency, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// FrameError is a fatal failure during a frame
type FrameError struct {
	Frame int
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("swarm: frame %d: %v", e.Frame, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}
