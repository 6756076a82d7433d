package perception

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Recording is a captured landmark stream
type Recording struct {
	Width  int               `yaml:"width"`
	Height int               `yaml:"height"`
	Frames []RecordedFrame   `yaml:"frames"`
	Meta   map[string]string `yaml:"meta,omitempty"`
}

type RecordedFrame struct {
	Hands []PointSet `yaml:"hands"`
}

// LoadRecording reads a YAML recording from disk
func LoadRecording(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rec, err := ParseRecording(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return rec, nil
}

// ParseRecording decodes a YAML recording
func ParseRecording(r io.Reader) (*Recording, error) {
	rec := &Recording{}
	if err := yaml.NewDecoder(r).Decode(rec); err != nil {
		return nil, fmt.Errorf("perception: decoding recording: %w", err)
	}
	if len(rec.Frames) == 0 {
		return nil, ErrNoRecording
	}
	if rec.Width <= 0 || rec.Height <= 0 {
		return nil, fmt.Errorf("perception: recording has invalid size %dx%d", rec.Width, rec.Height)
	}

	return rec, nil
}

// Save writes the recording as YAML
func (r *Recording) Save(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Replay plays a recording back in a loop, one recorded frame per video frame
type Replay struct {
	// Path is loaded by Init when Recording is nil
	Path      string
	Recording *Recording

	mu    sync.Mutex
	index int
}

func NewReplay(path string) *Replay {
	return &Replay{Path: path}
}

func (r *Replay) Authorize(ctx context.Context) error {
	return ctx.Err()
}

func (r *Replay) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Recording != nil {
		return nil
	}

	rec, err := LoadRecording(r.Path)
	if err != nil {
		return err
	}
	r.Recording = rec

	return nil
}

// Frame has no frame ready until the recording is loaded
func (r *Replay) Frame() (VideoFrame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Recording == nil {
		return VideoFrame{}, false
	}

	frame := VideoFrame{
		Index:     r.index,
		Width:     r.Recording.Width,
		Height:    r.Recording.Height,
		Timestamp: time.Now(),
	}
	r.index++

	return frame, true
}

func (r *Replay) Detect(frame VideoFrame, _ time.Time) (Frame, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Recording == nil {
		return Frame{}, ErrNotInitialized
	}

	recorded := r.Recording.Frames[frame.Index%len(r.Recording.Frames)]

	return Frame{Sets: recorded.Hands}, nil
}
