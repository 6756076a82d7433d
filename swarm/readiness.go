package swarm

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

type dependency struct {
	name   string
	fatal  bool
	init   func(ctx context.Context) error
	onFail func(err error)
}

// Readiness runs the asynchronous initializations the loop waits for. All of
// them run concurrently. A required one failing fails the gate, an optional
// one failing only degrades the run.
type Readiness struct {
	logger *slog.Logger
	deps   []dependency
}

func NewReadiness(logger *slog.Logger) *Readiness {
	return &Readiness{logger: logger}
}

// Require registers an initialization whose failure is fatal
func (r *Readiness) Require(name string, init func(ctx context.Context) error) {
	r.deps = append(r.deps, dependency{name: name, fatal: true, init: init})
}

// Optional registers an initialization whose failure is reported to onFail,
// after every initialization finished.
func (r *Readiness) Optional(name string, init func(ctx context.Context) error, onFail func(err error)) {
	r.deps = append(r.deps, dependency{name: name, init: init, onFail: onFail})
}

// Wait runs every registered initialization and blocks until all are done.
// The first required failure is returned as an *InitError.
func (r *Readiness) Wait(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	failed := make(map[int]error)

	for i, dep := range r.deps {
		g.Go(func() error {
			err := dep.init(gctx)
			if err == nil {
				r.logger.Debug("dependency ready", "dependency", dep.name)
				return nil
			}
			if dep.fatal {
				return &InitError{Dependency: dep.name, Err: err}
			}

			r.logger.Warn("dependency unavailable, running degraded", "dependency", dep.name, "error", err)
			mu.Lock()
			failed[i] = err
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for i, dep := range r.deps {
		if err, ok := failed[i]; ok && dep.onFail != nil {
			dep.onFail(err)
		}
	}

	return nil
}
