package testplan

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"testplanner/pkg/logging"
)

// TaskGroup tracks the background work started by the service so it can be
// awaited in tests and cancelled on shutdown.
type TaskGroup struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	active atomic.Int32
}

// NewTaskGroup creates a TaskGroup whose tasks inherit values from parent and
// are cancelled when parent is done or Shutdown is called.
func NewTaskGroup(parent context.Context) *TaskGroup {
	ctx, cancel := context.WithCancel(parent)
	return &TaskGroup{ctx: ctx, cancel: cancel}
}

// Go runs fn in the background. finish always runs afterwards with fn's error,
// or with an error describing a panic, on a context that is never cancelled.
func (g *TaskGroup) Go(name string, fn func(ctx context.Context) error, finish func(ctx context.Context, err error)) {
	g.wg.Add(1)
	g.active.Add(1)
	go func() {
		defer g.wg.Done()
		defer g.active.Add(-1)

		err := g.run(name, fn)
		if finish != nil {
			finish(context.WithoutCancel(g.ctx), err)
		}
	}()
}

func (g *TaskGroup) run(name string, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("TaskGroup", fmt.Errorf("%v", r), "Task %s panicked\n%s", name, debug.Stack())
			err = fmt.Errorf("unexpected internal error: %v", r)
		}
	}()
	logging.Debug("TaskGroup", "Starting task %s", name)
	return fn(g.ctx)
}

// Wait blocks until every started task and its finish callback returned.
func (g *TaskGroup) Wait() {
	g.wg.Wait()
}

// Active reports how many tasks are still running.
func (g *TaskGroup) Active() int {
	return int(g.active.Load())
}

// Shutdown cancels running tasks and waits for them until ctx is done.
func (g *TaskGroup) Shutdown(ctx context.Context) error {
	g.cancel()

	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for %d background task(s): %w", g.Active(), ctx.Err())
	}
}
