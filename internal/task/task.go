// Package task runs goroutines bound to the lifetime of a UI element.
package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"editcore/internal/logging"
)

// Scope owns a set of goroutines that are cancelled together, typically
// when the element that launched them is detached.
type Scope struct {
	logger *slog.Logger

	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	canceled bool
}

// NewScope returns a scope whose tasks run under a child of parent.
func NewScope(parent context.Context, logger *slog.Logger) *Scope {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Scope{
		logger: logging.OrDiscard(logger),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context returns the scope's context. It is done once Cancel is called.
func (s *Scope) Context() context.Context { return s.ctx }

// Launch runs fn on a new goroutine. It reports false and does nothing once
// the scope has been cancelled. Errors other than cancellation are logged,
// and a panicking task is logged instead of crashing the host.
func (s *Scope) Launch(name string, fn func(ctx context.Context) error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.canceled {
		return false
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.run(fn); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Warn("task failed", "task", name, "error", err)
		}
	}()
	return true
}

func (s *Scope) run(fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return fn(s.ctx)
}

// Cancel cancels every running task and rejects new ones. It does not wait.
func (s *Scope) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.canceled = true
	s.cancel()
}

// Wait blocks until every launched task has returned.
func (s *Scope) Wait() {
	s.wg.Wait()
}

// Close cancels the scope and waits for its tasks.
func (s *Scope) Close() {
	s.Cancel()
	s.Wait()
}

// Canceled reports whether Cancel has been called.
func (s *Scope) Canceled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canceled
}
