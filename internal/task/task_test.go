package task

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScope_CancelStopsTasks(t *testing.T) {
	s := NewScope(context.Background(), nil)

	started := make(chan struct{})
	var sawCancel atomic.Bool
	require.True(t, s.Launch("wait", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		sawCancel.Store(true)
		return ctx.Err()
	}))

	<-started
	s.Close()

	assert.True(t, sawCancel.Load())
	assert.True(t, s.Canceled())
}

func TestScope_LaunchAfterCancelIsNoop(t *testing.T) {
	s := NewScope(context.Background(), nil)
	s.Cancel()

	var ran atomic.Bool
	assert.False(t, s.Launch("late", func(context.Context) error {
		ran.Store(true)
		return nil
	}))
	s.Wait()
	assert.False(t, ran.Load())
}

func TestScope_ErrorsAndPanicsDoNotEscape(t *testing.T) {
	s := NewScope(context.Background(), nil)

	s.Launch("fails", func(context.Context) error { return errors.New("boom") })
	s.Launch("panics", func(context.Context) error { panic("boom") })

	done := make(chan struct{})
	go func() {
		s.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("tasks did not finish")
	}
}

func TestScope_ParentCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	s := NewScope(parent, nil)
	cancel()

	select {
	case <-s.Context().Done():
	case <-time.After(5 * time.Second):
		t.Fatal("scope context not cancelled with parent")
	}
}
