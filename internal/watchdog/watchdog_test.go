package watchdog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunOnceRunsEveryTask(t *testing.T) {
	w := NewWatchdog(time.Minute)
	var order []string
	w.RegisterTask("b", func(context.Context) error { order = append(order, "b"); return nil })
	w.RegisterTask("a", func(context.Context) error { order = append(order, "a"); return nil })

	w.RunOnce(context.Background())

	assert.Equal(t, []string{"a", "b"}, order)
	assert.True(t, w.IsHealthy("a"))
	assert.False(t, w.LastRun("a").IsZero())
}

func TestFailingTaskIsUnhealthyUntilItRecovers(t *testing.T) {
	w := NewWatchdog(time.Minute)
	fail := true
	w.RegisterTask("flush", func(context.Context) error {
		if fail {
			return errors.New("disk full")
		}
		return nil
	})

	w.RunOnce(context.Background())
	assert.False(t, w.IsHealthy("flush"))
	assert.Equal(t, map[string]bool{"flush": false}, w.GetStatus())

	fail = false
	w.RunOnce(context.Background())
	assert.True(t, w.IsHealthy("flush"))
}

func TestPanickingTaskDoesNotStopOthers(t *testing.T) {
	w := NewWatchdog(time.Minute)
	ran := false
	w.RegisterTask("a-broken", func(context.Context) error { panic("boom") })
	w.RegisterTask("b-fine", func(context.Context) error { ran = true; return nil })

	require.NotPanics(t, func() { w.RunOnce(context.Background()) })
	assert.True(t, ran)
	assert.False(t, w.IsHealthy("a-broken"))
}

func TestRunStopsOnCancel(t *testing.T) {
	w := NewWatchdog(5 * time.Millisecond)
	ticks := make(chan struct{}, 10)
	w.RegisterTask("tick", func(context.Context) error {
		select {
		case ticks <- struct{}{}:
		default:
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatal("task never ran")
	}
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestUnknownTaskIsUnhealthy(t *testing.T) {
	w := NewWatchdog(0)
	assert.False(t, w.IsHealthy("missing"))
	assert.True(t, w.LastRun("missing").IsZero())
}
