package state

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onevibe0405/Ferry/internal/config"
)

type stepClock struct{ t time.Time }

func (c *stepClock) Now() time.Time { return c.t }

func TestRateWindowRollsOver(t *testing.T) {
	clock := &stepClock{t: time.Unix(1000, 0)}
	rw := NewRateWindow(2, 10*time.Second)
	rw.now = clock.Now

	assert.True(t, rw.Allow())
	assert.True(t, rw.Allow())
	assert.False(t, rw.Allow())

	clock.t = clock.t.Add(11 * time.Second)
	assert.True(t, rw.Allow())
}

func TestUserRateLimiterIsPerUserAndSweeps(t *testing.T) {
	clock := &stepClock{t: time.Unix(1000, 0)}
	ul := NewUserRateLimiter(1, 5*time.Second)
	ul.now = clock.Now

	assert.True(t, ul.Allow("a"))
	assert.False(t, ul.Allow("a"))
	assert.True(t, ul.Allow("b"))
	assert.Equal(t, 2, ul.Len())

	clock.t = clock.t.Add(6 * time.Second)
	assert.Equal(t, 2, ul.Sweep())
	assert.Equal(t, 0, ul.Len())
	assert.True(t, ul.Allow("a"))
}

func TestCooldownManager(t *testing.T) {
	cm := NewCooldownManager(30 * time.Second)
	assert.True(t, cm.TryAcquire("u1"))
	assert.False(t, cm.TryAcquire("u1"))
	assert.True(t, cm.CanExecute("u2"))
	assert.Greater(t, cm.GetRemainingCooldown("u1"), 25*time.Second)

	short := NewCooldownManager(time.Millisecond)
	short.RecordExecution("u1")
	time.Sleep(5 * time.Millisecond)
	assert.True(t, short.CanExecute("u1"))
	short.DeleteExpired()
	assert.Equal(t, 0, short.Len())
}

func TestCooldownManagerConcurrentAcquire(t *testing.T) {
	cm := NewCooldownManager(time.Minute)
	var wins atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if cm.TryAcquire("guild:channel") {
				wins.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestAFKTracker(t *testing.T) {
	a := NewAFKTracker()
	since := time.Unix(50, 0)
	a.Set("u", "lunch", since)

	e, ok := a.Get("u")
	require.True(t, ok)
	assert.Equal(t, "lunch", e.Reason)

	e, ok = a.Clear("u")
	require.True(t, ok)
	assert.Equal(t, since, e.Since)

	_, ok = a.Clear("u")
	assert.False(t, ok)
}

func TestSnipeBufferKeepsLastTen(t *testing.T) {
	sb := NewSnipeBuffer()
	for i := 1; i <= 12; i++ {
		sb.Push("g", DeletedMessage{Content: fmt.Sprintf("m%d", i)})
	}

	assert.Equal(t, SnipeDepth, sb.Len("g"))

	latest, ok := sb.Get("g", 1)
	require.True(t, ok)
	assert.Equal(t, "m12", latest.Content)

	oldest, ok := sb.Get("g", 10)
	require.True(t, ok)
	assert.Equal(t, "m3", oldest.Content)

	_, ok = sb.Get("g", 11)
	assert.False(t, ok)
	_, ok = sb.Get("other", 1)
	assert.False(t, ok)
}

func TestNewRuntimeUsesLimits(t *testing.T) {
	limits := config.DefaultConfig().Limits
	limits.GlobalMessages = 1

	r := NewRuntime(limits)
	assert.True(t, r.Throughput.Allow())
	assert.False(t, r.Throughput.Allow())
	r.Sweep()
}
