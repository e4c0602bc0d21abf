// Package watchdog runs the bot's periodic maintenance tasks and tracks
// whether each one is still completing.
package watchdog

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/onevibe0405/Ferry/internal/logging"
)

// TaskFunc is one maintenance step. A returned error marks the task
// unhealthy until it next succeeds.
type TaskFunc func(ctx context.Context) error

type Watchdog struct {
	mu             sync.RWMutex
	components     map[string]*ComponentHealth
	checkInterval  time.Duration
	running        uint32
	alertThreshold int
	now            func() time.Time
}

type ComponentHealth struct {
	Name          string
	LastHeartbeat int64
	IsHealthy     uint32
	Failures      int32
	LastError     atomic.Value
	task          TaskFunc
}

func NewWatchdog(checkInterval time.Duration) *Watchdog {
	if checkInterval <= 0 {
		checkInterval = time.Minute
	}
	return &Watchdog{
		components:     make(map[string]*ComponentHealth),
		checkInterval:  checkInterval,
		alertThreshold: 3,
		now:            time.Now,
	}
}

// RegisterTask adds a named task. Registering a name twice replaces it.
func (w *Watchdog) RegisterTask(name string, fn TaskFunc) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.components[name] = &ComponentHealth{
		Name:      name,
		IsHealthy: 1,
		task:      fn,
	}
}

// Heartbeat marks name as alive without running its task.
func (w *Watchdog) Heartbeat(name string) {
	w.mu.RLock()
	comp, exists := w.components[name]
	w.mu.RUnlock()
	if exists {
		atomic.StoreInt64(&comp.LastHeartbeat, w.now().UnixNano())
		atomic.StoreUint32(&comp.IsHealthy, 1)
		atomic.StoreInt32(&comp.Failures, 0)
	}
}

// Run executes every task once per interval until ctx is cancelled.
func (w *Watchdog) Run(ctx context.Context) error {
	if !atomic.CompareAndSwapUint32(&w.running, 0, 1) {
		return nil
	}
	defer atomic.StoreUint32(&w.running, 0)

	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	logging.Info("Watchdog started (%d tasks every %v)", len(w.names()), w.checkInterval)
	for {
		select {
		case <-ctx.Done():
			logging.Info("Watchdog stopped")
			return nil
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce runs all tasks sequentially in name order.
func (w *Watchdog) RunOnce(ctx context.Context) {
	for _, name := range w.names() {
		if ctx.Err() != nil {
			return
		}
		w.runTask(ctx, name)
	}
}

func (w *Watchdog) runTask(ctx context.Context, name string) {
	w.mu.RLock()
	comp := w.components[name]
	w.mu.RUnlock()
	if comp == nil || comp.task == nil {
		return
	}

	err := safeCall(ctx, comp.task)
	if err == nil {
		w.Heartbeat(name)
		return
	}

	comp.LastError.Store(err.Error())
	failures := atomic.AddInt32(&comp.Failures, 1)
	atomic.StoreUint32(&comp.IsHealthy, 0)
	if int(failures) >= w.alertThreshold {
		logging.Error("Watchdog: %s failed %d times in a row: %v", name, failures, err)
	} else {
		logging.Warn("Watchdog: %s failed: %v", name, err)
	}
}

func safeCall(ctx context.Context, fn TaskFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return fn(ctx)
}

func (w *Watchdog) IsHealthy(name string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if comp, exists := w.components[name]; exists {
		return atomic.LoadUint32(&comp.IsHealthy) == 1
	}
	return false
}

// LastRun reports when name last completed successfully.
func (w *Watchdog) LastRun(name string) time.Time {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if comp, exists := w.components[name]; exists {
		if ns := atomic.LoadInt64(&comp.LastHeartbeat); ns != 0 {
			return time.Unix(0, ns)
		}
	}
	return time.Time{}
}

func (w *Watchdog) GetStatus() map[string]bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	status := make(map[string]bool, len(w.components))
	for name, comp := range w.components {
		status[name] = atomic.LoadUint32(&comp.IsHealthy) == 1
	}
	return status
}

func (w *Watchdog) names() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	names := make([]string, 0, len(w.components))
	for name := range w.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
