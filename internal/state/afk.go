package state

import (
	"sync"
	"time"
)

type AFKEntry struct {
	Reason string
	Since  time.Time
}

type AFKTracker struct {
	mu      sync.RWMutex
	entries map[string]AFKEntry
}

func NewAFKTracker() *AFKTracker {
	return &AFKTracker{entries: make(map[string]AFKEntry)}
}

func (a *AFKTracker) Set(userID, reason string, since time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries[userID] = AFKEntry{Reason: reason, Since: since}
}

func (a *AFKTracker) Get(userID string) (AFKEntry, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	e, ok := a.entries[userID]
	return e, ok
}

// Clear removes and returns the entry for userID.
func (a *AFKTracker) Clear(userID string) (AFKEntry, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	e, ok := a.entries[userID]
	if ok {
		delete(a.entries, userID)
	}
	return e, ok
}
