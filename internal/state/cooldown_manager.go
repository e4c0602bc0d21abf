package state

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// CooldownManager tracks per-key cooldowns. Entries expire on their own;
// DeleteExpired drops them from memory.
type CooldownManager struct {
	entries  *ttlcache.Cache[string, struct{}]
	duration time.Duration
}

func NewCooldownManager(duration time.Duration) *CooldownManager {
	return &CooldownManager{
		entries: ttlcache.New[string, struct{}](
			ttlcache.WithTTL[string, struct{}](duration),
			ttlcache.WithDisableTouchOnHit[string, struct{}](),
		),
		duration: duration,
	}
}

func (cm *CooldownManager) CanExecute(key string) bool {
	return cm.entries.Get(key) == nil
}

func (cm *CooldownManager) RecordExecution(key string) {
	cm.entries.Set(key, struct{}{}, ttlcache.DefaultTTL)
}

// TryAcquire records an execution if key is not cooling down. Concurrent
// callers for the same key see exactly one success.
func (cm *CooldownManager) TryAcquire(key string) bool {
	_, found := cm.entries.GetOrSet(key, struct{}{})
	return !found
}

func (cm *CooldownManager) GetRemainingCooldown(key string) time.Duration {
	item := cm.entries.Get(key)
	if item == nil {
		return 0
	}
	remaining := time.Until(item.ExpiresAt())
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (cm *CooldownManager) DeleteExpired() {
	cm.entries.DeleteExpired()
}

func (cm *CooldownManager) Len() int {
	return cm.entries.Len()
}
