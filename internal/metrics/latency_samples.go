package metrics

import (
	"sync"
	"time"
)

const LatencySampleSize = 100

// LatencySamples is a ring of the most recent gateway latency samples.
type LatencySamples struct {
	mu      sync.RWMutex
	samples [LatencySampleSize]time.Duration
	head    int
	count   int
}

func NewLatencySamples() *LatencySamples {
	return &LatencySamples{}
}

func (ls *LatencySamples) Record(d time.Duration) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	ls.samples[ls.head] = d
	ls.head = (ls.head + 1) % LatencySampleSize
	if ls.count < LatencySampleSize {
		ls.count++
	}
}

func (ls *LatencySamples) GetStats() LatencyStats {
	ls.mu.RLock()
	defer ls.mu.RUnlock()

	if ls.count == 0 {
		return LatencyStats{}
	}

	stats := LatencyStats{Count: ls.count}
	var sum time.Duration
	for i := 0; i < ls.count; i++ {
		d := ls.samples[i]
		sum += d
		if stats.Min == 0 || d < stats.Min {
			stats.Min = d
		}
		if d > stats.Max {
			stats.Max = d
		}
	}
	stats.Avg = sum / time.Duration(ls.count)
	stats.Last = ls.samples[(ls.head-1+LatencySampleSize)%LatencySampleSize]
	return stats
}

type LatencyStats struct {
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
	Last  time.Duration
	Count int
}
