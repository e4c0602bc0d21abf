package metrics

import (
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// IngressRateCounter counts inbound messages. Rate is recomputed on each
// Sample call, so it reads as messages per minute over the last sampling
// period.
type IngressRateCounter struct {
	total atomic.Uint64
	rate  atomic.Uint64 // float64 bits

	mu         sync.Mutex
	lastTotal  uint64
	lastSample time.Time
}

func NewIngressRateCounter() *IngressRateCounter {
	return &IngressRateCounter{lastSample: time.Now()}
}

func (irc *IngressRateCounter) Increment() {
	irc.total.Add(1)
}

func (irc *IngressRateCounter) GetCount() uint64 {
	return irc.total.Load()
}

// Sample closes the current period at now and stores its rate.
func (irc *IngressRateCounter) Sample(now time.Time) float64 {
	irc.mu.Lock()
	defer irc.mu.Unlock()

	total := irc.total.Load()
	elapsed := now.Sub(irc.lastSample)
	if elapsed <= 0 {
		return irc.PerMinute()
	}

	perMinute := float64(total-irc.lastTotal) / elapsed.Minutes()
	irc.lastTotal = total
	irc.lastSample = now
	irc.rate.Store(math.Float64bits(perMinute))
	return perMinute
}

// PerMinute is the rate from the last Sample, zero before the first one.
func (irc *IngressRateCounter) PerMinute() float64 {
	return math.Float64frombits(irc.rate.Load())
}
