package metrics

import (
	"fmt"
	"sync/atomic"
	"time"
)

// MetricsRegistry holds the process-wide counters read by the status
// endpoint and the stats commands.
type MetricsRegistry struct {
	startTime    time.Time
	commandsUsed atomic.Uint64
	lastActivity atomic.Int64
	latency      *LatencySamples
	ingressRate  *IngressRateCounter
}

func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		startTime:   time.Now(),
		latency:     NewLatencySamples(),
		ingressRate: NewIngressRateCounter(),
	}
}

func (mr *MetricsRegistry) IncrementCommands() {
	mr.commandsUsed.Add(1)
	mr.lastActivity.Store(time.Now().Unix())
}

func (mr *MetricsRegistry) CommandsUsed() uint64 {
	return mr.commandsUsed.Load()
}

// LastActivity is the time of the last dispatched command, zero if none.
func (mr *MetricsRegistry) LastActivity() time.Time {
	ts := mr.lastActivity.Load()
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0)
}

func (mr *MetricsRegistry) Uptime() time.Duration {
	return time.Since(mr.startTime)
}

func (mr *MetricsRegistry) StartTime() time.Time {
	return mr.startTime
}

func (mr *MetricsRegistry) GetLatencySamples() *LatencySamples {
	return mr.latency
}

func (mr *MetricsRegistry) GetIngressRate() *IngressRateCounter {
	return mr.ingressRate
}

// FormatUptime renders d as "1d 2h 3m 4s", dropping leading zero units.
func FormatUptime(d time.Duration) string {
	d = d.Round(time.Second)
	days := int(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	hours := int(d / time.Hour)
	d -= time.Duration(hours) * time.Hour
	minutes := int(d / time.Minute)
	seconds := int((d - time.Duration(minutes)*time.Minute) / time.Second)

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
