package commands

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/onevibe0405/Ferry/internal/metrics"
	"github.com/onevibe0405/Ferry/internal/notifier"
)

// SystemStats holds host, runtime and bot figures for the stats command.
type SystemStats struct {
	Hostname       string
	Platform       string
	HostUptime     time.Duration
	CPUModel       string
	CPUThreads     int
	CPUUsage       float64
	TotalMemory    uint64
	UsedMemory     uint64
	MemoryPct      float64
	GoVersion      string
	Goroutines     int
	HeapAlloc      uint64
	BotUptime      time.Duration
	Guilds         int
	Users          int
	CommandsUsed   uint64
	MessagesPerMin float64
	Latency        time.Duration
}

const cpuSampleWindow = 200 * time.Millisecond

func gatherSystemStats(c *Context) *SystemStats {
	stats := &SystemStats{
		CPUThreads: runtime.NumCPU(),
		GoVersion:  runtime.Version(),
		Goroutines: runtime.NumGoroutine(),
		Latency:    c.Client.HeartbeatLatency(),
	}

	if info, err := host.Info(); err == nil {
		stats.Hostname = info.Hostname
		stats.Platform = strings.TrimSpace(info.Platform + " " + info.PlatformVersion)
		stats.HostUptime = time.Duration(info.Uptime) * time.Second
	}
	if info, err := cpu.Info(); err == nil && len(info) > 0 {
		stats.CPUModel = info[0].ModelName
	}
	if pct, err := cpu.Percent(cpuSampleWindow, false); err == nil && len(pct) > 0 {
		stats.CPUUsage = pct[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats.TotalMemory = vm.Total
		stats.UsedMemory = vm.Used
		stats.MemoryPct = vm.UsedPercent
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	stats.HeapAlloc = m.HeapAlloc

	if c.Metrics != nil {
		stats.BotUptime = c.Metrics.Uptime()
		stats.CommandsUsed = c.Metrics.CommandsUsed()
		stats.MessagesPerMin = c.Metrics.GetIngressRate().PerMinute()
	}
	if c.Counter != nil {
		stats.Guilds, stats.Users = c.Counter.Counts()
	}
	return stats
}

func runStats(c *Context) error {
	s := gatherSystemStats(c)
	embed := notifier.Info("📊 Statistics", "")
	embed.Fields = []*discordgo.MessageEmbedField{
		{
			Name: "🤖 Bot",
			Value: fmt.Sprintf("**Uptime:** `%s`\n**Servers:** `%d`\n**Users:** `%d`\n**Commands:** `%d`\n**Messages:** `%.1f/min`\n**Latency:** `%dms`",
				metrics.FormatUptime(s.BotUptime), s.Guilds, s.Users, s.CommandsUsed, s.MessagesPerMin, s.Latency.Milliseconds()),
			Inline: true,
		},
		{
			Name: "🔷 Go Runtime",
			Value: fmt.Sprintf("**Version:** `%s`\n**Goroutines:** `%d`\n**Heap:** `%s`",
				s.GoVersion, s.Goroutines, formatBytes(s.HeapAlloc)),
			Inline: true,
		},
		{
			Name: "🖥️ Host",
			Value: fmt.Sprintf("**Name:** `%s`\n**Platform:** `%s`\n**Uptime:** `%s`",
				orUnknown(s.Hostname), orUnknown(s.Platform), metrics.FormatUptime(s.HostUptime)),
			Inline: false,
		},
		{
			Name: "⚡ CPU",
			Value: fmt.Sprintf("**Model:** `%s`\n**Threads:** `%d`\n**Usage:** `%.1f%%` %s",
				truncate(orUnknown(s.CPUModel), 40), s.CPUThreads, s.CPUUsage, progressBar(s.CPUUsage)),
			Inline: true,
		},
		{
			Name: "💾 Memory",
			Value: fmt.Sprintf("**Used:** `%s` of `%s`\n**Usage:** `%.1f%%` %s",
				formatBytes(s.UsedMemory), formatBytes(s.TotalMemory), s.MemoryPct, progressBar(s.MemoryPct)),
			Inline: true,
		},
	}
	return c.Reply(embed)
}

func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// progressBar renders a 0..100 percentage as ten cells.
func progressBar(percent float64) string {
	filled := int(percent / 10)
	if filled < 0 {
		filled = 0
	}
	if filled > 10 {
		filled = 10
	}
	return "`" + strings.Repeat("█", filled) + strings.Repeat("░", 10-filled) + "`"
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
