// Package status serves a small read-only HTTP view of the bot's runtime
// counters.
package status

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/onevibe0405/Ferry/internal/logging"
	"github.com/onevibe0405/Ferry/internal/metrics"
)

// Source reports how many guilds and users the bot can see.
type Source interface {
	Counts() (guilds, users int)
}

type Snapshot struct {
	Status            string  `json:"status"`
	Guilds            int     `json:"guilds"`
	Users             int     `json:"users"`
	CommandsUsed      uint64  `json:"commands_used"`
	Uptime            string  `json:"uptime"`
	UptimeSeconds     int64   `json:"uptime_seconds"`
	MessagesPerMinute float64 `json:"messages_per_minute"`
}

type PingReport struct {
	HeartbeatMS int64 `json:"heartbeat_ms"`
	AverageMS   int64 `json:"average_ms"`
	MinMS       int64 `json:"min_ms"`
	MaxMS       int64 `json:"max_ms"`
	Samples     int   `json:"samples"`
}

type Server struct {
	source  Source
	metrics *metrics.MetricsRegistry
	latency func() time.Duration
	health  func() map[string]bool
	srv     *fasthttp.Server
}

// NewServer builds the status server. latency and health may be nil.
func NewServer(source Source, mr *metrics.MetricsRegistry, latency func() time.Duration, health func() map[string]bool) *Server {
	s := &Server{source: source, metrics: mr, latency: latency, health: health}
	s.srv = &fasthttp.Server{
		Handler:               s.Handler,
		Name:                  "ferry",
		ReadTimeout:           5 * time.Second,
		WriteTimeout:          5 * time.Second,
		IdleTimeout:           30 * time.Second,
		NoDefaultServerHeader: true,
	}
	return s
}

// Run listens on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("status listen on %s: %w", addr, err)
	}
	logging.Info("Status server listening on %s", ln.Addr())

	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.ShutdownWithContext(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) Handler(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() && !ctx.IsHead() {
		ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
		return
	}

	switch string(ctx.Path()) {
	case "/":
		s.handleIndex(ctx)
	case "/api/status":
		writeJSON(ctx, s.Snapshot())
	case "/api/ping":
		writeJSON(ctx, s.Ping())
	case "/health":
		s.handleHealth(ctx)
	default:
		ctx.Error("not found", fasthttp.StatusNotFound)
	}
}

func (s *Server) Snapshot() Snapshot {
	snap := Snapshot{Status: "online"}
	if s.source != nil {
		snap.Guilds, snap.Users = s.source.Counts()
	}
	if s.metrics != nil {
		up := s.metrics.Uptime()
		snap.CommandsUsed = s.metrics.CommandsUsed()
		snap.Uptime = metrics.FormatUptime(up)
		snap.UptimeSeconds = int64(up / time.Second)
		snap.MessagesPerMinute = s.metrics.GetIngressRate().PerMinute()
	}
	return snap
}

func (s *Server) Ping() PingReport {
	var report PingReport
	if s.latency != nil {
		report.HeartbeatMS = s.latency().Milliseconds()
	}
	if s.metrics != nil {
		stats := s.metrics.GetLatencySamples().GetStats()
		report.AverageMS = stats.Avg.Milliseconds()
		report.MinMS = stats.Min.Milliseconds()
		report.MaxMS = stats.Max.Milliseconds()
		report.Samples = stats.Count
	}
	return report
}

func (s *Server) handleHealth(ctx *fasthttp.RequestCtx) {
	status := map[string]bool{}
	if s.health != nil {
		status = s.health()
	}
	code := fasthttp.StatusOK
	for _, ok := range status {
		if !ok {
			code = fasthttp.StatusServiceUnavailable
		}
	}
	ctx.SetStatusCode(code)
	writeJSON(ctx, map[string]interface{}{"healthy": code == fasthttp.StatusOK, "components": status})
}

func (s *Server) handleIndex(ctx *fasthttp.RequestCtx) {
	snap := s.Snapshot()
	ctx.SetContentType("text/html; charset=utf-8")
	fmt.Fprintf(ctx, indexPage, snap.Status, snap.Guilds, snap.Users, snap.CommandsUsed, snap.Uptime)
}

func writeJSON(ctx *fasthttp.RequestCtx, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		ctx.Error("encode failed", fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

const indexPage = `<!doctype html>
<html><head><title>Ferry</title></head>
<body>
<h1>Ferry is %s</h1>
<ul>
<li>Servers: %d</li>
<li>Users: %d</li>
<li>Commands used: %d</li>
<li>Uptime: %s</li>
</ul>
</body></html>
`
