package status

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/onevibe0405/Ferry/internal/metrics"
)

type fakeSource struct{ guilds, users int }

func (f fakeSource) Counts() (int, int) { return f.guilds, f.users }

func do(s *Server, method, path string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	s.Handler(&ctx)
	return &ctx
}

func TestStatusEndpoint(t *testing.T) {
	mr := metrics.NewMetricsRegistry()
	mr.IncrementCommands()
	mr.IncrementCommands()
	s := NewServer(fakeSource{guilds: 3, users: 120}, mr, nil, nil)

	ctx := do(s, "GET", "/api/status")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "application/json", string(ctx.Response.Header.ContentType()))

	var snap Snapshot
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &snap))
	assert.Equal(t, "online", snap.Status)
	assert.Equal(t, 3, snap.Guilds)
	assert.Equal(t, 120, snap.Users)
	assert.EqualValues(t, 2, snap.CommandsUsed)
	assert.NotEmpty(t, snap.Uptime)
}

func TestPingEndpoint(t *testing.T) {
	mr := metrics.NewMetricsRegistry()
	mr.GetLatencySamples().Record(40 * time.Millisecond)
	mr.GetLatencySamples().Record(60 * time.Millisecond)
	s := NewServer(nil, mr, func() time.Duration { return 55 * time.Millisecond }, nil)

	var report PingReport
	require.NoError(t, json.Unmarshal(do(s, "GET", "/api/ping").Response.Body(), &report))
	assert.EqualValues(t, 55, report.HeartbeatMS)
	assert.EqualValues(t, 50, report.AverageMS)
	assert.Equal(t, 2, report.Samples)
}

func TestHealthEndpoint(t *testing.T) {
	healthy := map[string]bool{"store": true}
	s := NewServer(nil, nil, nil, func() map[string]bool { return healthy })

	assert.Equal(t, fasthttp.StatusOK, do(s, "GET", "/health").Response.StatusCode())

	healthy["store"] = false
	assert.Equal(t, fasthttp.StatusServiceUnavailable, do(s, "GET", "/health").Response.StatusCode())
}

func TestRouting(t *testing.T) {
	s := NewServer(fakeSource{}, metrics.NewMetricsRegistry(), nil, nil)

	index := do(s, "GET", "/")
	assert.Equal(t, fasthttp.StatusOK, index.Response.StatusCode())
	assert.Contains(t, string(index.Response.Body()), "Ferry is online")

	assert.Equal(t, fasthttp.StatusNotFound, do(s, "GET", "/nope").Response.StatusCode())
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, do(s, "POST", "/api/status").Response.StatusCode())
}
