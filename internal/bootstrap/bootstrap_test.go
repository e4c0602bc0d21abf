package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onevibe0405/Ferry/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Bot.Token = "test-token"
	cfg.Store.DataFile = filepath.Join(dir, "data.json")
	cfg.Store.BackupFile = filepath.Join(dir, "data_backup.json")
	cfg.Database.Path = filepath.Join(dir, "ferry.db")
	return cfg
}

func TestWireBuildsEveryComponent(t *testing.T) {
	b := New()
	b.Config = testConfig(t)

	require.NoError(t, Wire(b))
	c := b.Components

	assert.NotNil(t, c.Store)
	assert.NotNil(t, c.DB)
	assert.NotNil(t, c.Session)
	assert.NotNil(t, c.Handler)
	assert.NotNil(t, c.Status)
	assert.True(t, c.Registry.Has("help"))

	status := c.Watchdog.GetStatus()
	for _, name := range []string{"metrics_sample", "store_flush", "cache_sweep", "action_prune"} {
		assert.Contains(t, status, name)
	}

	c.Watchdog.RunOnce(context.Background())
	for name, healthy := range c.Watchdog.GetStatus() {
		assert.True(t, healthy, name)
	}

	require.NoError(t, Shutdown(c))
	_, err := os.Stat(b.Config.Store.DataFile)
	assert.NoError(t, err)
}

func TestWireWithoutDatabaseOrStatus(t *testing.T) {
	b := New()
	b.Config = testConfig(t)
	b.Config.Database.Path = ""
	b.Config.Status.Enabled = false

	require.NoError(t, Wire(b))
	assert.Nil(t, b.Components.DB)
	assert.Nil(t, b.Components.Status)
	assert.NotContains(t, b.Components.Watchdog.GetStatus(), "action_prune")
	require.NoError(t, Shutdown(b.Components))
}

func TestWireRequiresToken(t *testing.T) {
	b := New()
	b.Config = testConfig(t)
	b.Config.Bot.Token = ""

	assert.Error(t, Wire(b))
}

func TestStartRequiresInitialize(t *testing.T) {
	assert.Error(t, New().Start(context.Background()))
}
