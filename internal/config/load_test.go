package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingConfigUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	assert.Equal(t, "!", cfg.Bot.DefaultPrefix)
	assert.Equal(t, 30, cfg.Store.SaveIntervalSec)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"bot": {"default_prefix": "?"}}`), 0644))

	t.Setenv("DISCORD_TOKEN", "abc")
	t.Setenv("FERRY_STATUS_ADDR", ":9000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "?", cfg.Bot.DefaultPrefix)
	assert.Equal(t, "abc", cfg.Bot.Token)
	assert.Equal(t, ":9000", cfg.Status.Addr)
	assert.Equal(t, 5, cfg.Limits.UserCommands)
}

func TestLoadRejectsEmptyPrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"bot": {"default_prefix": ""}}`), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("FERRY_PREFIX=$\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("FERRY_PREFIX") })

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "$", os.Getenv("FERRY_PREFIX"))
	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")))
}
