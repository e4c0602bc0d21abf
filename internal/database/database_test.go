package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "ferry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestActionLogRoundTripNewestFirst(t *testing.T) {
	d := openTestDB(t)

	require.NoError(t, d.LogAction(&ActionLog{GuildID: "g", Action: "role_add", ActorID: "1", TargetID: "2", Success: true, Timestamp: 100}))
	require.NoError(t, d.LogAction(&ActionLog{GuildID: "g", Action: "role_remove", Timestamp: 200}))
	require.NoError(t, d.LogAction(&ActionLog{GuildID: "other", Action: "role_add", Timestamp: 300}))

	logs, err := d.GetRecentActions("g", 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "role_remove", logs[0].Action)
	assert.False(t, logs[0].Success)
	assert.Equal(t, "role_add", logs[1].Action)
	assert.True(t, logs[1].Success)

	logs, err = d.GetRecentActions("g", 1)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestPruneActions(t *testing.T) {
	d := openTestDB(t)
	require.NoError(t, d.LogAction(&ActionLog{GuildID: "g", Action: "old", Timestamp: 10}))
	require.NoError(t, d.LogAction(&ActionLog{GuildID: "g", Action: "new"}))

	n, err := d.PruneActions(time.Unix(1000, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	logs, err := d.GetRecentActions("g", 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "new", logs[0].Action)
}

func TestWarnings(t *testing.T) {
	d := openTestDB(t)
	require.NoError(t, d.AddWarning(&Warning{GuildID: "g", UserID: "u", ModeratorID: "m", Reason: "spam"}))
	require.NoError(t, d.AddWarning(&Warning{GuildID: "g", UserID: "u", ModeratorID: "m", Reason: "caps"}))
	require.NoError(t, d.AddWarning(&Warning{GuildID: "g", UserID: "x", ModeratorID: "m"}))

	warnings, err := d.GetWarnings("g", "u")
	require.NoError(t, err)
	require.Len(t, warnings, 2)
	assert.Equal(t, "spam", warnings[0].Reason)
	assert.NotZero(t, warnings[0].CreatedAt)

	n, err := d.ClearWarnings("g", "u")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	warnings, err = d.GetWarnings("g", "u")
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestGlobalLifecycle(t *testing.T) {
	require.NoError(t, Initialize(filepath.Join(t.TempDir(), "global.db")))
	assert.NotNil(t, GetDB())
	require.NoError(t, Close())
	assert.Nil(t, GetDB())
}
