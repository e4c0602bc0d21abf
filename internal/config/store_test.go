package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

const ownerID = "957110332495630366"

func newTestStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()
	dir := t.TempDir()
	cfg := DefaultConfig().Store
	cfg.DataFile = filepath.Join(dir, "data.json")
	cfg.BackupFile = filepath.Join(dir, "data_backup.json")

	clock := &fakeClock{now: time.Now()}
	s := NewStore(cfg, ownerID)
	s.now = clock.Now
	return s, clock
}

func writeDoc(t *testing.T, path string, doc map[string]any) {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func completeDoc() map[string]any {
	doc := map[string]any{}
	for _, k := range documentKeys {
		doc[k] = map[string]any{}
	}
	doc["no_prefix_users"] = []any{}
	return doc
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestLoadMissingFileWritesDefaults(t *testing.T) {
	s, _ := newTestStore(t)

	doc := s.Load()

	assert.Equal(t, []Snowflake{ownerID}, doc.NoPrefixUsers)
	assert.Empty(t, doc.CustomCommands)
	assert.FileExists(t, s.path)
	assert.Equal(t, 1, s.writes)
	assert.True(t, s.IsNoPrefixUser(ownerID))
}

func TestLoadCorruptFileQuarantinesAndInstallsDefaults(t *testing.T) {
	s, clock := newTestStore(t)
	require.NoError(t, os.WriteFile(s.path, []byte("{not json"), 0644))

	doc := s.Load()

	assert.Equal(t, DefaultDocument(ownerID), doc)
	corrupt := CorruptBackupPath(s.path, clock.Now())
	assert.Equal(t, "{not json", readFile(t, corrupt))
	assert.Contains(t, filepath.Base(corrupt), "data_backup_corrupted_")

	var onDisk map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(readFile(t, s.path)), &onDisk))
	assert.Len(t, onDisk, len(documentKeys))
}

func TestLoadCorruptFileNotOverwrittenWhenBackupFails(t *testing.T) {
	s, clock := newTestStore(t)
	require.NoError(t, os.WriteFile(s.path, []byte("{not json"), 0644))
	// A directory at the backup path makes both the rename and the copy fail.
	require.NoError(t, os.Mkdir(CorruptBackupPath(s.path, clock.Now()), 0755))

	doc := s.Load()

	assert.Equal(t, DefaultDocument(ownerID), doc)
	assert.Equal(t, "{not json", readFile(t, s.path))
	assert.Equal(t, 0, s.writes)
}

func TestLoadFillsMissingSectionsAndPersists(t *testing.T) {
	s, _ := newTestStore(t)
	writeDoc(t, s.path, map[string]any{
		"guild_prefixes": map[string]any{"1": "?"},
	})

	doc := s.Load()

	assert.Equal(t, "?", doc.GuildPrefixes["1"])
	assert.NotNil(t, doc.Aliases)
	assert.Equal(t, 1, s.writes)

	var onDisk map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(readFile(t, s.path)), &onDisk))
	for _, k := range documentKeys {
		assert.Contains(t, onDisk, k)
	}
}

func TestLoadNormalizesLegacyRoleReferences(t *testing.T) {
	s, _ := newTestStore(t)
	raw := `{
		"no_prefix_users": [957110332495630366],
		"custom_commands": {"10": {
			"vip": 1234567890123456789,
			"mod": {"role_id": 1111111111111111111, "role_name": "Moderator"}
		}},
		"guild_prefixes": {},
		"embeds": {"10": {"hello": {"title": "Hi", "color": "#ff0000"}}},
		"welcome": {"10": {"enabled": true, "channel_id": 42, "embed_name": "hello"}},
		"autoroles": {"10": 2222222222222222222, "11": "33", "12": [44, "55", {"role_id": 66}]},
		"autoroles_bot": {},
		"aliases": {},
		"log_channels": {}
	}`
	require.NoError(t, os.WriteFile(s.path, []byte(raw), 0644))

	s.Load()

	vip, ok := s.CustomCommand("10", "VIP")
	require.True(t, ok)
	assert.Equal(t, Snowflake("1234567890123456789"), vip.RoleID)

	mod, ok := s.CustomCommand("10", "mod")
	require.True(t, ok)
	assert.Equal(t, CustomCommand{RoleID: "1111111111111111111", RoleName: "Moderator"}, mod)

	assert.Equal(t, []string{"2222222222222222222"}, s.Autoroles("10", false))
	assert.Equal(t, []string{"33"}, s.Autoroles("11", false))
	assert.Equal(t, []string{"44", "55", "66"}, s.Autoroles("12", false))
	assert.Empty(t, s.Autoroles("10", true))

	tpl, ok := s.EmbedTemplate("10", "hello")
	require.True(t, ok)
	assert.Equal(t, EmbedColor(0xff0000), tpl.Color)

	w, ok := s.Welcome("10")
	require.True(t, ok)
	assert.Equal(t, Snowflake("42"), w.ChannelID)
	assert.Equal(t, 0, s.writes)
}

func TestPersistIsRateLimited(t *testing.T) {
	s, clock := newTestStore(t)
	writeDoc(t, s.path, completeDoc())
	s.Load()
	require.Equal(t, 0, s.writes)

	s.SetPrefix("1", "a")
	s.SetPrefix("1", "b")
	s.SetPrefix("1", "c")

	assert.Equal(t, 1, s.writes)
	assert.True(t, s.Pending())
	assert.Contains(t, readFile(t, s.path), `"a"`)
	assert.NotContains(t, readFile(t, s.path), `"c"`)

	clock.Advance(10 * time.Second)
	require.NoError(t, s.Persist(true))
	assert.Equal(t, 2, s.writes)
	assert.False(t, s.Pending())
	assert.Contains(t, readFile(t, s.path), `"c"`)
}

func TestFlushPendingWaitsForWindow(t *testing.T) {
	s, clock := newTestStore(t)
	writeDoc(t, s.path, completeDoc())
	s.Load()

	s.SetAlias("1", "x", "addrole")
	s.SetAlias("1", "y", "addrole")
	require.Equal(t, 1, s.writes)

	require.NoError(t, s.FlushPending())
	assert.Equal(t, 1, s.writes)

	clock.Advance(31 * time.Second)
	require.NoError(t, s.FlushPending())
	assert.Equal(t, 2, s.writes)
	assert.Contains(t, readFile(t, s.path), `"y"`)

	require.NoError(t, s.FlushPending())
	assert.Equal(t, 2, s.writes)
}

func TestPersistCopiesStaleFileToBackup(t *testing.T) {
	s, clock := newTestStore(t)
	writeDoc(t, s.path, completeDoc())
	original := readFile(t, s.path)
	s.Load()

	clock.Advance(10 * time.Minute)
	s.SetPrefix("1", "?")

	assert.Equal(t, original, readFile(t, s.backupPath))
	assert.Contains(t, readFile(t, s.path), `"?"`)
}

func TestPersistSkipsBackupForFreshFile(t *testing.T) {
	s, _ := newTestStore(t)
	writeDoc(t, s.path, completeDoc())
	s.Load()

	s.SetPrefix("1", "?")
	assert.NoFileExists(t, s.backupPath)
}

func TestPersistWriteFailureIsReported(t *testing.T) {
	s, _ := newTestStore(t)
	s.path = filepath.Join(t.TempDir(), "missing", "data.json")

	err := s.Persist(true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "restore failed")
	assert.Equal(t, 0, s.writes)
}

func TestToggleNoPrefix(t *testing.T) {
	s, _ := newTestStore(t)
	s.Load()

	assert.True(t, s.ToggleNoPrefix("5"))
	assert.True(t, s.IsNoPrefixUser("5"))
	assert.Equal(t, []string{"5", ownerID}, s.NoPrefixUsers())

	assert.False(t, s.ToggleNoPrefix("5"))
	assert.False(t, s.IsNoPrefixUser("5"))
}

func TestSectionAccessorsDefaultForUnknownGuild(t *testing.T) {
	s, _ := newTestStore(t)
	s.Load()

	assert.Equal(t, "!", s.Prefix("999", "!"))
	_, ok := s.Alias("999", "x")
	assert.False(t, ok)
	assert.Empty(t, s.CustomCommands("999"))
	assert.Empty(t, s.Autoroles("999", true))
	assert.Empty(t, s.LogChannel("999"))
	assert.False(t, s.DeleteAlias("999", "x"))
}

func TestSnapshotIsDetached(t *testing.T) {
	s, _ := newTestStore(t)
	s.Load()
	s.SetCustomCommand("1", "vip", CustomCommand{RoleID: "7", RoleName: "VIP"})

	snap := s.Snapshot()
	snap.CustomCommands["1"]["vip"] = CustomCommand{RoleID: "8"}

	cmd, _ := s.CustomCommand("1", "vip")
	assert.Equal(t, Snowflake("7"), cmd.RoleID)
}
