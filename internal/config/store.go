package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/onevibe0405/Ferry/internal/logging"
)

// Store owns the persisted document. Reads are served from memory; every
// mutation schedules a rate-limited write of the whole document.
type Store struct {
	mu   sync.RWMutex
	doc  *Document
	seed []string

	noPrefix mapset.Set[string]

	path         string
	backupPath   string
	saveInterval time.Duration
	backupAge    time.Duration

	lastSave time.Time
	pending  bool
	writes   int

	now func() time.Time
}

// NewStore creates a store for cfg. seedNoPrefix ids are placed in the
// no-prefix set of a freshly created document.
func NewStore(cfg StoreConfig, seedNoPrefix ...string) *Store {
	backup := cfg.BackupFile
	if backup == "" {
		backup = filepath.Join(filepath.Dir(cfg.DataFile), "data_backup.json")
	}
	s := &Store{
		seed:         seedNoPrefix,
		path:         cfg.DataFile,
		backupPath:   backup,
		saveInterval: cfg.SaveInterval(),
		backupAge:    cfg.BackupAge(),
		now:          time.Now,
	}
	s.install(DefaultDocument(seedNoPrefix...))
	return s
}

func (s *Store) install(doc *Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	s.noPrefix = mapset.NewSet[string]()
	for _, id := range doc.NoPrefixUsers {
		s.noPrefix.Add(string(id))
	}
}

// Load reads the data file. It never fails: an absent file is replaced by
// defaults, an unparsable one is moved aside and replaced by defaults.
func (s *Store) Load() *Document {
	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logging.Info("store: %s not found, creating defaults", s.path)
		s.install(DefaultDocument(s.seed...))
		s.forcePersist()

	case err != nil:
		logging.Error("store: read %s failed, running on defaults: %v", s.path, err)
		s.install(DefaultDocument(s.seed...))

	default:
		doc, missing, err := decodeDocument(data, s.seed...)
		if err != nil {
			logging.Error("store: %s is corrupt: %v", s.path, err)
			preserved := s.quarantine()
			s.install(DefaultDocument(s.seed...))
			if preserved {
				s.forcePersist()
			} else {
				logging.Error("store: leaving %s untouched, running on defaults", s.path)
			}
			break
		}
		s.install(doc)
		if missing {
			logging.Info("store: filled missing sections in %s", s.path)
			s.forcePersist()
		}
	}

	return s.Snapshot()
}

// quarantine moves the corrupt file aside, copying it when the rename
// fails. It reports false if the content could not be preserved.
func (s *Store) quarantine() bool {
	target := CorruptBackupPath(s.path, s.now())
	if err := os.Rename(s.path, target); err != nil {
		logging.Warn("store: could not move corrupt file aside: %v", err)
		if err := copyFile(s.path, target); err != nil {
			logging.Error("store: could not copy corrupt file to %s: %v", target, err)
			return false
		}
	}
	logging.Warn("store: corrupt data preserved at %s", target)
	return true
}

// CorruptBackupPath returns <dir>/<base>_backup_corrupted_<unix><ext>.
func CorruptBackupPath(path string, at time.Time) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(filepath.Base(path), ext)
	return filepath.Join(filepath.Dir(path), fmt.Sprintf("%s_backup_corrupted_%d%s", base, at.Unix(), ext))
}

func (s *Store) forcePersist() {
	if err := s.Persist(true); err != nil {
		logging.Error("store: %v", err)
	}
}

// Persist writes the document. Without force, a call within the save
// interval of the previous write only marks the store as pending.
func (s *Store) Persist(force bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !force && !s.lastSave.IsZero() && now.Sub(s.lastSave) < s.saveInterval {
		s.pending = true
		return nil
	}
	return s.writeLocked(now)
}

// FlushPending writes a pending change once the save interval has passed.
func (s *Store) FlushPending() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pending {
		return nil
	}
	now := s.now()
	if now.Sub(s.lastSave) < s.saveInterval {
		return nil
	}
	return s.writeLocked(now)
}

func (s *Store) Pending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending
}

func (s *Store) writeLocked(now time.Time) error {
	s.doc.NoPrefixUsers = sortedSnowflakes(s.noPrefix)

	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	if info, err := os.Stat(s.path); err == nil && now.Sub(info.ModTime()) > s.backupAge {
		if err := copyFile(s.path, s.backupPath); err != nil {
			logging.Warn("store: backup to %s failed: %v", s.backupPath, err)
		}
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		if rerr := s.restoreBackup(); rerr != nil {
			return fmt.Errorf("write %s: %w (restore failed: %v)", s.path, err, rerr)
		}
		return fmt.Errorf("write %s: %w (previous backup restored)", s.path, err)
	}

	s.lastSave = now
	s.pending = false
	s.writes++
	return nil
}

func (s *Store) restoreBackup() error {
	if _, err := os.Stat(s.backupPath); err != nil {
		return fmt.Errorf("no backup: %w", err)
	}
	return copyFile(s.backupPath, s.path)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := *s.doc
	doc.NoPrefixUsers = sortedSnowflakes(s.noPrefix)
	data, err := json.Marshal(&doc)
	if err != nil {
		return DefaultDocument()
	}
	out := &Document{}
	if err := json.Unmarshal(data, out); err != nil {
		return DefaultDocument()
	}
	out.fillNil()
	return out
}

// update applies fn under the write lock and schedules a persist.
func (s *Store) update(fn func(doc *Document)) {
	s.mu.Lock()
	fn(s.doc)
	s.mu.Unlock()

	if err := s.Persist(false); err != nil {
		logging.Error("store: %v", err)
	}
}

func sortedSnowflakes(set mapset.Set[string]) []Snowflake {
	ids := set.ToSlice()
	sort.Strings(ids)
	out := make([]Snowflake, len(ids))
	for i, id := range ids {
		out[i] = Snowflake(id)
	}
	return out
}
