package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type Database struct {
	db *sql.DB
}

var globalDB *Database

// Open creates or opens the SQLite database at dbPath and ensures the schema.
func Open(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	d := &Database{db: db}
	if err := d.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return d, nil
}

// Initialize opens the process-wide database.
func Initialize(dbPath string) error {
	d, err := Open(dbPath)
	if err != nil {
		return err
	}
	globalDB = d
	return nil
}

// GetDB returns the global database instance
func GetDB() *Database {
	return globalDB
}

// Close closes the global database connection
func Close() error {
	if globalDB != nil {
		err := globalDB.Close()
		globalDB = nil
		return err
	}
	return nil
}

func (d *Database) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *Database) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS action_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		guild_id TEXT NOT NULL,
		action TEXT NOT NULL,
		actor_id TEXT NOT NULL DEFAULT '',
		target_id TEXT NOT NULL DEFAULT '',
		detail TEXT NOT NULL DEFAULT '',
		success INTEGER NOT NULL DEFAULT 1,
		timestamp INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_action_logs_guild ON action_logs(guild_id);
	CREATE INDEX IF NOT EXISTS idx_action_logs_timestamp ON action_logs(timestamp);

	CREATE TABLE IF NOT EXISTS warnings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		guild_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		moderator_id TEXT NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_warnings_member ON warnings(guild_id, user_id);
	`

	_, err := d.db.Exec(schema)
	return err
}

// LogAction records a moderation action.
func (d *Database) LogAction(entry *ActionLog) error {
	if entry.Timestamp == 0 {
		entry.Timestamp = time.Now().Unix()
	}

	res, err := d.db.Exec(
		`INSERT INTO action_logs (guild_id, action, actor_id, target_id, detail, success, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.GuildID, entry.Action, entry.ActorID, entry.TargetID, entry.Detail, entry.Success, entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert action log: %w", err)
	}
	entry.ID, _ = res.LastInsertId()
	return nil
}

// GetRecentActions returns the newest actions for a guild first.
func (d *Database) GetRecentActions(guildID string, limit int) ([]*ActionLog, error) {
	rows, err := d.db.Query(
		`SELECT id, guild_id, action, actor_id, target_id, detail, success, timestamp
		 FROM action_logs WHERE guild_id = ? ORDER BY timestamp DESC, id DESC LIMIT ?`,
		guildID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*ActionLog
	for rows.Next() {
		var log ActionLog
		if err := rows.Scan(&log.ID, &log.GuildID, &log.Action, &log.ActorID, &log.TargetID, &log.Detail, &log.Success, &log.Timestamp); err != nil {
			return nil, err
		}
		logs = append(logs, &log)
	}

	return logs, rows.Err()
}

// PruneActions deletes actions older than cutoff and returns the count.
func (d *Database) PruneActions(cutoff time.Time) (int64, error) {
	res, err := d.db.Exec(`DELETE FROM action_logs WHERE timestamp < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("prune action logs: %w", err)
	}
	return res.RowsAffected()
}

func (d *Database) AddWarning(w *Warning) error {
	if w.CreatedAt == 0 {
		w.CreatedAt = time.Now().Unix()
	}

	res, err := d.db.Exec(
		`INSERT INTO warnings (guild_id, user_id, moderator_id, reason, created_at) VALUES (?, ?, ?, ?, ?)`,
		w.GuildID, w.UserID, w.ModeratorID, w.Reason, w.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert warning: %w", err)
	}
	w.ID, _ = res.LastInsertId()
	return nil
}

// GetWarnings returns a member's warnings, oldest first.
func (d *Database) GetWarnings(guildID, userID string) ([]*Warning, error) {
	rows, err := d.db.Query(
		`SELECT id, guild_id, user_id, moderator_id, reason, created_at
		 FROM warnings WHERE guild_id = ? AND user_id = ? ORDER BY id`,
		guildID, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var warnings []*Warning
	for rows.Next() {
		var w Warning
		if err := rows.Scan(&w.ID, &w.GuildID, &w.UserID, &w.ModeratorID, &w.Reason, &w.CreatedAt); err != nil {
			return nil, err
		}
		warnings = append(warnings, &w)
	}

	return warnings, rows.Err()
}

func (d *Database) ClearWarnings(guildID, userID string) (int64, error) {
	res, err := d.db.Exec(`DELETE FROM warnings WHERE guild_id = ? AND user_id = ?`, guildID, userID)
	if err != nil {
		return 0, fmt.Errorf("clear warnings: %w", err)
	}
	return res.RowsAffected()
}
