package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Bot      BotConfig      `json:"bot"`
	Store    StoreConfig    `json:"store"`
	Limits   LimitsConfig   `json:"limits"`
	Database DatabaseConfig `json:"database"`
	Status   StatusConfig   `json:"status"`
	Logging  LoggingConfig  `json:"logging"`
}

type BotConfig struct {
	Token              string `json:"token"`
	DefaultPrefix      string `json:"default_prefix"`
	OwnerID            string `json:"owner_id"`
	RequestTimeoutMS   int    `json:"request_timeout_ms"`
	ConnectAttempts    int    `json:"connect_attempts"`
	ConnectBaseDelayMS int    `json:"connect_base_delay_ms"`
	ConnectMaxDelayMS  int    `json:"connect_max_delay_ms"`
	MessageCacheSize   int    `json:"message_cache_size"`
}

type StoreConfig struct {
	DataFile        string `json:"data_file"`
	BackupFile      string `json:"backup_file"`
	SaveIntervalSec int    `json:"save_interval_sec"`
	BackupAgeSec    int    `json:"backup_age_sec"`
}

type LimitsConfig struct {
	GlobalMessages      int `json:"global_messages"`
	GlobalWindowSec     int `json:"global_window_sec"`
	UserCommands        int `json:"user_commands"`
	UserWindowSec       int `json:"user_window_sec"`
	MentionCooldownSec  int `json:"mention_cooldown_sec"`
	WatchdogIntervalSec int `json:"watchdog_interval_sec"`
}

type DatabaseConfig struct {
	Path          string `json:"path"`
	RetentionDays int    `json:"retention_days"`
}

// Retention is how long action log rows are kept. Zero keeps them forever.
func (d DatabaseConfig) Retention() time.Duration {
	return time.Duration(d.RetentionDays) * 24 * time.Hour
}

type StatusConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
}

type LoggingConfig struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

func (b BotConfig) RequestTimeout() time.Duration {
	return time.Duration(b.RequestTimeoutMS) * time.Millisecond
}

func (b BotConfig) ConnectBaseDelay() time.Duration {
	return time.Duration(b.ConnectBaseDelayMS) * time.Millisecond
}

func (b BotConfig) ConnectMaxDelay() time.Duration {
	return time.Duration(b.ConnectMaxDelayMS) * time.Millisecond
}

func (s StoreConfig) SaveInterval() time.Duration {
	return time.Duration(s.SaveIntervalSec) * time.Second
}

func (s StoreConfig) BackupAge() time.Duration {
	return time.Duration(s.BackupAgeSec) * time.Second
}

func (l LimitsConfig) GlobalWindow() time.Duration {
	return time.Duration(l.GlobalWindowSec) * time.Second
}

func (l LimitsConfig) UserWindow() time.Duration {
	return time.Duration(l.UserWindowSec) * time.Second
}

func (l LimitsConfig) MentionCooldown() time.Duration {
	return time.Duration(l.MentionCooldownSec) * time.Second
}

func (l LimitsConfig) WatchdogInterval() time.Duration {
	return time.Duration(l.WatchdogIntervalSec) * time.Second
}

// Load reads the JSON config at path on top of DefaultConfig and applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadEnvFile loads a dotenv file into the process environment if it exists.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if token := os.Getenv("DISCORD_TOKEN"); token != "" {
		cfg.Bot.Token = token
	}
	if prefix := os.Getenv("FERRY_PREFIX"); prefix != "" {
		cfg.Bot.DefaultPrefix = prefix
	}
	if owner := os.Getenv("FERRY_OWNER_ID"); owner != "" {
		cfg.Bot.OwnerID = owner
	}
	if dataFile := os.Getenv("FERRY_DATA_FILE"); dataFile != "" {
		cfg.Store.DataFile = dataFile
	}
	if dbPath := os.Getenv("FERRY_DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if addr := os.Getenv("FERRY_STATUS_ADDR"); addr != "" {
		cfg.Status.Addr = addr
	}
	if level := os.Getenv("FERRY_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}

func (c *Config) Validate() error {
	if c.Bot.DefaultPrefix == "" {
		return errors.New("bot.default_prefix must not be empty")
	}
	if c.Store.DataFile == "" {
		return errors.New("store.data_file must not be empty")
	}
	if c.Limits.GlobalMessages <= 0 || c.Limits.UserCommands <= 0 {
		return errors.New("limits must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Bot: BotConfig{
			DefaultPrefix:      "!",
			OwnerID:            "957110332495630366",
			RequestTimeoutMS:   20000,
			ConnectAttempts:    5,
			ConnectBaseDelayMS: 1000,
			ConnectMaxDelayMS:  30000,
			MessageCacheSize:   1000,
		},
		Store: StoreConfig{
			DataFile:        "data.json",
			BackupFile:      "data_backup.json",
			SaveIntervalSec: 30,
			BackupAgeSec:    300,
		},
		Limits: LimitsConfig{
			GlobalMessages:      50,
			GlobalWindowSec:     5,
			UserCommands:        5,
			UserWindowSec:       10,
			MentionCooldownSec:  30,
			WatchdogIntervalSec: 60,
		},
		Database: DatabaseConfig{
			Path:          "ferry.db",
			RetentionDays: 90,
		},
		Status: StatusConfig{
			Enabled: true,
			Addr:    ":5000",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
