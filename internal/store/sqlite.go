package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/rejimde/terminal/internal/model"
)

// Snapshot kind constants.
const (
	kindNotifications = "notifications"
	kindTasks         = "tasks"
	kindBadges        = "badges"
	kindActivity      = "activity"
)

// ErrNoSnapshot is returned when no cached snapshot exists for a
// user/kind pair.
var ErrNoSnapshot = errors.New("no cached snapshot")

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// saveSnapshot upserts one collection snapshot as a JSON payload.
func (s *SQLiteStore) saveSnapshot(ctx context.Context, userID int64, kind string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling %s snapshot: %w", kind, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, user_id, kind, payload, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, kind) DO UPDATE SET
			payload = excluded.payload,
			fetched_at = excluded.fetched_at`,
		uuid.New().String(), userID, kind, string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving %s snapshot: %w", kind, err)
	}
	return nil
}

// loadSnapshot reads one collection snapshot into value.
func (s *SQLiteStore) loadSnapshot(ctx context.Context, userID int64, kind string, value interface{}) error {
	var payload string
	err := s.db.GetContext(ctx, &payload,
		"SELECT payload FROM snapshots WHERE user_id = ? AND kind = ?",
		userID, kind,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoSnapshot
		}
		return fmt.Errorf("loading %s snapshot: %w", kind, err)
	}

	if err := json.Unmarshal([]byte(payload), value); err != nil {
		return fmt.Errorf("unmarshaling %s snapshot: %w", kind, err)
	}
	return nil
}

// SaveNotifications caches the notification page for a user.
func (s *SQLiteStore) SaveNotifications(ctx context.Context, userID int64, page model.NotificationPage) error {
	return s.saveSnapshot(ctx, userID, kindNotifications, page)
}

// LoadNotifications returns the cached notification page for a user.
func (s *SQLiteStore) LoadNotifications(ctx context.Context, userID int64) (model.NotificationPage, error) {
	var page model.NotificationPage
	err := s.loadSnapshot(ctx, userID, kindNotifications, &page)
	return page, err
}

// SaveTasks caches the task collection for a user.
func (s *SQLiteStore) SaveTasks(ctx context.Context, userID int64, collection model.TaskCollection) error {
	return s.saveSnapshot(ctx, userID, kindTasks, collection)
}

// LoadTasks returns the cached task collection for a user.
func (s *SQLiteStore) LoadTasks(ctx context.Context, userID int64) (model.TaskCollection, error) {
	var collection model.TaskCollection
	err := s.loadSnapshot(ctx, userID, kindTasks, &collection)
	return collection, err
}

// SaveBadges caches the badge collection for a user.
func (s *SQLiteStore) SaveBadges(ctx context.Context, userID int64, badges []model.Badge) error {
	return s.saveSnapshot(ctx, userID, kindBadges, badges)
}

// LoadBadges returns the cached badge collection for a user.
func (s *SQLiteStore) LoadBadges(ctx context.Context, userID int64) ([]model.Badge, error) {
	var badges []model.Badge
	err := s.loadSnapshot(ctx, userID, kindBadges, &badges)
	return badges, err
}

// SaveActivity caches the accumulated activity items for a user.
func (s *SQLiteStore) SaveActivity(ctx context.Context, userID int64, items []model.ActivityItem) error {
	return s.saveSnapshot(ctx, userID, kindActivity, items)
}

// LoadActivity returns the cached activity items for a user.
func (s *SQLiteStore) LoadActivity(ctx context.Context, userID int64) ([]model.ActivityItem, error) {
	var items []model.ActivityItem
	err := s.loadSnapshot(ctx, userID, kindActivity, &items)
	return items, err
}
