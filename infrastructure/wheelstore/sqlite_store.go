package wheelstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/wheelkit/wheelhost/domain/entities"
	"github.com/wheelkit/wheelhost/domain/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS wheel_config (
	id            INTEGER PRIMARY KEY CHECK (id = 1),
	title         TEXT    NOT NULL DEFAULT '',
	background    TEXT    NOT NULL DEFAULT '',
	items         TEXT    NOT NULL DEFAULT '[]',
	spin_duration INTEGER NOT NULL,
	persist_key   TEXT    NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS wheel_enabled (
	persist_key TEXT    NOT NULL,
	item        TEXT    NOT NULL,
	enabled     INTEGER NOT NULL,
	PRIMARY KEY (persist_key, item)
);`

// SQLiteStore keeps the wheel state in a SQLite database: one config row and
// one enablement row per item.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (creating if needed) the database at path and applies
// the schema.
func NewSQLiteStore(ctx context.Context, path string) (ports.WheelStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", filepath.Dir(path), err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Load reads the config row and the enablement rows of its persist key.
func (s *SQLiteStore) Load(ctx context.Context) (*entities.WheelState, error) {
	var (
		state     entities.WheelState
		itemsJSON string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT title, background, items, spin_duration, persist_key FROM wheel_config WHERE id = 1`,
	).Scan(&state.Config.Title, &state.Config.BackgroundURL, &itemsJSON, &state.Config.SpinDuration, &state.PersistKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load wheel config: %w", err)
	}
	if err := json.Unmarshal([]byte(itemsJSON), &state.Config.Items); err != nil {
		return nil, fmt.Errorf("failed to decode wheel items: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT item, enabled FROM wheel_enabled WHERE persist_key = ?`, state.PersistKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load wheel enablement: %w", err)
	}
	defer rows.Close()

	state.Enabled = make(map[string]bool)
	for rows.Next() {
		var (
			item    string
			enabled bool
		)
		if err := rows.Scan(&item, &enabled); err != nil {
			return nil, fmt.Errorf("failed to scan wheel enablement: %w", err)
		}
		state.Enabled[item] = enabled
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load wheel enablement: %w", err)
	}
	return &state, nil
}

// Save replaces the config row and the enablement rows in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, state *entities.WheelState) error {
	items := state.Config.Items
	if items == nil {
		items = []string{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode wheel items: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO wheel_config (id, title, background, items, spin_duration, persist_key)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			background = excluded.background,
			items = excluded.items,
			spin_duration = excluded.spin_duration,
			persist_key = excluded.persist_key`,
		state.Config.Title, state.Config.BackgroundURL, string(itemsJSON), state.Config.SpinDuration, state.PersistKey)
	if err != nil {
		return fmt.Errorf("failed to save wheel config: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM wheel_enabled WHERE persist_key = ?`, state.PersistKey); err != nil {
		return fmt.Errorf("failed to clear wheel enablement: %w", err)
	}
	for item, enabled := range state.Enabled {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO wheel_enabled (persist_key, item, enabled) VALUES (?, ?, ?)`,
			state.PersistKey, item, enabled); err != nil {
			return fmt.Errorf("failed to save wheel enablement: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit wheel state: %w", err)
	}
	return nil
}

// Location returns the database path.
func (s *SQLiteStore) Location() string {
	return s.path
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
