// Package sqlite stores directory slots in a local SQLite file, the on-disk
// counterpart of browser local storage.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

const (
	createSlotsSQL = `CREATE TABLE IF NOT EXISTS kv_slots (
		slot_key   TEXT PRIMARY KEY,
		payload    BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
	getSlotSQL    = `SELECT payload FROM kv_slots WHERE slot_key = ?`
	upsertSlotSQL = `INSERT INTO kv_slots (slot_key, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (slot_key) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`
	deleteSlotSQL = `DELETE FROM kv_slots WHERE slot_key = ?`
)

type Slot struct{ db *sql.DB }

// Open creates (if needed) and opens the SQLite file at path. ":memory:" is
// accepted for tests.
func Open(path string) (*Slot, error) {
	if path == "" {
		path = "hotels.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single connection keeps ":memory:" databases alive and serializes writers
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(createSlotsSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create kv_slots table: %w", err)
	}
	return &Slot{db: db}, nil
}

func (s *Slot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, getSlotSQL, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select slot %s: %w", key, err)
	}
	return payload, true, nil
}

func (s *Slot) Set(ctx context.Context, key string, payload []byte) error {
	if _, err := s.db.ExecContext(ctx, upsertSlotSQL, key, payload); err != nil {
		return fmt.Errorf("upsert slot %s: %w", key, err)
	}
	return nil
}

func (s *Slot) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, deleteSlotSQL, key); err != nil {
		return fmt.Errorf("delete slot %s: %w", key, err)
	}
	return nil
}

func (s *Slot) Close() error { return s.db.Close() }
