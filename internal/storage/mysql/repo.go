package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Slot implements domain.Slot on top of the kv_slots table
// (see migrations/001_kv_slots.sql).
type Slot struct{ db *sql.DB }

func New(db *sql.DB) *Slot { return &Slot{db: db} }

func (r *Slot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var payload []byte
	if err := r.db.QueryRowContext(ctx, getSlotSQL, key).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get slot %q: %w", key, err)
	}
	return payload, true, nil
}

func (r *Slot) Set(ctx context.Context, key string, payload []byte) error {
	_, err := r.db.ExecContext(ctx, upsertSlotSQL, key, payload)
	if err != nil {
		return fmt.Errorf("set slot %q: %w", key, err)
	}
	return nil
}

func (r *Slot) Remove(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, deleteSlotSQL, key)
	if err != nil {
		return fmt.Errorf("remove slot %q: %w", key, err)
	}
	return nil
}
