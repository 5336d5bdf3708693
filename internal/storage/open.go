// Package storage picks the slot backend configured by SLOT_BACKEND.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	redisad "hotel_directory/internal/adapters/redis"
	"hotel_directory/internal/domain"
	"hotel_directory/internal/shared"
	"hotel_directory/internal/storage/memory"
	mysqlslot "hotel_directory/internal/storage/mysql"
	"hotel_directory/internal/storage/sqlite"
)

// Open returns the configured slot and a close func releasing its resources.
func Open(ctx context.Context, cfg shared.Config) (domain.Slot, func() error, error) {
	switch cfg.SlotBackend {
	case "memory":
		log.Warn().Msg("memory slot backend: directory changes will not survive a restart")
		return memory.New(), func() error { return nil }, nil

	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("sql.Open: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("db.Ping: %w", err)
		}
		log.Info().Msg("database connection ok")
		return mysqlslot.New(db), db.Close, nil

	case "redis":
		client := redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		return redisad.NewSlot(client, "hoteldir:"), client.Close, nil

	default:
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("sqlite slot ready")
		return s, s.Close, nil
	}
}
