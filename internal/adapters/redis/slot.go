package redisad

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Slot implements domain.Slot with one plain redis string per key, under an
// optional key prefix. Values never expire.
type Slot struct {
	c      *redis.Client
	prefix string
}

func NewSlot(c *redis.Client, prefix string) *Slot { return &Slot{c: c, prefix: prefix} }

func NewClient(addr, pass string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
}

func (s *Slot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := s.c.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *Slot) Set(ctx context.Context, key string, payload []byte) error {
	if err := s.c.Set(ctx, s.prefix+key, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *Slot) Remove(ctx context.Context, key string) error {
	if err := s.c.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
