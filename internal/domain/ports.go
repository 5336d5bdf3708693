package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrDuplicateID = errors.New("duplicate id")
)

// Slot is a key-value persistence capability. Each key holds one opaque
// payload that is always replaced wholesale.
type Slot interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte) error
	Remove(ctx context.Context, key string) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// CountrySource fetches a raw country reference payload from a remote URL.
type CountrySource interface {
	FetchCountries(ctx context.Context, url string) (any, error)
}
