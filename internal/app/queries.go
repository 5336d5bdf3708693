package app

import (
	"context"
	"fmt"
	"time"

	"hotel_directory/internal/domain"
)

// QueryService serves the list view. Pages are re-derived from the current
// snapshot on every call; the optional cache only short-circuits a derivation
// already done for the same snapshot revision and query.
type QueryService struct {
	dir      *Directory
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(d *Directory, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{dir: d, cache: c, cacheTTL: ttl}
}

func (s *QueryService) cacheEnabled() bool { return s.cache != nil && s.cacheTTL > 0 }

func (s *QueryService) ListHotels(ctx context.Context, q domain.Query) domain.Page {
	hotels, rev := s.dir.SnapshotAt()
	if !s.cacheEnabled() {
		return Apply(hotels, q)
	}

	// keyed by content revision, so a mutation never needs an explicit eviction
	key := fmt.Sprintf("hotels:%s:%s", rev, queryKey(q))
	var page domain.Page
	if ok, _ := s.cache.Get(ctx, key, &page); ok {
		return page
	}
	page = Apply(hotels, q)
	_ = s.cache.Set(ctx, key, page, int(s.cacheTTL.Seconds()))
	return page
}

func (s *QueryService) GetHotel(_ context.Context, id string) (domain.Hotel, error) {
	h, ok := s.dir.Get(id)
	if !ok {
		return domain.Hotel{}, fmt.Errorf("hotel %s: %w", id, domain.ErrNotFound)
	}
	return h, nil
}

func queryKey(q domain.Query) string {
	return fmt.Sprintf("%q|%d|%q|%q|%d|%d", q.Search, q.Category, q.Country, q.Sort, q.PageIndex, q.EffectivePageSize())
}
