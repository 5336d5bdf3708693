package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"hotel_directory/internal/domain"
	"hotel_directory/internal/shared"
)

// CountryCatalog is the fixed reference list behind the country filter and
// the editor's country select.
type CountryCatalog struct {
	countries []domain.Country
	names     []string
	set       map[string]struct{}
}

func NewCountryCatalog(cs []domain.Country) *CountryCatalog {
	c := &CountryCatalog{countries: slices.Clone(cs), set: make(map[string]struct{}, len(cs))}
	for _, e := range cs {
		if _, ok := c.set[e.Country]; ok {
			continue
		}
		c.set[e.Country] = struct{}{}
		c.names = append(c.names, e.Country)
	}
	col := collate.New(language.English)
	col.SortStrings(c.names)
	return c
}

// LoadCountryCatalog prefers a list stored in slot[key] by countrysync and
// falls back to the bundled list.
func LoadCountryCatalog(ctx context.Context, slot domain.Slot, key string) *CountryCatalog {
	if slot != nil {
		payload, ok, err := slot.Get(ctx, key)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("key", key).Msg("read country list failed; using bundled list")
		case ok:
			var cs []domain.Country
			if err := json.Unmarshal(payload, &cs); err != nil || len(cs) == 0 {
				log.Warn().Err(err).Str("key", key).Msg("stored country list unusable; using bundled list")
				break
			}
			return NewCountryCatalog(cs)
		}
	}
	return NewCountryCatalog(shared.DefaultCountries())
}

func (c *CountryCatalog) List() []domain.Country { return slices.Clone(c.countries) }

// Names returns the distinct country names in collation order.
func (c *CountryCatalog) Names() []string { return slices.Clone(c.names) }

func (c *CountryCatalog) Has(country string) bool {
	_, ok := c.set[country]
	return ok
}

// CountrySyncService refreshes the stored country reference list from one or
// more remote sources.
type CountrySyncService struct {
	src  domain.CountrySource
	slot domain.Slot
	key  string
}

func NewCountrySyncService(src domain.CountrySource, slot domain.Slot, key string) *CountrySyncService {
	return &CountrySyncService{src: src, slot: slot, key: key}
}

// Sync fetches every source with at most workers in flight, merges the
// results in source order and stores them. A source that is missing (404) or
// fails is logged and skipped; Sync only fails when no source produced data
// or the store write fails. It returns the number of stored entries.
func (s *CountrySyncService) Sync(ctx context.Context, urls []string, workers int) (int, error) {
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	results := make([][]domain.Country, len(urls))
	var wg sync.WaitGroup

	for i, u := range urls {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return 0, fmt.Errorf("semaphore acquire: %w", err)
		}
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			defer sem.Release(1)

			payload, err := s.src.FetchCountries(ctx, u)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					log.Warn().Str("source", u).Msg("country source not found")
					return
				}
				log.Warn().Str("source", u).Err(err).Msg("country source failed")
				return
			}
			results[i] = MapCountries(payload)
			log.Info().Str("source", u).Int("countries", len(results[i])).Msg("country source ok")
		}(i, u)
	}
	wg.Wait()

	merged := MergeCountries(results...)
	if len(merged) == 0 {
		return 0, errors.New("no country data fetched from any source")
	}
	payload, err := json.Marshal(merged)
	if err != nil {
		return 0, fmt.Errorf("encode countries: %w", err)
	}
	if err := s.slot.Set(ctx, s.key, payload); err != nil {
		return 0, fmt.Errorf("store countries: %w", err)
	}
	return len(merged), nil
}

// MergeCountries concatenates lists, keeping the first entry per geonameid
// (or per country+name for entries without an id).
func MergeCountries(lists ...[]domain.Country) []domain.Country {
	var out []domain.Country
	seen := map[string]struct{}{}
	for _, l := range lists {
		for _, c := range l {
			k := countryKey(c)
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

func countryKey(c domain.Country) string {
	if c.GeonameID != 0 {
		return "#" + strconv.FormatInt(c.GeonameID, 10)
	}
	return c.Country + "\x00" + c.Name
}
