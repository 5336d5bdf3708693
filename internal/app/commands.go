package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hotel_directory/internal/adapters/observability"
	"hotel_directory/internal/domain"
	"hotel_directory/internal/shared"
)

// Directory owns the hotel collection and mirrors every mutation to a single
// slot holding the whole collection as a JSON array. Writes go to the slot
// first; memory is only updated once the slot accepted the new snapshot.
type Directory struct {
	slot  domain.Slot
	key   string
	seed  func() []domain.Hotel
	newID func() string

	mu     sync.RWMutex
	hotels []domain.Hotel
	rev    string
}

// NewDirectory returns an empty directory bound to slot[key]. Call Initialize
// before serving reads or mutations. A nil seed uses the bundled dataset.
func NewDirectory(slot domain.Slot, key string, seed func() []domain.Hotel) *Directory {
	if seed == nil {
		seed = shared.DefaultHotels
	}
	return &Directory{slot: slot, key: key, seed: seed, newID: uuid.NewString}
}

// Initialize loads the persisted snapshot. When it is missing, empty or
// unreadable the seed dataset is used and written back. It never fails.
func (d *Directory) Initialize(ctx context.Context) []domain.Hotel {
	hs, payload, ok := d.load(ctx)
	if !ok {
		hs = normalizeAll(d.seed())
		if hs == nil {
			hs = []domain.Hotel{}
		}
		var err error
		if payload, err = json.Marshal(hs); err != nil {
			log.Error().Err(err).Msg("encode seed dataset failed")
		} else if err := d.slot.Set(ctx, d.key, payload); err != nil {
			log.Warn().Err(err).Str("key", d.key).Msg("persist seed dataset failed; serving it from memory")
		} else {
			log.Info().Int("records", len(hs)).Str("key", d.key).Msg("seeded directory with default dataset")
		}
	}

	d.mu.Lock()
	d.hotels = hs
	d.rev = revision(payload)
	d.mu.Unlock()
	observability.StoreSize.Set(float64(len(hs)))
	return cloneAll(hs)
}

func (d *Directory) load(ctx context.Context) ([]domain.Hotel, []byte, bool) {
	payload, ok, err := d.slot.Get(ctx, d.key)
	if err != nil {
		log.Warn().Err(err).Str("key", d.key).Msg("read snapshot failed; falling back to defaults")
		return nil, nil, false
	}
	if !ok {
		return nil, nil, false
	}
	var hs []domain.Hotel
	if err := json.Unmarshal(payload, &hs); err != nil {
		log.Warn().Err(err).Str("key", d.key).Msg("snapshot is not a hotel array; falling back to defaults")
		return nil, nil, false
	}
	if len(hs) == 0 {
		return nil, nil, false
	}
	return normalizeAll(hs), payload, true
}

// Add appends h, assigning an id when it has none. Ids must stay unique.
func (d *Directory) Add(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	h = normalize(h.Clone())
	if h.ID == "" {
		h.ID = d.newID()
	}
	if d.indexOf(h.ID) >= 0 {
		err := fmt.Errorf("add hotel %s: %w", h.ID, domain.ErrDuplicateID)
		observability.ObserveMutation("add", err, len(d.hotels))
		return domain.Hotel{}, err
	}

	next := make([]domain.Hotel, 0, len(d.hotels)+1)
	next = append(append(next, d.hotels...), h)
	if err := d.commit(ctx, next); err != nil {
		observability.ObserveMutation("add", err, len(d.hotels))
		return domain.Hotel{}, fmt.Errorf("add hotel %s: %w", h.ID, err)
	}
	observability.ObserveMutation("add", nil, len(next))
	return h.Clone(), nil
}

// Edit replaces the record with h.ID. The stored creation timestamp is kept.
// An unknown id leaves the collection untouched and yields ErrNotFound.
func (d *Directory) Edit(ctx context.Context, h domain.Hotel) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.indexOf(h.ID)
	if i < 0 {
		log.Warn().Str("id", h.ID).Msg("edit: no hotel with this id; nothing changed")
		err := fmt.Errorf("edit hotel %s: %w", h.ID, domain.ErrNotFound)
		observability.ObserveMutation("edit", err, len(d.hotels))
		return err
	}

	h = normalize(h.Clone())
	h.DateCreated = d.hotels[i].Clone().DateCreated

	next := make([]domain.Hotel, len(d.hotels))
	copy(next, d.hotels)
	next[i] = h
	if err := d.commit(ctx, next); err != nil {
		observability.ObserveMutation("edit", err, len(d.hotels))
		return fmt.Errorf("edit hotel %s: %w", h.ID, err)
	}
	observability.ObserveMutation("edit", nil, len(next))
	return nil
}

// Remove deletes the record with id. An unknown id is a logged no-op that
// yields ErrNotFound.
func (d *Directory) Remove(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.indexOf(id)
	if i < 0 {
		log.Warn().Str("id", id).Msg("remove: no hotel with this id; nothing changed")
		err := fmt.Errorf("remove hotel %s: %w", id, domain.ErrNotFound)
		observability.ObserveMutation("remove", err, len(d.hotels))
		return err
	}

	next := make([]domain.Hotel, 0, len(d.hotels)-1)
	next = append(append(next, d.hotels[:i]...), d.hotels[i+1:]...)
	if err := d.commit(ctx, next); err != nil {
		observability.ObserveMutation("remove", err, len(d.hotels))
		return fmt.Errorf("remove hotel %s: %w", id, err)
	}
	observability.ObserveMutation("remove", nil, len(next))
	return nil
}

// commit persists next and, only on success, makes it the current collection.
// Callers hold d.mu.
func (d *Directory) commit(ctx context.Context, next []domain.Hotel) error {
	payload, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := d.slot.Set(ctx, d.key, payload); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}
	d.hotels = next
	d.rev = revision(payload)
	return nil
}

func (d *Directory) indexOf(id string) int {
	for i := range d.hotels {
		if d.hotels[i].ID == id {
			return i
		}
	}
	return -1
}

// Snapshot returns a deep copy of the collection in stored order.
func (d *Directory) Snapshot() []domain.Hotel {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return cloneAll(d.hotels)
}

func (d *Directory) Get(id string) (domain.Hotel, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if i := d.indexOf(id); i >= 0 {
		return d.hotels[i].Clone(), true
	}
	return domain.Hotel{}, false
}

func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.hotels)
}

// Revision identifies the current snapshot by content. It changes with every
// successful mutation and is stable across processes sharing a slot.
func (d *Directory) Revision() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.rev
}

// SnapshotAt returns the collection together with the revision it belongs to.
func (d *Directory) SnapshotAt() ([]domain.Hotel, string) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return cloneAll(d.hotels), d.rev
}

func revision(payload []byte) string {
	sum := sha1.Sum(payload)
	return hex.EncodeToString(sum[:])
}

// normalize keeps images encoded as [] rather than null.
func normalize(h domain.Hotel) domain.Hotel {
	if h.Images == nil {
		h.Images = []domain.ImageRef{}
	}
	return h
}

func normalizeAll(hs []domain.Hotel) []domain.Hotel {
	for i := range hs {
		hs[i] = normalize(hs[i])
	}
	return hs
}

func cloneAll(hs []domain.Hotel) []domain.Hotel {
	out := make([]domain.Hotel, len(hs))
	for i := range hs {
		out[i] = hs[i].Clone()
	}
	return out
}
