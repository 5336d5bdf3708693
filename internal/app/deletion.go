package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"hotel_directory/internal/domain"
)

var ErrDeletionNotRequested = errors.New("deletion was not requested")

// DeletionGuard puts a confirmation step in front of Directory.Remove. Each
// record is either Closed or Open; only Confirm on an Open record removes it.
type DeletionGuard struct {
	dir *Directory

	mu   sync.Mutex
	open map[string]struct{}
}

func NewDeletionGuard(dir *Directory) *DeletionGuard {
	return &DeletionGuard{dir: dir, open: make(map[string]struct{})}
}

// Request opens the confirmation for id. Confirmations for records that were
// removed some other way are dropped on the way.
func (g *DeletionGuard) Request(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for open := range g.open {
		if _, ok := g.dir.Get(open); !ok {
			delete(g.open, open)
		}
	}
	if _, ok := g.dir.Get(id); !ok {
		return fmt.Errorf("hotel %s: %w", id, domain.ErrNotFound)
	}
	g.open[id] = struct{}{}
	return nil
}

// Cancel closes the confirmation without touching the directory.
func (g *DeletionGuard) Cancel(id string) {
	g.mu.Lock()
	delete(g.open, id)
	g.mu.Unlock()
}

// Confirm removes id if its confirmation is open. The guard is closed again
// whatever the outcome of the removal.
func (g *DeletionGuard) Confirm(ctx context.Context, id string) error {
	g.mu.Lock()
	_, ok := g.open[id]
	delete(g.open, id)
	g.mu.Unlock()
	if !ok {
		return ErrDeletionNotRequested
	}
	return g.dir.Remove(ctx, id)
}

func (g *DeletionGuard) IsOpen(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.open[id]; !ok {
		return false
	}
	if _, ok := g.dir.Get(id); !ok {
		delete(g.open, id)
		return false
	}
	return true
}

// Pending reports how many confirmations are open.
func (g *DeletionGuard) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.open)
}
