// Package memory implements an in-process domain.Slot, used as the test
// double for real backends and for throwaway runs.
package memory

import (
	"context"
	"sync"
)

type Slot struct {
	mu   sync.RWMutex
	data map[string][]byte

	// GetErr and SetErr, when set, are returned by the next calls. Tests use
	// them to simulate a failing backend.
	GetErr error
	SetErr error
}

func New() *Slot { return &Slot{data: make(map[string][]byte)} }

func (s *Slot) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.GetErr != nil {
		return nil, false, s.GetErr
	}
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *Slot) Set(_ context.Context, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SetErr != nil {
		return s.SetErr
	}
	s.data[key] = append([]byte(nil), payload...)
	return nil
}

func (s *Slot) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
