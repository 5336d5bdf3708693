package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"hotel_directory/internal/domain"
)

var ErrSessionNotFound = errors.New("editor session not found")

// EditorSessions keeps the open editors of API clients, one per session id.
// Image handles minted inside a session die with it.
// TODO: expire sessions that were opened but never submitted or closed.
type EditorSessions struct {
	dir       *Directory
	countries CountryChecker

	mu       sync.Mutex
	sessions map[string]*Editor
}

func NewEditorSessions(dir *Directory, countries CountryChecker) *EditorSessions {
	return &EditorSessions{dir: dir, countries: countries, sessions: make(map[string]*Editor)}
}

// OpenCreate opens a create session and returns its id.
func (s *EditorSessions) OpenCreate() (string, error) {
	ed := NewEditor(s.dir, s.countries)
	if err := ed.OpenCreate(); err != nil {
		return "", err
	}
	return s.register(ed), nil
}

// OpenEdit opens an edit session for the stored hotel id.
func (s *EditorSessions) OpenEdit(id string) (string, error) {
	h, ok := s.dir.Get(id)
	if !ok {
		return "", fmt.Errorf("hotel %s: %w", id, domain.ErrNotFound)
	}
	ed := NewEditor(s.dir, s.countries)
	if err := ed.OpenEdit(h); err != nil {
		return "", err
	}
	return s.register(ed), nil
}

func (s *EditorSessions) register(ed *Editor) string {
	sid := uuid.NewString()
	s.mu.Lock()
	s.sessions[sid] = ed
	s.mu.Unlock()
	return sid
}

// Do runs fn against the editor of session sid while holding the registry lock.
func (s *EditorSessions) Do(sid string, fn func(*Editor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ed, ok := s.sessions[sid]
	if !ok {
		return ErrSessionNotFound
	}
	return fn(ed)
}

// Submit submits the session's draft. A successful submit ends the session;
// a rejected one keeps it open for corrections.
func (s *EditorSessions) Submit(ctx context.Context, sid string) (domain.Hotel, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ed, ok := s.sessions[sid]
	if !ok {
		return domain.Hotel{}, "", ErrSessionNotFound
	}
	h, msg, err := ed.Submit(ctx)
	if err != nil {
		return domain.Hotel{}, "", err
	}
	delete(s.sessions, sid)
	return h, msg, nil
}

func (s *EditorSessions) Close(sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ed, ok := s.sessions[sid]
	if !ok {
		return ErrSessionNotFound
	}
	ed.Close()
	delete(s.sessions, sid)
	return nil
}

func (s *EditorSessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
