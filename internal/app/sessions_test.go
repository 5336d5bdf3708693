package app_test

import (
	"context"
	"errors"
	"testing"

	"hotel_directory/internal/app"
	"hotel_directory/internal/domain"
)

func TestEditorSessions_Lifecycle(t *testing.T) {
	dir, _ := newDirectory(t, sample()...)
	s := app.NewEditorSessions(dir, catalog())
	ctx := context.Background()

	sid, err := s.OpenCreate()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_ = s.Do(sid, func(ed *app.Editor) error {
		_ = ed.SetCountry("Spain")
		_ = ed.SetAddress("Gran Via 1")
		return ed.SetCategoryInput("2")
	})

	// rejected submit keeps the session
	if _, _, err := s.Submit(ctx, sid); err == nil {
		t.Fatalf("expected validation error")
	}
	if s.Len() != 1 {
		t.Fatalf("session must survive a rejected submit")
	}

	_ = s.Do(sid, func(ed *app.Editor) error { return ed.SetName("Hostal Sol") })
	h, _, err := s.Submit(ctx, sid)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if h.Name != "Hostal Sol" || s.Len() != 0 {
		t.Fatalf("unexpected result %+v, sessions=%d", h, s.Len())
	}
	if err := s.Do(sid, func(*app.Editor) error { return nil }); !errors.Is(err, app.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after submit, got %v", err)
	}
}

func TestEditorSessions_OpenEditUnknownAndClose(t *testing.T) {
	dir, _ := newDirectory(t, sample()...)
	s := app.NewEditorSessions(dir, nil)

	if _, err := s.OpenEdit("missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	sid, err := s.OpenEdit("2")
	if err != nil {
		t.Fatalf("open edit: %v", err)
	}
	if err := s.Close(sid); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := s.Close(sid); !errors.Is(err, app.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if dir.Len() != 5 {
		t.Fatalf("closing a session must not mutate the directory")
	}
}
