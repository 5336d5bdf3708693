package app_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"hotel_directory/internal/app"
	"hotel_directory/internal/domain"
	"hotel_directory/internal/shared"
)

func catalog() *app.CountryCatalog { return app.NewCountryCatalog(shared.DefaultCountries()) }

func TestParseCategoryInput_Clamps(t *testing.T) {
	cases := map[string]int{"7": 5, "0": 1, "-3": 1, "3": 3, "5": 5, "": 1, "abc": 1, "4.7": 4, " 2 ": 2, "1e400": 5, "-1e400": 1, "1e-400": 1}
	for in, want := range cases {
		if got := app.ParseCategoryInput(in); got != want {
			t.Fatalf("ParseCategoryInput(%q) = %d, want %d", in, got, want)
		}
	}
	if app.ClampCategory(9) != 5 || app.ClampCategory(-1) != 1 {
		t.Fatalf("ClampCategory out of range")
	}
}

func TestEditor_CreateValidationBlocksOnlyName(t *testing.T) {
	dir, _ := newDirectory(t, sample()...)
	ed := app.NewEditor(dir, catalog())
	ctx := context.Background()

	if err := ed.OpenCreate(); err != nil {
		t.Fatalf("open: %v", err)
	}
	_ = ed.SetName("")
	_ = ed.SetCountry("France")
	_ = ed.SetAddress("1 Rue X")
	_ = ed.SetCategoryInput("3")

	_, _, err := ed.Submit(ctx)
	var verr *app.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !reflect.DeepEqual(verr.Fields, map[string]string{"name": "Name is required."}) {
		t.Fatalf("expected only a name error, got %v", verr.Fields)
	}
	if ed.State() != app.EditorEditing {
		t.Fatalf("invalid submit must keep the editor open, state=%v", ed.State())
	}
	if dir.Len() != 5 {
		t.Fatalf("no record may be created on invalid submit")
	}
	if ed.Errors()["name"] == "" {
		t.Fatalf("errors must stay visible on the form")
	}
}

func TestEditor_UntouchedCategoryAndUnknownCountry(t *testing.T) {
	dir, _ := newDirectory(t, sample()...)
	ed := app.NewEditor(dir, catalog())
	_ = ed.OpenCreate()
	_ = ed.SetName("X")
	_ = ed.SetCountry("Atlantis")
	_ = ed.SetAddress("Somewhere")

	_, _, err := ed.Submit(context.Background())
	var verr *app.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Fields["category"] == "" || verr.Fields["country"] == "" || len(verr.Fields) != 2 {
		t.Fatalf("expected category and country errors, got %v", verr.Fields)
	}
}

func TestEditor_CreateSubmitStoresRecord(t *testing.T) {
	dir, _ := newDirectory(t, sample()...)
	ed := app.NewEditor(dir, nil)
	ctx := context.Background()

	_ = ed.OpenCreate()
	draft := ed.Draft()
	if draft.ID == "" || draft.DateCreated == nil {
		t.Fatalf("create draft needs id and timestamp: %+v", draft)
	}
	_ = ed.SetName("Seaside")
	_ = ed.SetCountry("Portugal")
	_ = ed.SetAddress("Praia 1")
	_ = ed.SetCategoryInput("7")
	refs, _ := ed.AddImages("a.jpg", "b.jpg", "c.jpg")
	if len(refs) != 3 || refs[0] == refs[1] {
		t.Fatalf("expected 3 distinct handles, got %v", refs)
	}
	if ok, _ := ed.DeleteImage(refs[1]); !ok {
		t.Fatalf("expected image to be deleted")
	}

	h, msg, err := ed.Submit(ctx)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if msg != "Hotel created successfully!" {
		t.Fatalf("unexpected message %q", msg)
	}
	if h.ID != draft.ID || h.Category != 5 || !reflect.DeepEqual(h.Images, []domain.ImageRef{refs[0], refs[2]}) {
		t.Fatalf("unexpected stored record: %+v", h)
	}
	if ed.State() != app.EditorIdle {
		t.Fatalf("valid submit must close the editor")
	}
	if got, ok := dir.Get(h.ID); !ok || got.Name != "Seaside" {
		t.Fatalf("record not in directory: %+v", got)
	}
}

func TestEditor_EditKeepsIDAndDateCreated(t *testing.T) {
	dir, _ := newDirectory(t, sample()...)
	ed := app.NewEditor(dir, catalog())
	orig, _ := dir.Get("1")
	orig.Images = []domain.ImageRef{"blob:old"}

	if err := ed.OpenEdit(orig); err != nil {
		t.Fatalf("open edit: %v", err)
	}
	if !reflect.DeepEqual(ed.Images(), []domain.ImageRef{"blob:old"}) {
		t.Fatalf("images must be seeded from the record: %v", ed.Images())
	}
	_ = ed.SetName("Hotel Le Marais II")
	_ = ed.SetCategory(0)
	_, _ = ed.DeleteImage("blob:old")

	h, msg, err := ed.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if msg != "Hotel Le Marais Hotel updated successfully!" {
		t.Fatalf("unexpected message %q", msg)
	}
	if h.ID != "1" || h.Created() != 100 || h.Category != 1 || len(h.Images) != 0 {
		t.Fatalf("unexpected updated record: %+v", h)
	}
	if dir.Len() != 5 {
		t.Fatalf("edit must not add records")
	}
}

func TestEditor_EditOfDeletedRecordFails(t *testing.T) {
	dir, _ := newDirectory(t, sample()...)
	ed := app.NewEditor(dir, nil)
	h, _ := dir.Get("4")
	_ = ed.OpenEdit(h)
	_ = ed.SetCategory(2)
	_ = dir.Remove(context.Background(), "4")

	if _, _, err := ed.Submit(context.Background()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if ed.State() != app.EditorEditing {
		t.Fatalf("failed submit must keep the editor open")
	}
}

func TestEditor_IdleRejectsOperations(t *testing.T) {
	dir, _ := newDirectory(t)
	ed := app.NewEditor(dir, nil)

	if err := ed.SetName("x"); !errors.Is(err, app.ErrEditorClosed) {
		t.Fatalf("expected ErrEditorClosed, got %v", err)
	}
	if _, err := ed.AddImages("a"); !errors.Is(err, app.ErrEditorClosed) {
		t.Fatalf("expected ErrEditorClosed, got %v", err)
	}
	if _, _, err := ed.Submit(context.Background()); !errors.Is(err, app.ErrEditorClosed) {
		t.Fatalf("expected ErrEditorClosed, got %v", err)
	}

	_ = ed.OpenCreate()
	if err := ed.OpenCreate(); !errors.Is(err, app.ErrEditorOpen) {
		t.Fatalf("expected ErrEditorOpen, got %v", err)
	}
	ed.Close()
	if ed.State() != app.EditorIdle || dir.Len() != 0 {
		t.Fatalf("close must discard without storing")
	}
}
