package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"hotel_directory/internal/domain"
)

type EditorState int

const (
	EditorIdle EditorState = iota
	EditorEditing
)

func (s EditorState) String() string {
	if s == EditorEditing {
		return "editing"
	}
	return "idle"
}

var (
	ErrEditorClosed = errors.New("editor is not open")
	ErrEditorOpen   = errors.New("editor is already open")
)

const (
	MinCategory = 1
	MaxCategory = 5
)

// ValidationError lists the fields that blocked a submit, keyed by field name
// (name, country, address, category).
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "invalid fields: " + strings.Join(keys, ", ")
}

// CountryChecker reports whether a country belongs to the reference list.
type CountryChecker interface {
	Has(country string) bool
}

// ClampCategory forces n into [MinCategory, MaxCategory].
func ClampCategory(n int) int {
	return min(max(n, MinCategory), MaxCategory)
}

// ParseCategoryInput turns raw category input into a star rating, clamping
// on every keystroke: "7" gives 5, "0" or "" gives 1, non-numbers give 1.
func ParseCategoryInput(raw string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if errors.Is(err, strconv.ErrRange) {
		err = nil // f is ±Inf or 0, clamped below
	}
	if err != nil || math.IsNaN(f) {
		return MinCategory
	}
	f = math.Max(math.Min(f, MaxCategory), MinCategory)
	return int(f)
}

// Editor is the create/edit form for one hotel. It is Idle until opened,
// Editing while a draft is held, and returns to Idle after a successful
// submit or Close. Image handles live in the editor, not in the draft, until
// submit replaces the record's images with them.
type Editor struct {
	dir       *Directory
	countries CountryChecker
	now       func() time.Time
	newID     func() string
	newHandle func() domain.ImageRef

	state    EditorState
	creating bool
	origName string
	draft    domain.Hotel
	images   []domain.ImageRef
	errs     map[string]string
}

// NewEditor returns an idle editor writing to dir. countries may be nil, in
// which case any non-empty country is accepted.
func NewEditor(dir *Directory, countries CountryChecker) *Editor {
	return &Editor{
		dir:       dir,
		countries: countries,
		now:       time.Now,
		newID:     uuid.NewString,
		newHandle: func() domain.ImageRef { return domain.ImageRef("blob:" + uuid.NewString()) },
	}
}

// OpenCreate starts a blank draft with a fresh id and the current time as
// its creation timestamp.
func (e *Editor) OpenCreate() error {
	if e.state != EditorIdle {
		return ErrEditorOpen
	}
	created := e.now().UnixMilli()
	e.draft = domain.Hotel{ID: e.newID(), Images: []domain.ImageRef{}, DateCreated: &created}
	e.images = []domain.ImageRef{}
	e.creating = true
	e.origName = ""
	e.errs = nil
	e.state = EditorEditing
	return nil
}

// OpenEdit starts a draft populated from h.
func (e *Editor) OpenEdit(h domain.Hotel) error {
	if e.state != EditorIdle {
		return ErrEditorOpen
	}
	e.draft = h.Clone()
	e.images = slices.Clone(h.Images)
	if e.images == nil {
		e.images = []domain.ImageRef{}
	}
	e.creating = false
	e.origName = h.Name
	e.errs = nil
	e.state = EditorEditing
	return nil
}

func (e *Editor) State() EditorState { return e.state }

func (e *Editor) Creating() bool { return e.creating }

// Draft returns the record as it would be submitted now.
func (e *Editor) Draft() domain.Hotel {
	d := e.draft.Clone()
	d.Images = slices.Clone(e.images)
	return d
}

func (e *Editor) Images() []domain.ImageRef { return slices.Clone(e.images) }

// Errors returns the field errors of the last rejected submit.
func (e *Editor) Errors() map[string]string {
	out := make(map[string]string, len(e.errs))
	for k, v := range e.errs {
		out[k] = v
	}
	return out
}

func (e *Editor) SetName(v string) error {
	if e.state != EditorEditing {
		return ErrEditorClosed
	}
	e.draft.Name = v
	return nil
}

func (e *Editor) SetCountry(v string) error {
	if e.state != EditorEditing {
		return ErrEditorClosed
	}
	e.draft.Country = v
	return nil
}

func (e *Editor) SetAddress(v string) error {
	if e.state != EditorEditing {
		return ErrEditorClosed
	}
	e.draft.Address = v
	return nil
}

// SetCategoryInput stores the clamped value of a raw keystroke.
func (e *Editor) SetCategoryInput(raw string) error {
	if e.state != EditorEditing {
		return ErrEditorClosed
	}
	e.draft.Category = ParseCategoryInput(raw)
	return nil
}

func (e *Editor) SetCategory(n int) error {
	if e.state != EditorEditing {
		return ErrEditorClosed
	}
	e.draft.Category = ClampCategory(n)
	return nil
}

// AddImages mints one session-scoped handle per selected file and appends
// them in order.
func (e *Editor) AddImages(files ...string) ([]domain.ImageRef, error) {
	if e.state != EditorEditing {
		return nil, ErrEditorClosed
	}
	added := make([]domain.ImageRef, 0, len(files))
	for range files {
		added = append(added, e.newHandle())
	}
	e.images = append(e.images, added...)
	return added, nil
}

// DeleteImage drops every handle equal to ref and reports whether any was
// removed.
func (e *Editor) DeleteImage(ref domain.ImageRef) (bool, error) {
	if e.state != EditorEditing {
		return false, ErrEditorClosed
	}
	n := len(e.images)
	e.images = slices.DeleteFunc(e.images, func(r domain.ImageRef) bool { return r == ref })
	return len(e.images) != n, nil
}

func (e *Editor) validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(e.draft.Name) == "" {
		errs["name"] = "Name is required."
	}
	switch {
	case strings.TrimSpace(e.draft.Country) == "":
		errs["country"] = "Country is required."
	case e.countries != nil && !e.countries.Has(e.draft.Country):
		errs["country"] = "Country is not in the reference list."
	}
	if strings.TrimSpace(e.draft.Address) == "" {
		errs["address"] = "Address is required."
	}
	// input is clamped on every keystroke, but a draft that never had a
	// category typed still holds 0
	if e.draft.Category < MinCategory || e.draft.Category > MaxCategory {
		errs["category"] = "Category must be between 1 and 5."
	}
	return errs
}

// Submit validates the draft and, when valid, creates or updates the record
// and closes the editor, returning the stored record and a success message.
// On a validation error the editor stays open and nothing is stored.
func (e *Editor) Submit(ctx context.Context) (domain.Hotel, string, error) {
	if e.state != EditorEditing {
		return domain.Hotel{}, "", ErrEditorClosed
	}
	if errs := e.validate(); len(errs) > 0 {
		e.errs = errs
		return domain.Hotel{}, "", &ValidationError{Fields: e.Errors()}
	}
	e.errs = nil

	rec := e.Draft()
	var msg string
	if e.creating {
		stored, err := e.dir.Add(ctx, rec)
		if err != nil {
			return domain.Hotel{}, "", err
		}
		rec = stored
		msg = "Hotel created successfully!"
	} else {
		if err := e.dir.Edit(ctx, rec); err != nil {
			return domain.Hotel{}, "", err
		}
		if stored, ok := e.dir.Get(rec.ID); ok {
			rec = stored
		}
		msg = fmt.Sprintf("%s Hotel updated successfully!", e.origName)
	}
	e.Close()
	return rec, msg, nil
}

// Close discards the draft and returns to Idle.
func (e *Editor) Close() {
	e.state = EditorIdle
	e.creating = false
	e.origName = ""
	e.draft = domain.Hotel{}
	e.images = nil
	e.errs = nil
}
