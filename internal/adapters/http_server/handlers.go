// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_directory/internal/app"
	"hotel_directory/internal/domain"
)

type Handlers struct {
	Q         *app.QueryService
	Sessions  *app.EditorSessions
	Guard     *app.DeletionGuard
	Countries *app.CountryCatalog
}

type problem struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/hotels", h.listHotels)
		r.Get("/hotels/{id}", h.getHotel)
		r.Post("/hotels/{id}/deletion", h.requestDeletion)
		r.Post("/hotels/{id}/deletion/confirm", h.confirmDeletion)
		r.Delete("/hotels/{id}/deletion", h.cancelDeletion)

		r.Get("/countries", h.listCountries)

		r.Post("/editor", h.openEditor)
		r.Get("/editor/{sid}", h.getEditor)
		r.Patch("/editor/{sid}", h.patchEditor)
		r.Post("/editor/{sid}/images", h.addImages)
		r.Delete("/editor/{sid}/images/{ref}", h.deleteImage)
		r.Post("/editor/{sid}/submit", h.submitEditor)
		r.Delete("/editor/{sid}", h.closeEditor)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemBody(w, problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

func writeProblemBody(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain and app errors onto problem responses.
func writeError(w http.ResponseWriter, err error) {
	var verr *app.ValidationError
	switch {
	case errors.As(err, &verr):
		writeProblemBody(w, problem{Type: "about:blank", Title: "Validation Failed", Status: http.StatusUnprocessableEntity,
			Detail: "one or more fields are invalid", Errors: verr.Fields})
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "hotel not found")
	case errors.Is(err, app.ErrSessionNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "editor session not found")
	case errors.Is(err, domain.ErrDuplicateID):
		writeProblem(w, http.StatusConflict, "Conflict", "a hotel with this id already exists")
	case errors.Is(err, app.ErrDeletionNotRequested):
		writeProblem(w, http.StatusConflict, "Conflict", "deletion must be requested before it is confirmed")
	case errors.Is(err, app.ErrEditorClosed), errors.Is(err, app.ErrEditorOpen):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		// Log but don't fail the whole response; return empty ETag and best-effort body.
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCacheable answers 304 when the client already holds this version.
func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write body")
	}
}

// parseListQuery reads the list view configuration. Without a sort parameter
// the view is newest first; an explicit empty sort keeps stored order.
func parseListQuery(v url.Values) (domain.Query, string) {
	q := domain.NewQuery()
	q.Search = v.Get("search")
	q.Country = v.Get("country")
	if v.Has("sort") {
		q.Sort = v.Get("sort")
	}
	if cs := v.Get("category"); cs != "" {
		c, err := strconv.Atoi(cs)
		if err != nil || c < 0 || c > app.MaxCategory {
			return q, "category must be an integer between 0 and 5"
		}
		q.Category = c
	}
	if ps := v.Get("page"); ps != "" {
		p, err := strconv.Atoi(ps)
		if err != nil {
			return q, "page must be an integer"
		}
		q.PageIndex = p
	}
	return q, ""
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	q, bad := parseListQuery(r.URL.Query())
	if bad != "" {
		writeProblem(w, http.StatusBadRequest, "Invalid query", bad)
		return
	}
	writeCacheable(w, r, h.Q.ListHotels(r.Context(), q))
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	hotel, err := h.Q.GetHotel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeCacheable(w, r, hotel)
}

func (h *Handlers) listCountries(w http.ResponseWriter, r *http.Request) {
	writeCacheable(w, r, map[string]any{
		"countries": h.Countries.List(),
		"names":     h.Countries.Names(),
	})
}

// ---- deletion confirmation ----

func (h *Handlers) requestDeletion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Guard.Request(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"id": id, "state": "open"})
}

func (h *Handlers) confirmDeletion(w http.ResponseWriter, r *http.Request) {
	if err := h.Guard.Confirm(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) cancelDeletion(w http.ResponseWriter, r *http.Request) {
	h.Guard.Cancel(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// ---- editor sessions ----

type editorView struct {
	SessionID string            `json:"sessionId"`
	Mode      string            `json:"mode"`
	State     string            `json:"state"`
	Draft     domain.Hotel      `json:"draft"`
	Errors    map[string]string `json:"errors,omitempty"`
}

func viewOf(sid string, ed *app.Editor) editorView {
	mode := "edit"
	if ed.Creating() {
		mode = "create"
	}
	return editorView{SessionID: sid, Mode: mode, State: ed.State().String(), Draft: ed.Draft(), Errors: ed.Errors()}
}

func (h *Handlers) respondEditor(w http.ResponseWriter, status int, sid string) {
	var v editorView
	if err := h.Sessions.Do(sid, func(ed *app.Editor) error { v = viewOf(sid, ed); return nil }); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, v)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.ContentLength == 0 {
		return true
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", err.Error())
		return false
	}
	return true
}

func (h *Handlers) openEditor(w http.ResponseWriter, r *http.Request) {
	var in struct {
		HotelID string `json:"hotelId"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	var (
		sid string
		err error
	)
	if in.HotelID == "" {
		sid, err = h.Sessions.OpenCreate()
	} else {
		sid, err = h.Sessions.OpenEdit(in.HotelID)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	h.respondEditor(w, http.StatusCreated, sid)
}

func (h *Handlers) getEditor(w http.ResponseWriter, r *http.Request) {
	h.respondEditor(w, http.StatusOK, chi.URLParam(r, "sid"))
}

type editorPatch struct {
	Name     *string         `json:"name"`
	Country  *string         `json:"country"`
	Address  *string         `json:"address"`
	Category json.RawMessage `json:"category"` // raw input text, JSON number or string
}

func (p editorPatch) categoryInput() (string, bool) {
	if len(p.Category) == 0 || string(p.Category) == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(p.Category, &s); err == nil {
		return s, true
	}
	return string(p.Category), true
}

func (h *Handlers) patchEditor(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	var in editorPatch
	if !decodeBody(w, r, &in) {
		return
	}
	err := h.Sessions.Do(sid, func(ed *app.Editor) error {
		if in.Name != nil {
			if err := ed.SetName(*in.Name); err != nil {
				return err
			}
		}
		if in.Country != nil {
			if err := ed.SetCountry(*in.Country); err != nil {
				return err
			}
		}
		if in.Address != nil {
			if err := ed.SetAddress(*in.Address); err != nil {
				return err
			}
		}
		if raw, ok := in.categoryInput(); ok {
			return ed.SetCategoryInput(raw)
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	h.respondEditor(w, http.StatusOK, sid)
}

func (h *Handlers) addImages(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	var in struct {
		Files []string `json:"files"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	if len(in.Files) == 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "files must list at least one file")
		return
	}
	var added []domain.ImageRef
	err := h.Sessions.Do(sid, func(ed *app.Editor) error {
		var err error
		added, err = ed.AddImages(in.Files...)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"added": added})
}

func (h *Handlers) deleteImage(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	ref, err := url.PathUnescape(chi.URLParam(r, "ref"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid image reference", err.Error())
		return
	}
	var removed bool
	err = h.Sessions.Do(sid, func(ed *app.Editor) error {
		var err error
		removed, err = ed.DeleteImage(domain.ImageRef(ref))
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if !removed {
		writeProblem(w, http.StatusNotFound, "Not Found", "image not in this session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) submitEditor(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	var creating bool
	if err := h.Sessions.Do(sid, func(ed *app.Editor) error { creating = ed.Creating(); return nil }); err != nil {
		writeError(w, err)
		return
	}
	hotel, msg, err := h.Sessions.Submit(r.Context(), sid)
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusOK
	if creating {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{"hotel": hotel, "message": msg})
}

func (h *Handlers) closeEditor(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Close(chi.URLParam(r, "sid")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
