//go:build integration || !unit

package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	server "hotel_directory/internal/adapters/http_server"
	"hotel_directory/internal/app"
	"hotel_directory/internal/domain"
	"hotel_directory/internal/shared"
	mysqlslot "hotel_directory/internal/storage/mysql"
	"hotel_directory/internal/storage/mysql/mysqltest"
)

// ---------- helpers ----------

func startAPI(t *testing.T, slot domain.Slot) (*httptest.Server, *app.Directory) {
	t.Helper()
	ctx := context.Background()
	dir := app.NewDirectory(slot, "hotels", nil)
	dir.Initialize(ctx)
	countries := app.LoadCountryCatalog(ctx, slot, "countries")

	srv := server.New(zerolog.Nop(), 5*time.Second)
	srv.MountHandlers(&server.Handlers{
		Q:         app.NewQueryService(dir, nil, 0),
		Sessions:  app.NewEditorSessions(dir, countries),
		Guard:     app.NewDeletionGuard(dir),
		Countries: countries,
	})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts, dir
}

func call(t *testing.T, method, url, body string, out any) int {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, _ := http.NewRequest(method, url, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer res.Body.Close()
	if out != nil && res.StatusCode < 300 {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, url, err)
		}
	}
	return res.StatusCode
}

// ---------- test ----------

func TestE2E_MySQL_EditorAndDeletionSurviveRestart(t *testing.T) {
	db := mysqltest.Start(t)
	slot := mysqlslot.New(db)

	ts, dir := startAPI(t, slot)
	seeded := len(shared.DefaultHotels())
	if dir.Len() != seeded {
		t.Fatalf("expected seeded directory of %d, got %d", seeded, dir.Len())
	}

	// create through an editor session
	var ed struct {
		SessionID string `json:"sessionId"`
	}
	if code := call(t, "POST", ts.URL+"/v1/editor", "", &ed); code != http.StatusCreated {
		t.Fatalf("open editor: %d", code)
	}
	base := ts.URL + "/v1/editor/" + ed.SessionID
	if code := call(t, "PATCH", base, `{"name":"Hotel Lisboa Plaza","country":"Portugal","address":"Travessa do Salitre 7","category":"4"}`, nil); code != http.StatusOK {
		t.Fatalf("patch editor: %d", code)
	}
	var created struct {
		Hotel domain.Hotel `json:"hotel"`
	}
	if code := call(t, "POST", base+"/submit", "", &created); code != http.StatusCreated {
		t.Fatalf("submit: %d", code)
	}

	// delete a seeded record through the guard
	victim := shared.DefaultHotels()[0].ID
	if code := call(t, "POST", ts.URL+"/v1/hotels/"+victim+"/deletion", "", nil); code != http.StatusAccepted {
		t.Fatalf("request deletion: %d", code)
	}
	if code := call(t, "POST", ts.URL+"/v1/hotels/"+victim+"/deletion/confirm", "", nil); code != http.StatusNoContent {
		t.Fatalf("confirm deletion: %d", code)
	}

	// a fresh process over the same database sees both changes
	ts2, dir2 := startAPI(t, slot)
	if dir2.Len() != seeded {
		t.Fatalf("expected %d records after restart, got %d", seeded, dir2.Len())
	}
	if _, ok := dir2.Get(victim); ok {
		t.Fatalf("deleted record came back after restart")
	}

	var page domain.Page
	if code := call(t, "GET", ts2.URL+"/v1/hotels?search=lisboa&country=Portugal", "", &page); code != http.StatusOK {
		t.Fatalf("list: %d", code)
	}
	if page.Total != 1 || page.Items[0].ID != created.Hotel.ID || page.Items[0].Category != 4 {
		t.Fatalf("unexpected page after restart: %+v", page)
	}
}
