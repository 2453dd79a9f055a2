package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SaiwaaDev/Art-Institute-Explorer/internal/artwork"
	"github.com/SaiwaaDev/Art-Institute-Explorer/internal/catalog"
	"github.com/SaiwaaDev/Art-Institute-Explorer/internal/gallery"
	"github.com/SaiwaaDev/Art-Institute-Explorer/internal/kvstore"
)

const testToken = "test-token"

// fakeCatalog serves a fixed set of artworks keyed by id.
type fakeCatalog struct {
	items map[int64]artwork.CatalogItem
	err   error
}

func (f *fakeCatalog) Search(ctx context.Context, query string, page, limit int) (catalog.SearchResult, error) {
	if f.err != nil {
		return catalog.SearchResult{}, f.err
	}
	var items []artwork.CatalogItem
	for _, it := range f.items {
		items = append(items, it)
	}
	return catalog.SearchResult{Items: items, Page: page, TotalPages: 1, Total: len(items)}, nil
}

func (f *fakeCatalog) Artwork(ctx context.Context, id int64) (artwork.CatalogItem, error) {
	if f.err != nil {
		return artwork.CatalogItem{}, f.err
	}
	it, ok := f.items[id]
	if !ok {
		return artwork.CatalogItem{}, fmt.Errorf("artwork %d: %w", id, catalog.ErrNotFound)
	}
	return it, nil
}

func newTestHandler(t *testing.T) (http.Handler, *gallery.Store) {
	t.Helper()
	store := gallery.New(kvstore.NewMemory())
	cat := &fakeCatalog{items: map[int64]artwork.CatalogItem{
		28560: {ID: 28560, Title: "The Bedroom", ArtistTitle: "Vincent van Gogh"},
	}}
	return NewHandler(Deps{Gallery: store, Catalog: cat, Token: testToken}), store
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errType(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Type string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error body %q: %v", rec.Body.String(), err)
	}
	return body.Error.Type
}

// TestHealthUnauthenticated verifies /health needs no token.
func TestHealthUnauthenticated(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

// TestAuthRequired verifies protected routes reject missing and wrong tokens.
func TestAuthRequired(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/gallery", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing token: status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/gallery", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong token: status = %d, want 401", rec.Code)
	}
}

// TestSearchEndpoint verifies the happy path and the missing-query error.
func TestSearchEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/search?q=bedroom", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var res struct {
		Items []artwork.CatalogItem `json:"items"`
		Total int                   `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(res.Items) != 1 || res.Items[0].ID != 28560 {
		t.Errorf("items = %+v", res.Items)
	}

	rec = doRequest(t, h, http.MethodGet, "/search", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing q: status = %d, want 400", rec.Code)
	}
}

// TestSearchCatalogDown verifies catalog failures map to 502.
func TestSearchCatalogDown(t *testing.T) {
	store := gallery.New(kvstore.NewMemory())
	h := NewHandler(Deps{
		Gallery: store,
		Catalog: &fakeCatalog{err: fmt.Errorf("connection refused")},
		Token:   testToken,
	})

	rec := doRequest(t, h, http.MethodGet, "/search?q=x", "")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	if got := errType(t, rec); got != "catalog_error" {
		t.Errorf("error type = %q", got)
	}
}

// TestGetArtwork verifies the detail endpoint including the saved flag and
// the 404 for unknown ids.
func TestGetArtwork(t *testing.T) {
	h, store := newTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/artworks/28560", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var res struct {
		ID    int64 `json:"id"`
		Saved bool  `json:"saved"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if res.ID != 28560 || res.Saved {
		t.Errorf("res = %+v", res)
	}

	if _, err := store.Add(artwork.CatalogItem{ID: 28560, Title: "The Bedroom", ArtistTitle: "Vincent van Gogh"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	rec = doRequest(t, h, http.MethodGet, "/artworks/28560", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if !res.Saved {
		t.Error("saved flag still false after Add")
	}

	rec = doRequest(t, h, http.MethodGet, "/artworks/404404", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown id: status = %d, want 404", rec.Code)
	}

	rec = doRequest(t, h, http.MethodGet, "/artworks/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad id: status = %d, want 400", rec.Code)
	}
}

// TestSaveArtwork verifies save, duplicate conflict, and rejection of
// malformed payloads.
func TestSaveArtwork(t *testing.T) {
	h, store := newTestHandler(t)

	payload := `{"id": 28560, "title": "The Bedroom", "artist_title": "Vincent van Gogh"}`
	rec := doRequest(t, h, http.MethodPost, "/gallery", payload)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if !store.Exists(28560) {
		t.Error("artwork not in gallery after save")
	}

	rec = doRequest(t, h, http.MethodPost, "/gallery", payload)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate: status = %d, want 409", rec.Code)
	}
	if got := errType(t, rec); got != "duplicate" {
		t.Errorf("error type = %q", got)
	}

	rec = doRequest(t, h, http.MethodPost, "/gallery", `{"title": "no id"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("missing id: status = %d, want 422", rec.Code)
	}
}

// TestUpdateNoteEndpoint verifies note updates, the length limit, and the
// not-found case.
func TestUpdateNoteEndpoint(t *testing.T) {
	h, store := newTestHandler(t)
	if _, err := store.Add(artwork.CatalogItem{ID: 1, Title: "A", ArtistTitle: "x"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	rec := doRequest(t, h, http.MethodPatch, "/gallery/1/note", `{"note": "lovely"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if got := store.Load()[0].Note; got != "lovely" {
		t.Errorf("Note = %q", got)
	}

	long := strings.Repeat("n", artwork.NoteMaxLen+1)
	rec = doRequest(t, h, http.MethodPatch, "/gallery/1/note", `{"note": "`+long+`"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("long note: status = %d, want 422", rec.Code)
	}
	if got := errType(t, rec); got != "validation_error" {
		t.Errorf("error type = %q", got)
	}

	rec = doRequest(t, h, http.MethodPatch, "/gallery/99/note", `{"note": "x"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown id: status = %d, want 404", rec.Code)
	}
}

// TestRemoveAndClear verifies gallery deletion endpoints.
func TestRemoveAndClear(t *testing.T) {
	h, store := newTestHandler(t)
	for id := int64(1); id <= 3; id++ {
		if _, err := store.Add(artwork.CatalogItem{ID: id, Title: "A", ArtistTitle: "x"}); err != nil {
			t.Fatalf("Add(%d): %v", id, err)
		}
	}

	rec := doRequest(t, h, http.MethodDelete, "/gallery/2", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if store.Count() != 2 {
		t.Errorf("Count = %d, want 2", store.Count())
	}

	rec = doRequest(t, h, http.MethodDelete, "/gallery/2", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("repeat delete: status = %d, want 404", rec.Code)
	}

	rec = doRequest(t, h, http.MethodDelete, "/gallery", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("clear: status = %d", rec.Code)
	}
	if store.Count() != 0 {
		t.Errorf("Count after clear = %d, want 0", store.Count())
	}
}

// TestListGallery verifies the list endpoint returns the stored records.
func TestListGallery(t *testing.T) {
	h, store := newTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/gallery", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("empty gallery body = %q, want []", got)
	}

	if _, err := store.Add(artwork.CatalogItem{ID: 1, Title: "A", ArtistTitle: "x"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	rec = doRequest(t, h, http.MethodGet, "/gallery", "")
	var items []artwork.SavedItem
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(items) != 1 || items[0].ID != 1 {
		t.Errorf("items = %+v", items)
	}
}
