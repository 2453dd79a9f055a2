// Package api exposes the gallery and catalog to local presentation
// surfaces: an HTTP API for a web view and an MCP server for LLM clients.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/SaiwaaDev/Art-Institute-Explorer/internal/artwork"
	"github.com/SaiwaaDev/Art-Institute-Explorer/internal/catalog"
	"github.com/SaiwaaDev/Art-Institute-Explorer/internal/gallery"
	"github.com/SaiwaaDev/Art-Institute-Explorer/internal/kvstore"
)

const maxSaveBodySize = 1 << 20 // 1MB

// Searcher abstracts the remote catalog for the API layer.
type Searcher interface {
	Search(ctx context.Context, query string, page, limit int) (catalog.SearchResult, error)
	Artwork(ctx context.Context, id int64) (artwork.CatalogItem, error)
}

// Deps holds dependencies for the HTTP handler.
type Deps struct {
	Gallery *gallery.Store
	Catalog Searcher
	Token   string
}

// NewHandler builds the HTTP router. All routes except /health require the
// bearer token.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(deps.Token))

		r.Get("/search", handleSearch(deps))
		r.Get("/artworks/{id}", handleGetArtwork(deps))
		r.Get("/gallery", handleListGallery(deps))
		r.Post("/gallery", handleSaveArtwork(deps))
		r.Patch("/gallery/{id}/note", handleUpdateNote(deps))
		r.Delete("/gallery/{id}", handleRemoveArtwork(deps))
		r.Delete("/gallery", handleClearGallery(deps))
	})

	return r
}

func handleSearch(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if query == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "query parameter q is required")
			return
		}
		page := intParam(r, "page", 1)
		limit := intParam(r, "limit", 10)

		res, err := deps.Catalog.Search(r.Context(), query, page, limit)
		if err != nil {
			httpError(w, http.StatusBadGateway, "catalog_error", "catalog search failed: %v", err)
			return
		}

		writeJSON(w, http.StatusOK, struct {
			Items      []artwork.CatalogItem `json:"items"`
			Page       int                   `json:"page"`
			TotalPages int                   `json:"total_pages"`
			Total      int                   `json:"total"`
		}{res.Items, res.Page, res.TotalPages, res.Total})
	}
}

func handleGetArtwork(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}

		item, err := deps.Catalog.Artwork(r.Context(), id)
		if errors.Is(err, catalog.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "no artwork with id %d", id)
			return
		}
		if err != nil {
			httpError(w, http.StatusBadGateway, "catalog_error", "fetching artwork: %v", err)
			return
		}

		var imageURL string
		if item.ImageID != nil {
			imageURL = catalog.ImageURL(*item.ImageID)
		}
		writeJSON(w, http.StatusOK, struct {
			artwork.CatalogItem
			ImageURL string `json:"image_url,omitempty"`
			Saved    bool   `json:"saved"`
		}{item, imageURL, deps.Gallery.Exists(id)})
	}
}

func handleListGallery(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, deps.Gallery.Load())
	}
}

func handleSaveArtwork(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxSaveBodySize)
		defer r.Body.Close()

		raw, err := io.ReadAll(r.Body)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "reading request body: %v", err)
			return
		}

		item, err := artwork.ParseCatalogItem(raw)
		if err != nil {
			httpError(w, http.StatusUnprocessableEntity, "validation_error", "invalid catalog item: %v", err)
			return
		}

		added, err := deps.Gallery.Add(item)
		if err != nil {
			storageError(w, err)
			return
		}
		if !added {
			httpError(w, http.StatusConflict, "duplicate", "artwork %d is already saved", item.ID)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"saved": true, "id": item.ID})
	}
}

func handleUpdateNote(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}

		var req struct {
			Note string `json:"note"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		updated, err := deps.Gallery.UpdateNote(id, req.Note)
		if artwork.IsNoteTooLong(err) {
			httpError(w, http.StatusUnprocessableEntity, "validation_error", "%v", err)
			return
		}
		if err != nil {
			storageError(w, err)
			return
		}
		if !updated {
			httpError(w, http.StatusNotFound, "not_found", "no saved artwork with id %d", id)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleRemoveArtwork(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}

		removed, err := deps.Gallery.Remove(id)
		if err != nil {
			storageError(w, err)
			return
		}
		if !removed {
			httpError(w, http.StatusNotFound, "not_found", "no saved artwork with id %d", id)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleClearGallery(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if err := deps.Gallery.Clear(); err != nil {
			storageError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid artwork id")
		return 0, false
	}
	return id, true
}

func intParam(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return def
	}
	return v
}

func storageError(w http.ResponseWriter, err error) {
	if errors.Is(err, kvstore.ErrQuotaExceeded) {
		httpError(w, http.StatusInsufficientStorage, "storage_error", "gallery storage quota exceeded")
		return
	}
	httpError(w, http.StatusInternalServerError, "storage_error", "%v", err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, code, format string, args ...any) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"type":    code,
			"message": fmt.Sprintf(format, args...),
		},
	})
}
