// Package catalog is a typed client for the Art Institute of Chicago public
// API. Every record it hands out has passed artwork validation; malformed
// search results are dropped rather than failing the whole page.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/SaiwaaDev/Art-Institute-Explorer/internal/artwork"
)

// DefaultBaseURL is the public Art Institute of Chicago API.
const DefaultBaseURL = "https://api.artic.edu/api/v1"

const iiifBaseURL = "https://www.artic.edu/iiif/2"

// itemFields restricts API responses to the fields the gallery snapshots.
const itemFields = "id,title,artist_title,image_id,date_display,medium_display,place_of_origin,dimensions"

// ErrNotFound is returned when the catalog has no artwork with the
// requested identifier.
var ErrNotFound = errors.New("artwork not found")

// Client communicates with the artwork catalog over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client targeting the given catalog base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SearchResult is one page of catalog search results.
type SearchResult struct {
	Items      []artwork.CatalogItem
	Page       int
	TotalPages int
	Total      int
}

// searchResponse mirrors the JSON returned by GET /artworks/search.
type searchResponse struct {
	Data       []json.RawMessage `json:"data"`
	Pagination struct {
		Total       int `json:"total"`
		TotalPages  int `json:"total_pages"`
		CurrentPage int `json:"current_page"`
	} `json:"pagination"`
}

// Search runs a full-text artwork search. Result elements that fail
// validation are dropped with a log line; one malformed record does not
// invalidate the page.
func (c *Client) Search(ctx context.Context, query string, page, limit int) (SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	q := url.Values{}
	q.Set("q", query)
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	q.Set("fields", itemFields)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/artworks/search?"+q.Encode(), nil)
	if err != nil {
		return SearchResult{}, fmt.Errorf("creating search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SearchResult{}, fmt.Errorf("searching catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return SearchResult{}, fmt.Errorf("catalog search: unexpected status %d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return SearchResult{}, fmt.Errorf("decoding search response: %w", err)
	}

	items := make([]artwork.CatalogItem, 0, len(sr.Data))
	for i, raw := range sr.Data {
		item, err := artwork.ParseCatalogItem(raw)
		if err != nil {
			slog.Warn("dropping invalid catalog record", "page", page, "index", i, "error", err)
			continue
		}
		items = append(items, item)
	}

	return SearchResult{
		Items:      items,
		Page:       sr.Pagination.CurrentPage,
		TotalPages: sr.Pagination.TotalPages,
		Total:      sr.Pagination.Total,
	}, nil
}

// SearchPages fetches the first n result pages concurrently, preserving
// page order in the returned slice.
func (c *Client) SearchPages(ctx context.Context, query string, pages, limit int) ([]artwork.CatalogItem, error) {
	if pages <= 0 {
		return nil, nil
	}

	results := make([]SearchResult, pages)
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(4) // Bound concurrency; the public API rate-limits aggressively.

	for i := 0; i < pages; i++ {
		i := i
		g.Go(func() error {
			res, err := c.Search(gCtx, query, i+1, limit)
			if err != nil {
				return fmt.Errorf("fetching page %d: %w", i+1, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var items []artwork.CatalogItem
	for _, res := range results {
		items = append(items, res.Items...)
	}
	return items, nil
}

// artworkResponse mirrors the JSON returned by GET /artworks/{id}.
type artworkResponse struct {
	Data json.RawMessage `json:"data"`
}

// Artwork fetches a single artwork by catalog identifier.
func (c *Client) Artwork(ctx context.Context, id int64) (artwork.CatalogItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	u := fmt.Sprintf("%s/artworks/%d?fields=%s", c.baseURL, id, itemFields)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return artwork.CatalogItem{}, fmt.Errorf("creating artwork request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return artwork.CatalogItem{}, fmt.Errorf("fetching artwork %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return artwork.CatalogItem{}, fmt.Errorf("artwork %d: %w", id, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return artwork.CatalogItem{}, fmt.Errorf("artwork %d: unexpected status %d", id, resp.StatusCode)
	}

	var ar artworkResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return artwork.CatalogItem{}, fmt.Errorf("decoding artwork response: %w", err)
	}

	item, err := artwork.ParseCatalogItem(ar.Data)
	if err != nil {
		return artwork.CatalogItem{}, fmt.Errorf("catalog returned invalid artwork record: %w", err)
	}
	return item, nil
}

// ImageURL returns the IIIF URL for an image reference, sized for display.
func ImageURL(imageID string) string {
	return fmt.Sprintf("%s/%s/full/843,/0/default.jpg", iiifBaseURL, imageID)
}
