// Package artwork defines the artwork record types exchanged between the
// remote catalog, the gallery store, and the persisted gallery slot, along
// with the validation that every untrusted value passes through before it
// enters or leaves the store.
package artwork

import "unicode/utf8"

// NoteMaxLen is the maximum length of a user note, in characters.
const NoteMaxLen = 500

// Defaults filled in for absent or null catalog fields.
const (
	DefaultTitle  = "Unknown title"
	DefaultArtist = "Unknown artist"
)

// CatalogItem is an artwork record as returned by the remote catalog, after
// validation and defaulting. It is transient: the gallery keeps its own
// snapshot from save time, so later catalog changes do not propagate.
type CatalogItem struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	ArtistTitle   string  `json:"artist_title"`
	ImageID       *string `json:"image_id"`
	DateDisplay   *string `json:"date_display,omitempty"`
	MediumDisplay *string `json:"medium_display,omitempty"`
	PlaceOfOrigin *string `json:"place_of_origin,omitempty"`
	Dimensions    *string `json:"dimensions,omitempty"`
}

// SavedItem is a catalog snapshot plus a user note, as persisted in the
// gallery slot. Identifiers are unique within the persisted collection.
type SavedItem struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	ArtistTitle   *string `json:"artist_title"`
	ImageID       *string `json:"image_id"`
	DateDisplay   *string `json:"date_display,omitempty"`
	MediumDisplay *string `json:"medium_display,omitempty"`
	PlaceOfOrigin *string `json:"place_of_origin,omitempty"`
	Dimensions    *string `json:"dimensions,omitempty"`
	Note          string  `json:"note"`
}

// NewSavedItem snapshots a catalog item into a saved item with an empty note.
func NewSavedItem(ci CatalogItem) SavedItem {
	artist := ci.ArtistTitle
	return SavedItem{
		ID:            ci.ID,
		Title:         ci.Title,
		ArtistTitle:   &artist,
		ImageID:       ci.ImageID,
		DateDisplay:   ci.DateDisplay,
		MediumDisplay: ci.MediumDisplay,
		PlaceOfOrigin: ci.PlaceOfOrigin,
		Dimensions:    ci.Dimensions,
	}
}

// Validate checks the semantic constraints of an already-typed saved item.
func (it SavedItem) Validate() error {
	return ValidateNote(it.Note)
}

// ValidateNote enforces the note length limit.
func ValidateNote(note string) error {
	if utf8.RuneCountInString(note) > NoteMaxLen {
		return &ValidationError{Field: "note", Kind: KindNoteTooLong}
	}
	return nil
}
