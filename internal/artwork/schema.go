package artwork

import (
	"encoding/json"

	"github.com/xeipuuv/gojsonschema"
)

// Validation runs in two explicit stages: a structural shape check against a
// JSON Schema, then defaulting and semantic constraints in plain Go. The
// schemas below cover only the first stage. The note length limit and the
// documented defaults are applied afterwards so each stage stays
// independently testable.

const catalogItemSchema = `{
	"type": "object",
	"properties": {
		"id": {"type": "integer"},
		"title": {"type": ["string", "null"]},
		"artist_title": {"type": ["string", "null"]},
		"image_id": {"type": ["string", "null"]},
		"date_display": {"type": ["string", "null"]},
		"medium_display": {"type": ["string", "null"]},
		"place_of_origin": {"type": ["string", "null"]},
		"dimensions": {"type": ["string", "null"]}
	},
	"required": ["id"]
}`

const savedItemSchema = `{
	"type": "object",
	"properties": {
		"id": {"type": "integer"},
		"title": {"type": "string"},
		"artist_title": {"type": ["string", "null"]},
		"image_id": {"type": ["string", "null"]},
		"date_display": {"type": ["string", "null"]},
		"medium_display": {"type": ["string", "null"]},
		"place_of_origin": {"type": ["string", "null"]},
		"dimensions": {"type": ["string", "null"]},
		"note": {"type": "string"}
	},
	"required": ["id", "title", "artist_title"]
}`

var (
	catalogSchema = mustSchema(catalogItemSchema)
	savedSchema   = mustSchema(savedItemSchema)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(err)
	}
	return s
}

// checkShape runs the structural stage: the raw JSON value either matches
// the schema or the first violation is reported as a ValidationError.
func checkShape(schema *gojsonschema.Schema, raw []byte) error {
	res, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		// Not parseable as JSON at all.
		return &ValidationError{Field: "(document)", Kind: KindWrongType}
	}
	if res.Valid() {
		return nil
	}
	desc := res.Errors()[0]
	if desc.Type() == "required" {
		return &ValidationError{Field: missingProperty(desc), Kind: KindMissingField}
	}
	return &ValidationError{Field: desc.Field(), Kind: KindWrongType}
}

func missingProperty(desc gojsonschema.ResultError) string {
	if p, ok := desc.Details()["property"].(string); ok {
		return p
	}
	return desc.Field()
}

// rawCatalogItem mirrors the wire layout with pointer fields so absent and
// null are distinguishable from empty strings.
type rawCatalogItem struct {
	ID            int64   `json:"id"`
	Title         *string `json:"title"`
	ArtistTitle   *string `json:"artist_title"`
	ImageID       *string `json:"image_id"`
	DateDisplay   *string `json:"date_display"`
	MediumDisplay *string `json:"medium_display"`
	PlaceOfOrigin *string `json:"place_of_origin"`
	Dimensions    *string `json:"dimensions"`
}

type rawSavedItem struct {
	rawCatalogItem
	Note *string `json:"note"`
}

// ParseCatalogItem validates an untrusted catalog payload and fills the
// documented defaults for absent fields. It is pure: no storage access.
func ParseCatalogItem(raw []byte) (CatalogItem, error) {
	if err := checkShape(catalogSchema, raw); err != nil {
		return CatalogItem{}, err
	}
	var r rawCatalogItem
	if err := json.Unmarshal(raw, &r); err != nil {
		return CatalogItem{}, &ValidationError{Field: "(document)", Kind: KindWrongType}
	}
	item := CatalogItem{
		ID:            r.ID,
		Title:         DefaultTitle,
		ArtistTitle:   DefaultArtist,
		ImageID:       r.ImageID,
		DateDisplay:   r.DateDisplay,
		MediumDisplay: r.MediumDisplay,
		PlaceOfOrigin: r.PlaceOfOrigin,
		Dimensions:    r.Dimensions,
	}
	if r.Title != nil {
		item.Title = *r.Title
	}
	if r.ArtistTitle != nil {
		item.ArtistTitle = *r.ArtistTitle
	}
	return item, nil
}

// ParseSavedItem validates an untrusted persisted record. The note defaults
// to empty and may not exceed NoteMaxLen characters.
func ParseSavedItem(raw []byte) (SavedItem, error) {
	if err := checkShape(savedSchema, raw); err != nil {
		return SavedItem{}, err
	}
	var r rawSavedItem
	if err := json.Unmarshal(raw, &r); err != nil {
		return SavedItem{}, &ValidationError{Field: "(document)", Kind: KindWrongType}
	}
	item := SavedItem{
		ID:            r.ID,
		ArtistTitle:   r.ArtistTitle,
		ImageID:       r.ImageID,
		DateDisplay:   r.DateDisplay,
		MediumDisplay: r.MediumDisplay,
		PlaceOfOrigin: r.PlaceOfOrigin,
		Dimensions:    r.Dimensions,
	}
	if r.Title != nil {
		item.Title = *r.Title
	}
	if r.Note != nil {
		item.Note = *r.Note
	}
	if err := ValidateNote(item.Note); err != nil {
		return SavedItem{}, err
	}
	return item, nil
}
