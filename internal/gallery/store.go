// Package gallery owns the user's durable collection of saved artworks. The
// Store is the sole reader and writer of the persisted gallery slot: every
// record returned to a caller has passed validation, and the persisted
// collection never contains a duplicate identifier or an over-length note.
package gallery

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SaiwaaDev/Art-Institute-Explorer/internal/artwork"
)

// StorageKey names the single slot the gallery is persisted under.
const StorageKey = "aic_gallery"

// Backend is a single-slot key-value storage primitive. Get reports whether
// the key was present; Delete of an absent key is not an error.
type Backend interface {
	Get(key string) (value []byte, ok bool, err error)
	Put(key string, value []byte) error
	Delete(key string) error
}

// Store mediates all access to the persisted gallery collection.
//
// Every mutation is read-modify-validate-write of the whole collection:
// there is no partial-record update, so a write either replaces the slot or
// leaves it untouched. The mutex serializes operations so the HTTP and MCP
// surfaces can share one Store; concurrent writers in other processes remain
// last-writer-wins at the storage layer.
type Store struct {
	mu      sync.Mutex
	backend Backend
	log     *slog.Logger
}

// New creates a Store over the given storage backend.
func New(b Backend) *Store {
	return &Store{backend: b, log: slog.Default()}
}

// Load returns the persisted collection in insertion order.
//
// Corruption is not fatal: an unreadable or unparsable slot degrades to an
// empty collection, and individual records that fail validation are dropped,
// both with a log line. The raw slot value is left in place until the next
// successful write.
func (s *Store) Load() []artwork.SavedItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() []artwork.SavedItem {
	items := []artwork.SavedItem{}

	raw, ok, err := s.backend.Get(StorageKey)
	if err != nil {
		s.log.Warn("reading gallery slot failed, treating gallery as empty", "error", err)
		return items
	}
	if !ok {
		return items
	}

	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		s.log.Warn("gallery slot is not a record list, treating gallery as empty", "error", err)
		return items
	}

	for i, rec := range records {
		item, err := artwork.ParseSavedItem(rec)
		if err != nil {
			s.log.Warn("dropping invalid gallery record", "index", i, "error", err)
			continue
		}
		items = append(items, item)
	}
	return items
}

// persist writes the whole collection back to the slot.
func (s *Store) persist(items []artwork.SavedItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding gallery: %w", err)
	}
	if err := s.backend.Put(StorageKey, data); err != nil {
		return fmt.Errorf("persisting gallery: %w", err)
	}
	return nil
}

// Add snapshots a catalog item into the gallery with an empty note. It
// returns false without touching storage when the identifier is already
// saved; a non-nil error means the storage write itself failed.
func (s *Store) Add(ci artwork.CatalogItem) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.load()
	for _, it := range items {
		if it.ID == ci.ID {
			return false, nil
		}
	}

	saved := artwork.NewSavedItem(ci)
	if err := saved.Validate(); err != nil {
		return false, err
	}

	if err := s.persist(append(items, saved)); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateNote replaces the note on the saved item with the given identifier.
// The length limit is checked before anything is loaded so a rejected note
// has no partial effect. Returns false when no item matches.
func (s *Store) UpdateNote(id int64, note string) (bool, error) {
	if err := artwork.ValidateNote(note); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.load()
	for i := range items {
		if items[i].ID != id {
			continue
		}
		items[i].Note = note
		if err := items[i].Validate(); err != nil {
			return false, err
		}
		if err := s.persist(items); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// Remove deletes the saved item with the given identifier, leaving the
// relative order of the rest unchanged. Returns false when no item matches.
func (s *Store) Remove(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.load()
	for i := range items {
		if items[i].ID != id {
			continue
		}
		if err := s.persist(append(items[:i:i], items[i+1:]...)); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// Exists reports whether an item with the given identifier is saved.
func (s *Store) Exists(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range s.load() {
		if it.ID == id {
			return true
		}
	}
	return false
}

// Count returns the number of saved items.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.load())
}

// Clear deletes the entire persisted collection. Clearing an empty or
// absent gallery is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Delete(StorageKey); err != nil {
		return fmt.Errorf("clearing gallery: %w", err)
	}
	return nil
}
