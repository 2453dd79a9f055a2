package main

import (
	"fmt"
	"path/filepath"

	"github.com/SaiwaaDev/Art-Institute-Explorer/internal/config"
	"github.com/SaiwaaDev/Art-Institute-Explorer/internal/gallery"
	"github.com/SaiwaaDev/Art-Institute-Explorer/internal/kvstore"
)

// openGallery opens the configured storage backend and wraps it in a
// gallery store. The returned closer must be called when done.
func openGallery(cfg config.Config) (*gallery.Store, func() error, error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		b, err := kvstore.OpenSQLite(cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite storage: %w", err)
		}
		return gallery.New(b), b.Close, nil
	default:
		b, err := kvstore.OpenBolt(filepath.Join(cfg.Storage.DataDir, "gallery.bolt"))
		if err != nil {
			return nil, nil, fmt.Errorf("opening bolt storage: %w", err)
		}
		return gallery.New(b), b.Close, nil
	}
}
