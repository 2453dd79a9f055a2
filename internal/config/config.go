// Package config loads application configuration from a JSON file backend
// with environment-variable overrides.
package config

import "fmt"

type Config struct {
	Server  ServerConfig
	Catalog CatalogConfig
	Storage StorageConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port int
}

type CatalogConfig struct {
	BaseURL     string
	SearchLimit int
}

type StorageConfig struct {
	DataDir string
	Backend string // "bolt" or "sqlite"
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4600,
		},
		Catalog: CatalogConfig{
			BaseURL:     "https://api.artic.edu/api/v1",
			SearchLimit: 10,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
			Backend: "bolt",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the JSON file backend at
// $XDG_CONFIG_HOME/aic/config.json and applies AIC_* environment overrides.
func Load() (Config, error) {
	return loadWith(newFileBackend())
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if cfg.Storage.Backend != "bolt" && cfg.Storage.Backend != "sqlite" {
		return Config{}, fmt.Errorf("invalid storage.backend %q: must be \"bolt\" or \"sqlite\"", cfg.Storage.Backend)
	}
	if cfg.Catalog.SearchLimit < 1 || cfg.Catalog.SearchLimit > 100 {
		return Config{}, fmt.Errorf("invalid catalog.search_limit %d: must be between 1 and 100", cfg.Catalog.SearchLimit)
	}

	return cfg, nil
}
