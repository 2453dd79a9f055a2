package config

import (
	"os"
	"path/filepath"
	"testing"
)

// stubBackend serves fixed values for a subset of keys.
type stubBackend struct {
	strings map[string]string
	ints    map[string]int
}

func (s *stubBackend) GetString(key string) (string, bool, error) {
	v, ok := s.strings[key]
	return v, ok, nil
}

func (s *stubBackend) GetInt(key string) (int, bool, error) {
	v, ok := s.ints[key]
	return v, ok, nil
}

func (s *stubBackend) SetString(key, val string) error  { return nil }
func (s *stubBackend) SetInt(key string, val int) error { return nil }
func (s *stubBackend) Delete(key string) error          { return nil }

func emptyBackend() *stubBackend {
	return &stubBackend{strings: map[string]string{}, ints: map[string]int{}}
}

// clearEnv unsets every AIC_* override for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, s := range specs {
		t.Setenv(s.env, "")
		os.Unsetenv(s.env)
	}
}

// TestDefaults verifies the built-in defaults when neither file nor
// environment configures anything.
func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := loadWith(emptyBackend())
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}

	if cfg.Server.Port != 4600 {
		t.Errorf("Server.Port = %d, want 4600", cfg.Server.Port)
	}
	if cfg.Catalog.BaseURL != "https://api.artic.edu/api/v1" {
		t.Errorf("Catalog.BaseURL = %q", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.SearchLimit != 10 {
		t.Errorf("Catalog.SearchLimit = %d, want 10", cfg.Catalog.SearchLimit)
	}
	if cfg.Storage.Backend != "bolt" {
		t.Errorf("Storage.Backend = %q, want bolt", cfg.Storage.Backend)
	}
	if cfg.Storage.DataDir == "" {
		t.Error("Storage.DataDir is empty")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

// TestBackendValues verifies file-backend values override defaults.
func TestBackendValues(t *testing.T) {
	clearEnv(t)

	b := &stubBackend{
		strings: map[string]string{
			"storage.backend":  "sqlite",
			"catalog.base_url": "http://localhost:8080",
		},
		ints: map[string]int{
			"server.port": 9100,
		},
	}
	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}

	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("Storage.Backend = %q", cfg.Storage.Backend)
	}
	if cfg.Catalog.BaseURL != "http://localhost:8080" {
		t.Errorf("Catalog.BaseURL = %q", cfg.Catalog.BaseURL)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
	// Untouched keys keep their defaults.
	if cfg.Catalog.SearchLimit != 10 {
		t.Errorf("Catalog.SearchLimit = %d, want 10", cfg.Catalog.SearchLimit)
	}
}

// TestEnvOverrides verifies environment variables win over file values.
func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("AIC_SERVER_PORT", "9999")
	t.Setenv("AIC_STORAGE_BACKEND", "sqlite")

	b := &stubBackend{
		strings: map[string]string{"storage.backend": "bolt"},
		ints:    map[string]int{"server.port": 9100},
	}
	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("Storage.Backend = %q, want sqlite", cfg.Storage.Backend)
	}
}

// TestBadIntEnvKeepsDefault verifies an unparsable integer override is
// ignored rather than fatal.
func TestBadIntEnvKeepsDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("AIC_SERVER_PORT", "not-a-port")

	cfg, err := loadWith(emptyBackend())
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}
	if cfg.Server.Port != 4600 {
		t.Errorf("Server.Port = %d, want default 4600", cfg.Server.Port)
	}
}

// TestInvalidBackendName verifies unknown storage backends are rejected.
func TestInvalidBackendName(t *testing.T) {
	clearEnv(t)
	t.Setenv("AIC_STORAGE_BACKEND", "postgres")

	if _, err := loadWith(emptyBackend()); err == nil {
		t.Fatal("expected error for unknown storage backend")
	}
}

// TestInvalidSearchLimit verifies the limit range check.
func TestInvalidSearchLimit(t *testing.T) {
	clearEnv(t)
	t.Setenv("AIC_CATALOG_SEARCH_LIMIT", "0")

	if _, err := loadWith(emptyBackend()); err == nil {
		t.Fatal("expected error for search limit of 0")
	}

	t.Setenv("AIC_CATALOG_SEARCH_LIMIT", "101")
	if _, err := loadWith(emptyBackend()); err == nil {
		t.Fatal("expected error for search limit of 101")
	}
}

// TestFileBackendRoundTrip verifies values written through the file backend
// are read back, including after a fresh load from disk.
func TestFileBackendRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	b1 := &fileBackend{path: path, data: make(map[string]any)}
	if err := b1.SetString("storage.backend", "sqlite"); err != nil {
		t.Fatalf("SetString: %v", err)
	}
	if err := b1.SetInt("server.port", 7777); err != nil {
		t.Fatalf("SetInt: %v", err)
	}

	b2 := &fileBackend{path: path, data: make(map[string]any)}
	b2.load()

	v, ok, err := b2.GetString("storage.backend")
	if err != nil || !ok || v != "sqlite" {
		t.Errorf("GetString = (%q, %v, %v)", v, ok, err)
	}
	i, ok, err := b2.GetInt("server.port")
	if err != nil || !ok || i != 7777 {
		t.Errorf("GetInt = (%d, %v, %v)", i, ok, err)
	}
}

// TestFileBackendRejectsFractionalInt verifies a fractional JSON number is
// reported as an error for integer keys.
func TestFileBackendRejectsFractionalInt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"server.port": 80.5}`), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	b := &fileBackend{path: path, data: make(map[string]any)}
	b.load()

	if _, _, err := b.GetInt("server.port"); err == nil {
		t.Fatal("expected error for fractional port")
	}
}

// TestGetAPIToken verifies a token is generated once and then reused.
func TestGetAPIToken(t *testing.T) {
	dir := t.TempDir()

	tok1, err := GetAPIToken(dir)
	if err != nil {
		t.Fatalf("GetAPIToken: %v", err)
	}
	if tok1 == "" {
		t.Fatal("empty token")
	}

	tok2, err := GetAPIToken(dir)
	if err != nil {
		t.Fatalf("second GetAPIToken: %v", err)
	}
	if tok1 != tok2 {
		t.Errorf("token changed between calls: %q vs %q", tok1, tok2)
	}

	if _, err := os.Stat(filepath.Join(dir, "api_token")); err != nil {
		t.Errorf("token file not written: %v", err)
	}
}

// TestSetKeyUnknown verifies unknown keys are rejected by name.
func TestSetKeyUnknown(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := SetKey("no.such.key", "x"); err == nil {
		t.Fatal("expected error for unknown key")
	}
}
