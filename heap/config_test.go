package heap

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", ConfigFileName, err)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
initial-capacity = 64
record-db = "passes.db"
`)

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfig returned nil for an existing file")
	}
	if cfg.InitialCapacity != 64 {
		t.Errorf("InitialCapacity = %d, want 64", cfg.InitialCapacity)
	}
	if cfg.RecordDB != "passes.db" {
		t.Errorf("RecordDB = %q, want %q", cfg.RecordDB, "passes.db")
	}
	if cfg.Dir != dir {
		t.Errorf("Dir = %q, want %q", cfg.Dir, dir)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg != nil {
		t.Error("expected nil config when no heap.toml exists")
	}
}

func TestLoadConfigInvalidToml(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `initial-capacity = [`)

	if _, err := LoadConfig(dir); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadConfigNegativeCapacity(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `initial-capacity = -1`)

	if _, err := LoadConfig(dir); err == nil {
		t.Error("expected validation error for negative initial-capacity")
	}
}

func TestNewWithConfigCapacity(t *testing.T) {
	h := NewWithConfig(&Config{InitialCapacity: 8})
	if h.Registry().Cap() != 8 {
		t.Errorf("Cap = %d, want 8", h.Registry().Cap())
	}

	// Zero falls back to the default.
	h = NewWithConfig(&Config{})
	if h.Registry().Cap() != DefaultInitialCapacity {
		t.Errorf("Cap = %d, want %d", h.Registry().Cap(), DefaultInitialCapacity)
	}

	// Nil config is the default config.
	h = NewWithConfig(nil)
	if h.Registry().Cap() != DefaultInitialCapacity {
		t.Errorf("Cap = %d with nil config, want %d", h.Registry().Cap(), DefaultInitialCapacity)
	}
}
