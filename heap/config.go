package heap

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the tuning file LoadConfig looks for.
const ConfigFileName = "heap.toml"

// Config tunes a Heap. Hosts usually ship a heap.toml next to their other
// runtime configuration; embedders can also build a Config directly.
type Config struct {
	// InitialCapacity is the registry's starting backing-store size in
	// handles. Zero or negative selects DefaultInitialCapacity.
	InitialCapacity int `toml:"initial-capacity"`

	// RecordDB, when non-empty, is the path of a SQLite database that
	// collection passes are logged to via a Recorder.
	RecordDB string `toml:"record-db"`

	// Dir is the directory the config was loaded from (set at load time).
	Dir string `toml:"-"`
}

// DefaultConfig returns the built-in tuning.
func DefaultConfig() *Config {
	return &Config{
		InitialCapacity: DefaultInitialCapacity,
	}
}

// LoadConfig parses a heap.toml file from the given directory. Returns
// (nil, nil) if the file does not exist, so hosts can fall back to
// DefaultConfig without special-casing.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	cfg.Dir = dir

	if cfg.InitialCapacity < 0 {
		return nil, fmt.Errorf("%s: initial-capacity must not be negative", path)
	}
	return &cfg, nil
}
