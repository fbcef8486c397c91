package store

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Backend names understood by FromConfig.
const (
	backendTypesense = "typesense"
	backendMemory    = "memory"
)

// Keys of the flat configuration mapping.
const (
	cfgBackend    = "backend"
	cfgURL        = "url"
	cfgAPIKey     = "api_key"
	cfgCollection = "collection"
)

// FromConfig rebuilds a store from a ToConfig snapshot. The snapshot
// holds connection identity only, never documents, so a memory-backed
// store comes back empty. An absent backend key defaults to typesense.
// The api_key is carried verbatim and may be empty; auth failures
// surface from the backend at call time.
func FromConfig(cfg map[string]string) (*Store, error) {
	collection := cfg[cfgCollection]
	if collection == "" {
		return nil, fmt.Errorf("%w: missing %q", ErrInvalidConfig, cfgCollection)
	}

	name := cfg[cfgBackend]
	if name == "" {
		name = backendTypesense
	}
	switch name {
	case backendTypesense:
		url := cfg[cfgURL]
		if url == "" {
			return nil, fmt.Errorf("%w: missing %q", ErrInvalidConfig, cfgURL)
		}
		return New(NewTypesense(url, cfg[cfgAPIKey]), collection)
	case backendMemory:
		return New(NewMemory(), collection)
	default:
		return nil, fmt.Errorf("%w: unknown backend %q (supported: %s, %s)",
			ErrInvalidConfig, name, backendTypesense, backendMemory)
	}
}

// LoadFile reads a configuration mapping from a TOML file, the file
// form of a ToConfig snapshot.
func LoadFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg map[string]string
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// SaveFile writes a configuration mapping to a TOML file.
func SaveFile(path string, cfg map[string]string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
