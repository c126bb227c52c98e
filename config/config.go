// Package config loads the ngramstore CLI's on-disk configuration file:
// the context cache size used at query time and the metrics address, kept
// as YAML per the teacher's convention for operator-facing settings.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ngramstore/compactngram/ngramstorage"
)

// Config holds the settings the CLI reads before building or querying
// a store. Zero value is valid and falls back to ngramstorage's
// built-in default cache capacity.
type Config struct {
	// ContextCacheCapacity bounds the NGramStorage LRU cache; 0 uses
	// ngramstorage.DefaultContextCacheCapacity.
	ContextCacheCapacity int `yaml:"context_cache_capacity"`
	// MetricsAddr, when non-empty, is the address the CLI's "serve"
	// command exposes Prometheus metrics on.
	MetricsAddr string `yaml:"metrics_addr"`
}

// CacheCapacity resolves the effective cache capacity, applying
// ngramstorage's default when unset.
func (c Config) CacheCapacity() int {
	if c.ContextCacheCapacity == 0 {
		return ngramstorage.DefaultContextCacheCapacity
	}
	return c.ContextCacheCapacity
}

// Load reads and parses a YAML config file at path. A missing file is
// not an error; it yields the zero Config.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return c, nil
}
