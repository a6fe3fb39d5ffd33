// Package config loads the CLI's optional YAML settings file, layered over
// built-in defaults.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds every user-tunable knob the host exposes. Zero values are
// never used directly; Load always starts from Default() and overlays
// whatever the YAML file sets.
type Config struct {
	// InitialGCThreshold is the byte count of live objects that triggers the
	// VM's first garbage collection.
	InitialGCThreshold uint64 `yaml:"initial_gc_threshold"`

	// GCGrowthFactor multiplies the live heap size after a collection to
	// pick the next threshold.
	GCGrowthFactor uint64 `yaml:"gc_growth_factor"`

	// HistorySize caps how many REPL lines are retained across sessions.
	HistorySize int `yaml:"history_size"`

	// CacheDir is where compiled-bytecode bundles are cached, relative to
	// the user's home directory unless absolute.
	CacheDir string `yaml:"cache_dir"`

	// DisableCache turns off bundle caching entirely.
	DisableCache bool `yaml:"disable_cache"`
}

// Default returns the built-in configuration used when no file overrides it.
func Default() Config {
	return Config{
		InitialGCThreshold: 1024 * 1024,
		GCGrowthFactor:     2,
		HistorySize:        1000,
		CacheDir:           ".spark/cache",
	}
}

// Load reads path (if it exists) and overlays it onto Default(). A missing
// file is not an error — it just means the defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// DefaultPath returns the CLI's default config file location,
// ~/.spark/config.yaml, or "" if the home directory can't be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".spark", "config.yaml")
}

// ResolveCacheDir turns cfg.CacheDir into an absolute path rooted at the
// user's home directory when it isn't already absolute.
func ResolveCacheDir(cfg Config) string {
	if filepath.IsAbs(cfg.CacheDir) {
		return cfg.CacheDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return cfg.CacheDir
	}
	return filepath.Join(home, cfg.CacheDir)
}
