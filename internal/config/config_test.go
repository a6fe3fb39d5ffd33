package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load on a missing file should not error, got %v", err)
	}
	if cfg != Default() {
		t.Errorf("got %+v, want defaults %+v", cfg, Default())
	}
}

func TestLoadOverlaysOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlContent := "history_size: 50\ndisable_cache: true\n"
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HistorySize != 50 {
		t.Errorf("HistorySize = %d, want 50", cfg.HistorySize)
	}
	if !cfg.DisableCache {
		t.Errorf("DisableCache = false, want true")
	}
	// Fields absent from the file keep their Default() values.
	if cfg.InitialGCThreshold != Default().InitialGCThreshold {
		t.Errorf("InitialGCThreshold = %d, want default %d", cfg.InitialGCThreshold, Default().InitialGCThreshold)
	}
}

func TestResolveCacheDirLeavesAbsolutePathAlone(t *testing.T) {
	cfg := Default()
	cfg.CacheDir = "/tmp/spark-cache"
	if got := ResolveCacheDir(cfg); got != "/tmp/spark-cache" {
		t.Errorf("ResolveCacheDir = %q, want %q", got, "/tmp/spark-cache")
	}
}

func TestResolveCacheDirJoinsRelativePathToHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available in this environment")
	}
	cfg := Default()
	cfg.CacheDir = ".spark/cache"
	want := filepath.Join(home, ".spark/cache")
	if got := ResolveCacheDir(cfg); got != want {
		t.Errorf("ResolveCacheDir = %q, want %q", got, want)
	}
}
