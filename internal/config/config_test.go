package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.HeuristicsCount != 4 {
		t.Fatalf("expected default heuristics count 4, got %d", cfg.HeuristicsCount)
	}
	if cfg.ThreadCount == 0 {
		t.Fatal("expected Defaults to set a non-zero ThreadCount")
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("expected a missing file to not be an error, got %v", err)
	}
	if cfg != Defaults() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadOverlaysYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vroom.yaml")
	data := []byte("heuristics_count: 8\nthread_count: 2\nrouting:\n  provider: ors\n  base_url: http://example.test\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HeuristicsCount != 8 {
		t.Fatalf("expected heuristics_count 8, got %d", cfg.HeuristicsCount)
	}
	if cfg.ThreadCount != 2 {
		t.Fatalf("expected thread_count 2, got %d", cfg.ThreadCount)
	}
	if cfg.Routing.Provider != "ors" || cfg.Routing.BaseURL != "http://example.test" {
		t.Fatalf("unexpected routing config: %+v", cfg.Routing)
	}
	// PerturbationPasses wasn't in the YAML, so Defaults() should still hold.
	if cfg.PerturbationPasses != Defaults().PerturbationPasses {
		t.Fatalf("expected unset fields to keep their default, got %d", cfg.PerturbationPasses)
	}
}

func TestThreadsFallsBackToGOMAXPROCS(t *testing.T) {
	cfg := Config{ThreadCount: 0}
	if cfg.Threads() != Defaults().ThreadCount {
		t.Fatalf("expected Threads() to fall back to GOMAXPROCS, got %d", cfg.Threads())
	}
	cfg.ThreadCount = 3
	if cfg.Threads() != 3 {
		t.Fatalf("expected Threads() to honor an explicit ThreadCount, got %d", cfg.Threads())
	}
}
