package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
debug: true
server:
  host: 0.0.0.0
  port: 9090
storage:
  database_path: ./data/docs.db
embedding:
  provider: remote
  dimensions: 768
  endpoint: http://localhost:8000/embed
keyword:
  type: bleve
  min_token_length: 3
vector:
  type: hnsw
  metric: euclidean
search:
  alpha: 0.7
  timeout: 2s
watch:
  directories:
    - ./notes
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.Debug {
		t.Error("expected debug to be true")
	}
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 9090 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Embedding.Provider != "remote" || cfg.Embedding.Dimensions != 768 {
		t.Errorf("unexpected embedding config: %+v", cfg.Embedding)
	}
	if cfg.Keyword.Type != "bleve" || cfg.Keyword.MinTokenLength != 3 {
		t.Errorf("unexpected keyword config: %+v", cfg.Keyword)
	}
	if cfg.Vector.Type != "hnsw" || cfg.Vector.Metric != "euclidean" {
		t.Errorf("unexpected vector config: %+v", cfg.Vector)
	}
	if cfg.Search.Alpha == nil || *cfg.Search.Alpha != 0.7 {
		t.Errorf("expected alpha 0.7, got %v", cfg.Search.Alpha)
	}
	if cfg.Search.Timeout != 2*time.Second {
		t.Errorf("expected timeout 2s, got %v", cfg.Search.Timeout)
	}

	want := filepath.Join(dir, "data/docs.db")
	if cfg.Storage.DatabasePath != want {
		t.Errorf("expected database path %s, got %s", want, cfg.Storage.DatabasePath)
	}
	wantWatch := filepath.Join(dir, "notes")
	if len(cfg.Watch.Directories) != 1 || cfg.Watch.Directories[0] != wantWatch {
		t.Errorf("expected watch dir %s, got %v", wantWatch, cfg.Watch.Directories)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	ApplyDefaults(&cfg)

	if cfg.Server.Port != 8089 {
		t.Errorf("expected default port 8089, got %d", cfg.Server.Port)
	}
	if cfg.Embedding.Provider != "hash" {
		t.Errorf("expected default provider hash, got %s", cfg.Embedding.Provider)
	}
	if cfg.Embedding.Dimensions != 384 {
		t.Errorf("expected default dimensions 384, got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Keyword.Type != "memory" || cfg.Vector.Type != "memory" {
		t.Errorf("expected memory backends, got %s/%s", cfg.Keyword.Type, cfg.Vector.Type)
	}
	if cfg.Search.BlendAlpha() != 0.5 {
		t.Errorf("expected default alpha 0.5, got %v", cfg.Search.BlendAlpha())
	}
	if cfg.Search.DefaultLimit != 10 {
		t.Errorf("expected default limit 10, got %d", cfg.Search.DefaultLimit)
	}
	if !cfg.Watch.RecursiveOrDefault() {
		t.Error("expected recursive watch by default")
	}
}

func TestApplyDefaultsKeepsExplicitZeroAlpha(t *testing.T) {
	var cfg Config
	alpha := 0.0
	cfg.Search.Alpha = &alpha
	ApplyDefaults(&cfg)

	if cfg.Search.BlendAlpha() != 0 {
		t.Errorf("explicit alpha 0 should survive defaults, got %v", cfg.Search.BlendAlpha())
	}
}

func TestLoadExplicitZeroAlpha(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "search:\n  alpha: 0\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Search.Alpha == nil || *cfg.Search.Alpha != 0 {
		t.Errorf("expected vector-only alpha 0, got %v", cfg.Search.Alpha)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	var cfg Config
	ApplyDefaults(&cfg)
	cfg.Watch.Directories = []string{filepath.Join(dir, "docs")}

	if err := Save(path, &cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded.Watch.Directories) != 1 || loaded.Watch.Directories[0] != cfg.Watch.Directories[0] {
		t.Errorf("watch directories did not round trip: %v", loaded.Watch.Directories)
	}
}
