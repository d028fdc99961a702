// Package config provides configuration loading and structs for the Tansaku server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Keyword   KeywordConfig   `yaml:"keyword"`
	Vector    VectorConfig    `yaml:"vector"`
	Search    SearchConfig    `yaml:"search"`
	Watch     WatchConfig     `yaml:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds paths for the document database and index state.
type StorageConfig struct {
	DatabasePath   string `yaml:"database_path"`
	SnapshotPath   string `yaml:"snapshot_path"`
	BleveIndexPath string `yaml:"bleve_index_path"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	// Provider is one of hash, onnx, remote.
	Provider   string `yaml:"provider"`
	Dimensions int    `yaml:"dimensions"`
	ModelPath  string `yaml:"model_path"`
	MaxTokens  int    `yaml:"max_tokens"`
	Endpoint   string `yaml:"endpoint"`
	CacheSize  int    `yaml:"cache_size"`
}

// KeywordConfig selects the keyword index backend and normalization policy.
type KeywordConfig struct {
	// Type is one of memory, bleve.
	Type           string   `yaml:"type"`
	StopWords      []string `yaml:"stop_words"`
	MinTokenLength int      `yaml:"min_token_length"`
}

// VectorConfig selects the vector index backend.
type VectorConfig struct {
	// Type is one of memory, hnsw.
	Type string `yaml:"type"`
	// Metric is one of cosine, euclidean.
	Metric       string `yaml:"metric"`
	HNSWM        int    `yaml:"hnsw_m"`
	HNSWEfSearch int    `yaml:"hnsw_ef_search"`
}

// SearchConfig holds hybrid ranking settings.
type SearchConfig struct {
	// Alpha blends keyword and vector scores: alpha*keyword + (1-alpha)*vector.
	// A pointer so that an explicit 0 (vector-only) is distinguishable from unset.
	Alpha *float64 `yaml:"alpha"`
	// Overfetch is the minimum neighbor count requested from the vector index
	// regardless of the query limit.
	Overfetch    int           `yaml:"overfetch"`
	DefaultLimit int           `yaml:"default_limit"`
	Timeout      time.Duration `yaml:"timeout"`
}

// BlendAlpha returns the configured blend weight; defaults to 0.5 when unset.
func (s *SearchConfig) BlendAlpha() float64 {
	if s.Alpha != nil {
		return *s.Alpha
	}
	return 0.5
}

// WatchConfig holds directory watch settings.
type WatchConfig struct {
	Directories []string `yaml:"directories"`
	Extensions  []string `yaml:"extensions"`
	Recursive   *bool    `yaml:"recursive"`
}

// RecursiveOrDefault returns whether to watch recursively; defaults to true when unset.
func (w *WatchConfig) RecursiveOrDefault() bool {
	if w.Recursive != nil {
		return *w.Recursive
	}
	return true
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.SnapshotPath = expandPath(cfg.Storage.SnapshotPath, configDir)
	cfg.Storage.BleveIndexPath = expandPath(cfg.Storage.BleveIndexPath, configDir)
	if cfg.Embedding.ModelPath != "" {
		cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	}
	for i := range cfg.Watch.Directories {
		cfg.Watch.Directories[i] = expandPath(cfg.Watch.Directories[i], configDir)
	}

	return &cfg, nil
}

// Save writes the config to path. Used for persisting watch directory add/remove.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative
// to configDir; other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
