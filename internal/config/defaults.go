package config

import "time"

// ApplyDefaults fills zero-valued fields with sensible defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "127.0.0.1"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8089
	}

	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = ".tansaku/documents.db"
	}
	if cfg.Storage.SnapshotPath == "" {
		cfg.Storage.SnapshotPath = ".tansaku/index.snapshot"
	}
	if cfg.Storage.BleveIndexPath == "" {
		cfg.Storage.BleveIndexPath = ".tansaku/bleve"
	}

	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "hash"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 512
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 1024
	}

	if cfg.Keyword.Type == "" {
		cfg.Keyword.Type = "memory"
	}
	if cfg.Keyword.MinTokenLength == 0 {
		cfg.Keyword.MinTokenLength = 2
	}

	if cfg.Vector.Type == "" {
		cfg.Vector.Type = "memory"
	}
	if cfg.Vector.Metric == "" {
		cfg.Vector.Metric = "cosine"
	}
	if cfg.Vector.HNSWM == 0 {
		cfg.Vector.HNSWM = 16
	}
	if cfg.Vector.HNSWEfSearch == 0 {
		cfg.Vector.HNSWEfSearch = 20
	}

	if cfg.Search.Alpha == nil {
		alpha := 0.5
		cfg.Search.Alpha = &alpha
	}
	if cfg.Search.Overfetch == 0 {
		cfg.Search.Overfetch = 50
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 10
	}
	if cfg.Search.Timeout == 0 {
		cfg.Search.Timeout = 5 * time.Second
	}

	if len(cfg.Watch.Extensions) == 0 {
		cfg.Watch.Extensions = []string{".txt", ".md"}
	}
}
