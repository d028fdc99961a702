// Package main is the Tansaku CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/tansaku/internal/cli"
	"github.com/hyperjump/tansaku/internal/config"
	"github.com/hyperjump/tansaku/internal/embedding"
	"github.com/hyperjump/tansaku/internal/fileid"
	"github.com/hyperjump/tansaku/internal/indexer"
	"github.com/hyperjump/tansaku/internal/keyword"
	"github.com/hyperjump/tansaku/internal/models"
	"github.com/hyperjump/tansaku/internal/normalizer"
	"github.com/hyperjump/tansaku/internal/search"
	"github.com/hyperjump/tansaku/internal/server"
	"github.com/hyperjump/tansaku/internal/snapshot"
	"github.com/hyperjump/tansaku/internal/storage"
	"github.com/hyperjump/tansaku/internal/vector"
	"github.com/hyperjump/tansaku/internal/watcher"
	"github.com/hyperjump/tansaku/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/tansaku/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "index":
		runIndex()
	case "delete":
		runDelete()
	case "watch":
		runWatch()
	case "status":
		runStatus()
	case "snapshot":
		runSnapshot()
	case "version", "--version", "-v":
		fmt.Printf("tansaku version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (directory changes, file indexing, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger, debugMode)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	restoreSnapshot(components, cfg, logger)

	idx := components.Indexer
	exts := cfg.Watch.Extensions
	watchOpts := []watcher.WatcherOption{}
	if debugMode {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	watchSvc := watcher.NewWatcher(
		cfg.Watch.Directories,
		exts,
		cfg.Watch.RecursiveOrDefault(),
		func(path string) {
			if err := idx.IndexFile(context.Background(), path, exts); err != nil {
				logger.Warn("watch index file failed", zap.String("path", path), zap.Error(err))
			}
		},
		func(path string) {
			if _, err := idx.RemoveDocument(context.Background(), fileid.FileDocID(path)); err != nil {
				logger.Warn("watch remove by path failed", zap.String("path", path), zap.Error(err))
			}
		},
		watchOpts...,
	)
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if err := watchSvc.Start(watchCtx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	watchSvc.SyncExistingFiles()

	srv := server.NewServer(
		components.Engine,
		components.Indexer,
		components.Storage,
		cfg,
		logger,
		server.WithWatcher(watchSvc, resolvedConfigPath),
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	saveSnapshot(components, cfg, logger)
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// restoreSnapshot loads index state from the configured snapshot path, if present.
// A missing file is a clean start; an unreadable one is logged and skipped.
func restoreSnapshot(components *Components, cfg *config.Config, logger *zap.Logger) {
	if cfg.Storage.SnapshotPath == "" {
		return
	}
	snap, err := snapshot.ReadFile(cfg.Storage.SnapshotPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("snapshot load skipped", zap.String("path", cfg.Storage.SnapshotPath), zap.Error(err))
		}
		return
	}
	if err := components.Indexer.Restore(context.Background(), snap); err != nil {
		logger.Warn("snapshot restore failed", zap.Error(err))
		return
	}
	logger.Info("snapshot restored",
		zap.String("path", cfg.Storage.SnapshotPath),
		zap.Int("documents", len(snap.Entries)))
}

// saveSnapshot writes the current index state to the configured snapshot path.
func saveSnapshot(components *Components, cfg *config.Config, logger *zap.Logger) {
	if cfg.Storage.SnapshotPath == "" {
		return
	}
	snap, err := components.Indexer.Snapshot(context.Background())
	if err != nil {
		logger.Warn("snapshot skipped", zap.Error(err))
		return
	}
	if err := snapshot.WriteFile(cfg.Storage.SnapshotPath, snap); err != nil {
		logger.Warn("snapshot save failed", zap.String("path", cfg.Storage.SnapshotPath), zap.Error(err))
		return
	}
	logger.Info("snapshot saved",
		zap.String("path", cfg.Storage.SnapshotPath),
		zap.Int("documents", len(snap.Entries)))
}

func runSnapshot() {
	args := os.Args[2:]
	action := "save"
	if len(args) > 0 && (args[0] == "save" || args[0] == "load") {
		action = args[0]
		args = args[1:]
	}

	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	out := fs.String("out", "", "snapshot file path (default: storage.snapshot_path from config)")
	_ = fs.Parse(args)

	if action == "load" {
		path := *out
		if path == "" {
			if cfg, _, err := loadConfig(*configPath); err == nil {
				path = cfg.Storage.SnapshotPath
			}
		}
		if path == "" {
			fmt.Println("No snapshot path configured; pass --out or set storage.snapshot_path")
			os.Exit(1)
		}
		snap, err := snapshot.ReadFile(path)
		if err != nil {
			fmt.Printf("Snapshot load failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Snapshot OK: %s (version %d, %d dimensions, %d documents)\n",
			path, snapshot.Version, snap.Dimensions, len(snap.Entries))
		return
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	restoreSnapshot(components, cfg, logger)

	path := *out
	if path == "" {
		path = cfg.Storage.SnapshotPath
	}
	if path == "" {
		fmt.Println("No snapshot path configured; pass --out or set storage.snapshot_path")
		os.Exit(1)
	}
	snap, err := components.Indexer.Snapshot(context.Background())
	if err != nil {
		fmt.Printf("Snapshot failed: %v\n", err)
		os.Exit(1)
	}
	if err := snapshot.WriteFile(path, snap); err != nil {
		fmt.Printf("Snapshot write failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Snapshot saved: %s (%d documents)\n", path, len(snap.Entries))
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves any flags (and their values) that appear after the
// query to the front of the slice so that flag.Parse() sees them. Go's flag
// package stops at the first non-flag argument.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: tansaku search [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces. Multi-word queries work with or without quotes.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Keyword and vector scores are blended with alpha (0 = vector only, 1 = keyword only).
  • Use --keyword=false for vector-only search.
  • Use --vector=false for keyword-only search.
  • --alpha overrides the configured blend weight for this query.

Examples:
  tansaku search machine learning
  tansaku search "machine learning"              # same as above
  tansaku search --keyword=false neural networks # vector-only
  tansaku search --alpha 0.8 --limit 20 your query
`)
}

func runSearch() {
	searchArgs := searchArgsReorder(os.Args[2:])

	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPathFlag := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8089", "server URL (empty = use direct storage when server is not running)")
	limit := fs.Int("limit", 10, "number of results")
	alpha := fs.Float64("alpha", -1, "blend weight for keyword vs vector scores, 0..1 (default: from config)")
	kwEnabled := fs.Bool("keyword", true, "enable keyword search")
	vecEnabled := fs.Bool("vector", true, "enable vector search")
	outputFormat := fs.String("output", "text", "output format: text (human-readable) or json (parseable)")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgs)

	if fs.NArg() < 1 {
		printSearchUsage(fs)
		os.Exit(1)
	}
	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		printSearchUsage(fs)
		os.Exit(1)
	}

	format := cli.OutputText
	switch *outputFormat {
	case "json":
		format = cli.OutputJSON
	case "text":
		format = cli.OutputText
	default:
		fmt.Printf("Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}

	searchQuery := &models.SearchQuery{
		Query:          queryStr,
		Limit:          *limit,
		KeywordEnabled: *kwEnabled,
		VectorEnabled:  *vecEnabled,
	}
	if *alpha >= 0 {
		searchQuery.Alpha = alpha
	}

	if *serverURL != "" {
		// Use HTTP API when server is running (avoids Bleve/SQLite lock conflict).
		response, err := searchViaHTTP(*serverURL, searchQuery)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Direct storage access (when server is not running).
	cfg, _, err := loadConfig(*configPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	restoreSnapshot(components, cfg, logger)

	response, err := components.Engine.Search(context.Background(), searchQuery)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func searchViaHTTP(serverURL string, query *models.SearchQuery) (*models.SearchResponse, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

// statusResponse is the shape of GET /api/v1/status response.
type statusResponse struct {
	Documents        int64                  `json:"documents"`
	KeywordIndexDocs int                    `json:"keyword_index_docs"`
	VectorIndexSize  int                    `json:"vector_index_size"`
	Config           map[string]interface{} `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8089", "server URL (empty = use direct storage)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *res
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		logger, err := utils.NewLogger(cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		components, err := initializeComponents(cfg, logger, cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
			os.Exit(1)
		}
		defer components.Close()
		restoreSnapshot(components, cfg, logger)
		docCount, err := components.Storage.CountDocuments(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count documents failed: %v\n", err)
			os.Exit(1)
		}
		status = statusResponse{
			Documents:        docCount,
			KeywordIndexDocs: components.Engine.KeywordDocCount(),
			VectorIndexSize:  components.Engine.VectorIndexSize(),
			Config: map[string]interface{}{
				"embedding_provider":   cfg.Embedding.Provider,
				"embedding_dimensions": cfg.Embedding.Dimensions,
				"keyword_backend":      cfg.Keyword.Type,
				"vector_backend":       cfg.Vector.Type,
				"alpha":                cfg.Search.BlendAlpha(),
			},
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("documents:           %d\n", status.Documents)
		fmt.Printf("keyword_index_docs:  %d\n", status.KeywordIndexDocs)
		fmt.Printf("vector_index_size:   %d\n", status.VectorIndexSize)
		if len(status.Config) > 0 {
			fmt.Println()
			fmt.Println("# configuration")
			for _, key := range []string{"embedding_provider", "embedding_dimensions", "keyword_backend", "vector_backend", "alpha"} {
				if v, ok := status.Config[key]; ok {
					fmt.Printf("%-20s %v\n", key+":", v)
				}
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

func runIndex() {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: tansaku index [flags] <file-or-directory>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	restoreSnapshot(components, cfg, logger)

	ctx := context.Background()
	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("Failed to stat path: %v\n", err)
		os.Exit(1)
	}
	if info.IsDir() {
		n, err := components.Indexer.IndexDirectory(ctx, path, cfg.Watch.Extensions)
		if err != nil {
			fmt.Printf("Indexing directory failed: %v\n", err)
			os.Exit(1)
		}
		saveSnapshot(components, cfg, logger)
		fmt.Printf("Indexed %d file(s) from %s\n", n, path)
		return
	}
	// Single file: no extension filter
	if err := components.Indexer.IndexFile(ctx, path, nil); err != nil {
		fmt.Printf("Indexing failed: %v\n", err)
		os.Exit(1)
	}
	saveSnapshot(components, cfg, logger)
	absPath, _ := filepath.Abs(path)
	fmt.Printf("Document indexed successfully: %s\n", fileid.FileDocID(absPath))
}

func runWatch() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: tansaku watch <add|remove|list> [path]")
		fmt.Println("  tansaku watch add <path>     Add directory to watch")
		fmt.Println("  tansaku watch remove <path>  Remove directory from watch")
		fmt.Println("  tansaku watch list           List watched directories")
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8089", "server URL")
	_ = fs.Parse(os.Args[3:])
	switch sub {
	case "add":
		if fs.NArg() < 1 {
			fmt.Println("Usage: tansaku watch add <path>")
			os.Exit(1)
		}
		path, _ := filepath.Abs(fs.Arg(0))
		body, _ := json.Marshal(map[string]interface{}{"path": path, "sync": true})
		resp, err := http.Post(*serverURL+"/api/v1/watch/directories", "application/json", bytes.NewReader(body))
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("Add failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		fmt.Printf("Added: %s\n", path)
	case "remove":
		if fs.NArg() < 1 {
			fmt.Println("Usage: tansaku watch remove <path>")
			os.Exit(1)
		}
		path, _ := filepath.Abs(fs.Arg(0))
		req, _ := http.NewRequest(http.MethodDelete, *serverURL+"/api/v1/watch/directories?path="+url.QueryEscape(path), nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("Remove failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		fmt.Printf("Removed: %s\n", path)
	case "list":
		resp, err := http.Get(*serverURL + "/api/v1/watch/directories")
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("List failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		var out struct {
			Directories []string `json:"directories"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			fmt.Printf("Parse failed: %v\n", err)
			os.Exit(1)
		}
		for _, d := range out.Directories {
			fmt.Println(d)
		}
	default:
		fmt.Printf("Unknown watch subcommand: %s\n", sub)
		os.Exit(1)
	}
}

func runDelete() {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: tansaku delete [flags] <document-id>")
		os.Exit(1)
	}
	docID := fs.Arg(0)

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	restoreSnapshot(components, cfg, logger)

	result, err := components.Indexer.RemoveDocument(context.Background(), docID)
	if err != nil {
		fmt.Printf("Deletion failed: %v\n", err)
		os.Exit(1)
	}
	saveSnapshot(components, cfg, logger)
	fmt.Printf("Document removed: %s (keyword: %t, vector: %t)\n", docID, result.KeywordRemoved, result.VectorRemoved)
}

// Components holds initialized services.
type Components struct {
	Storage      storage.Storage
	Embedder     embedding.Embedder
	VectorIndex  vector.Index
	KeywordIndex keyword.Index
	Engine       *search.Engine
	Indexer      *indexer.Indexer
}

func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.VectorIndex != nil {
		_ = c.VectorIndex.Close()
	}
	if c.KeywordIndex != nil {
		_ = c.KeywordIndex.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, debug bool) (*Components, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	embedder, err := embedding.New(embedding.Options{
		Provider:   cfg.Embedding.Provider,
		Dimensions: cfg.Embedding.Dimensions,
		ModelPath:  cfg.Embedding.ModelPath,
		MaxTokens:  cfg.Embedding.MaxTokens,
		Endpoint:   cfg.Embedding.Endpoint,
		CacheSize:  cfg.Embedding.CacheSize,
	})
	if err != nil {
		// Fall back to the hash provider so the engine stays usable without a model.
		logger.Warn("embedding provider unavailable, using hash provider",
			zap.String("requested_provider", cfg.Embedding.Provider),
			zap.Error(err))
		embedder, err = embedding.NewHashEmbedder(cfg.Embedding.Dimensions)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize embedder: %w", err)
		}
	}

	vectorIndex, err := vector.New(vector.Options{
		Backend:      cfg.Vector.Type,
		Dimensions:   cfg.Embedding.Dimensions,
		Metric:       vector.Metric(cfg.Vector.Metric),
		HNSWM:        cfg.Vector.HNSWM,
		HNSWEfSearch: cfg.Vector.HNSWEfSearch,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vector index: %w", err)
	}

	keywordIndex, err := keyword.New(cfg.Keyword.Type, cfg.Storage.BleveIndexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize keyword index: %w", err)
	}

	norm := normalizer.New(
		normalizer.WithStopWords(cfg.Keyword.StopWords),
		normalizer.WithMinTokenLength(cfg.Keyword.MinTokenLength),
	)

	engine := search.NewEngine(store, norm, embedder, keywordIndex, vectorIndex, &cfg.Search, logger)

	idxOpts := []indexer.Option{}
	if debug {
		idxOpts = append(idxOpts, indexer.WithLogger(logger))
	}
	idx := indexer.NewIndexer(store, norm, embedder, keywordIndex, vectorIndex, idxOpts...)

	return &Components{
		Storage:      store,
		Embedder:     embedder,
		VectorIndex:  vectorIndex,
		KeywordIndex: keywordIndex,
		Engine:       engine,
		Indexer:      idx,
	}, nil
}

func printUsage() {
	fmt.Println(`tansaku - Local hybrid keyword + vector search engine

Usage:
  tansaku server [flags]           Start the HTTP server
  tansaku search [flags] <query>   Search documents
  tansaku index [flags] <path>     Index a file or directory
  tansaku delete [flags] <id>      Remove a document
  tansaku status [flags]           Show engine/storage/index status
  tansaku snapshot [save|load]     Save index state to a snapshot file, or verify one
  tansaku watch <add|remove|list>  Manage watched directories
  tansaku version                  Show version
  tansaku help                     Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/tansaku/config.yaml)
  --debug            Enable debug logging (directory changes, file indexing, etc.)

Search Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (default: http://localhost:8089). Use empty (--server "") for direct storage.
  --limit int        Number of results (default: 10)
  --alpha float      Blend weight for keyword vs vector scores, 0..1 (default: from config)
  --keyword          Enable keyword search (default: true)
  --vector           Enable vector search (default: true)
  --output string    Output format: text or json (default: text)

Examples:
  tansaku server
  tansaku search "machine learning algorithms"
  tansaku search --output json "query"     # structured JSON for other apps
  tansaku search --keyword=false "neural networks"  # vector-only
  tansaku index document.txt
  tansaku index ./docs
  tansaku delete doc-123
  tansaku status
  tansaku watch add /path/to/docs`)
}
