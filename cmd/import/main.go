package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"docstore/internal/movies"
	"docstore/internal/store"
)

type Config struct {
	CSVPath    string
	ConfigPath string
	SavePath   string
	Collection string
	Policy     store.DuplicatePolicy
	Limit      int
	URL        string
	APIKey     string
}

func main() {
	handler := slog.NewJSONHandler(os.Stdout, nil)
	logger := slog.New(handler)
	slog.SetDefault(logger) // Set global logger

	if err := run(logger); err != nil {
		slog.Error("Import terminated with error", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	logger.Info("Starting movie import", "collection", st.Collection(), "policy", cfg.Policy.String())

	ctx := context.Background()
	if err := st.Ping(ctx); err != nil {
		return fmt.Errorf("backend not reachable: %w", err)
	}

	logger.Info("Loading movie dataset", "path", cfg.CSVPath, "limit", cfg.Limit)
	f, err := os.Open(cfg.CSVPath)
	if err != nil {
		return fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	docs, err := movies.Load(f, cfg.Limit)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	logger.Info("Dataset loaded", "documents", len(docs))

	start := time.Now()
	if err := st.Write(ctx, docs, cfg.Policy); err != nil {
		return fmt.Errorf("write documents: %w", err)
	}

	count, err := st.Count(ctx)
	if err != nil {
		return fmt.Errorf("count documents: %w", err)
	}
	logger.Info("Import complete",
		"written", len(docs),
		"collection_count", count,
		"elapsed", time.Since(start).String(),
	)

	if cfg.SavePath != "" {
		if err := store.SaveFile(cfg.SavePath, st.ToConfig()); err != nil {
			return fmt.Errorf("save store config: %w", err)
		}
		logger.Info("Store config saved", "path", cfg.SavePath)
	}
	return nil
}

func loadConfig() (Config, error) {
	// Helper to get env with fallback
	get := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	var cfg Config
	var policyName string
	flag.StringVar(&cfg.CSVPath, "csv", "data/wiki_movie_plots_deduped.csv", "path to the movie plots CSV")
	flag.StringVar(&cfg.ConfigPath, "config", "", "TOML store config file (overrides env connection settings)")
	flag.StringVar(&cfg.SavePath, "save-config", "", "write the store config snapshot to this TOML file")
	flag.StringVar(&cfg.Collection, "collection", get("MOVIES_COLLECTION", "movies"), "target collection name")
	flag.StringVar(&policyName, "policy", "fail", "duplicate policy: fail, overwrite or skip")
	flag.IntVar(&cfg.Limit, "limit", 5000, "number of rows to import (0 imports everything)")
	flag.Parse()

	policy, err := store.ParsePolicy(policyName)
	if err != nil {
		return Config{}, err
	}
	cfg.Policy = policy
	cfg.URL = get("TYPESENSE_URL", "http://localhost:8108")
	cfg.APIKey = os.Getenv("TYPESENSE_API_KEY")
	return cfg, nil
}

func openStore(cfg Config) (*store.Store, error) {
	if cfg.ConfigPath != "" {
		mapping, err := store.LoadFile(cfg.ConfigPath)
		if err != nil {
			return nil, err
		}
		return store.FromConfig(mapping)
	}
	return store.New(store.NewTypesense(cfg.URL, cfg.APIKey), cfg.Collection)
}
