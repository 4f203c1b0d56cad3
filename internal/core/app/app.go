// # internal/core/app/app.go

// Package app wires the engine packages into a runnable analysis
// pipeline: source enumeration, parallel per-file extraction, the
// afferent-coupling aggregation pass and snapshot persistence.
package app

import (
	"fmt"
	"log/slog"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"

	"mainseq/internal/core/config"
	"mainseq/internal/data/gitsrc"
	"mainseq/internal/data/history"
	"mainseq/internal/engine/metrics"
)

const contentCacheSize = 4096

type App struct {
	cfg      *config.Config
	scanner  *Scanner
	analyzer *metrics.Analyzer
	source   *gitsrc.Source
	store    *history.Store

	// cache maps a file path to its last-seen content digest plus the
	// per-file results that do not depend on other files, so watch-mode
	// rescans only redo that work for files that changed.
	cache *lru.Cache[string, cacheEntry]
}

func New(cfg *config.Config) (*App, error) {
	scanner, err := NewScanner(cfg)
	if err != nil {
		return nil, err
	}
	cache, err := lru.New[string, cacheEntry](contentCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create content cache: %w", err)
	}

	a := &App{
		cfg:      cfg,
		scanner:  scanner,
		analyzer: metrics.NewAnalyzer(),
		source:   gitsrc.New(cfg.Paths.ProjectRoot),
		cache:    cache,
	}

	if cfg.DB.Enabled {
		dbPath := cfg.DB.Path
		if !filepath.IsAbs(dbPath) && cfg.Paths.DatabaseDir != "" {
			dbPath = filepath.Join(cfg.Paths.DatabaseDir, dbPath)
		}
		store, err := history.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open history store: %w", err)
		}
		a.store = store
		slog.Info("history store opened", "path", dbPath)
	}
	return a, nil
}

func (a *App) Config() *config.Config { return a.cfg }

func (a *App) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}
