// # internal/core/watcher/watcher.go

// Package watcher reruns the analysis when source files change. Events
// are debounced so a burst of saves triggers a single rescan, and
// rescans are rate limited independently of the debounce window.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"

	"mainseq/internal/core/config"
	"mainseq/internal/engine/token"
	"mainseq/internal/shared/observability"
	"mainseq/internal/shared/util"
)

// Watcher observes a project root and invokes a rescan callback after
// relevant filesystem activity settles.
type Watcher struct {
	root     string
	debounce time.Duration
	limiter  *util.Limiter
	rescan   func(context.Context)

	excludeDirs []glob.Glob
	extensions  map[string]bool

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
}

func New(cfg *config.Config, rescan func(context.Context)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fs watcher: %w", err)
	}

	w := &Watcher{
		root:       cfg.Paths.ProjectRoot,
		debounce:   cfg.Watch.Debounce,
		limiter:    util.NewLimiter(cfg.Watch.RescansPerSec, 1),
		rescan:     rescan,
		extensions: make(map[string]bool),
		fsw:        fsw,
		pending:    make(map[string]struct{}),
	}

	exts := cfg.Analysis.Extensions
	if len(exts) == 0 {
		exts = token.SupportedExtensions()
	}
	for _, ext := range exts {
		w.extensions[strings.ToLower(ext)] = true
	}

	for _, pattern := range cfg.Exclude.Dirs {
		g, err := glob.Compile(pattern)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", pattern, err)
		}
		w.excludeDirs = append(w.excludeDirs, g)
	}

	if err := w.addTree(w.root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// addTree registers root and every non-excluded directory below it.
// fsnotify watches are not recursive.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && w.excludedDir(d.Name()) {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			slog.Warn("cannot watch directory", "path", path, "error", addErr)
		}
		return nil
	})
}

// Run blocks until ctx is cancelled, dispatching debounced rescans as
// events arrive.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	slog.Info("watching for changes", "root", w.root, "debounce", w.debounce)

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return ctx.Err()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if event.Op.Has(fsnotify.Create) {
		// New directories need their own watch before edits inside
		// them become visible.
		if !w.excludedDir(filepath.Base(event.Name)) {
			_ = w.addTree(event.Name)
		}
	}
	if !w.relevant(event) {
		return
	}
	observability.WatcherEventsTotal.Inc()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[event.Name] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.fire(ctx) })
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	if !w.extensions[strings.ToLower(filepath.Ext(event.Name))] {
		return false
	}
	if rel, err := filepath.Rel(w.root, event.Name); err == nil {
		for dir := filepath.Dir(rel); dir != "." && dir != "/"; dir = filepath.Dir(dir) {
			if w.excludedDir(filepath.Base(dir)) {
				return false
			}
		}
	}
	return true
}

func (w *Watcher) fire(ctx context.Context) {
	w.mu.Lock()
	changed := len(w.pending)
	w.pending = make(map[string]struct{})
	w.mu.Unlock()
	if changed == 0 || ctx.Err() != nil {
		return
	}

	if !w.limiter.Allow(1) {
		// Over the rescan budget. Keep one pending marker so the next
		// debounce window retries instead of dropping the change.
		w.mu.Lock()
		w.pending["(deferred)"] = struct{}{}
		if w.timer != nil {
			w.timer.Stop()
		}
		w.timer = time.AfterFunc(w.debounce, func() { w.fire(ctx) })
		w.mu.Unlock()
		return
	}

	slog.Info("changes detected, rescanning", "files", changed)
	observability.RescansTotal.Inc()
	w.rescan(ctx)
}

func (w *Watcher) excludedDir(name string) bool {
	for _, g := range w.excludeDirs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}
