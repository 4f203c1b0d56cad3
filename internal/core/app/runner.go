// # internal/core/app/runner.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"mainseq/internal/data/history"
	"mainseq/internal/engine/maintainability"
	"mainseq/internal/engine/metrics"
	"mainseq/internal/engine/parser"
	"mainseq/internal/engine/token"
	"mainseq/internal/shared/observability"
)

// Result is the outcome of one full analysis run.
type Result struct {
	GeneratedAt     time.Time                         `json:"generated_at" yaml:"generated_at"`
	CommitHash      string                            `json:"commit_hash,omitempty" yaml:"commit_hash,omitempty"`
	Files           map[string]*metrics.FileRecord    `json:"files" yaml:"files"`
	Summary         metrics.Summary                   `json:"summary" yaml:"summary"`
	Maintainability map[string]maintainability.Report `json:"maintainability" yaml:"maintainability"`
	Classes         []metrics.ClassMetrics            `json:"classes,omitempty" yaml:"classes,omitempty"`
}

// cacheEntry holds the per-file results that depend only on the file's
// own content. Coupling is cross-file and is rebuilt on every run.
type cacheEntry struct {
	digest  uint64
	maint   maintainability.Report
	classes []metrics.ClassMetrics
}

// Run performs one complete analysis: enumerate sources, extract every
// file in parallel, then aggregate coupling and summarize. The
// aggregation pass only starts once every extraction worker has
// finished; coupling counted before that point would be incomplete.
func (a *App) Run(ctx context.Context) (*Result, error) {
	runStart := time.Now()
	ctx, span := observability.Tracer.Start(ctx, "analysis.run")
	defer span.End()

	files, err := a.enumerate()
	if err != nil {
		return nil, err
	}
	slog.Info("starting analysis", "files", len(files), "mode", a.cfg.Source.Mode)

	a.analyzer.Reset()

	var (
		mu        sync.Mutex
		collected = struct {
			maint   map[string]maintainability.Report
			classes []metrics.ClassMetrics
		}{maint: make(map[string]maintainability.Report, len(files))}
	)

	workers := a.cfg.Analysis.Workers
	if workers <= 0 {
		workers = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, path := range files {
		path := path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := a.readFile(path)
			if err != nil {
				slog.Warn("skipping unreadable file", "path", path, "error", err)
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))

			start := time.Now()
			a.analyzer.AnalyzeFile(path, content, ext)
			observability.ExtractionDuration.
				WithLabelValues(token.LanguageForExtension(ext)).
				Observe(time.Since(start).Seconds())

			entry := a.perFileResults(path, content, ext)

			mu.Lock()
			collected.maint[path] = entry.maint
			collected.classes = append(collected.classes, entry.classes...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("extraction: %w", err)
	}
	observability.ObserveStage("extraction", runStart)

	aggStart := time.Now()
	a.analyzer.CalculateAfferentCoupling()
	observability.ObserveStage("aggregation", aggStart)

	result := &Result{
		GeneratedAt:     time.Now().UTC(),
		Files:           a.analyzer.Files(),
		Summary:         a.analyzer.Summary(),
		Maintainability: collected.maint,
		Classes:         collected.classes,
	}
	sort.Slice(result.Classes, func(i, j int) bool {
		if result.Classes[i].File != result.Classes[j].File {
			return result.Classes[i].File < result.Classes[j].File
		}
		return result.Classes[i].Name < result.Classes[j].Name
	})

	a.publishGauges(result)
	a.persistSnapshot(result)

	slog.Info("analysis complete",
		"files", result.Summary.TotalFiles,
		"avg_distance", result.Summary.AverageDistance,
		"duration", time.Since(runStart))
	return result, nil
}

// perFileResults computes maintainability and class metrics for one
// file, reusing the cached values when the content digest is unchanged.
func (a *App) perFileResults(path, content, ext string) cacheEntry {
	digest := xxhash.Sum64String(content)
	if prev, ok := a.cache.Get(path); ok && prev.digest == digest {
		observability.ContentCacheHits.Inc()
		return prev
	}

	entry := cacheEntry{
		digest: digest,
		maint:  maintainability.Analyze(path, content, ext),
	}
	if mod := parser.Parse(content, ext); mod != nil {
		entry.classes = metrics.ComputeClassMetrics(path, mod)
	}
	a.cache.Add(path, entry)
	return entry
}

func (a *App) enumerate() ([]string, error) {
	if a.cfg.Source.Mode == "git" {
		tracked, err := a.source.ListTracked()
		if err != nil {
			return nil, fmt.Errorf("list git files: %w", err)
		}
		return a.scanner.Filter(tracked), nil
	}
	return a.scanner.Scan()
}

func (a *App) readFile(rel string) (string, error) {
	if a.cfg.Source.Mode == "git" {
		return a.source.ReadBlob(rel)
	}
	data, err := os.ReadFile(filepath.Join(a.cfg.Paths.ProjectRoot, rel))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (a *App) publishGauges(result *Result) {
	observability.FilesAnalyzed.Set(float64(result.Summary.TotalFiles))
	for _, zone := range []metrics.Zone{
		metrics.ZoneMainSequence,
		metrics.ZoneNearMainSequence,
		metrics.ZonePain,
		metrics.ZoneUselessness,
		metrics.ZoneFarFromMain,
	} {
		observability.ZoneFiles.WithLabelValues(string(zone)).
			Set(float64(result.Summary.ZoneCounts[zone]))
	}
}

func (a *App) persistSnapshot(result *Result) {
	if a.store == nil {
		return
	}
	commit, commitTS := a.source.Metadata()
	result.CommitHash = commit

	_, err := a.store.SaveRun(history.RunRecord{
		ProjectKey:      a.cfg.DB.ProjectKey,
		Timestamp:       result.GeneratedAt,
		CommitHash:      commit,
		CommitTimestamp: commitTS,
		TotalFiles:      result.Summary.TotalFiles,
		AverageDistance: result.Summary.AverageDistance,
		MinDistance:     result.Summary.MinDistance,
		MaxDistance:     result.Summary.MaxDistance,
		ZoneCounts:      result.Summary.ZoneCounts,
	})
	if err != nil {
		slog.Error("failed to persist run snapshot", "error", err)
		return
	}
	observability.SnapshotWritesTotal.Inc()
}
