// # cmd/mainseq/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"mainseq/internal/core/app"
	"mainseq/internal/core/config"
	"mainseq/internal/core/watcher"
	"mainseq/internal/engine/metrics"
	"mainseq/internal/shared/observability"
	"mainseq/internal/ui/report"
)

var (
	configPath = flag.String("config", "./mainseq.toml", "Path to config file")
	once       = flag.Bool("once", false, "Run single analysis and exit")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("mainseq v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if *configPath == "./mainseq.toml" && errors.Is(err, os.ErrNotExist) {
			slog.Info("no config file found, using defaults")
			cfg = config.Default()
		} else {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}
	if flag.NArg() > 0 {
		cfg.Paths.ProjectRoot = flag.Arg(0)
	}
	if *once {
		cfg.Watch.Enabled = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Observe.OTLPEndpoint)
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
	} else {
		defer func() { _ = shutdownTracing(context.Background()) }()
	}

	if cfg.Observe.MetricsAddr != "" {
		go func() {
			if err := observability.ServeMetrics(cfg.Observe.MetricsAddr); err != nil {
				slog.Error("metrics server stopped", "error", err)
			}
		}()
	}

	application, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := analyzeAndReport(ctx, application); err != nil {
		slog.Error("analysis failed", "error", err)
		os.Exit(1)
	}

	if !cfg.Watch.Enabled {
		return
	}

	w, err := watcher.New(cfg, func(ctx context.Context) {
		if err := analyzeAndReport(ctx, application); err != nil {
			slog.Error("rescan failed", "error", err)
		}
	})
	if err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}
	if err := w.Run(ctx); err != nil && err != context.Canceled {
		slog.Error("watcher stopped", "error", err)
		os.Exit(1)
	}
}

func analyzeAndReport(ctx context.Context, application *app.App) error {
	result, err := application.Run(ctx)
	if err != nil {
		return err
	}
	cfg := application.Config()
	if err := report.WriteAll(cfg.Paths.OutputDir, cfg.Output.Formats, result); err != nil {
		return err
	}
	fmt.Print(formatSummary(result))
	return nil
}

func formatSummary(result *app.Result) string {
	var b strings.Builder

	b.WriteString("Design Balance\n")
	b.WriteString("==============\n")
	b.WriteString(fmt.Sprintf("Files analyzed: %d\n", result.Summary.TotalFiles))
	b.WriteString(fmt.Sprintf("Average distance: %.3f (range %.3f-%.3f)\n",
		result.Summary.AverageDistance, result.Summary.MinDistance, result.Summary.MaxDistance))
	b.WriteString("\n")

	for _, zone := range []metrics.Zone{
		metrics.ZoneMainSequence,
		metrics.ZoneNearMainSequence,
		metrics.ZoneFarFromMain,
		metrics.ZonePain,
		metrics.ZoneUselessness,
	} {
		if n := result.Summary.ZoneCounts[zone]; n > 0 {
			b.WriteString(fmt.Sprintf("%-24s %d\n", zone, n))
		}
	}
	b.WriteString("\n")

	for _, rec := range result.Summary.Recommendations {
		b.WriteString(fmt.Sprintf("- %s\n", rec))
	}
	return b.String()
}
