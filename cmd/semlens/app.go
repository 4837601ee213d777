package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/c360studio/semlens/config"
	"github.com/c360studio/semlens/export"
	"github.com/c360studio/semlens/insights"
	"github.com/c360studio/semlens/pipeline"
	"github.com/c360studio/semlens/readiness"
	"github.com/c360studio/semlens/render"
	"github.com/c360studio/semlens/source/page"
	"github.com/c360studio/semlens/source/weburl"
)

// App is the main application that wires together all components.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer

	analyzer *pipeline.Analyzer
	metrics  *pipeline.Metrics
	exporter *export.Exporter
	renderer *render.Renderer
	checker  *readiness.Checker
}

// NewApp creates a new application instance. Extra pipeline options are
// applied after the ones derived from cfg.
func NewApp(cfg *config.Config, logger *slog.Logger, out io.Writer, opts ...pipeline.Option) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fetcher := page.NewFetcher(cfg.Fetch.Timeout, cfg.Fetch.UserAgent, cfg.Fetch.MaxContentSize,
		page.WithAllowHTTP(cfg.Fetch.AllowHTTP))
	expander, err := page.NewExpander(fetcher.Client(),
		page.WithExpanderLogger(logger),
		page.WithRemoteSchemaContext(cfg.Fetch.RemoteContexts))
	if err != nil {
		return nil, fmt.Errorf("create expander: %w", err)
	}

	var metrics *pipeline.Metrics
	if cfg.Log.MetricsFile != "" {
		metrics = pipeline.NewMetrics()
	}

	base := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithFetcher(fetcher),
		pipeline.WithExpander(expander),
		pipeline.WithConverter(page.NewConverter(
			page.WithReadability(cfg.Analysis.Readability),
			page.WithConverterLogger(logger))),
		pipeline.WithEngine(insights.NewEngine(
			insights.WithLogger(logger),
			insights.WithMaxInheritanceDepth(cfg.Analysis.MaxInheritanceDepth))),
		pipeline.WithMetrics(metrics),
		pipeline.WithCombineBlocks(cfg.Analysis.CombineBlocks),
	}
	analyzer, err := pipeline.NewAnalyzer(append(base, opts...)...)
	if err != nil {
		return nil, err
	}

	checker := readiness.NewChecker(analyzer.Fetcher(),
		readiness.WithLogger(logger),
		readiness.WithConcurrency(cfg.Batch.Concurrency))

	return &App{
		cfg:      cfg,
		logger:   logger,
		out:      out,
		analyzer: analyzer,
		metrics:  metrics,
		exporter: export.NewExporter(),
		checker:  checker,
		renderer: render.NewRenderer(render.Options{
			IncludeMarkdown:      !cfg.Output.GraphOnly,
			IncludeGraph:         cfg.Output.IncludeGraph || cfg.Output.GraphOnly,
			IncludeDataDownloads: cfg.Output.DataDownloads,
			MaxVariants:          cfg.Output.MaxVariants,
		}),
	}, nil
}

// RunURL analyzes one page and writes or saves its output.
func (a *App) RunURL(ctx context.Context, pageURL string) error {
	defer a.flushMetrics()

	res, err := a.analyzer.AnalyzeURL(ctx, pageURL)
	if err != nil {
		return err
	}
	for _, skipped := range res.Skipped {
		a.logger.Warn("JSON-LD block skipped", "url", res.URL, "error", skipped)
	}

	output, err := a.Format(res)
	if err != nil {
		return err
	}

	if a.cfg.Output.SaveDir == "" {
		_, err = io.WriteString(a.out, output)
		return err
	}
	path, err := weburl.OutputPath(a.cfg.Output.SaveDir, res.URL)
	if err != nil {
		return err
	}
	return a.save(a.withExtension(path), output)
}

// RunReadiness checks how well the site of pageURL serves AI agents and
// writes or saves the report. Only markdown and json output are supported.
func (a *App) RunReadiness(ctx context.Context, pageURL string) error {
	var ext string
	switch a.cfg.Output.Format {
	case config.FormatMarkdown:
		ext = ".md"
	case string(export.FormatJSON):
		ext = ".json"
	default:
		return fmt.Errorf("readiness reports support markdown and json output, not %s", a.cfg.Output.Format)
	}

	report, err := a.checker.Check(ctx, pageURL)
	if err != nil {
		return err
	}

	output := render.Readiness(report)
	if ext == ".json" {
		if output, err = report.JSON(); err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
	}

	if a.cfg.Output.SaveDir == "" {
		_, err = io.WriteString(a.out, output)
		return err
	}
	path, err := weburl.OutputPath(a.cfg.Output.SaveDir, report.URL)
	if err != nil {
		return err
	}
	target := strings.TrimSuffix(path, filepath.Ext(path))
	if path != a.cfg.Output.SaveDir {
		target += ".readiness"
	}
	return a.save(target+ext, output)
}

// RunFiles analyzes local files matching patterns. Every file is reported;
// the returned error counts the files that failed.
func (a *App) RunFiles(ctx context.Context, patterns []string, input pipeline.Input) error {
	defer a.flushMetrics()

	paths, err := pipeline.ExpandPatterns(patterns)
	if err != nil {
		return err
	}

	results, err := a.analyzer.Batch(ctx, paths, pipeline.BatchOptions{
		Input:       input,
		Concurrency: a.cfg.Batch.Concurrency,
	})
	if err != nil {
		return err
	}

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s: %v\n", r.Path, r.Err)
			continue
		}
		if err := a.emitFile(r.Path, r.Result); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

// Watch re-analyzes the files, or the HTML and JSON-LD files below a
// directory, whenever they change until ctx is cancelled.
func (a *App) Watch(ctx context.Context, patterns []string, input pipeline.Input) error {
	var paths []string
	for _, p := range patterns {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			paths = append(paths, p)
			continue
		}
		files, err := pipeline.ExpandPatterns([]string{p})
		if err != nil {
			return err
		}
		paths = append(paths, files...)
	}

	watcher, err := pipeline.NewWatcher(a.analyzer, pipeline.WatcherConfig{
		Paths:         paths,
		Input:         input,
		DebounceDelay: a.cfg.Batch.DebounceDelay,
		Logger:        a.logger,
	})
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Start(ctx); err != nil {
		_ = watcher.Stop()
		return fmt.Errorf("start watcher: %w", err)
	}
	defer func() { _ = watcher.Stop() }()

	a.logger.Info("Watching for changes", "paths", len(paths))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			if err := a.handleWatchEvent(ev); err != nil {
				return err
			}
		}
	}
}

func (a *App) handleWatchEvent(ev pipeline.WatchEvent) error {
	defer a.flushMetrics()

	switch {
	case ev.Operation == pipeline.OpDelete:
		a.logger.Info("File removed", "path", ev.Path)
		return nil
	case ev.Error != nil:
		fmt.Fprintf(os.Stderr, "%s: %v\n", ev.Path, ev.Error)
		return nil
	default:
		return a.emitFile(ev.Path, ev.Result)
	}
}

// Format renders a result in the configured output format.
func (a *App) Format(res *pipeline.Result) (string, error) {
	if a.cfg.Output.Format == config.FormatMarkdown {
		return a.renderer.Render(res.Report())
	}
	format, err := export.ParseFormat(a.cfg.Output.Format)
	if err != nil {
		return "", err
	}
	if format == export.FormatCSV {
		return export.VariantsCSV(res.Insights)
	}
	return a.exporter.Export(res.Graph, format)
}

// emitFile writes the output for a local file, either to out under a
// header naming the file or into the save directory.
func (a *App) emitFile(path string, res *pipeline.Result) error {
	output, err := a.Format(res)
	if err != nil {
		return err
	}

	if a.cfg.Output.SaveDir == "" {
		_, err = fmt.Fprintf(a.out, "<!-- %s -->\n%s\n", path, output)
		return err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".md"
	target := filepath.Join(a.cfg.Output.SaveDir, name)
	return a.save(a.withExtension(target), output)
}

// withExtension swaps the ".md" of a derived output path for the extension
// of the configured export format.
func (a *App) withExtension(path string) string {
	if a.cfg.Output.Format == config.FormatMarkdown {
		return path
	}
	format, err := export.ParseFormat(a.cfg.Output.Format)
	if err != nil {
		return path
	}
	info, ok := export.GetFormatInfo(format)
	if !ok {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + info.Extension
}

func (a *App) save(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(a.out, "Saved %s\n", path)
	return nil
}

func (a *App) flushMetrics() {
	if a.cfg.Log.MetricsFile == "" {
		return
	}
	if err := a.metrics.WriteToTextfile(a.cfg.Log.MetricsFile); err != nil {
		a.logger.Warn("Failed to write metrics", "path", a.cfg.Log.MetricsFile, "error", err)
	}
}
