// Package pipeline runs the full analysis of a page: fetch, JSON-LD
// extraction, expansion, graph construction and insight derivation.
//
// An Analyzer is safe for concurrent use. Every analysis builds its own
// graph; the fetcher, expander, converter and engine are shared.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/c360studio/semlens/graph"
	"github.com/c360studio/semlens/insights"
	"github.com/c360studio/semlens/render"
	"github.com/c360studio/semlens/source/page"
)

// Defaults for the fetcher when no Option overrides it.
const (
	DefaultTimeout        = 30 * time.Second
	DefaultUserAgent      = "semlens/1.0 (+https://github.com/c360studio/semlens)"
	DefaultMaxContentSize = 10 * 1024 * 1024
)

// ErrNotModified is returned by AnalyzeURL when the server answers 304.
var ErrNotModified = errors.New("page not modified")

// Input selects how a local file is interpreted.
type Input int

const (
	// InputAuto treats .html and .htm files as pages and everything else as
	// a compacted JSON-LD block.
	InputAuto Input = iota
	// InputHTML reads the file as an HTML page.
	InputHTML
	// InputJSONLD reads the file as one compacted JSON-LD block.
	InputJSONLD
	// InputExpanded reads the file as already expanded JSON-LD.
	InputExpanded
)

// Result is the outcome of analyzing one page or file.
type Result struct {
	URL      string
	Title    string
	Markdown string
	// Blocks are the raw JSON-LD blocks found on the page.
	Blocks   []string
	Graph    *graph.KnowledgeGraph
	Insights *insights.GraphInsights
	Stats    graph.Stats
	// Skipped holds the errors of blocks that could not be expanded.
	Skipped  []error
	Duration time.Duration
}

// Report converts the result for rendering.
func (r *Result) Report() *render.Report {
	return &render.Report{
		URL:      r.URL,
		Title:    r.Title,
		Markdown: r.Markdown,
		Graph:    r.Graph,
		Insights: r.Insights,
	}
}

// Analyzer runs the analysis pipeline.
type Analyzer struct {
	fetcher   *page.Fetcher
	expander  *page.Expander
	converter *page.Converter
	engine    *insights.Engine
	metrics   *Metrics
	logger    *slog.Logger

	newIDs  func() graph.IDAllocator
	combine bool
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithFetcher sets the page fetcher.
func WithFetcher(f *page.Fetcher) Option {
	return func(a *Analyzer) { a.fetcher = f }
}

// WithExpander sets the JSON-LD expander.
func WithExpander(e *page.Expander) Option {
	return func(a *Analyzer) { a.expander = e }
}

// WithConverter sets the HTML to Markdown converter.
func WithConverter(c *page.Converter) Option {
	return func(a *Analyzer) { a.converter = c }
}

// WithEngine sets the insights engine.
func WithEngine(e *insights.Engine) Option {
	return func(a *Analyzer) { a.engine = e }
}

// WithMetrics records every analysis in m.
func WithMetrics(m *Metrics) Option {
	return func(a *Analyzer) { a.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithIDAllocator sets the factory for blank node id allocators. It is
// called once per analysis.
func WithIDAllocator(newIDs func() graph.IDAllocator) Option {
	return func(a *Analyzer) { a.newIDs = newIDs }
}

// WithCombineBlocks merges all blocks of a page into a single "@graph"
// document before expansion instead of expanding them one by one.
func WithCombineBlocks(combine bool) Option {
	return func(a *Analyzer) { a.combine = combine }
}

// NewAnalyzer creates an Analyzer. Collaborators not supplied as options are
// created with their defaults.
func NewAnalyzer(opts ...Option) (*Analyzer, error) {
	a := &Analyzer{logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}

	if a.fetcher == nil {
		a.fetcher = page.NewFetcher(DefaultTimeout, DefaultUserAgent, DefaultMaxContentSize)
	}
	if a.expander == nil {
		exp, err := page.NewExpander(a.fetcher.Client(), page.WithExpanderLogger(a.logger))
		if err != nil {
			return nil, fmt.Errorf("create expander: %w", err)
		}
		a.expander = exp
	}
	if a.converter == nil {
		a.converter = page.NewConverter(page.WithConverterLogger(a.logger))
	}
	if a.engine == nil {
		a.engine = insights.NewEngine(insights.WithLogger(a.logger))
	}
	if a.newIDs == nil {
		a.newIDs = func() graph.IDAllocator { return graph.UUIDAllocator{} }
	}
	return a, nil
}

// Fetcher returns the fetcher pages are retrieved with.
func (a *Analyzer) Fetcher() *page.Fetcher {
	return a.fetcher
}

// AnalyzeURL fetches a page and analyzes it. Relative IRIs resolve against
// the final URL after redirects.
func (a *Analyzer) AnalyzeURL(ctx context.Context, pageURL string) (*Result, error) {
	return a.AnalyzeURLWithETag(ctx, pageURL, "")
}

// AnalyzeURLWithETag is AnalyzeURL with a conditional request. It returns
// ErrNotModified when the page still matches etag.
func (a *Analyzer) AnalyzeURLWithETag(ctx context.Context, pageURL, etag string) (*Result, error) {
	start := time.Now()
	fetched, err := a.fetcher.FetchWithETag(ctx, pageURL, etag)
	if err != nil {
		a.metrics.observeFailure()
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	if fetched.NotModified() {
		return nil, ErrNotModified
	}

	a.logger.Info("Page fetched",
		"url", fetched.URL,
		"status", fetched.StatusCode,
		"bytes", len(fetched.Body))

	res, err := a.analyzeHTML(ctx, fetched.Body, fetched.URL)
	if err != nil {
		a.metrics.observeFailure()
		return nil, err
	}
	a.finish(res, start)
	return res, nil
}

// AnalyzeHTML analyzes page content that has already been retrieved.
func (a *Analyzer) AnalyzeHTML(ctx context.Context, content []byte, baseURL string) (*Result, error) {
	start := time.Now()
	res, err := a.analyzeHTML(ctx, content, baseURL)
	if err != nil {
		a.metrics.observeFailure()
		return nil, err
	}
	a.finish(res, start)
	return res, nil
}

// AnalyzeBlocks analyzes compacted JSON-LD blocks without a page around them.
func (a *Analyzer) AnalyzeBlocks(ctx context.Context, blocks []string, baseURL string) (*Result, error) {
	start := time.Now()
	res := &Result{URL: baseURL, Blocks: blocks}
	if err := a.buildFromBlocks(ctx, res, baseURL); err != nil {
		a.metrics.observeFailure()
		return nil, err
	}
	a.finish(res, start)
	return res, nil
}

// AnalyzeExpanded analyzes a document that is already in expanded JSON-LD
// form. No network access happens.
func (a *Analyzer) AnalyzeExpanded(ctx context.Context, data []byte, name string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	doc, err := graph.ParseDocument(data)
	if err != nil {
		a.metrics.observeFailure()
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	res := &Result{URL: name}
	if err := a.build(res, []graph.Document{doc}); err != nil {
		a.metrics.observeFailure()
		return nil, err
	}
	a.finish(res, start)
	return res, nil
}

// AnalyzeFile analyzes a local file. Relative IRIs resolve against the
// file URL.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string, input Input) (*Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		a.metrics.observeFailure()
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	base := "file://" + filepath.ToSlash(abs)

	if input == InputAuto {
		input = DetectInput(path)
	}
	a.logger.Debug("Analyzing file", "path", path, "input", input.String())

	switch input {
	case InputHTML:
		return a.AnalyzeHTML(ctx, content, base)
	case InputExpanded:
		return a.AnalyzeExpanded(ctx, content, base)
	default:
		return a.AnalyzeBlocks(ctx, []string{string(content)}, base)
	}
}

// DetectInput guesses the input kind from a file extension.
func DetectInput(path string) Input {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return InputHTML
	default:
		return InputJSONLD
	}
}

func (i Input) String() string {
	switch i {
	case InputHTML:
		return "html"
	case InputJSONLD:
		return "jsonld"
	case InputExpanded:
		return "expanded"
	default:
		return "auto"
	}
}

func (a *Analyzer) analyzeHTML(ctx context.Context, content []byte, baseURL string) (*Result, error) {
	blocks, err := page.ExtractJSONLD(content)
	if err != nil {
		return nil, fmt.Errorf("extract JSON-LD: %w", err)
	}
	res := &Result{URL: baseURL, Blocks: blocks}

	converted, err := a.converter.Convert(content, baseURL)
	if err != nil {
		a.logger.Warn("Markdown conversion failed", "url", baseURL, "error", err)
	} else {
		res.Title = converted.Title
		res.Markdown = converted.Markdown
	}

	if err := a.buildFromBlocks(ctx, res, baseURL); err != nil {
		return nil, err
	}
	return res, nil
}

func (a *Analyzer) buildFromBlocks(ctx context.Context, res *Result, baseURL string) error {
	blocks := res.Blocks
	if a.combine && len(blocks) > 1 {
		combined, err := page.CombineBlocks(blocks)
		if err != nil {
			return fmt.Errorf("combine blocks: %w", err)
		}
		blocks = []string{combined}
	}

	docs, skipped := a.expander.ExpandAll(ctx, blocks, baseURL)
	if err := ctx.Err(); err != nil {
		return err
	}
	res.Skipped = skipped
	return a.build(res, docs)
}

func (a *Analyzer) build(res *Result, docs []graph.Document) error {
	b := graph.NewBuilder(graph.WithIDAllocator(a.newIDs()), graph.WithLogger(a.logger))
	for _, doc := range docs {
		if err := b.Ingest(doc); err != nil {
			return fmt.Errorf("build graph: %w", err)
		}
	}
	res.Stats = b.Stats()
	g, err := b.Finish()
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}
	res.Graph = g
	res.Insights = a.engine.Analyze(g)
	return nil
}

func (a *Analyzer) finish(res *Result, start time.Time) {
	res.Duration = time.Since(start)
	a.metrics.observe(res)
	a.logger.Info("Analysis complete",
		"url", res.URL,
		"blocks", len(res.Blocks),
		"skipped", len(res.Skipped),
		"nodes", len(res.Graph.Nodes),
		"edges", len(res.Graph.Edges),
		"product_groups", len(res.Insights.ProductGroups),
		"duration", res.Duration)
}
