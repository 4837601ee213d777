package readiness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/c360studio/semlens/source/page"
)

// DefaultConcurrency is the number of site files fetched in parallel.
const DefaultConcurrency = 4

// Fetcher retrieves a URL. *page.Fetcher satisfies it; a status other than
// 200 is reported as *page.StatusError.
type Fetcher interface {
	Fetch(ctx context.Context, urlStr string) (*page.FetchResult, error)
}

// Checker assesses the AI readiness of websites.
type Checker struct {
	fetcher     Fetcher
	logger      *slog.Logger
	concurrency int
}

// Option configures a Checker.
type Option func(*Checker)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithConcurrency limits parallel fetches of .well-known files.
func WithConcurrency(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// NewChecker creates a checker fetching through fetcher.
func NewChecker(fetcher Fetcher, opts ...Option) *Checker {
	c := &Checker{
		fetcher:     fetcher,
		logger:      slog.Default(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check fetches pageURL and the site files of its origin and returns the
// scored report. Only a failure to fetch the page itself is an error;
// missing site files are findings.
func (c *Checker) Check(ctx context.Context, pageURL string) (*Report, error) {
	res, err := c.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	origin, err := originOf(res.URL)
	if err != nil {
		return nil, err
	}

	report := NewReport(res.URL)
	report.WellKnown, err = c.checkWellKnown(ctx, origin)
	if err != nil {
		return nil, err
	}

	if f, ok := report.WellKnown.Get(PathAIPlugin); ok && f.Valid {
		report.Plugin = ValidatePluginManifest(f.Content)
		if isAbsoluteURL(report.Plugin.APIURL) {
			report.OpenAPI = c.checkOpenAPI(ctx, report, report.Plugin.APIURL)
		}
	}
	if f, ok := report.WellKnown.Get(PathMCP); ok && f.Valid {
		report.MCP = ValidateMCPManifest(f.Content)
	}

	report.Robots = c.checkRobots(ctx, origin)
	report.Sitemap = c.checkSitemap(ctx, origin, report.Robots.Sitemaps)

	if semantic, err := AnalyzeSemanticHTML(res.Body); err != nil {
		c.logger.Warn("Semantic HTML check failed", "url", res.URL, "error", err)
	} else {
		report.Semantic = semantic
	}
	if blocks, err := page.ExtractJSONLD(res.Body); err == nil {
		report.StructuredData = len(blocks)
	}

	assess(report)
	report.CalculateScore()

	c.logger.Debug("Readiness check complete", "url", res.URL, "score", report.Score, "issues", len(report.Issues))
	return report, nil
}

// originOf returns scheme://host[:port] of rawURL.
func originOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid page URL %q", rawURL)
	}
	return u.Scheme + "://" + u.Host, nil
}

// fetchFile fetches a site file. A non-200 answer is returned as its status
// code with a nil error.
func (c *Checker) fetchFile(ctx context.Context, fileURL string) (int, []byte, error) {
	res, err := c.fetcher.Fetch(ctx, fileURL)
	if err != nil {
		var statusErr *page.StatusError
		if errors.As(err, &statusErr) {
			return statusErr.StatusCode, nil, nil
		}
		return 0, nil, err
	}
	return res.StatusCode, res.Body, nil
}

func (c *Checker) checkWellKnown(ctx context.Context, origin string) (WellKnownChecks, error) {
	checks := make(WellKnownChecks, len(wellKnownFiles))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, file := range wellKnownFiles {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			check := FileCheck{Path: file.path}
			status, body, err := c.fetchFile(gCtx, origin+file.path)
			switch {
			case err != nil:
				check.Error = err.Error()
				c.logger.Debug("Well-known file unavailable", "path", file.path, "error", err)
			case status == 200:
				check.StatusCode = status
				check.Found = true
				check.Content = string(body)
				check.validate(file.kind)
			default:
				check.StatusCode = status
			}
			checks[i] = check
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return checks, nil
}

func (c *Checker) checkOpenAPI(ctx context.Context, report *Report, specURL string) *OpenAPIValidation {
	status, body, err := c.fetchFile(ctx, specURL)
	if err != nil || status != 200 {
		report.AddIssue(SeverityHigh, "openapi",
			fmt.Sprintf("OpenAPI spec referenced by ai-plugin.json could not be fetched: %s", describeFailure(status, err)))
		return nil
	}
	return ValidateOpenAPI(body)
}

func (c *Checker) checkRobots(ctx context.Context, origin string) *RobotsAnalysis {
	status, body, err := c.fetchFile(ctx, origin+PathRobotsTxt)
	if err != nil || status != 200 {
		c.logger.Debug("robots.txt unavailable", "origin", origin, "status", status, "error", err)
		return &RobotsAnalysis{
			StatusCode: status,
			Sitemaps:   make([]string, 0),
			Agents:     make([]*AgentRules, 0),
			Issues:     make([]string, 0),
		}
	}
	return ParseRobots(string(body))
}

// checkSitemap tries the sitemaps listed in robots.txt, then the default
// location. The first one that can be fetched is analyzed.
func (c *Checker) checkSitemap(ctx context.Context, origin string, listed []string) *SitemapAnalysis {
	candidates := append(append([]string{}, listed...), origin+PathDefaultSitemap)
	for _, candidate := range candidates {
		status, body, err := c.fetchFile(ctx, candidate)
		if err != nil || status != 200 {
			c.logger.Debug("Sitemap unavailable", "url", candidate, "status", status, "error", err)
			continue
		}
		a := ParseSitemap(body, origin)
		a.URL = candidate
		return a
	}
	return nil
}

func describeFailure(status int, err error) string {
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("HTTP %d", status)
}

// assess turns the collected analyses into strengths, issues and
// recommendations.
func assess(r *Report) {
	assessStructuredData(r)
	assessRobots(r)
	assessSitemap(r)
	assessManifests(r)
	assessSemantic(r)
}

func assessStructuredData(r *Report) {
	if r.StructuredData == 0 {
		r.AddIssue(SeverityHigh, "structured-data", "No JSON-LD structured data found on the page")
		r.Recommendations = append(r.Recommendations, "Describe the page content with Schema.org JSON-LD")
		return
	}
	r.Strengths = append(r.Strengths, fmt.Sprintf("%d JSON-LD block(s) on the page", r.StructuredData))
}

func assessRobots(r *Report) {
	robots := r.Robots
	if !robots.Found {
		r.AddIssue(SeverityMedium, "robots", "No robots.txt found")
		r.Recommendations = append(r.Recommendations, "Add a robots.txt that states the rules for AI crawlers")
		return
	}

	if wildcard := robots.agent("*"); wildcard != nil && wildcard.BlocksAll {
		r.AddIssue(SeverityCritical, "robots", "All bots blocked with 'Disallow: /'")
	}
	var blocked []string
	for _, crawler := range robots.Crawlers {
		if crawler.Access == AccessBlocked {
			blocked = append(blocked, crawler.Name)
		}
	}
	switch {
	case len(blocked) > 0:
		r.AddIssue(SeverityHigh, "robots", fmt.Sprintf("%d of %d AI crawlers are blocked: %s",
			len(blocked), len(robots.Crawlers), strings.Join(blocked, ", ")))
	default:
		r.Strengths = append(r.Strengths, "robots.txt does not block any major AI crawler")
	}

	if len(robots.Sitemaps) == 0 {
		r.AddIssue(SeverityLow, "robots", "robots.txt does not reference a sitemap")
		r.Recommendations = append(r.Recommendations, "Add a Sitemap: line to robots.txt")
	}
}

func assessSitemap(r *Report) {
	if r.Sitemap == nil {
		r.AddIssue(SeverityMedium, "sitemap", "No sitemap found")
		r.Recommendations = append(r.Recommendations, "Publish a sitemap.xml listing the pages of the site")
		return
	}
	if r.Sitemap.Type != SitemapUnknown && r.Sitemap.URLCount > 0 {
		r.Strengths = append(r.Strengths, fmt.Sprintf("Sitemap (%s) with %d entries", r.Sitemap.Type, r.Sitemap.URLCount))
	}
	for _, issue := range r.Sitemap.Issues {
		r.AddIssue(SeverityLow, "sitemap", issue)
	}
	r.Recommendations = append(r.Recommendations, r.Sitemap.Recommendations...)
}

func assessManifests(r *Report) {
	for _, path := range []string{PathAIPlugin, PathMCP} {
		if f, ok := r.WellKnown.Get(path); ok && f.Found && !f.Valid {
			r.AddIssue(SeverityHigh, "well-known", fmt.Sprintf("%s: %s", path, f.Error))
		}
	}

	switch p := r.Plugin; {
	case p == nil:
		r.Recommendations = append(r.Recommendations, "Consider publishing "+PathAIPlugin+" to describe your API to AI assistants")
	case p.Valid:
		r.Strengths = append(r.Strengths, fmt.Sprintf("Valid AI plugin manifest (%s)", p.NameForHuman))
	default:
		for _, issue := range p.Issues {
			r.AddIssue(SeverityMedium, "ai-plugin", fmt.Sprintf("%s: %s", issue.Field, issue.Message))
		}
	}

	switch m := r.MCP; {
	case m == nil:
		r.Recommendations = append(r.Recommendations, "Consider publishing "+PathMCP+" to expose an MCP server")
	case m.Valid:
		r.Strengths = append(r.Strengths, fmt.Sprintf("MCP server manifest (%s) with %d tool(s)", m.Name, m.ToolCount))
		for _, issue := range m.Issues {
			r.AddIssue(SeverityLow, "mcp", issue)
		}
	default:
		for _, issue := range m.Issues {
			r.AddIssue(SeverityMedium, "mcp", issue)
		}
	}

	if o := r.OpenAPI; o != nil {
		if o.Valid {
			r.Strengths = append(r.Strengths, fmt.Sprintf("OpenAPI %s spec with %d operation(s)", o.Version, len(o.Endpoints)))
		}
		for _, issue := range o.Issues {
			r.AddIssue(SeverityMedium, "openapi", issue)
		}
	}

	if f, ok := r.WellKnown.Get(PathSecurityTxt); ok && f.Valid {
		r.Strengths = append(r.Strengths, "security.txt published")
	}
}

func assessSemantic(r *Report) {
	s := r.Semantic
	if s == nil {
		return
	}
	if len(s.Issues) == 0 {
		r.Strengths = append(r.Strengths, "Semantic HTML structure without issues")
	}
	for _, issue := range s.Issues {
		r.AddIssue(SeverityLow, "semantic-html", issue)
	}
	r.Recommendations = append(r.Recommendations, s.Recommendations...)
}
