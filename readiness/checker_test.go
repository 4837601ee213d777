package readiness

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/c360studio/semlens/source/page"
)

const readyPage = `<html><head><title>Trail Bike</title>
<script type="application/ld+json">{"@context": "https://schema.org", "@type": "Product", "name": "Trail Bike"}</script>
</head><body><main><h1>Trail Bike</h1><p>Built for rough trails.</p></main></body></html>`

// newSiteServer serves files by exact path and 404 for everything else.
// Values may reference the server origin as {origin}.
func newSiteServer(t *testing.T, files map[string]string) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(strings.ReplaceAll(body, "{origin}", srv.URL)))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestChecker(srv *httptest.Server) *Checker {
	fetcher := page.NewFetcher(5*time.Second, "semlens-test", 1<<20,
		page.WithClient(srv.Client()),
		page.WithValidator(func(string) error { return nil }))
	return NewChecker(fetcher, WithConcurrency(2))
}

func TestCheck_FullSite(t *testing.T) {
	srv := newSiteServer(t, map[string]string{
		"/":                 readyPage,
		"/robots.txt":       "User-agent: GPTBot\nDisallow: /\n\nUser-agent: *\nAllow: /\n\nSitemap: {origin}/sitemap-main.xml\n",
		"/sitemap-main.xml": `<urlset><url><loc>{origin}/products/trail</loc><lastmod>2024-05-01</lastmod><priority>0.9</priority></url></urlset>`,
		PathAIPlugin:        pluginManifest("{origin}/openapi.yaml"),
		"/openapi.yaml":     shopOpenAPI,
		PathMCP:             "{not json",
		PathSecurityTxt:     "Contact: mailto:security@shop.example\n",
	})

	report, err := newTestChecker(srv).Check(context.Background(), srv.URL+"/")
	require.NoError(t, err)

	require.Len(t, report.WellKnown, len(wellKnownFiles))
	plugin, ok := report.WellKnown.Get(PathAIPlugin)
	require.True(t, ok)
	assert.True(t, plugin.Found)
	assert.True(t, plugin.Valid)
	mcp, _ := report.WellKnown.Get(PathMCP)
	assert.True(t, mcp.Found)
	assert.False(t, mcp.Valid)
	assert.Equal(t, "Invalid JSON format", mcp.Error)
	openid, _ := report.WellKnown.Get(PathOpenIDConfig)
	assert.False(t, openid.Found)
	assert.Equal(t, http.StatusNotFound, openid.StatusCode)

	require.NotNil(t, report.Plugin)
	assert.True(t, report.Plugin.Valid, "plugin issues: %v", report.Plugin.Issues)
	require.NotNil(t, report.OpenAPI)
	assert.Len(t, report.OpenAPI.Endpoints, 2)
	assert.Nil(t, report.MCP)

	require.NotNil(t, report.Robots)
	assert.True(t, report.Robots.Found)
	gpt, _ := report.Robots.Crawler("GPTBot")
	assert.Equal(t, AccessBlocked, gpt.Access)

	require.NotNil(t, report.Sitemap)
	assert.Equal(t, srv.URL+"/sitemap-main.xml", report.Sitemap.URL)
	assert.Equal(t, 1, report.Sitemap.URLCount)
	assert.Empty(t, report.Sitemap.Issues)

	require.NotNil(t, report.Semantic)
	assert.Empty(t, report.Semantic.Issues)
	assert.Equal(t, 1, report.StructuredData)

	assert.ElementsMatch(t, []Issue{
		{Severity: SeverityHigh, Category: "well-known", Message: PathMCP + ": Invalid JSON format"},
		{Severity: SeverityHigh, Category: "robots", Message: fmt.Sprintf("1 of %d AI crawlers are blocked: GPTBot", len(AICrawlers))},
	}, report.Issues)
	assert.Equal(t, 80, report.Score)
	assert.Contains(t, report.Strengths, "security.txt published")

	out, err := report.JSON()
	require.NoError(t, err)
	assert.Equal(t, int64(80), gjson.Get(out, "score").Int())
	assert.Equal(t, int64(len(wellKnownFiles)), gjson.Get(out, "well_known.#").Int())
	assert.False(t, gjson.Get(out, "well_known.0.content").Exists(), "file content stays out of the JSON")
}

func TestCheck_BareSite(t *testing.T) {
	srv := newSiteServer(t, map[string]string{
		"/shop": "<html><body><p>Nothing to see.</p></body></html>",
	})

	report, err := newTestChecker(srv).Check(context.Background(), srv.URL+"/shop")
	require.NoError(t, err)

	assert.False(t, report.Robots.Found)
	assert.Nil(t, report.Sitemap)
	assert.Nil(t, report.Plugin)
	assert.Zero(t, report.StructuredData)

	severities := make(map[Severity]int)
	for _, issue := range report.Issues {
		severities[issue.Severity]++
	}
	assert.Equal(t, map[Severity]int{SeverityHigh: 1, SeverityMedium: 2, SeverityLow: 2}, severities)
	assert.Equal(t, 76, report.Score)
	assert.NotEmpty(t, report.Recommendations)
}

func TestCheck_SitemapFallback(t *testing.T) {
	srv := newSiteServer(t, map[string]string{
		"/":            readyPage,
		"/robots.txt":  "User-agent: *\nDisallow:\nSitemap: {origin}/missing.xml\n",
		"/sitemap.xml": `<urlset><url><loc>{origin}/</loc></url></urlset>`,
	})

	report, err := newTestChecker(srv).Check(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	require.NotNil(t, report.Sitemap)
	assert.Equal(t, srv.URL+PathDefaultSitemap, report.Sitemap.URL)
}

func TestCheck_PageErrors(t *testing.T) {
	srv := newSiteServer(t, map[string]string{})
	_, err := newTestChecker(srv).Check(context.Background(), srv.URL+"/gone")
	var statusErr *page.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)

	guarded := NewChecker(page.NewFetcher(time.Second, "semlens-test", 1<<20))
	_, err = guarded.Check(context.Background(), "http://127.0.0.1/")
	assert.Error(t, err, "the URL guard rejects plain http and private hosts")
}

func TestCalculateScore(t *testing.T) {
	r := NewReport("https://shop.example/")
	r.CalculateScore()
	assert.Equal(t, 100, r.Score)

	r.AddIssue(SeverityCritical, "robots", "blocked")
	r.AddIssue(SeverityMedium, "sitemap", "missing")
	r.AddIssue(SeverityLow, "semantic-html", "no main")
	r.CalculateScore()
	assert.Equal(t, 73, r.Score)

	for range 5 {
		r.AddIssue(SeverityCritical, "robots", "blocked")
	}
	r.CalculateScore()
	assert.Equal(t, 0, r.Score)
}
