package readiness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shopSitemap = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url>
    <loc>https://shop.example/products/bike</loc>
    <lastmod>2024-01-01</lastmod>
    <priority>0.8</priority>
  </url>
  <url>
    <loc>https://shop.example/blog/post-1</loc>
    <priority>1.5</priority>
  </url>
  <url>
    <loc>https://other.example/about</loc>
  </url>
</urlset>`

func TestParseSitemap_URLSet(t *testing.T) {
	a := ParseSitemap([]byte(shopSitemap), "https://shop.example")

	assert.Equal(t, SitemapStandard, a.Type)
	assert.Equal(t, 3, a.URLCount)
	assert.Equal(t, 1, a.Stats.URLsWithLastMod)
	assert.Equal(t, 1, a.Stats.URLsWithPriority)
	assert.InDelta(t, 0.8, a.Stats.AvgPriority, 1e-9)
	assert.Equal(t, map[string]int{"product": 1, "blog": 1, "info": 1}, a.Stats.ContentTypes)
	assert.Equal(t, []string{"blog", "info", "product"}, a.Stats.ContentTypeNames())

	assert.Equal(t, []string{
		"Invalid priority 1.5 for URL: https://shop.example/blog/post-1",
		"URL on wrong domain: https://other.example/about",
	}, a.Issues)
	assert.Equal(t, []string{
		"Only 33% of URLs have lastmod dates - consider adding them for better crawl efficiency",
		"AI-relevant content found: blog: 1, product: 1",
	}, a.Recommendations)

	require.Len(t, a.Sample(2), 2)
	assert.Equal(t, "https://shop.example/products/bike", a.Sample(1)[0].Loc)
	require.NotNil(t, a.Entries[0].Priority)
	assert.Nil(t, a.Entries[1].Priority)
}

func TestParseSitemap_Index(t *testing.T) {
	content := `<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>https://shop.example/s1.xml</loc></sitemap>
  <sitemap><loc> https://shop.example/s2.xml </loc></sitemap>
</sitemapindex>`

	a := ParseSitemap([]byte(content), "https://shop.example")
	assert.Equal(t, SitemapIndex, a.Type)
	assert.Equal(t, []string{"https://shop.example/s1.xml", "https://shop.example/s2.xml"}, a.Nested)
	assert.Equal(t, 2, a.URLCount)
	assert.Empty(t, a.Issues)
}

func TestParseSitemap_Invalid(t *testing.T) {
	for _, content := range []string{"<html><body></body></html>", "not xml at all", ""} {
		a := ParseSitemap([]byte(content), "https://shop.example")
		assert.Equal(t, SitemapUnknown, a.Type, content)
		assert.Equal(t, []string{"Invalid sitemap format - missing <urlset> or <sitemapindex>"}, a.Issues, content)
	}
}

func TestParseSitemap_Empty(t *testing.T) {
	a := ParseSitemap([]byte(`<urlset></urlset>`), "https://shop.example")
	assert.Equal(t, SitemapStandard, a.Type)
	assert.Equal(t, []string{"Sitemap contains no URLs"}, a.Issues)
	assert.Empty(t, a.Sample(5))
}
