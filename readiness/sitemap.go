package readiness

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// MaxSitemapURLs is the protocol limit of URLs in one sitemap file.
const MaxSitemapURLs = 50000

// SitemapType distinguishes URL sets from sitemap indexes.
type SitemapType string

const (
	SitemapStandard SitemapType = "standard"
	SitemapIndex    SitemapType = "index"
	SitemapUnknown  SitemapType = "unknown"
)

// SitemapURL is one <url> entry.
type SitemapURL struct {
	Loc        string   `xml:"loc" json:"loc"`
	LastMod    string   `xml:"lastmod" json:"lastmod,omitempty"`
	ChangeFreq string   `xml:"changefreq" json:"changefreq,omitempty"`
	Priority   *float64 `xml:"-" json:"priority,omitempty"`

	RawPriority string `xml:"priority" json:"-"`
}

// SitemapStats aggregates a URL set.
type SitemapStats struct {
	TotalURLs        int     `json:"total_urls"`
	URLsWithLastMod  int     `json:"urls_with_lastmod"`
	URLsWithPriority int     `json:"urls_with_priority"`
	AvgPriority      float64 `json:"avg_priority"`
	// ContentTypes counts URLs per category guessed from the path.
	ContentTypes map[string]int `json:"content_types"`
}

// SitemapAnalysis is the parsed content of a sitemap or sitemap index.
type SitemapAnalysis struct {
	Found           bool         `json:"found"`
	URL             string       `json:"url,omitempty"`
	Type            SitemapType  `json:"type"`
	URLCount        int          `json:"url_count"`
	Entries         []SitemapURL `json:"-"`
	Stats           SitemapStats `json:"statistics"`
	Nested          []string     `json:"nested_sitemaps"`
	Issues          []string     `json:"issues"`
	Recommendations []string     `json:"recommendations"`
}

// Sample returns up to n entries for display.
func (a *SitemapAnalysis) Sample(n int) []SitemapURL {
	return a.Entries[:min(n, len(a.Entries))]
}

type xmlURLSet struct {
	URLs []SitemapURL `xml:"url"`
}

type xmlSitemapIndex struct {
	Sitemaps []struct {
		Loc string `xml:"loc"`
	} `xml:"sitemap"`
}

// aiRelevantTypes are the content categories worth pointing out to AI
// crawlers, in report order.
var aiRelevantTypes = []string{"article", "blog", "product", "documentation"}

// ParseSitemap parses sitemap XML. URLs outside baseOrigin are reported as
// issues. Content that is neither a urlset nor a sitemapindex yields an
// analysis of type SitemapUnknown with an issue.
func ParseSitemap(content []byte, baseOrigin string) *SitemapAnalysis {
	a := &SitemapAnalysis{
		Found:           true,
		Type:            SitemapUnknown,
		Stats:           SitemapStats{ContentTypes: make(map[string]int)},
		Nested:          make([]string, 0),
		Issues:          make([]string, 0),
		Recommendations: make([]string, 0),
	}

	switch rootElement(content) {
	case "sitemapindex":
		a.Type = SitemapIndex
		var idx xmlSitemapIndex
		if err := xml.Unmarshal(content, &idx); err != nil {
			a.Issues = append(a.Issues, fmt.Sprintf("Invalid sitemap XML: %v", err))
			return a
		}
		for _, s := range idx.Sitemaps {
			if loc := strings.TrimSpace(s.Loc); loc != "" {
				a.Nested = append(a.Nested, loc)
			}
		}
		a.URLCount = len(a.Nested)
		if a.URLCount == 0 {
			a.Issues = append(a.Issues, "Sitemap index contains no nested sitemaps")
		}
	case "urlset":
		a.Type = SitemapStandard
		var set xmlURLSet
		if err := xml.Unmarshal(content, &set); err != nil {
			a.Issues = append(a.Issues, fmt.Sprintf("Invalid sitemap XML: %v", err))
			return a
		}
		a.addURLs(set.URLs, baseOrigin)
	default:
		a.Issues = append(a.Issues, "Invalid sitemap format - missing <urlset> or <sitemapindex>")
		return a
	}

	a.validate()
	return a
}

// rootElement returns the local name of the first XML element.
func rootElement(content []byte) string {
	dec := xml.NewDecoder(bytes.NewReader(content))
	for {
		tok, err := dec.Token()
		if err != nil {
			return ""
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start.Name.Local
		}
	}
}

func (a *SitemapAnalysis) addURLs(urls []SitemapURL, baseOrigin string) {
	var prioritySum float64
	for _, u := range urls {
		u.Loc = strings.TrimSpace(u.Loc)
		u.LastMod = strings.TrimSpace(u.LastMod)
		u.ChangeFreq = strings.TrimSpace(u.ChangeFreq)

		if u.Loc != "" && baseOrigin != "" && !strings.HasPrefix(u.Loc, baseOrigin) {
			a.Issues = append(a.Issues, "URL on wrong domain: "+u.Loc)
		}

		if raw := strings.TrimSpace(u.RawPriority); raw != "" {
			p, err := strconv.ParseFloat(raw, 64)
			switch {
			case err != nil || math.IsNaN(p) || p < 0 || p > 1:
				a.Issues = append(a.Issues, fmt.Sprintf("Invalid priority %s for URL: %s", raw, u.Loc))
			default:
				u.Priority = &p
				prioritySum += p
				a.Stats.URLsWithPriority++
			}
		}
		if u.LastMod != "" {
			a.Stats.URLsWithLastMod++
		}
		a.Stats.ContentTypes[categorizeURL(u.Loc)]++
		a.Entries = append(a.Entries, u)
	}

	a.URLCount = len(a.Entries)
	a.Stats.TotalURLs = len(a.Entries)
	if a.Stats.URLsWithPriority > 0 {
		a.Stats.AvgPriority = prioritySum / float64(a.Stats.URLsWithPriority)
	}
}

func (a *SitemapAnalysis) validate() {
	if a.Type == SitemapStandard && a.URLCount > MaxSitemapURLs {
		a.Issues = append(a.Issues, fmt.Sprintf(
			"Sitemap exceeds %d URL limit (%d URLs) - consider using sitemap index", MaxSitemapURLs, a.URLCount))
	}
	if a.URLCount == 0 {
		a.Issues = append(a.Issues, "Sitemap contains no URLs")
		return
	}

	total := a.Stats.TotalURLs
	if total == 0 {
		return
	}
	if pct := float64(a.Stats.URLsWithLastMod) / float64(total) * 100; pct < 50 {
		a.Recommendations = append(a.Recommendations, fmt.Sprintf(
			"Only %.0f%% of URLs have lastmod dates - consider adding them for better crawl efficiency", pct))
	}
	if a.Stats.URLsWithPriority == 0 {
		a.Recommendations = append(a.Recommendations, "No priority values set - consider using priority to guide crawlers")
	}

	var relevant []string
	for _, t := range aiRelevantTypes {
		if n := a.Stats.ContentTypes[t]; n > 0 {
			relevant = append(relevant, fmt.Sprintf("%s: %d", t, n))
		}
	}
	if len(relevant) > 0 {
		a.Recommendations = append(a.Recommendations, "AI-relevant content found: "+strings.Join(relevant, ", "))
	}
}

// urlCategories maps path fragments to content categories, first match wins.
var urlCategories = []struct {
	category  string
	fragments []string
}{
	{"product", []string{"/product", "/item", "/shop"}},
	{"blog", []string{"/blog", "/post"}},
	{"article", []string{"/article", "/news"}},
	{"documentation", []string{"/doc", "/guide", "/tutorial"}},
	{"video", []string{"/video", "/watch"}},
	{"image", []string{"/image", "/gallery"}},
	{"faq", []string{"/faq", "/help"}},
	{"info", []string{"/about", "/contact", "/privacy"}},
}

// categorizeURL matches the path of u against urlCategories.
func categorizeURL(u string) string {
	path := u
	if parsed, err := url.Parse(u); err == nil {
		path = parsed.Path
	}
	lower := strings.ToLower(path)
	for _, c := range urlCategories {
		for _, f := range c.fragments {
			if strings.Contains(lower, f) {
				return c.category
			}
		}
	}
	return "page"
}

// ContentTypeNames returns the categories of s sorted by name.
func (s SitemapStats) ContentTypeNames() []string {
	names := make([]string, 0, len(s.ContentTypes))
	for name := range s.ContentTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
