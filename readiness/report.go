// Package readiness checks how well a website exposes itself to AI agents
// and crawlers: robots.txt rules for AI crawlers, sitemaps, .well-known
// manifests (AI plugin, MCP, OpenAPI) and the semantic structure of the page
// itself.
//
// The parsers are pure functions over fetched content. Checker fetches the
// files through the SSRF-guarded page fetcher and assembles a scored Report.
package readiness

import "encoding/json"

// Severity ranks an issue by how much it hinders AI integration.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// deduction is the number of score points an issue of severity s costs.
func (s Severity) deduction() int {
	switch s {
	case SeverityCritical:
		return 20
	case SeverityHigh:
		return 10
	case SeverityMedium:
		return 5
	default:
		return 2
	}
}

// Issue is one problem found while checking a site.
type Issue struct {
	Severity Severity `json:"severity"`
	Category string   `json:"category"`
	Message  string   `json:"message"`
}

// Report is the readiness assessment of one site.
type Report struct {
	URL string `json:"url"`
	// Score runs from 0 to 100.
	Score int `json:"score"`

	WellKnown      WellKnownChecks    `json:"well_known"`
	Robots         *RobotsAnalysis    `json:"robots_txt,omitempty"`
	Sitemap        *SitemapAnalysis   `json:"sitemap,omitempty"`
	Semantic       *SemanticAnalysis  `json:"semantic_html,omitempty"`
	Plugin         *PluginValidation  `json:"ai_plugin,omitempty"`
	MCP            *MCPValidation     `json:"mcp,omitempty"`
	OpenAPI        *OpenAPIValidation `json:"openapi,omitempty"`
	StructuredData int                `json:"jsonld_blocks"`

	Strengths       []string `json:"strengths"`
	Issues          []Issue  `json:"issues"`
	Recommendations []string `json:"recommendations"`
}

// NewReport creates an empty report for url.
func NewReport(url string) *Report {
	return &Report{
		URL:             url,
		Strengths:       make([]string, 0),
		Issues:          make([]Issue, 0),
		Recommendations: make([]string, 0),
	}
}

// AddIssue records an issue.
func (r *Report) AddIssue(severity Severity, category, message string) {
	r.Issues = append(r.Issues, Issue{Severity: severity, Category: category, Message: message})
}

// CalculateScore sets Score to 100 minus the deductions of all issues,
// floored at zero.
func (r *Report) CalculateScore() {
	score := 100
	for _, issue := range r.Issues {
		score -= issue.Severity.deduction()
	}
	r.Score = max(score, 0)
}

// JSON returns the report as indented JSON.
func (r *Report) JSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}
