package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/c360studio/semlens/readiness"
)

func TestReadiness_Sections(t *testing.T) {
	r := readiness.NewReport("https://shop.example/")
	r.WellKnown = readiness.WellKnownChecks{
		{Path: readiness.PathAIPlugin, StatusCode: 200, Found: true, Valid: true},
		{Path: readiness.PathMCP, StatusCode: 200, Found: true, Error: "Invalid JSON format"},
		{Path: readiness.PathSecurityTxt, StatusCode: 404},
	}
	r.Robots = readiness.ParseRobots("User-agent: GPTBot\nDisallow: /\n")
	r.Plugin = &readiness.PluginValidation{Valid: true, NameForHuman: "Shop", AuthType: "none"}
	r.Semantic = &readiness.SemanticAnalysis{Landmarks: readiness.Landmarks{Main: true}}
	r.Semantic.Headings.Counts = [6]int{1, 2}
	r.Strengths = append(r.Strengths, "1 JSON-LD block(s) on the page")
	r.AddIssue(readiness.SeverityHigh, "robots", "GPTBot | ClaudeBot blocked")
	r.Recommendations = append(r.Recommendations, "Publish a sitemap.xml listing the pages of the site")
	r.CalculateScore()

	out := Readiness(r)

	assert.Contains(t, out, "🤖 AI Readiness: https://shop.example/\n")
	assert.Contains(t, out, "Score: 90/100\n")
	assert.Contains(t, out, "  ✓ 1 JSON-LD block(s) on the page\n")
	assert.Contains(t, out, `GPTBot \| ClaudeBot blocked`)
	assert.Contains(t, out, "✅ valid")
	assert.Contains(t, out, "❌ Invalid JSON format")
	assert.Contains(t, out, "| GPTBot ")
	assert.Contains(t, out, "🚫 blocked")
	assert.Contains(t, out, "No sitemap found.\n")
	assert.Contains(t, out, "• AI plugin        : Shop (valid)\n")
	assert.Contains(t, out, "• Headings         : h1×1 h2×2\n")
	assert.Contains(t, out, "1. Publish a sitemap.xml listing the pages of the site\n")
	assert.NotContains(t, out, "MCP server")

	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "| 🟠") {
			assert.Equal(t, 4, strings.Count(line, "|")-strings.Count(line, `\|`), line)
		}
	}
}

func TestReadiness_RobotsMissing(t *testing.T) {
	r := readiness.NewReport("https://shop.example/")
	r.Robots = &readiness.RobotsAnalysis{StatusCode: 404}

	out := Readiness(r)
	assert.Contains(t, out, "No robots.txt found.\n")
	assert.Contains(t, out, "Score: 0/100\n", "score stays unset until calculated")
	assert.NotContains(t, out, "Recommendations")
}
