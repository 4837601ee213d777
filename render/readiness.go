package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/c360studio/semlens/readiness"
)

var severityIcons = map[readiness.Severity]string{
	readiness.SeverityCritical: "🔴",
	readiness.SeverityHigh:     "🟠",
	readiness.SeverityMedium:   "🟡",
	readiness.SeverityLow:      "⚪",
}

var accessIcons = map[readiness.Access]string{
	readiness.AccessAllowed: "✅",
	readiness.AccessPartial: "⚠️",
	readiness.AccessBlocked: "🚫",
	readiness.AccessDefault: "➖",
}

// Readiness renders an AI readiness report as Markdown.
func Readiness(r *readiness.Report) string {
	var sb strings.Builder

	writeSectionHeader(&sb, "🤖", "AI Readiness: "+r.URL)
	fmt.Fprintf(&sb, "Score: %d/100\n\n", r.Score)

	if len(r.Strengths) > 0 {
		sb.WriteString("Strengths:\n")
		for _, s := range r.Strengths {
			fmt.Fprintf(&sb, "  ✓ %s\n", s)
		}
		sb.WriteString("\n")
	}
	if len(r.Issues) > 0 {
		rows := make([][]string, 0, len(r.Issues))
		for _, issue := range r.Issues {
			rows = append(rows, []string{severityIcons[issue.Severity] + " " + string(issue.Severity), issue.Category, issue.Message})
		}
		writeTable(&sb, []string{"Severity", "Category", "Issue"}, rows)
		sb.WriteString("\n")
	}

	writeWellKnown(&sb, r.WellKnown)
	if r.Robots != nil {
		writeRobots(&sb, r.Robots)
	}
	writeSitemap(&sb, r.Sitemap)
	writeManifests(&sb, r)
	if r.Semantic != nil {
		writeSemantic(&sb, r.Semantic)
	}

	if len(r.Recommendations) > 0 {
		writeSectionHeader(&sb, "💡", "Recommendations")
		for i, rec := range r.Recommendations {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, rec)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func writeWellKnown(sb *strings.Builder, checks readiness.WellKnownChecks) {
	writeSectionHeader(sb, "📂", ".well-known Files")
	rows := make([][]string, 0, len(checks))
	for _, c := range checks {
		status := Placeholder
		if c.StatusCode != 0 {
			status = strconv.Itoa(c.StatusCode)
		}
		state := "missing"
		switch {
		case c.Found && c.Valid:
			state = "✅ valid"
		case c.Found:
			state = "❌ " + c.Error
		case c.Error != "":
			state = "⚠️ " + c.Error
		}
		rows = append(rows, []string{c.Path, status, state})
	}
	writeTable(sb, []string{"Path", "Status", "Result"}, rows)
	sb.WriteString("\n")
}

func writeRobots(sb *strings.Builder, robots *readiness.RobotsAnalysis) {
	writeSectionHeader(sb, "🕷️", "robots.txt")
	if !robots.Found {
		sb.WriteString("No robots.txt found.\n\n")
		return
	}
	rows := make([][]string, 0, len(robots.Crawlers))
	for _, c := range robots.Crawlers {
		rows = append(rows, []string{c.Name, accessIcons[c.Access] + " " + string(c.Access), orPlaceholder(c.Rules)})
	}
	writeTable(sb, []string{"Crawler", "Access", "Rules"}, rows)
	writeKeyValue(sb, "Sitemaps", strings.Join(robots.Sitemaps, ", "))
	sb.WriteString("\n")
}

func writeSitemap(sb *strings.Builder, sm *readiness.SitemapAnalysis) {
	writeSectionHeader(sb, "🗺️", "Sitemap")
	if sm == nil {
		sb.WriteString("No sitemap found.\n\n")
		return
	}
	writeKeyValue(sb, "URL", sm.URL)
	writeKeyValue(sb, "Type", string(sm.Type))
	writeKeyValue(sb, "Entries", strconv.Itoa(sm.URLCount))
	if sm.Type == readiness.SitemapStandard && sm.Stats.TotalURLs > 0 {
		writeKeyValue(sb, "With lastmod", fmt.Sprintf("%d/%d", sm.Stats.URLsWithLastMod, sm.Stats.TotalURLs))
		writeKeyValue(sb, "With priority", fmt.Sprintf("%d/%d", sm.Stats.URLsWithPriority, sm.Stats.TotalURLs))
		types := make([]string, 0, len(sm.Stats.ContentTypes))
		for _, name := range sm.Stats.ContentTypeNames() {
			types = append(types, fmt.Sprintf("%s (%d)", name, sm.Stats.ContentTypes[name]))
		}
		writeKeyValue(sb, "Content types", strings.Join(types, ", "))
	}
	for _, nested := range sm.Nested {
		fmt.Fprintf(sb, "  • %s\n", nested)
	}
	sb.WriteString("\n")
}

func writeManifests(sb *strings.Builder, r *readiness.Report) {
	if r.Plugin == nil && r.MCP == nil && r.OpenAPI == nil {
		return
	}
	writeSectionHeader(sb, "🔌", "Agent Manifests")
	if p := r.Plugin; p != nil {
		writeKeyValue(sb, "AI plugin", fmt.Sprintf("%s (%s)", orPlaceholder(p.NameForHuman), validity(p.Valid)))
		writeKeyValue(sb, "Auth", p.AuthType)
		writeKeyValue(sb, "API", p.APIURL)
		for _, w := range p.Warnings {
			fmt.Fprintf(sb, "  ⚠️ %s\n", w)
		}
	}
	if m := r.MCP; m != nil {
		writeKeyValue(sb, "MCP server", fmt.Sprintf("%s (%s)", orPlaceholder(m.Name), validity(m.Valid)))
		writeKeyValue(sb, "Transport", strings.TrimSpace(m.TransportType+" "+m.Endpoint))
		writeKeyValue(sb, "Tools", strconv.Itoa(m.ToolCount))
		writeKeyValue(sb, "Capabilities", strings.Join(m.Capabilities, ", "))
	}
	if o := r.OpenAPI; o != nil {
		writeKeyValue(sb, "OpenAPI", fmt.Sprintf("%s %s (%s)", orPlaceholder(o.Title), o.Version, validity(o.Valid)))
		writeKeyValue(sb, "Operations", strconv.Itoa(len(o.Endpoints)))
		writeKeyValue(sb, "Schemas", strconv.Itoa(o.Schemas))
		for _, w := range o.Warnings {
			fmt.Fprintf(sb, "  ⚠️ %s\n", w)
		}
	}
	sb.WriteString("\n")
}

func writeSemantic(sb *strings.Builder, s *readiness.SemanticAnalysis) {
	writeSectionHeader(sb, "🏷️", "Semantic HTML")
	writeKeyValue(sb, "Main landmark", yesNo(s.Landmarks.Main))
	counts := make([]string, 0, len(s.Headings.Counts))
	for i, n := range s.Headings.Counts {
		if n > 0 {
			counts = append(counts, fmt.Sprintf("h%d×%d", i+1, n))
		}
	}
	writeKeyValue(sb, "Headings", orPlaceholder(strings.Join(counts, " ")))
	if s.Forms.Inputs > 0 {
		writeKeyValue(sb, "Labeled inputs", fmt.Sprintf("%d/%d", s.Forms.Labeled, s.Forms.Inputs))
	}
	if s.Images.Total > 0 {
		writeKeyValue(sb, "Images with alt", fmt.Sprintf("%d/%d", s.Images.WithAlt, s.Images.Total))
	}
	for _, r := range s.ARIA.Redundancies {
		fmt.Fprintf(sb, "  ⚠️ %s\n", r)
	}
	sb.WriteString("\n")
}

func validity(valid bool) string {
	if valid {
		return "valid"
	}
	return "invalid"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
