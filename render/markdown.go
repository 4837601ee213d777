package render

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/c360studio/semlens/graph"
	"github.com/c360studio/semlens/insights"
	"github.com/c360studio/semlens/tokens"
)

const (
	divider    = "─────────────────────────────────────────────────────────────"
	labelWidth = 16
)

// Report is everything known about one analyzed page.
type Report struct {
	URL      string
	Title    string
	Markdown string
	Graph    *graph.KnowledgeGraph
	Insights *insights.GraphInsights
}

// Options selects the report sections.
type Options struct {
	// IncludeMarkdown appends the page content converted to Markdown.
	IncludeMarkdown bool
	// IncludeGraph appends the graph as JSON and as a Mermaid diagram.
	IncludeGraph bool
	// IncludeDataDownloads adds the data downloads section, even when empty.
	IncludeDataDownloads bool
	// MaxVariants limits variant table rows per group. Zero shows all.
	MaxVariants int
}

// Renderer writes Markdown reports.
type Renderer struct {
	opts Options
}

// NewRenderer creates a Renderer.
func NewRenderer(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// Markdown renders r with a Renderer built from opts.
func Markdown(r *Report, opts Options) (string, error) {
	return NewRenderer(opts).Render(r)
}

// Render renders the report.
func (rd *Renderer) Render(r *Report) (string, error) {
	var sb strings.Builder

	gi := r.Insights
	if gi == nil {
		gi = insights.Analyze(r.Graph)
	}

	for _, pg := range gi.ProductGroups {
		rd.writeProductGroup(&sb, pg)
	}
	if gi.Organization != nil {
		writeOrganization(&sb, gi.Organization)
	}
	if len(gi.Breadcrumbs) > 0 {
		writeBreadcrumbs(&sb, gi.Breadcrumbs)
	}
	if rd.opts.IncludeDataDownloads {
		writeDataDownloads(&sb, gi.DataDownloads)
	}
	if len(gi.Summary) > 0 {
		writeSectionHeader(&sb, "🕸️", "Graph Summary (condensed)")
		for _, line := range gi.Summary {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	if gi.IsEmpty() && !rd.opts.IncludeMarkdown {
		writeSectionHeader(&sb, "🔎", "Structured Data")
		sb.WriteString("No JSON-LD structured data found.\n\n")
	}

	if rd.opts.IncludeMarkdown {
		title := "Source Page (Markdown)"
		if r.Title != "" {
			title += ": " + r.Title
		}
		writeSectionHeader(&sb, "📝", title)
		sb.WriteString(strings.TrimSpace(r.Markdown))
		sb.WriteString("\n")
	}

	if rd.opts.IncludeGraph {
		g := r.Graph
		if g == nil {
			g = &graph.KnowledgeGraph{}
		}
		out, err := json.MarshalIndent(g, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal graph: %w", err)
		}
		writeSectionHeader(&sb, "🧾", "Knowledge Graph JSON")
		sb.WriteString("```json\n")
		sb.Write(out)
		sb.WriteString("\n```\n")

		writeSectionHeader(&sb, "🕸️", "Knowledge Graph Visualization")
		sb.WriteString("```mermaid\n")
		sb.WriteString(Mermaid(g))
		sb.WriteString("\n```\n")
	}

	return sb.String(), nil
}

func writeSectionHeader(sb *strings.Builder, icon, title string) {
	fmt.Fprintf(sb, "%s\n%s %s\n%s\n", divider, icon, title, divider)
}

// writeKeyValue writes an aligned bullet line. Empty values are skipped.
func writeKeyValue(sb *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(sb, "• %-*s : %s\n", labelWidth, label, value)
}

func (rd *Renderer) writeProductGroup(sb *strings.Builder, pg insights.ProductGroupSummary) {
	kind := "ProductGroup"
	if pg.Standalone {
		kind = "Product"
	}
	title := pg.Name
	if title == "" {
		title = kind
	}
	writeSectionHeader(sb, "📦", kind+": "+title)
	writeKeyValue(sb, kind+" ID", pg.ProductGroupID)
	writeKeyValue(sb, "Brand", pg.Brand)
	writeKeyValue(sb, "Varies By", strings.Join(pg.VariesBy, ", "))
	if pg.TotalVariants > 0 && !pg.Standalone {
		writeKeyValue(sb, "Total Variants", strconv.Itoa(pg.TotalVariants))
	}
	writeKeyValue(sb, "Price Range", FormatPriceRange(pg.PriceStats))
	writeKeyValue(sb, "Availability", FormatAvailabilityCounts(pg.AvailabilityCounts))
	sb.WriteString("\n")

	if len(pg.CommonProperties) > 0 {
		writeSectionHeader(sb, "🧱", "Common Properties")
		for _, key := range sortedKeys(pg.CommonProperties) {
			writeKeyValue(sb, toTitleCase(key), pg.CommonProperties[key])
		}
		sb.WriteString("\n")
	}

	rd.writeVariantTable(sb, pg)
}

// variantColumns orders the property columns: varying dimensions first,
// then everything else, each alphabetically.
func variantColumns(pg insights.ProductGroupSummary) []string {
	seen := make(map[string]struct{})
	for _, v := range pg.Variants {
		for key := range v.Properties {
			seen[key] = struct{}{}
		}
	}
	matcher := tokens.NewMatcher(pg.VariesBy)
	var varying, other []string
	for key := range seen {
		if matcher.IsVarying(key) {
			varying = append(varying, key)
		} else {
			other = append(other, key)
		}
	}
	sort.Strings(varying)
	sort.Strings(other)
	return append(varying, other...)
}

func (rd *Renderer) writeVariantTable(sb *strings.Builder, pg insights.ProductGroupSummary) {
	if len(pg.Variants) == 0 {
		return
	}
	variants := pg.Variants
	if rd.opts.MaxVariants > 0 && len(variants) > rd.opts.MaxVariants {
		variants = variants[:rd.opts.MaxVariants]
	}

	title := "Variants"
	if pg.Standalone {
		title = "Details"
	}
	writeSectionHeader(sb, "🧩", title)

	columns := variantColumns(pg)
	headers := append([]string{"SKU"}, columns...)
	headers = append(headers, "Price", "Availability")

	rows := make([][]string, 0, len(variants))
	for _, v := range variants {
		row := []string{orPlaceholder(v.SKU)}
		for _, col := range columns {
			row = append(row, orPlaceholder(v.Properties[col]))
		}
		availability := ""
		if v.Availability != "" {
			availability = AvailabilityLabel(v.Availability)
		}
		row = append(row, orPlaceholder(VariantPrice(v)), orPlaceholder(availability))
		rows = append(rows, row)
	}

	writeTable(sb, headers, rows)

	if remaining := pg.TotalVariants - len(variants); remaining > 0 {
		fmt.Fprintf(sb, "(%d additional variants not shown)\n", remaining)
	}
	sb.WriteString("\n")
}

// writeTable writes a padded Markdown table.
func writeTable(sb *strings.Builder, headers []string, rows [][]string) {
	headers = escapeCells(headers)
	escaped := make([][]string, len(rows))
	for i, row := range rows {
		escaped[i] = escapeCells(row)
	}
	rows = escaped

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}

	writeRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = " " + cell + strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell)) + " "
		}
		sb.WriteString("|" + strings.Join(parts, "|") + "|\n")
	}

	writeRow(headers)
	separators := make([]string, len(widths))
	for i, w := range widths {
		separators[i] = " " + strings.Repeat("-", w) + " "
	}
	sb.WriteString("|" + strings.Join(separators, "|") + "|\n")
	for _, row := range rows {
		writeRow(row)
	}
}

// cellEscaper keeps cell text on one line and inside its column.
var cellEscaper = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ")

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, cell := range cells {
		out[i] = cellEscaper.Replace(cell)
	}
	return out
}

func writeOrganization(sb *strings.Builder, org *insights.OrganizationInfo) {
	title := org.Name
	if title == "" {
		title = "Organization"
	}
	writeSectionHeader(sb, "🏢", "Organization: "+title)
	writeKeyValue(sb, "URL", org.URL)
	writeKeyValue(sb, "Logo", org.Logo)
	writeKeyValue(sb, "Same As", strings.Join(org.SameAs, ", "))
	sb.WriteString("\n")
}

func writeBreadcrumbs(sb *strings.Builder, items []insights.BreadcrumbItem) {
	writeSectionHeader(sb, "🧭", "Breadcrumbs")
	for _, item := range items {
		name := orPlaceholder(item.Name)
		if item.URL != "" {
			fmt.Fprintf(sb, "%d. %s (%s)\n", item.Position, name, item.URL)
		} else {
			fmt.Fprintf(sb, "%d. %s\n", item.Position, name)
		}
	}
	sb.WriteString("\n")
}

func writeDataDownloads(sb *strings.Builder, entries []insights.DataDownloadEntry) {
	writeSectionHeader(sb, "🌐", "Data Downloads")
	if len(entries) == 0 {
		sb.WriteString("No data downloads detected.\n\n")
		return
	}

	label := "data sources"
	if len(entries) == 1 {
		label = "data source"
	}
	fmt.Fprintf(sb, "✓ Found %d official %s:\n", len(entries), label)
	for _, e := range entries {
		fmt.Fprintf(sb, "  • %s\n", e.ContentURL)
		if e.Name != "" {
			fmt.Fprintf(sb, "    ↳ name: %s\n", e.Name)
		}
		if e.EncodingFormat != "" {
			fmt.Fprintf(sb, "    ↳ encodingFormat: %s\n", e.EncodingFormat)
		}
		if e.License != "" {
			fmt.Fprintf(sb, "    ↳ license: %s\n", e.License)
		}
	}
	sb.WriteString("\n")
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
