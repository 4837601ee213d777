package render

import (
	"fmt"
	"strings"

	"github.com/c360studio/semlens/graph"
	"github.com/c360studio/semlens/resolve"
	"github.com/c360studio/semlens/vocabulary/schemaorg"
)

var (
	attrEscaper  = strings.NewReplacer("&", "&amp;", `"`, "&quot;", "'", "&#39;", "<", "&lt;", ">", "&gt;")
	textEscaper  = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	labelEscaper = strings.NewReplacer(`"`, `\"`)
)

// Mermaid renders g as a top-down Mermaid flowchart. Nodes are numbered in
// graph order; edges whose endpoints are not nodes are left out.
func Mermaid(g *graph.KnowledgeGraph) string {
	if g == nil || len(g.Nodes) == 0 {
		return "graph TD\n  Empty[\"No data\"]"
	}

	lines := make([]string, 0, 1+len(g.Nodes)+len(g.Edges))
	lines = append(lines, "graph TD")

	ids := make(map[string]string, len(g.Nodes))
	for idx, node := range g.Nodes {
		mermaidID := fmt.Sprintf("N%d", idx)
		ids[node.ID] = mermaidID
		lines = append(lines, fmt.Sprintf("  %s[%s]", mermaidID, nodeLabel(node)))
	}

	for _, e := range g.Edges {
		from, okFrom := ids[e.From]
		to, okTo := ids[e.To]
		if !okFrom || !okTo {
			continue
		}
		lines = append(lines, fmt.Sprintf("  %s -->|%s| %s", from, labelEscaper.Replace(resolve.ShortenIRI(e.Predicate)), to))
	}

	return strings.Join(lines, "\n")
}

// nodeLabel renders the bracket content for node. Nodes with http(s) ids
// become links.
func nodeLabel(node *graph.Node) string {
	if summary, ok := propertyValueSummary(node); ok {
		return quoted(summary)
	}

	label, ok := resolve.PropertyText(node, schemaorg.Keys(schemaorg.PropName))
	if !ok || label == "" {
		if len(node.Types) > 0 {
			label = resolve.ShortenIRI(node.Types[0])
		} else {
			label = resolve.ShortenIRI(node.ID)
		}
	}

	if strings.HasPrefix(node.ID, "http://") || strings.HasPrefix(node.ID, "https://") {
		return fmt.Sprintf("<a href='%s'>%s</a>", attrEscaper.Replace(node.ID), textEscaper.Replace(label))
	}
	return quoted(label)
}

func quoted(label string) string {
	return `"` + labelEscaper.Replace(label) + `"`
}

// propertyValueSummary renders a PropertyValue as "property: value unit".
func propertyValueSummary(node *graph.Node) (string, bool) {
	if !resolve.HasSchemaType(node, schemaorg.ClassPropertyValue) {
		return "", false
	}

	label := firstText(node, schemaorg.PropPropertyID, schemaorg.PropName)
	if label == "" {
		label = schemaorg.ClassPropertyValue
	}
	if val := firstText(node, schemaorg.PropValue, "valueReference"); val != "" {
		label += ": " + val
		if unit := firstText(node, "unitText", "unitCode"); unit != "" {
			label += " " + unit
		}
	}
	return label, true
}

func firstText(node *graph.Node, terms ...string) string {
	for _, term := range terms {
		if text, ok := resolve.PropertyText(node, schemaorg.Keys(term)); ok && text != "" {
			return text
		}
	}
	return ""
}
