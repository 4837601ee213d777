// Package export serializes knowledge graphs as RDF (N-Triples, Turtle,
// JSON-LD), as graph JSON, and as a CSV table of product variants.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/c360studio/semlens/graph"
	"github.com/c360studio/semlens/value"
	"github.com/c360studio/semlens/vocabulary/schemaorg"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"

	// FormatJSONLD produces flattened, expanded JSON-LD (.jsonld) output.
	FormatJSONLD Format = "jsonld"

	// FormatJSON produces the graph JSON ({"nodes": [...], "edges": [...]}).
	FormatJSON Format = "json"

	// FormatCSV produces one row per product variant.
	FormatCSV Format = "csv"
)

// Well-known IRIs.
const (
	RDFType      = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	RDFJSON      = "http://www.w3.org/1999/02/22-rdf-syntax-ns#JSON"
	RDFLangTag   = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"
	XSDString    = "http://www.w3.org/2001/XMLSchema#string"
	XSDInteger   = "http://www.w3.org/2001/XMLSchema#integer"
	XSDDouble    = "http://www.w3.org/2001/XMLSchema#double"
	XSDBoolean   = "http://www.w3.org/2001/XMLSchema#boolean"
	xsdNamespace = "http://www.w3.org/2001/XMLSchema#"
)

// TermKind distinguishes RDF term types.
type TermKind int

const (
	// TermIRI is an absolute or relative IRI reference.
	TermIRI TermKind = iota
	// TermBlank is a blank node.
	TermBlank
	// TermLiteral is a literal with a datatype or language tag.
	TermLiteral
)

// Term is an RDF term.
type Term struct {
	Kind     TermKind
	Value    string
	Datatype string
	Language string
}

// Triple represents a semantic triple for export.
type Triple struct {
	Subject   Term
	Predicate string
	Object    Term
}

// NodeTerm returns the term for a graph node id.
func NodeTerm(id string) Term {
	if strings.HasPrefix(id, "_:") {
		return Term{Kind: TermBlank, Value: id}
	}
	return Term{Kind: TermIRI, Value: id}
}

// Exporter serializes knowledge graphs.
type Exporter struct {
	prefixes map[string]string
}

// NewExporter creates an exporter with the default prefixes.
func NewExporter() *Exporter {
	return &Exporter{prefixes: defaultPrefixes()}
}

// defaultPrefixes returns the standard namespace prefixes for RDF export.
func defaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":    "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
		"xsd":    xsdNamespace,
		"schema": schemaorg.Namespace,
	}
}

// SetPrefix sets a namespace prefix used by Turtle and JSON-LD output.
func (e *Exporter) SetPrefix(prefix, iri string) {
	e.prefixes[prefix] = iri
}

// Export serializes g to the specified format.
func (e *Exporter) Export(g *graph.KnowledgeGraph, format Format) (string, error) {
	if g == nil {
		g = &graph.KnowledgeGraph{}
	}
	switch format {
	case FormatTurtle:
		return e.toTurtle(g), nil
	case FormatNTriples:
		return toNTriples(Triples(g)), nil
	case FormatJSONLD:
		return e.toJSONLD(g)
	case FormatJSON:
		return toJSON(g)
	case FormatCSV:
		return ToCSV(g)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// Triples flattens g into RDF triples: types first, then literal
// properties, then edges. Edges from "@graph" and "@included" containers
// have no RDF predicate and are skipped.
func Triples(g *graph.KnowledgeGraph) []Triple {
	var out []Triple
	for _, n := range g.Nodes {
		subject := NodeTerm(n.ID)
		for _, t := range n.Types {
			out = append(out, Triple{Subject: subject, Predicate: RDFType, Object: NodeTerm(t)})
		}
		n.Properties.Range(func(key string, v value.Value) bool {
			for _, lit := range literalTerms(v) {
				out = append(out, Triple{Subject: subject, Predicate: key, Object: lit})
			}
			return true
		})
	}
	for _, edge := range g.Edges {
		if strings.HasPrefix(edge.Predicate, "@") {
			continue
		}
		out = append(out, Triple{Subject: NodeTerm(edge.From), Predicate: edge.Predicate, Object: NodeTerm(edge.To)})
	}
	return out
}

// literalTerms converts a stored property value into literal terms. Arrays
// yield one term per item.
func literalTerms(v value.Value) []Term {
	switch v.Kind() {
	case value.KindArray:
		var out []Term
		for _, item := range v.Items() {
			out = append(out, literalTerms(item)...)
		}
		return out
	case value.KindString:
		s, _ := v.AsString()
		return []Term{{Kind: TermLiteral, Value: s, Datatype: XSDString}}
	case value.KindNumber:
		raw, _ := v.AsNumber()
		dt := XSDInteger
		if strings.ContainsAny(raw, ".eE") {
			dt = XSDDouble
		}
		return []Term{{Kind: TermLiteral, Value: raw, Datatype: dt}}
	case value.KindBool:
		b, _ := v.AsBool()
		return []Term{{Kind: TermLiteral, Value: fmt.Sprint(b), Datatype: XSDBoolean}}
	case value.KindObject:
		m := v.Fields()
		if raw, ok := m.Get("@value"); ok {
			text, _ := raw.Text()
			t := Term{Kind: TermLiteral, Value: text, Datatype: XSDString}
			if lang, ok := m.Get("@language"); ok {
				t.Language, _ = lang.AsString()
				t.Datatype = RDFLangTag
			}
			return []Term{t}
		}
		return []Term{{Kind: TermLiteral, Value: v.String(), Datatype: RDFJSON}}
	default:
		return nil
	}
}

// toNTriples serializes to N-Triples format.
func toNTriples(triples []Triple) string {
	var sb strings.Builder
	for _, t := range triples {
		fmt.Fprintf(&sb, "%s <%s> %s .\n", formatTermNTriples(t.Subject), escapeIRI(t.Predicate), formatTermNTriples(t.Object))
	}
	return sb.String()
}

func formatTermNTriples(t Term) string {
	switch t.Kind {
	case TermBlank:
		return blankLabel(t.Value)
	case TermLiteral:
		lit := fmt.Sprintf("\"%s\"", escapeString(t.Value))
		switch {
		case t.Language != "":
			return lit + "@" + t.Language
		case t.Datatype == "" || t.Datatype == XSDString:
			return lit
		default:
			return lit + "^^<" + t.Datatype + ">"
		}
	default:
		return "<" + escapeIRI(t.Value) + ">"
	}
}

// toTurtle serializes to Turtle format, one block per subject.
func (e *Exporter) toTurtle(g *graph.KnowledgeGraph) string {
	var sb strings.Builder

	keys := make([]string, 0, len(e.prefixes))
	for k := range e.prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, prefix := range keys {
		fmt.Fprintf(&sb, "@prefix %s: <%s> .\n", prefix, e.prefixes[prefix])
	}
	sb.WriteString("\n")

	triples := Triples(g)
	var order []Term
	bySubject := make(map[Term][]Triple)
	for _, t := range triples {
		if _, ok := bySubject[t.Subject]; !ok {
			order = append(order, t.Subject)
		}
		bySubject[t.Subject] = append(bySubject[t.Subject], t)
	}

	for _, subject := range order {
		sb.WriteString(e.formatTermTurtle(subject))
		sb.WriteString("\n")
		group := bySubject[subject]
		for i, t := range group {
			predicate := e.compact(t.Predicate)
			if t.Predicate == RDFType {
				predicate = "a"
			}
			terminator := " ;"
			if i == len(group)-1 {
				terminator = " ."
			}
			fmt.Fprintf(&sb, "    %s %s%s\n", predicate, e.formatTermTurtle(t.Object), terminator)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func (e *Exporter) formatTermTurtle(t Term) string {
	switch t.Kind {
	case TermIRI:
		return e.compact(t.Value)
	case TermLiteral:
		lit := fmt.Sprintf("\"%s\"", escapeString(t.Value))
		switch {
		case t.Language != "":
			return lit + "@" + t.Language
		case t.Datatype == "" || t.Datatype == XSDString:
			return lit
		case t.Datatype == XSDInteger || t.Datatype == XSDBoolean:
			return t.Value
		default:
			return lit + "^^" + e.compact(t.Datatype)
		}
	default:
		return formatTermNTriples(t)
	}
}

// compact writes iri as prefix:local when a prefix matches and the local
// part is a plain name, and as <iri> otherwise.
func (e *Exporter) compact(iri string) string {
	best := ""
	for prefix, ns := range e.prefixes {
		if !strings.HasPrefix(iri, ns) {
			continue
		}
		local := iri[len(ns):]
		if !isPlainLocalName(local) {
			continue
		}
		if best == "" || len(ns) > len(e.prefixes[best]) || (len(ns) == len(e.prefixes[best]) && prefix < best) {
			best = prefix
		}
	}
	if best == "" {
		return "<" + escapeIRI(iri) + ">"
	}
	return best + ":" + iri[len(e.prefixes[best]):]
}

func isPlainLocalName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case (r >= '0' && r <= '9') || r == '-':
			if i == 0 && r == '-' {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// toJSONLD serializes to flattened expanded JSON-LD with a prefix context.
func (e *Exporter) toJSONLD(g *graph.KnowledgeGraph) (string, error) {
	nodes := make([]value.Value, 0, len(g.Nodes))
	index := graph.NewAdjacencyIndex(g)
	for _, n := range g.Nodes {
		m := value.NewMap()
		m.Set("@id", value.String(n.ID))
		if len(n.Types) > 0 {
			types := make([]value.Value, 0, len(n.Types))
			for _, t := range n.Types {
				types = append(types, value.String(t))
			}
			m.Set("@type", value.Array(types...))
		}
		n.Properties.Range(func(key string, v value.Value) bool {
			m.Set(key, value.Array(jsonLDValues(v)...))
			return true
		})
		for _, edge := range index.Outgoing(n.ID) {
			if strings.HasPrefix(edge.Predicate, "@") {
				continue
			}
			ref := value.NewMap()
			ref.Set("@id", value.String(edge.To))
			existing, _ := m.Get(edge.Predicate)
			items := append([]value.Value(nil), existing.Items()...)
			m.Set(edge.Predicate, value.Array(append(items, value.Object(ref))...))
		}
		nodes = append(nodes, value.Object(m))
	}

	keys := make([]string, 0, len(e.prefixes))
	for k := range e.prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ctx := value.NewMap()
	for _, k := range keys {
		ctx.Set(k, value.String(e.prefixes[k]))
	}

	doc := value.NewMap()
	doc.Set("@context", value.Object(ctx))
	doc.Set("@graph", value.Array(nodes...))
	return indentJSON(value.Object(doc))
}

// jsonLDValues converts a stored property value back into value objects.
func jsonLDValues(v value.Value) []value.Value {
	switch v.Kind() {
	case value.KindArray:
		var out []value.Value
		for _, item := range v.Items() {
			out = append(out, jsonLDValues(item)...)
		}
		return out
	case value.KindObject:
		if v.Fields().Has("@value") {
			return []value.Value{v}
		}
		m := value.NewMap()
		m.Set("@value", v)
		m.Set("@type", value.String("@json"))
		return []value.Value{value.Object(m)}
	default:
		m := value.NewMap()
		m.Set("@value", v)
		return []value.Value{value.Object(m)}
	}
}

// blankLabel makes a blank node id safe for N-Triples and Turtle.
func blankLabel(id string) string {
	label := strings.TrimPrefix(id, "_:")
	var sb strings.Builder
	for i, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		case (r == '-' || r == '.') && i > 0 && i < len(label)-1:
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	if sb.Len() == 0 {
		return "_:b"
	}
	return "_:" + sb.String()
}

// escapeIRI escapes characters not allowed inside <...>.
func escapeIRI(iri string) string {
	var sb strings.Builder
	for _, r := range iri {
		switch {
		case r <= 0x20, strings.ContainsRune("<>\"{}|^`\\", r):
			fmt.Fprintf(&sb, "\\u%04X", r)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// escapeString escapes special characters in strings for RDF serialization.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
