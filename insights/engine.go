// Package insights derives Schema.org insights from a knowledge graph:
// product groups with their variants, the publishing organization,
// breadcrumbs and downloadable data distributions.
//
// Analysis is a single synchronous pass over an immutable graph. Missing or
// malformed data yields empty fields, never an error.
package insights

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/c360studio/semlens/graph"
	"github.com/c360studio/semlens/resolve"
	"github.com/c360studio/semlens/vocabulary/schemaorg"
)

// DefaultMaxInheritanceDepth bounds how many isVariantOf hops a variant
// property lookup follows.
const DefaultMaxInheritanceDepth = 2

// Engine analyzes knowledge graphs. An Engine holds no per-graph state and
// may be shared between goroutines.
type Engine struct {
	logger   *slog.Logger
	maxDepth int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMaxInheritanceDepth sets how far variant properties are inherited
// through isVariantOf. Zero disables inheritance.
func WithMaxInheritanceDepth(depth int) Option {
	return func(e *Engine) {
		if depth >= 0 {
			e.maxDepth = depth
		}
	}
}

// NewEngine creates an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger:   slog.Default(),
		maxDepth: DefaultMaxInheritanceDepth,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze runs a default Engine over g.
func Analyze(g *graph.KnowledgeGraph) *GraphInsights {
	return NewEngine().Analyze(g)
}

// Analyze derives insights from g. A nil or empty graph yields empty
// insights.
func (e *Engine) Analyze(g *graph.KnowledgeGraph) *GraphInsights {
	if g == nil {
		g = &graph.KnowledgeGraph{}
	}
	a := newAnalysis(e, g)

	out := &GraphInsights{
		ProductGroups: a.productGroups(),
		Organization:  a.organization(),
		Breadcrumbs:   a.breadcrumbs(),
		DataDownloads: a.dataDownloads(),
	}
	out.Summary = a.summary(out)

	e.logger.Debug("Graph analyzed",
		"nodes", len(g.Nodes),
		"edges", len(g.Edges),
		"product_groups", len(out.ProductGroups),
		"breadcrumbs", len(out.Breadcrumbs),
		"data_downloads", len(out.DataDownloads),
		"organization", out.Organization != nil)
	return out
}

// analysis is the per-graph state of one Analyze call.
type analysis struct {
	engine *Engine
	g      *graph.KnowledgeGraph
	nodes  map[string]*graph.Node
	index  *graph.AdjacencyIndex
	// sorted holds the graph nodes ordered by id.
	sorted []*graph.Node

	offerCount     int
	propertyValues map[string]struct{}

	// directProperties holds the variant attributes stated on the variant
	// node itself, reported as "Product → Color" style summary lines.
	directProperties map[string]struct{}
}

func newAnalysis(e *Engine, g *graph.KnowledgeGraph) *analysis {
	sorted := make([]*graph.Node, len(g.Nodes))
	copy(sorted, g.Nodes)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	return &analysis{
		engine:         e,
		g:              g,
		nodes:          g.NodeMap(),
		index:          graph.NewAdjacencyIndex(g),
		sorted:         sorted,
		propertyValues: make(map[string]struct{}),

		directProperties: make(map[string]struct{}),
	}
}

// nodesOfType returns the nodes having any of types, ordered by id.
func (a *analysis) nodesOfType(types ...string) []*graph.Node {
	var out []*graph.Node
	for _, n := range a.sorted {
		if resolve.HasAnySchemaType(n, types...) {
			out = append(out, n)
		}
	}
	return out
}

// targets returns the nodes reached from id through edges named predicate.
// Dangling edges are skipped.
func (a *analysis) targets(id, predicate string) []*graph.Node {
	var out []*graph.Node
	for _, e := range a.index.OutgoingMatching(id, resolve.Predicate(predicate)) {
		if n, ok := a.nodes[e.To]; ok {
			out = append(out, n)
		}
	}
	return out
}

// text resolves term on node as a literal, or failing that as the id of a
// linked node. Terms typed "@id" in the Schema.org context (url, sameAs,
// contentUrl ...) expand to node references rather than literals.
func (a *analysis) text(node *graph.Node, term string) (string, bool) {
	if text, ok := resolve.PropertyText(node, schemaorg.Keys(term)); ok && text != "" {
		return text, true
	}
	for _, e := range a.index.OutgoingMatching(node.ID, resolve.Predicate(term)) {
		if !isBlank(e.To) {
			return e.To, true
		}
	}
	return "", false
}

// texts is text for multi-valued terms.
func (a *analysis) texts(node *graph.Node, term string) []string {
	out := resolve.PropertyList(node, schemaorg.Keys(term))
	for _, e := range a.index.OutgoingMatching(node.ID, resolve.Predicate(term)) {
		if !isBlank(e.To) {
			out = append(out, e.To)
		}
	}
	return dedupe(out)
}

// linkedName returns the literal under term, or the name of the node term
// links to.
func (a *analysis) linkedName(node *graph.Node, term string) (string, bool) {
	if text, ok := resolve.PropertyText(node, schemaorg.Keys(term)); ok && text != "" {
		return text, true
	}
	for _, target := range a.targets(node.ID, term) {
		if name, ok := resolve.PropertyText(target, schemaorg.Keys(schemaorg.PropName)); ok {
			return name, true
		}
	}
	return "", false
}

func isBlank(id string) bool {
	return strings.HasPrefix(id, "_:")
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
