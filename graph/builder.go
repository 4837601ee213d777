package graph

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/c360studio/semlens/value"
)

// JSON-LD keywords handled by the builder.
const (
	keywordID        = "@id"
	keywordType      = "@type"
	keywordContext   = "@context"
	keywordValue     = "@value"
	keywordLanguage  = "@language"
	keywordDirection = "@direction"
	keywordList      = "@list"
	keywordSet       = "@set"
	keywordGraph     = "@graph"
	keywordIncluded  = "@included"
	keywordReverse   = "@reverse"
	keywordJSON      = "@json"
)

// Predicates used for edges produced by container keywords.
const (
	PredicateGraph    = keywordGraph
	PredicateIncluded = keywordIncluded
)

// Stats counts what a Builder has seen so far.
type Stats struct {
	Documents    int `json:"documents"`
	Objects      int `json:"objects"`
	Literals     int `json:"literals"`
	Edges        int `json:"edges"`
	Merges       int `json:"merges"`
	GeneratedIDs int `json:"generated_ids"`
}

// Builder accumulates expanded JSON-LD documents into a KnowledgeGraph.
// A Builder is not safe for concurrent use; use one per document set.
type Builder struct {
	ids    IDAllocator
	logger *slog.Logger

	nodes    map[string]*Node
	edges    []Edge
	visiting map[string]struct{}
	stats    Stats
	finished bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithIDAllocator sets the allocator used for objects without "@id".
func WithIDAllocator(ids IDAllocator) Option {
	return func(b *Builder) {
		if ids != nil {
			b.ids = ids
		}
	}
}

// WithLogger sets the logger. Only debug-level events are emitted.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder creates a Builder. By default blank node ids are random UUIDs.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		ids:      UUIDAllocator{},
		logger:   slog.Default(),
		nodes:    make(map[string]*Node),
		edges:    []Edge{},
		visiting: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build is a convenience wrapper that ingests a single document.
func Build(doc Document, opts ...Option) (*KnowledgeGraph, error) {
	b := NewBuilder(opts...)
	if err := b.Ingest(doc); err != nil {
		return nil, err
	}
	return b.Finish()
}

// Ingest adds every top-level object of doc to the graph. Malformed pieces
// are skipped and logged; the only error is using a finished Builder.
func (b *Builder) Ingest(doc Document) error {
	if b.finished {
		return ErrBuilderFinished
	}
	b.stats.Documents++
	for _, item := range doc {
		b.processTopLevel(item)
	}
	return nil
}

// Stats returns the current counters.
func (b *Builder) Stats() Stats {
	return b.stats
}

// Finish returns the accumulated graph with nodes sorted by id. The Builder
// cannot be used afterwards.
func (b *Builder) Finish() (*KnowledgeGraph, error) {
	if b.finished {
		return nil, ErrBuilderFinished
	}
	b.finished = true

	nodes := make([]*Node, 0, len(b.nodes))
	for _, n := range b.nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	g := &KnowledgeGraph{Nodes: nodes, Edges: b.edges}
	b.nodes = nil
	b.edges = nil
	b.visiting = nil

	b.logger.Debug("Knowledge graph built",
		"nodes", len(g.Nodes),
		"edges", len(g.Edges),
		"merges", b.stats.Merges,
		"generated_ids", b.stats.GeneratedIDs)
	return g, nil
}

func (b *Builder) processTopLevel(item value.Value) {
	switch item.Kind() {
	case value.KindObject:
		m := item.Fields()
		switch {
		case m.Has(keywordValue):
			b.logger.Debug("Skipping top-level value object")
		case m.Has(keywordList):
			b.processTopLevelItems(m, keywordList)
		case m.Has(keywordSet):
			b.processTopLevelItems(m, keywordSet)
		default:
			b.processNode(m)
		}
	case value.KindArray:
		for _, inner := range item.Items() {
			b.processTopLevel(inner)
		}
	case value.KindNull, value.KindBool, value.KindNumber, value.KindString:
		b.logger.Debug("Skipping top-level literal", "kind", item.Kind().String())
	}
}

func (b *Builder) processTopLevelItems(m *value.Map, keyword string) {
	items, _ := m.Get(keyword)
	for _, inner := range asItems(items) {
		b.processTopLevel(inner)
	}
}

// processNode materializes a node object and returns its id. Re-entering a
// node that is still being processed returns its id without descending.
func (b *Builder) processNode(m *value.Map) string {
	id := nodeID(m)
	if id == "" {
		id = b.ids.NextID()
		b.stats.GeneratedIDs++
	}

	node, exists := b.nodes[id]
	if !exists {
		node = NewNode(id)
		b.nodes[id] = node
	}

	if _, busy := b.visiting[id]; busy {
		b.logger.Debug("Cycle detected, reusing node", "id", id)
		return id
	}
	if exists && hasContent(m) {
		b.stats.Merges++
	}
	b.visiting[id] = struct{}{}
	defer delete(b.visiting, id)
	b.stats.Objects++

	if types, ok := m.Get(keywordType); ok {
		for _, t := range types.Texts() {
			node.AddType(t)
		}
	}

	m.Range(func(key string, v value.Value) bool {
		switch key {
		case keywordID, keywordType, keywordContext:
		case keywordGraph, keywordIncluded:
			b.processContainer(id, key, v)
		case keywordReverse:
			b.processReverse(id, v)
		default:
			if strings.HasPrefix(key, "@") {
				b.logger.Debug("Skipping keyword", "id", id, "keyword", key)
				return true
			}
			b.processProperty(node, key, v)
		}
		return true
	})

	return id
}

// processProperty stores the literals of one occurrence of key on node and
// links nested nodes. One literal is stored as a scalar, several as an array.
// Any previous value under key is replaced.
func (b *Builder) processProperty(node *Node, key string, v value.Value) {
	var literals []value.Value
	b.collect(node.ID, key, v, &literals)

	switch len(literals) {
	case 0:
		return
	case 1:
		node.Properties.Set(key, literals[0])
	default:
		node.Properties.Set(key, value.Array(literals...))
	}
	b.stats.Literals += len(literals)
}

func (b *Builder) collect(from, predicate string, v value.Value, out *[]value.Value) {
	switch v.Kind() {
	case value.KindArray:
		for _, item := range v.Items() {
			b.collect(from, predicate, item, out)
		}
	case value.KindObject:
		m := v.Fields()
		switch {
		case m.Has(keywordValue):
			if lit, ok := b.literal(m); ok {
				*out = append(*out, lit)
			}
		case m.Has(keywordList):
			items, _ := m.Get(keywordList)
			var list []value.Value
			for _, item := range asItems(items) {
				b.collect(from, predicate, item, &list)
			}
			if len(list) > 0 {
				*out = append(*out, value.Array(list...))
			}
		case m.Has(keywordSet):
			items, _ := m.Get(keywordSet)
			for _, item := range asItems(items) {
				b.collect(from, predicate, item, out)
			}
		default:
			to := b.processNode(m)
			b.addEdge(from, to, predicate)
		}
	case value.KindNull:
	case value.KindBool, value.KindNumber, value.KindString:
		*out = append(*out, v)
	}
}

// literal unwraps a value object. Language and direction tagged strings keep
// their tags; "@json" literals keep their raw JSON; other datatypes are
// dropped.
func (b *Builder) literal(m *value.Map) (value.Value, bool) {
	raw, _ := m.Get(keywordValue)

	if dt, ok := m.Get(keywordType); ok {
		if s, _ := dt.AsString(); s == keywordJSON {
			return raw, true
		}
		b.logger.Debug("Dropping literal datatype", "datatype", dt.String())
	}

	if raw.IsNull() {
		return value.Value{}, false
	}

	lang, hasLang := m.Get(keywordLanguage)
	dir, hasDir := m.Get(keywordDirection)
	if !hasLang && !hasDir {
		return raw, true
	}

	tagged := value.NewMap()
	tagged.Set(keywordValue, raw)
	if hasLang {
		tagged.Set(keywordLanguage, lang)
	}
	if hasDir {
		tagged.Set(keywordDirection, dir)
	}
	return value.Object(tagged), true
}

// processContainer links the members of "@graph" or "@included" to owner.
func (b *Builder) processContainer(owner, keyword string, v value.Value) {
	for _, item := range asItems(v) {
		m := item.Fields()
		if m == nil || m.Has(keywordValue) {
			b.logger.Debug("Skipping non-node member", "id", owner, "keyword", keyword)
			continue
		}
		if m.Has(keywordList) || m.Has(keywordSet) {
			b.processContainer(owner, keyword, firstOf(m, keywordList, keywordSet))
			continue
		}
		to := b.processNode(m)
		b.addEdge(owner, to, keyword)
	}
}

// processReverse links every node listed under a reverse property to target.
func (b *Builder) processReverse(target string, v value.Value) {
	m := v.Fields()
	if m == nil {
		b.logger.Debug("Skipping malformed @reverse", "id", target)
		return
	}
	m.Range(func(predicate string, nodes value.Value) bool {
		for _, item := range asItems(nodes) {
			nm := item.Fields()
			if nm == nil || nm.Has(keywordValue) {
				continue
			}
			from := b.processNode(nm)
			b.addEdge(from, target, predicate)
		}
		return true
	})
}

func (b *Builder) addEdge(from, to, predicate string) {
	b.edges = append(b.edges, Edge{From: from, To: to, Predicate: predicate})
	b.stats.Edges++
}

func nodeID(m *value.Map) string {
	v, ok := m.Get(keywordID)
	if !ok {
		return ""
	}
	id, _ := v.Text()
	return id
}

// hasContent reports whether m says anything beyond its id.
func hasContent(m *value.Map) bool {
	for _, key := range m.Keys() {
		if key != keywordID && key != keywordContext {
			return true
		}
	}
	return false
}

// asItems returns the elements of an array, flattening nested arrays, or v
// itself as a single element.
func asItems(v value.Value) []value.Value {
	switch v.Kind() {
	case value.KindArray:
		out := make([]value.Value, 0, len(v.Items()))
		for _, item := range v.Items() {
			out = append(out, asItems(item)...)
		}
		return out
	case value.KindNull:
		return nil
	default:
		return []value.Value{v}
	}
}

func firstOf(m *value.Map, keys ...string) value.Value {
	for _, k := range keys {
		if v, ok := m.Get(k); ok {
			return v
		}
	}
	return value.Value{}
}

// String summarizes the counters for logs.
func (s Stats) String() string {
	return fmt.Sprintf("documents=%d objects=%d literals=%d edges=%d merges=%d generated_ids=%d",
		s.Documents, s.Objects, s.Literals, s.Edges, s.Merges, s.GeneratedIDs)
}
