package graph

// AdjacencyIndex maps node ids to the edges leaving and entering them. It is
// a snapshot of the graph at construction time and must be rebuilt if the
// graph changes.
type AdjacencyIndex struct {
	outgoing map[string][]*Edge
	incoming map[string][]*Edge
	edges    int
}

// NewAdjacencyIndex indexes every edge of g. Edge pointers refer into
// g.Edges.
func NewAdjacencyIndex(g *KnowledgeGraph) *AdjacencyIndex {
	idx := &AdjacencyIndex{
		outgoing: make(map[string][]*Edge),
		incoming: make(map[string][]*Edge),
	}
	if g == nil {
		return idx
	}
	for i := range g.Edges {
		e := &g.Edges[i]
		idx.outgoing[e.From] = append(idx.outgoing[e.From], e)
		idx.incoming[e.To] = append(idx.incoming[e.To], e)
	}
	idx.edges = len(g.Edges)
	return idx
}

// Outgoing returns the edges whose From is id, in insertion order.
func (idx *AdjacencyIndex) Outgoing(id string) []*Edge {
	return idx.outgoing[id]
}

// Incoming returns the edges whose To is id, in insertion order.
func (idx *AdjacencyIndex) Incoming(id string) []*Edge {
	return idx.incoming[id]
}

// OutgoingMatching returns the outgoing edges of id whose predicate satisfies
// match.
func (idx *AdjacencyIndex) OutgoingMatching(id string, match func(predicate string) bool) []*Edge {
	var out []*Edge
	for _, e := range idx.outgoing[id] {
		if match(e.Predicate) {
			out = append(out, e)
		}
	}
	return out
}

// IncomingMatching returns the incoming edges of id whose predicate satisfies
// match.
func (idx *AdjacencyIndex) IncomingMatching(id string, match func(predicate string) bool) []*Edge {
	var out []*Edge
	for _, e := range idx.incoming[id] {
		if match(e.Predicate) {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of indexed edges.
func (idx *AdjacencyIndex) Len() int {
	return idx.edges
}
