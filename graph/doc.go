// Package graph builds a knowledge graph from expanded JSON-LD.
//
// A KnowledgeGraph is an arena of nodes keyed by id plus a list of edges that
// reference nodes by id. Edges never own their targets, so cyclic data is
// representable and an edge may point at an id that was never materialized.
//
// # Building
//
// A Builder consumes one or more expanded documents:
//
//	b := graph.NewBuilder(graph.WithIDAllocator(graph.NewSequenceAllocator("b")))
//	if err := b.Ingest(doc); err != nil {
//	    return err
//	}
//	g, err := b.Finish()
//
// Literal values ({"@value": ...}) are stored on the owning node. Nested node
// objects become nodes of their own and are linked with an edge whose
// predicate is the property key. A node id seen twice is merged in place:
// types are unioned and later literal values replace earlier ones under the
// same key.
//
// # Traversal
//
// AdjacencyIndex is a read-only snapshot mapping node ids to their outgoing
// and incoming edges. Rebuild it after changing the graph.
package graph
