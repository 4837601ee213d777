package resolve

import (
	"strings"

	"github.com/c360studio/semlens/graph"
)

// ShortenIRI returns the segment after the last '#' or '/' of iri. Trailing
// separators are ignored. A CURIE such as "schema:Product" yields the part
// after the colon. Anything else is returned unchanged.
func ShortenIRI(iri string) string {
	trimmed := strings.TrimRight(iri, "/#")
	if trimmed == "" {
		return iri
	}
	if i := strings.LastIndexAny(trimmed, "/#"); i >= 0 {
		return trimmed[i+1:]
	}
	if i := strings.LastIndexByte(trimmed, ':'); i >= 0 && i < len(trimmed)-1 {
		return trimmed[i+1:]
	}
	return iri
}

// HasSchemaType reports whether any type of node shortens to name, ignoring
// case.
func HasSchemaType(node *graph.Node, name string) bool {
	if node == nil {
		return false
	}
	for _, t := range node.Types {
		if strings.EqualFold(ShortenIRI(t), name) {
			return true
		}
	}
	return false
}

// HasAnySchemaType reports whether node has one of names.
func HasAnySchemaType(node *graph.Node, names ...string) bool {
	for _, name := range names {
		if HasSchemaType(node, name) {
			return true
		}
	}
	return false
}

// PredicateMatches reports whether predicate shortens to name, ignoring case.
func PredicateMatches(predicate, name string) bool {
	return strings.EqualFold(ShortenIRI(predicate), name)
}

// Predicate returns a matcher for graph.AdjacencyIndex lookups.
func Predicate(name string) func(string) bool {
	return func(predicate string) bool {
		return PredicateMatches(predicate, name)
	}
}
