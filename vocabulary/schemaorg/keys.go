package schemaorg

import "strings"

// IRI returns the https://schema.org/ form of term.
func IRI(term string) string {
	return Namespace + term
}

// LegacyIRI returns the http://schema.org/ form of term.
func LegacyIRI(term string) string {
	return LegacyNamespace + term
}

// Keys returns the candidate property keys for term: the https IRI, the
// http IRI and the bare short name, in lookup order.
func Keys(term string) []string {
	return []string{IRI(term), LegacyIRI(term), term}
}

// Term strips a Schema.org namespace from iri. The second result is false
// when iri is not in either Schema.org namespace.
func Term(iri string) (string, bool) {
	if rest, ok := strings.CutPrefix(iri, Namespace); ok {
		return rest, true
	}
	if rest, ok := strings.CutPrefix(iri, LegacyNamespace); ok {
		return rest, true
	}
	return iri, false
}
