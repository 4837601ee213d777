package graph

import (
	"fmt"

	"github.com/c360studio/semlens/value"
)

// Document is a sequence of top-level expanded JSON-LD objects.
type Document []value.Value

// ParseDocument reads an expanded JSON-LD document. It accepts an array of
// node objects, a single node object, or an object wrapping its nodes in
// "@graph".
func ParseDocument(data []byte) (Document, error) {
	v, err := value.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return DocumentFromValue(v)
}

// DocumentFromValue applies the same unwrapping rules as ParseDocument to an
// already decoded value.
func DocumentFromValue(v value.Value) (Document, error) {
	switch v.Kind() {
	case value.KindArray:
		return Document(v.Items()), nil
	case value.KindObject:
		if isGraphWrapper(v.Fields()) {
			inner, _ := v.Get("@graph")
			if inner.Kind() == value.KindArray {
				return Document(inner.Items()), nil
			}
			return Document{inner}, nil
		}
		return Document{v}, nil
	case value.KindNull:
		return Document{}, nil
	case value.KindBool, value.KindNumber, value.KindString:
		return nil, fmt.Errorf("%w: top level is a %s", ErrInvalidDocument, v.Kind())
	default:
		return nil, fmt.Errorf("%w: unknown value kind", ErrInvalidDocument)
	}
}

// isGraphWrapper reports whether m only carries "@graph" and optionally
// "@context". A node with its own "@id" and a named graph stays a node.
func isGraphWrapper(m *value.Map) bool {
	if !m.Has("@graph") {
		return false
	}
	for _, key := range m.Keys() {
		if key != "@graph" && key != "@context" {
			return false
		}
	}
	return true
}
