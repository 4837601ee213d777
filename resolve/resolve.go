// Package resolve looks up node properties and types while tolerating the
// different spellings publishers use for the same Schema.org term.
//
// Every lookup takes an ordered list of candidate keys, typically produced by
// schemaorg.Keys. The first key that yields a usable value wins; values are
// never merged across keys. Each candidate additionally tries its http/https
// twin and its bare short name.
package resolve

import (
	"strings"

	"github.com/c360studio/semlens/graph"
	"github.com/c360studio/semlens/value"
	"github.com/c360studio/semlens/vocabulary/schemaorg"
)

// PropertyText returns the text of the first candidate key holding a value
// with text.
func PropertyText(node *graph.Node, keys []string) (string, bool) {
	if node == nil {
		return "", false
	}
	return MapText(node.Properties, keys)
}

// PropertyValue returns the raw value of the first candidate key present on
// node.
func PropertyValue(node *graph.Node, keys []string) (value.Value, bool) {
	if node == nil {
		return value.Value{}, false
	}
	return MapValue(node.Properties, keys)
}

// PropertyList returns the display text of every element stored under the
// first candidate key present on node. A scalar yields a single element.
func PropertyList(node *graph.Node, keys []string) []string {
	v, ok := PropertyValue(node, keys)
	if !ok {
		return nil
	}
	if v.Kind() == value.KindArray {
		out := make([]string, 0, len(v.Items()))
		for _, item := range v.Items() {
			if text := Display(item); text != "" {
				out = append(out, text)
			}
		}
		return out
	}
	if text := Display(v); text != "" {
		return []string{text}
	}
	return nil
}

// MapText is PropertyText over a bare property map, used when scanning
// literal JSON objects that are not graph nodes.
func MapText(m *value.Map, keys []string) (string, bool) {
	for _, key := range keys {
		v, ok := lookup(m, key)
		if !ok {
			continue
		}
		if text, ok := v.Text(); ok {
			return text, true
		}
	}
	return "", false
}

// MapValue is PropertyValue over a bare property map.
func MapValue(m *value.Map, keys []string) (value.Value, bool) {
	for _, key := range keys {
		if v, ok := lookup(m, key); ok {
			return v, true
		}
	}
	return value.Value{}, false
}

// lookup tries key, then its http/https twin, then its short name.
func lookup(m *value.Map, key string) (value.Value, bool) {
	if v, ok := m.Get(key); ok {
		return v, true
	}
	if rest, ok := strings.CutPrefix(key, schemaorg.Namespace); ok {
		if v, ok := m.Get(schemaorg.LegacyNamespace + rest); ok {
			return v, true
		}
	} else if rest, ok := strings.CutPrefix(key, schemaorg.LegacyNamespace); ok {
		if v, ok := m.Get(schemaorg.Namespace + rest); ok {
			return v, true
		}
	}
	if short := ShortenIRI(key); short != key {
		return m.Get(short)
	}
	return value.Value{}, false
}

// Display renders v for humans. Values with text use it; arrays without
// text are joined with ", "; anything else falls back to compact JSON.
func Display(v value.Value) string {
	if text, ok := v.Text(); ok {
		return text
	}
	switch v.Kind() {
	case value.KindNull:
		return ""
	case value.KindArray:
		parts := make([]string, 0, len(v.Items()))
		for _, item := range v.Items() {
			if s := Display(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case value.KindBool, value.KindNumber, value.KindString, value.KindObject:
		return v.String()
	default:
		return ""
	}
}
