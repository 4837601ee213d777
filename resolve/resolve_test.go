package resolve_test

import (
	"testing"

	"github.com/c360studio/semlens/graph"
	"github.com/c360studio/semlens/resolve"
	"github.com/c360studio/semlens/value"
	"github.com/c360studio/semlens/vocabulary/schemaorg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodeWith(props map[string]value.Value, types ...string) *graph.Node {
	n := graph.NewNode("n")
	for _, t := range types {
		n.AddType(t)
	}
	for k, v := range props {
		n.Properties.Set(k, v)
	}
	return n
}

func TestPropertyText_KeySpellings(t *testing.T) {
	keys := []string{"https://schema.org/name", "http://schema.org/name", "name"}

	tests := []struct {
		name   string
		props  map[string]value.Value
		want   string
		wantOK bool
	}{
		{"https key", map[string]value.Value{"https://schema.org/name": value.String("A")}, "A", true},
		{"http key", map[string]value.Value{"http://schema.org/name": value.String("B")}, "B", true},
		{"short key", map[string]value.Value{"name": value.String("C")}, "C", true},
		{"number coerced", map[string]value.Value{"name": value.Int(7)}, "7", true},
		{"array first non-empty", map[string]value.Value{"name": value.Array(value.String(""), value.String("D"))}, "D", true},
		{"absent", map[string]value.Value{"other": value.String("x")}, "", false},
		{"no text", map[string]value.Value{"name": value.Null()}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := resolve.PropertyText(nodeWith(tt.props), keys)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPropertyText_FirstMatchWins(t *testing.T) {
	n := nodeWith(map[string]value.Value{
		"http://schema.org/name": value.String("legacy"),
		"name":                   value.String("short"),
	})
	got, ok := resolve.PropertyText(n, schemaorg.Keys("name"))
	require.True(t, ok)
	assert.Equal(t, "legacy", got)

	// A single https candidate still finds the http spelling.
	got, ok = resolve.PropertyText(n, []string{"https://schema.org/name"})
	require.True(t, ok)
	assert.Equal(t, "legacy", got)

	_, ok = resolve.PropertyText(nil, schemaorg.Keys("name"))
	assert.False(t, ok)
}

func TestPropertyList(t *testing.T) {
	n := nodeWith(map[string]value.Value{
		"https://schema.org/variesBy": value.Array(
			value.String("https://schema.org/color"),
			value.String("https://schema.org/size"),
		),
		"sku": value.String("ABC"),
	})
	assert.Equal(t, []string{"https://schema.org/color", "https://schema.org/size"},
		resolve.PropertyList(n, schemaorg.Keys("variesBy")))
	assert.Equal(t, []string{"ABC"}, resolve.PropertyList(n, schemaorg.Keys("sku")))
	assert.Nil(t, resolve.PropertyList(n, schemaorg.Keys("missing")))
}

func TestShortenIRI(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://schema.org/name", "name"},
		{"https://schema.org/Product", "Product"},
		{"http://example.com#property", "property"},
		{"https://schema.org/InStock/", "InStock"},
		{"schema:Product", "Product"},
		{"simple", "simple"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, resolve.ShortenIRI(tt.in))
		})
	}
}

func TestHasSchemaType(t *testing.T) {
	n := nodeWith(nil, "https://schema.org/Product", "http://schema.org/Thing", "Offer")

	assert.True(t, resolve.HasSchemaType(n, "Product"))
	assert.True(t, resolve.HasSchemaType(n, "product"))
	assert.True(t, resolve.HasSchemaType(n, "Thing"))
	assert.True(t, resolve.HasSchemaType(n, "offer"))
	assert.False(t, resolve.HasSchemaType(n, "Organization"))
	assert.False(t, resolve.HasSchemaType(nil, "Product"))
	assert.True(t, resolve.HasAnySchemaType(n, "Organization", "Thing"))
}

func TestPredicateMatches(t *testing.T) {
	assert.True(t, resolve.PredicateMatches("https://schema.org/offers", "offers"))
	assert.True(t, resolve.PredicateMatches("http://schema.org/hasVariant", "hasvariant"))
	assert.False(t, resolve.PredicateMatches("https://schema.org/specialOffers", "offers"))
	assert.True(t, resolve.Predicate("brand")("brand"))
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "red", resolve.Display(value.String("red")))
	assert.Equal(t, "", resolve.Display(value.Null()))
	assert.Equal(t, `{"x":1}`, resolve.Display(value.MustParse(`{"x":1}`)))
	assert.Equal(t, "", resolve.Display(value.Array()))
}
