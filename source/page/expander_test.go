package page

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semlens/graph"
)

const productBlock = `{
	"@context": "https://schema.org",
	"@type": "Product",
	"name": "Trail Bike",
	"url": "https://shop.example/bike",
	"offers": {"@type": "Offer", "price": "1299", "priceCurrency": "EUR"}
}`

func newTestExpander(t *testing.T, opts ...ExpanderOption) *Expander {
	t.Helper()
	e, err := NewExpander(nil, opts...)
	require.NoError(t, err)
	return e
}

func TestExpander_EmbeddedSchemaContext(t *testing.T) {
	e := newTestExpander(t)

	doc, err := e.Expand(context.Background(), productBlock, "https://shop.example/p")
	require.NoError(t, err)
	require.Len(t, doc, 1)

	g, err := graph.Build(doc, graph.WithIDAllocator(graph.NewSequenceAllocator("b")))
	require.NoError(t, err)

	product, ok := g.Node("_:b0")
	require.True(t, ok)
	assert.Equal(t, []string{"https://schema.org/Product"}, product.Types)
	name, ok := product.Property("https://schema.org/name")
	require.True(t, ok)
	assert.Equal(t, `"Trail Bike"`, name.String())

	assert.ElementsMatch(t, []graph.Edge{
		{From: "_:b0", To: "_:b1", Predicate: "https://schema.org/offers"},
		{From: "_:b0", To: "https://shop.example/bike", Predicate: "https://schema.org/url"},
	}, g.Edges)
}

func TestExpander_CustomContextDocument(t *testing.T) {
	e := newTestExpander(t, WithContextDocument("https://vocab.example/ctx",
		[]byte(`{"@context":{"title":"https://vocab.example/title"}}`)))

	doc, err := e.Expand(context.Background(),
		`{"@context":"https://vocab.example/ctx","@id":"https://x.example/a","title":"Hello"}`, "")
	require.NoError(t, err)

	g, err := graph.Build(doc)
	require.NoError(t, err)
	n, ok := g.Node("https://x.example/a")
	require.True(t, ok)
	title, ok := n.Property("https://vocab.example/title")
	require.True(t, ok)
	assert.Equal(t, `"Hello"`, title.String())
}

func TestExpander_Errors(t *testing.T) {
	e := newTestExpander(t)

	_, err := e.Expand(context.Background(), `{"@type":`, "")
	assert.ErrorIs(t, err, ErrExpansion)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Expand(ctx, productBlock, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExpander_ExpandAllSkipsFailures(t *testing.T) {
	e := newTestExpander(t)

	docs, errs := e.ExpandAll(context.Background(), []string{productBlock, `not json`, productBlock}, "https://shop.example/p")
	assert.Len(t, docs, 2)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrExpansion)
	assert.Contains(t, errs[0].Error(), "block 1")
}
