package graph_test

import (
	"strings"
	"testing"

	"github.com/c360studio/semlens/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjacencyIndex(t *testing.T) {
	g := &graph.KnowledgeGraph{
		Nodes: []*graph.Node{graph.NewNode("a"), graph.NewNode("b"), graph.NewNode("c")},
		Edges: []graph.Edge{
			{From: "a", To: "b", Predicate: "https://schema.org/hasVariant"},
			{From: "a", To: "c", Predicate: "https://schema.org/hasVariant"},
			{From: "b", To: "a", Predicate: "https://schema.org/isVariantOf"},
			{From: "a", To: "b", Predicate: "https://schema.org/hasVariant"},
			{From: "a", To: "missing", Predicate: "https://schema.org/brand"},
		},
	}
	idx := graph.NewAdjacencyIndex(g)

	assert.Equal(t, 5, idx.Len())

	out := idx.Outgoing("a")
	require.Len(t, out, 4)
	assert.Equal(t, "b", out[0].To)
	assert.Equal(t, "c", out[1].To)
	assert.Same(t, &g.Edges[0], out[0])

	assert.Empty(t, idx.Outgoing("c"))
	assert.Empty(t, idx.Outgoing("unknown"))

	in := idx.Incoming("b")
	require.Len(t, in, 2)
	assert.Equal(t, "a", in[0].From)

	isBrand := func(p string) bool { return strings.HasSuffix(p, "/brand") }
	brand := idx.OutgoingMatching("a", isBrand)
	require.Len(t, brand, 1)
	assert.Equal(t, "missing", brand[0].To)

	variantOf := idx.IncomingMatching("a", func(p string) bool { return strings.HasSuffix(p, "isVariantOf") })
	require.Len(t, variantOf, 1)
	assert.Equal(t, "b", variantOf[0].From)
}

func TestAdjacencyIndex_Nil(t *testing.T) {
	idx := graph.NewAdjacencyIndex(nil)
	assert.Equal(t, 0, idx.Len())
	assert.Empty(t, idx.Outgoing("a"))
}
