package graph

import (
	"encoding/json"
	"slices"

	"github.com/c360studio/semlens/value"
)

// Node is a single entity in the graph.
type Node struct {
	// ID is an IRI or a blank node identifier ("_:...").
	ID string
	// Types holds type IRIs in first-seen order.
	Types []string
	// Properties maps property keys, usually full IRIs, to literal values.
	Properties *value.Map
}

// NewNode creates an empty node with the given id.
func NewNode(id string) *Node {
	return &Node{ID: id, Types: []string{}, Properties: value.NewMap()}
}

// Property returns the literal stored under key.
func (n *Node) Property(key string) (value.Value, bool) {
	if n == nil {
		return value.Value{}, false
	}
	return n.Properties.Get(key)
}

// HasType reports whether typ is listed exactly in n.Types.
func (n *Node) HasType(typ string) bool {
	return slices.Contains(n.Types, typ)
}

// AddType appends typ unless already present.
func (n *Node) AddType(typ string) bool {
	if typ == "" || n.HasType(typ) {
		return false
	}
	n.Types = append(n.Types, typ)
	return true
}

type nodeJSON struct {
	ID         string     `json:"@id"`
	Types      []string   `json:"@type"`
	Properties *value.Map `json:"properties,omitempty"`
}

// MarshalJSON encodes the node with "@id", "@type" and, when non-empty,
// "properties".
func (n *Node) MarshalJSON() ([]byte, error) {
	out := nodeJSON{ID: n.ID, Types: n.Types}
	if out.Types == nil {
		out.Types = []string{}
	}
	if n.Properties.Len() > 0 {
		out.Properties = n.Properties
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (n *Node) UnmarshalJSON(data []byte) error {
	var in nodeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	n.ID = in.ID
	n.Types = in.Types
	if n.Types == nil {
		n.Types = []string{}
	}
	n.Properties = in.Properties
	if n.Properties == nil {
		n.Properties = value.NewMap()
	}
	return nil
}

// Edge is a directed relation between two node ids.
type Edge struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Predicate string `json:"predicate"`
}

// KnowledgeGraph is the output of a Builder. Node ids are unique; edges keep
// insertion order and may repeat.
type KnowledgeGraph struct {
	Nodes []*Node `json:"nodes"`
	Edges []Edge  `json:"edges"`
}

// NodeMap returns an id to node lookup.
func (g *KnowledgeGraph) NodeMap() map[string]*Node {
	m := make(map[string]*Node, len(g.Nodes))
	for _, n := range g.Nodes {
		m[n.ID] = n
	}
	return m
}

// Node returns the node with the given id by linear scan. Use NodeMap for
// repeated lookups.
func (g *KnowledgeGraph) Node(id string) (*Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// IsEmpty reports whether the graph has neither nodes nor edges.
func (g *KnowledgeGraph) IsEmpty() bool {
	return len(g.Nodes) == 0 && len(g.Edges) == 0
}

// MarshalJSON encodes the graph as {"nodes": [...], "edges": [...]}. Empty
// collections are written as [] rather than null.
func (g *KnowledgeGraph) MarshalJSON() ([]byte, error) {
	type alias KnowledgeGraph
	out := alias(*g)
	if out.Nodes == nil {
		out.Nodes = []*Node{}
	}
	if out.Edges == nil {
		out.Edges = []Edge{}
	}
	return json.Marshal(out)
}
