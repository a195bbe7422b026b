package dsl

import (
	"fmt"
	"sort"

	"github.com/aretw0/renfebot/pkg/adapters/memory"
	"github.com/aretw0/renfebot/pkg/domain"
)

// Builder manages the graph construction.
type Builder struct {
	nodes map[string]*NodeBuilder
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		nodes: make(map[string]*NodeBuilder),
	}
}

// Add creates a new node in the graph.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node: domain.Node{
			ID: id,
		},
		builder: b,
	}
	b.nodes[id] = nb
	return nb
}

// Nodes returns the declared nodes sorted by ID.
func (b *Builder) Nodes() []domain.Node {
	ids := make([]string, 0, len(b.nodes))
	for id := range b.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	nodes := make([]domain.Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, b.nodes[id].node)
	}
	return nodes
}

// Build compiles the graph into a memory loader.
// Transitions and signal targets must point at declared nodes.
func (b *Builder) Build() (*memory.Loader, error) {
	nodes := b.Nodes()
	for _, n := range nodes {
		for _, t := range n.Transitions {
			if _, ok := b.nodes[t.ToNodeID]; !ok {
				return nil, fmt.Errorf("node %s: transition to undeclared node %q", n.ID, t.ToNodeID)
			}
		}
		for sig, target := range n.OnSignal {
			if _, ok := b.nodes[target]; !ok {
				return nil, fmt.Errorf("node %s: signal %q targets undeclared node %q", n.ID, sig, target)
			}
		}
	}

	loader, err := memory.NewFromNodes(nodes...)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}

	return loader, nil
}
