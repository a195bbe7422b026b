package dsl

import "github.com/aretw0/renfebot/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node    domain.Node
	builder *Builder
}

// Text sets the content of the node and marks it as a text node (soft step).
func (n *NodeBuilder) Text(content string) *NodeBuilder {
	n.node.Type = domain.NodeTypeText
	n.node.Content = []byte(content)
	return n
}

// Question sets the content of the node and marks it as a question node (hard step).
func (n *NodeBuilder) Question(content string) *NodeBuilder {
	n.node.Type = domain.NodeTypeQuestion
	n.node.Content = []byte(content)
	return n
}

// Search marks the node as the step that hands the request to the host.
func (n *NodeBuilder) Search(content string) *NodeBuilder {
	n.node.Type = domain.NodeTypeSearch
	n.node.Content = []byte(content)
	n.node.Transitions = nil
	return n
}

// Input configures the input type and options for a question node.
func (n *NodeBuilder) Input(inputType domain.InputType, options ...string) *NodeBuilder {
	n.node.InputType = string(inputType)
	n.node.InputOptions = options
	return n
}

// Retry sets the prompt sent when an answer is rejected.
func (n *NodeBuilder) Retry(content string) *NodeBuilder {
	n.node.RetryContent = []byte(content)
	return n
}

// SaveTo specifies the context variable to save the input to.
func (n *NodeBuilder) SaveTo(variable string) *NodeBuilder {
	n.node.SaveTo = variable
	return n
}

// After requires the answer not to precede the value stored under key.
func (n *NodeBuilder) After(key string) *NodeBuilder {
	n.node.After = key
	return n
}

// Meta attaches a metadata entry to the node.
func (n *NodeBuilder) Meta(key, value string) *NodeBuilder {
	if n.node.Metadata == nil {
		n.node.Metadata = make(map[string]string)
	}
	n.node.Metadata[key] = value
	return n
}

// Go adds an unconditional transition to the target node.
func (n *NodeBuilder) Go(target string) *NodeBuilder {
	n.node.Transitions = append(n.node.Transitions, domain.Transition{
		FromNodeID: n.node.ID,
		ToNodeID:   target,
	})
	return n
}

// Branch adds a conditional transition to the target node.
func (n *NodeBuilder) Branch(condition string, target string) *NodeBuilder {
	n.node.Transitions = append(n.node.Transitions, domain.Transition{
		FromNodeID: n.node.ID,
		Condition:  condition,
		ToNodeID:   target,
	})
	return n
}

// On adds a signal handler to the node.
func (n *NodeBuilder) On(signal string, target string) *NodeBuilder {
	if n.node.OnSignal == nil {
		n.node.OnSignal = make(map[string]string)
	}
	n.node.OnSignal[signal] = target
	return n
}

// Terminal marks the node as a terminal node (end of the flow).
func (n *NodeBuilder) Terminal() *NodeBuilder {
	n.node.Transitions = nil
	return n
}

// Build returns the underlying domain.Node.
// This is primarily used by the Builder, but exposed for advanced usage.
func (n *NodeBuilder) Build() domain.Node {
	return n.node
}
