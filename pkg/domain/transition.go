package domain

// Transition defines a rule to move from one node to another.
type Transition struct {
	FromNodeID string `json:"from_node_id,omitempty" yaml:"from,omitempty"`
	ToNodeID   string `json:"to_node_id" yaml:"to,omitempty"`

	// Condition is a simple expression that must hold for this transition
	// to be taken, e.g. "input == 'yes'" or "return".
	// If empty, it's considered an "always" transition (default).
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty"`
}
