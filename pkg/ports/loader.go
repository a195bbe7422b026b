package ports

// GraphLoader defines how the engine retrieves step definitions.
// This allows the flow definition (code, files) to be decoupled from the engine.
type GraphLoader interface {
	// GetNode retrieves the raw definition of a node by ID.
	// It returns the raw bytes (which the compiler will parse) or an error.
	GetNode(id string) ([]byte, error)

	// ListNodes returns the IDs of all nodes available in the graph.
	// This is used for introspection and visualization (e.g. 'renfebot graph').
	ListNodes() ([]string, error)
}
