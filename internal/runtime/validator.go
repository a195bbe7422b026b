package runtime

import (
	"fmt"

	"github.com/aretw0/renfebot/pkg/domain"
)

// validateExecution checks if the node configuration is logically sound.
func validateExecution(node *domain.Node) error {
	if node == nil {
		return fmt.Errorf("cannot execute nil node")
	}

	// Forbidden: the search step hands control to the host, it cannot also ask.
	if node.Type == domain.NodeTypeSearch && node.InputType != "" {
		return fmt.Errorf("node %s violation: a search step cannot request input", node.ID)
	}

	if node.After != "" && !isOrdered(domain.InputType(node.InputType)) {
		return fmt.Errorf("node %s violation: 'after' only applies to date and time inputs", node.ID)
	}

	return nil
}

func isOrdered(t domain.InputType) bool {
	return t == domain.InputDate || t == domain.InputTime
}
