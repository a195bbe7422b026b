package compiler

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/renfebot/pkg/domain"
)

// Parser is responsible for converting raw bytes into a Node.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes the JSON definition of a step.
func (p *Parser) Parse(data []byte) (*domain.Node, error) {
	var node domain.Node
	if err := json.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse node: %w", err)
	}
	if node.ID == "" {
		return nil, fmt.Errorf("node missing ID")
	}
	if node.Type == "" {
		node.Type = domain.NodeTypeText
		if node.InputType != "" {
			node.Type = domain.NodeTypeQuestion
		}
	}
	for i := range node.Transitions {
		if node.Transitions[i].FromNodeID == "" {
			node.Transitions[i].FromNodeID = node.ID
		}
	}
	return &node, nil
}
