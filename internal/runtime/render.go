package runtime

import (
	"fmt"

	"github.com/aretw0/renfebot/pkg/domain"
)

// renderContent returns the prompt text of a node.
func (e *Engine) renderContent(node *domain.Node) string {
	return string(node.Content)
}

// renderInputRequest calculates the action for user input based on node config.
func (e *Engine) renderInputRequest(node *domain.Node) *domain.ActionRequest {
	if !node.IsQuestion() {
		return nil
	}

	inputType := domain.InputType(node.InputType)
	if inputType == "" {
		inputType = domain.InputText
	}

	return &domain.ActionRequest{
		Type: domain.ActionRequestInput,
		Payload: domain.InputRequest{
			Type:    inputType,
			Options: node.InputOptions,
		},
	}
}

// renderSearch builds the search action from the accumulated answers.
func (e *Engine) renderSearch(state *domain.State) (*domain.ActionRequest, error) {
	req, err := e.Request(state)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", state.CurrentNodeID, err)
	}
	return &domain.ActionRequest{
		Type:    domain.ActionRunSearch,
		Payload: req,
	}, nil
}

func retryPrompt(node *domain.Node) string {
	if len(node.RetryContent) > 0 {
		return string(node.RetryContent)
	}
	return string(node.Content)
}
