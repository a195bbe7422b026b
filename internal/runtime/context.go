package runtime

import (
	"fmt"

	"github.com/aretw0/renfebot/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// applyInput handles the Update Phase: creates the new state and applies SaveTo.
func (e *Engine) applyInput(currentState *domain.State, node *domain.Node, value any) *domain.State {
	next := e.cloneState(currentState)
	if node.SaveTo != "" {
		next.Context[node.SaveTo] = value
	}
	return next
}

// Request decodes the answers accumulated in state into a SearchRequest.
// Values that went through a JSON store (e.g. numbers) are converted weakly.
func (e *Engine) Request(state *domain.State) (domain.SearchRequest, error) {
	var req domain.SearchRequest

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &req,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return req, fmt.Errorf("failed to build request decoder: %w", err)
	}

	if err := decoder.Decode(state.Context); err != nil {
		return req, fmt.Errorf("failed to decode search request: %w", err)
	}

	if err := req.Validate(); err != nil {
		return req, fmt.Errorf("incomplete search request: %w", err)
	}
	return req, nil
}
