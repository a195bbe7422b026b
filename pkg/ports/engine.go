package ports

import (
	"context"

	"github.com/aretw0/renfebot/pkg/domain"
)

// Conversation defines the state machine core as seen by hosts (runner, HTTP).
// Implementations do not keep per-session state; callers own the State.
type Conversation interface {
	// Start creates the state at the entry step.
	Start(ctx context.Context, sessionID string, initialContext map[string]any) (*domain.State, error)

	// Render calculates the presentation (actions) for a given state without advancing it.
	Render(ctx context.Context, state *domain.State) ([]domain.ActionRequest, bool, error)

	// Navigate progresses the state machine based on input, returning the new state.
	Navigate(ctx context.Context, state *domain.State, input any) (*domain.State, error)

	// Signal triggers a global event on the state machine, potentially causing a transition.
	Signal(ctx context.Context, state *domain.State, signal string) (*domain.State, error)

	// Request decodes the answers accumulated in state into a SearchRequest.
	Request(state *domain.State) (domain.SearchRequest, error)

	// Inspect returns the current graph structure for introspection.
	Inspect() ([]domain.Node, error)
}
