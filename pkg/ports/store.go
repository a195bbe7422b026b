package ports

import (
	"context"

	"github.com/aretw0/renfebot/pkg/domain"
)

// StateStore defines the interface for persisting conversation state.
// A chat can leave a conversation half-way and pick it up on its next message.
type StateStore interface {
	// Save persists the state for a given session ID.
	Save(ctx context.Context, sessionID string, state *domain.State) error

	// Load retrieves the state for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.State, error)

	// Delete removes the state for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}

// LastRequestStore keeps the single last-used search request so it can be retried.
type LastRequestStore interface {
	// Save replaces the snapshot.
	Save(ctx context.Context, req domain.SearchRequest) error

	// Load returns the snapshot, or domain.ErrNoLastRequest if none was saved.
	Load(ctx context.Context) (domain.SearchRequest, error)
}
