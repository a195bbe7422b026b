package domain

import "time"

// ExecutionStatus defines the current mode of the conversation.
type ExecutionStatus string

const (
	StatusActive           ExecutionStatus = "active"             // Collecting answers
	StatusWaitingForSearch ExecutionStatus = "waiting_for_search" // Request complete, host must run the search
	StatusTerminated       ExecutionStatus = "terminated"         // Sink state reached
)

// State represents the current snapshot of a chat's conversation.
type State struct {
	// SessionID identifies the chat this conversation belongs to.
	SessionID string `json:"session_id"`

	// CurrentNodeID is the identifier of the active step.
	CurrentNodeID string `json:"current_node_id"`

	// Status indicates if the conversation is collecting, waiting or done.
	Status ExecutionStatus `json:"status"`

	// Context holds the answers accumulated so far.
	Context map[string]any `json:"context"`

	// History tracks the path taken.
	History []string `json:"history,omitempty"`

	// UpdatedAt is refreshed on every transition.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewState creates a clean state starting at a specific node.
func NewState(sessionID, startNodeID string) *State {
	return &State{
		SessionID:     sessionID,
		CurrentNodeID: startNodeID,
		Status:        StatusActive,
		Context:       make(map[string]any),
		History:       []string{startNodeID},
		UpdatedAt:     time.Now(),
	}
}

// Snapshot returns a copy that can be mutated without affecting the original.
func (s *State) Snapshot() *State {
	if s == nil {
		return nil
	}
	next := *s
	next.Context = make(map[string]any, len(s.Context))
	for k, v := range s.Context {
		next.Context[k] = v
	}
	next.History = append([]string(nil), s.History...)
	return &next
}

// IsTerminal reports whether no further input is expected.
func (s *State) IsTerminal() bool {
	return s.Status == StatusTerminated
}
