package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventNodeEnter    EventType = "node_enter"
	EventNodeLeave    EventType = "node_leave"
	EventSearchStart  EventType = "search_start"
	EventSearchFinish EventType = "search_finish"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// NodeEvent represents entry or exit from a conversation step.
type NodeEvent struct {
	EventBase
	NodeID   string `json:"node_id"`
	NodeType string `json:"node_type"`
}

// SearchEvent represents a search execution.
type SearchEvent struct {
	EventBase
	Request  SearchRequest `json:"request"`
	Trains   int           `json:"trains,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	Outcome  string        `json:"outcome,omitempty"`
}

// Search outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeEmpty     = "empty" // nothing found, or nothing left after filtering
	OutcomeError     = "error"
	OutcomeCanceled  = "canceled"  // by /cancelar or shutdown
	OutcomeBusy      = "busy"      // refused, another search held the flag
	OutcomeDelegated = "delegated" // exported for an external backend
)

// LifecycleHooks defines callbacks for observability.
type LifecycleHooks struct {
	OnNodeEnter    func(context.Context, *NodeEvent)
	OnNodeLeave    func(context.Context, *NodeEvent)
	OnSearchStart  func(context.Context, *SearchEvent)
	OnSearchFinish func(context.Context, *SearchEvent)
}
