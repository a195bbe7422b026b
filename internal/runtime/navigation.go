package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/renfebot/pkg/domain"
)

// resolveNextNodeID evaluates the priority-based transition rules.
func (e *Engine) resolveNextNodeID(ctx context.Context, node *domain.Node, input string, data map[string]any) (string, error) {
	// Priority 1: Conditional Transitions
	for _, t := range node.Transitions {
		if t.Condition == "" {
			continue
		}
		ok, err := e.evaluator(ctx, t.Condition, input, data)
		if err != nil {
			return "", fmt.Errorf("node %s: failed to evaluate condition %q: %w", node.ID, t.Condition, err)
		}
		if ok {
			return t.ToNodeID, nil
		}
	}

	// Priority 2: Unconditional Transitions
	for _, t := range node.Transitions {
		if t.Condition == "" {
			return t.ToNodeID, nil
		}
	}

	return "", nil
}

// transitionTo moves state to target, updating status from the target's type.
func (e *Engine) transitionTo(ctx context.Context, state *domain.State, target string) (*domain.State, error) {
	node, err := e.loadNode(target)
	if err != nil {
		return nil, err
	}

	state.CurrentNodeID = node.ID
	state.History = append(state.History, node.ID)
	state.UpdatedAt = e.clock()

	switch {
	case node.Type == domain.NodeTypeSearch:
		state.Status = domain.StatusWaitingForSearch
	case len(node.Transitions) == 0 && !node.IsQuestion():
		state.Status = domain.StatusTerminated
	default:
		state.Status = domain.StatusActive
	}

	e.emitNodeEnter(ctx, state, node)
	return state, nil
}

// cloneState creates a copy of the state that can be mutated safely.
func (e *Engine) cloneState(src *domain.State) *domain.State {
	return src.Snapshot()
}

func (e *Engine) emitNodeEnter(ctx context.Context, state *domain.State, node *domain.Node) {
	if e.hooks.OnNodeEnter == nil {
		return
	}
	e.hooks.OnNodeEnter(ctx, e.nodeEvent(domain.EventNodeEnter, state, node))
}

func (e *Engine) emitNodeLeave(ctx context.Context, state *domain.State, node *domain.Node) {
	if e.hooks.OnNodeLeave == nil {
		return
	}
	e.hooks.OnNodeLeave(ctx, e.nodeEvent(domain.EventNodeLeave, state, node))
}

func (e *Engine) nodeEvent(t domain.EventType, state *domain.State, node *domain.Node) *domain.NodeEvent {
	return &domain.NodeEvent{
		EventBase: domain.EventBase{
			Timestamp: e.clock(),
			Type:      t,
			SessionID: state.SessionID,
		},
		NodeID:   node.ID,
		NodeType: node.Type,
	}
}
