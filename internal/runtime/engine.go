package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/renfebot/internal/compiler"
	"github.com/aretw0/renfebot/internal/logging"
	"github.com/aretw0/renfebot/pkg/domain"
	"github.com/aretw0/renfebot/pkg/ports"
)

// DefaultEntryNode is the step a new conversation starts at.
const DefaultEntryNode = "start"

// Engine is the core state machine runner.
// It is stateless: every call takes the State and returns a new one.
type Engine struct {
	loader      ports.GraphLoader
	parser      *compiler.Parser
	evaluator   ConditionEvaluator
	resolver    ports.StationResolver
	clock       func() time.Time
	entryNodeID string
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithEntryNode configures the initial node ID (default: "start").
func WithEntryNode(nodeID string) EngineOption {
	return func(e *Engine) {
		if nodeID != "" {
			e.entryNodeID = nodeID
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithStationResolver sets the port used to validate station answers.
// Without one, station answers are accepted verbatim.
func WithStationResolver(r ports.StationResolver) EngineOption {
	return func(e *Engine) {
		e.resolver = r
	}
}

// WithClock overrides time.Now, which decides what "today" is for date answers.
func WithClock(clock func() time.Time) EngineOption {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// NewEngine creates a new engine with dependencies.
// A nil evaluator falls back to DefaultEvaluator.
func NewEngine(loader ports.GraphLoader, evaluator ConditionEvaluator, opts ...EngineOption) *Engine {
	if evaluator == nil {
		evaluator = DefaultEvaluator
	}
	e := &Engine{
		loader:      loader,
		parser:      compiler.NewParser(),
		evaluator:   evaluator,
		clock:       time.Now,
		entryNodeID: DefaultEntryNode,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start creates the initial state for a chat and triggers lifecycle hooks.
func (e *Engine) Start(ctx context.Context, sessionID string, initialContext map[string]any) (*domain.State, error) {
	node, err := e.loadNode(e.entryNodeID)
	if err != nil {
		return nil, err
	}

	state := domain.NewState(sessionID, node.ID)
	state.UpdatedAt = e.clock()
	for k, v := range initialContext {
		state.Context[k] = v
	}
	if node.Type == domain.NodeTypeSearch {
		state.Status = domain.StatusWaitingForSearch
	}

	e.logger.DebugContext(ctx, "conversation started", "session_id", sessionID, "node", node.ID)
	e.emitNodeEnter(ctx, state, node)
	return state, nil
}

// Render calculates the actions for the current step without advancing.
// The bool reports whether the conversation ends at this step.
func (e *Engine) Render(ctx context.Context, state *domain.State) ([]domain.ActionRequest, bool, error) {
	node, err := e.loadNode(state.CurrentNodeID)
	if err != nil {
		return nil, false, err
	}

	var actions []domain.ActionRequest
	if text := e.renderContent(node); text != "" {
		actions = append(actions, domain.ActionRequest{
			Type:    domain.ActionRenderContent,
			Payload: text,
		})
	}

	if act := e.renderInputRequest(node); act != nil {
		actions = append(actions, *act)
		return actions, false, nil
	}

	if node.Type == domain.NodeTypeSearch {
		act, err := e.renderSearch(state)
		if err != nil {
			return nil, false, err
		}
		actions = append(actions, *act)
		return actions, true, nil
	}

	return actions, len(node.Transitions) == 0, nil
}

// Navigate feeds the user's answer to the current step.
//
// An answer the step rejects yields *InputError and the state is left as is.
// Otherwise the normalized answer is stored under the step's SaveTo key and
// the first matching transition is followed.
func (e *Engine) Navigate(ctx context.Context, state *domain.State, input any) (*domain.State, error) {
	if state.IsTerminal() {
		return nil, fmt.Errorf("conversation %s already finished", state.SessionID)
	}

	node, err := e.loadNode(state.CurrentNodeID)
	if err != nil {
		return nil, err
	}

	if node.Type == domain.NodeTypeSearch {
		return nil, &UnhandledSearchError{NodeID: node.ID}
	}

	raw := inputString(input)
	value, normalized := any(raw), raw
	if node.IsQuestion() {
		value, normalized, err = e.parseInput(node, state, raw)
		if err != nil {
			e.logger.DebugContext(ctx, "answer rejected", "node", node.ID, "input", raw, "error", err)
			return nil, &InputError{
				NodeID: node.ID,
				Input:  raw,
				Prompt: retryPrompt(node),
				Err:    err,
			}
		}
	}

	next := e.applyInput(state, node, value)

	target, err := e.resolveNextNodeID(ctx, node, normalized, next.Context)
	if err != nil {
		return nil, err
	}

	e.emitNodeLeave(ctx, state, node)

	if target == "" {
		next.Status = domain.StatusTerminated
		next.UpdatedAt = e.clock()
		return next, nil
	}

	return e.transitionTo(ctx, next, target)
}

// Signal triggers a global event (e.g. cancel) using the step's OnSignal map.
// Returns domain.ErrUnhandledSignal if the step does not handle it.
func (e *Engine) Signal(ctx context.Context, state *domain.State, signal string) (*domain.State, error) {
	node, err := e.loadNode(state.CurrentNodeID)
	if err != nil {
		return nil, err
	}

	target, ok := node.OnSignal[signal]
	if !ok || target == "" {
		return nil, fmt.Errorf("%w: %q at node %s", domain.ErrUnhandledSignal, signal, node.ID)
	}

	e.logger.DebugContext(ctx, "signal received", "signal", signal, "node", node.ID, "target", target)
	e.emitNodeLeave(ctx, state, node)
	return e.transitionTo(ctx, e.cloneState(state), target)
}

// Inspect returns every step of the graph, sorted by the loader.
func (e *Engine) Inspect() ([]domain.Node, error) {
	ids, err := e.loader.ListNodes()
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}

	nodes := make([]domain.Node, 0, len(ids))
	for _, id := range ids {
		node, err := e.loadNode(id)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, *node)
	}
	return nodes, nil
}

// EntryNode returns the ID of the first step.
func (e *Engine) EntryNode() string {
	return e.entryNodeID
}

func (e *Engine) loadNode(id string) (*domain.Node, error) {
	raw, err := e.loader.GetNode(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load node %s: %w", id, err)
	}

	node, err := e.parser.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse node %s: %w", id, err)
	}

	if err := validateExecution(node); err != nil {
		return nil, err
	}
	return node, nil
}
