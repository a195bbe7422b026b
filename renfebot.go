package renfebot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/renfebot/internal/logging"
	"github.com/aretw0/renfebot/internal/runtime"
	"github.com/aretw0/renfebot/pkg/domain"
	"github.com/aretw0/renfebot/pkg/flow"
	"github.com/aretw0/renfebot/pkg/ports"
)

// Engine is the high-level entry point of the bot's conversation logic.
// It wraps the internal runtime and provides a simplified API for hosts.
type Engine struct {
	runtime     *runtime.Engine
	loader      ports.GraphLoader
	evaluator   runtime.ConditionEvaluator
	resolver    ports.StationResolver
	clock       func() time.Time
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	runtimeOpts []runtime.EngineOption
}

var _ ports.Conversation = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLoader replaces the built-in search conversation with another graph.
func WithLoader(l ports.GraphLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithConditionEvaluator sets a custom logic evaluator for the engine.
func WithConditionEvaluator(eval runtime.ConditionEvaluator) Option {
	return func(e *Engine) {
		e.evaluator = eval
	}
}

// WithStationResolver sets how station answers are checked and canonicalized.
func WithStationResolver(r ports.StationResolver) Option {
	return func(e *Engine) {
		e.resolver = r
	}
}

// WithClock overrides time.Now for date validation.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithEntryNode configures the initial node ID.
// The built-in conversation starts at flow.Entry.
func WithEntryNode(nodeID string) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithEntryNode(nodeID))
	}
}

// New initializes a new Engine.
// Without WithLoader it runs the ticket search conversation from pkg/flow.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	runtimeOpts := []runtime.EngineOption{}
	if eng.loader == nil {
		loader, err := flow.New()
		if err != nil {
			return nil, fmt.Errorf("failed to build search flow: %w", err)
		}
		eng.loader = loader
		runtimeOpts = append(runtimeOpts, runtime.WithEntryNode(flow.Entry))
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	runtimeOpts = append(runtimeOpts,
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithStationResolver(eng.resolver),
		runtime.WithClock(eng.clock),
	)
	runtimeOpts = append(runtimeOpts, eng.runtimeOpts...)

	eng.runtime = runtime.NewEngine(eng.loader, eng.evaluator, runtimeOpts...)
	return eng, nil
}

// Start creates the initial state for a chat and triggers lifecycle hooks.
func (e *Engine) Start(ctx context.Context, sessionID string, initialContext map[string]any) (*domain.State, error) {
	return e.runtime.Start(ctx, sessionID, initialContext)
}

// Render generates the actions for the current state without transitioning.
// Returns actions, isTerminal and error.
func (e *Engine) Render(ctx context.Context, state *domain.State) ([]domain.ActionRequest, bool, error) {
	return e.runtime.Render(ctx, state)
}

// Navigate feeds an answer to the current step.
// A rejected answer yields *runtime.InputError (see IsInputError).
func (e *Engine) Navigate(ctx context.Context, state *domain.State, input any) (*domain.State, error) {
	return e.runtime.Navigate(ctx, state, input)
}

// Signal triggers a state transition based on a global signal (e.g. cancel).
func (e *Engine) Signal(ctx context.Context, state *domain.State, signalName string) (*domain.State, error) {
	return e.runtime.Signal(ctx, state, signalName)
}

// Request decodes the answers in state into a SearchRequest.
func (e *Engine) Request(state *domain.State) (domain.SearchRequest, error) {
	return e.runtime.Request(state)
}

// Inspect returns the full graph definition for visualization or introspection tools.
func (e *Engine) Inspect() ([]domain.Node, error) {
	return e.runtime.Inspect()
}

// Loader returns the underlying GraphLoader used by the engine.
func (e *Engine) Loader() ports.GraphLoader {
	return e.loader
}
