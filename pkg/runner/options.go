package runner

import (
	"log/slog"
	"time"

	"github.com/aretw0/renfebot/pkg/domain"
	"github.com/aretw0/renfebot/pkg/ports"
	"github.com/aretw0/renfebot/pkg/registry"
	"github.com/aretw0/renfebot/pkg/session"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithSessions configures where in-flight conversations are kept.
// Defaults to an in-memory store.
func WithSessions(m *session.Manager) Option {
	return func(r *Runner) {
		r.sessions = m
	}
}

// WithGuard configures the search-in-progress flag.
// Defaults to a process-wide flag.
func WithGuard(g ports.SearchGuard) Option {
	return func(r *Runner) {
		r.guard = g
	}
}

// WithSnapshot configures where the last request is exported for /reintentar.
func WithSnapshot(s ports.LastRequestStore) Option {
	return func(r *Runner) {
		r.snapshot = s
	}
}

// WithArchive configures where per-search logs are written for /debug.
// Without an archive no search logs are kept.
func WithArchive(a ports.LogArchive) Option {
	return func(r *Runner) {
		r.archive = a
	}
}

// WithRegistry configures the command registry.
// Built-in commands are registered into it, replacing same-named entries.
func WithRegistry(reg *registry.Registry) Option {
	return func(r *Runner) {
		r.commands = reg
	}
}

// WithHooks registers search lifecycle hooks (OnSearchStart, OnSearchFinish).
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Runner) {
		r.hooks = hooks
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithMiddleware wraps message handling. The first middleware is the outermost.
func WithMiddleware(mw ...Middleware) Option {
	return func(r *Runner) {
		r.middleware = append(r.middleware, mw...)
	}
}

// WithSearchTimeout bounds a single backend search. Zero means no bound.
func WithSearchTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.searchTimeout = d
	}
}

// WithSanitizer overrides the inbound text sanitizer.
func WithSanitizer(s Sanitizer) Option {
	return func(r *Runner) {
		r.sanitizer = s
	}
}
