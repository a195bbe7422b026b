package runner

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/aretw0/renfebot/pkg/domain"
)

// HandlerFunc processes one inbound message.
type HandlerFunc func(ctx context.Context, msg domain.Message) error

// Middleware wraps a HandlerFunc with cross-cutting policy.
type Middleware func(next HandlerFunc) HandlerFunc

// Chain wraps h with the middleware, the first one being the outermost.
func Chain(h HandlerFunc, middleware ...Middleware) HandlerFunc {
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}

// RecoverMiddleware turns a panic in a handler into an error.
func RecoverMiddleware(logger *slog.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, msg domain.Message) (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("handler panicked", "chat_id", msg.ChatID, "panic", rec, "stack", string(debug.Stack()))
					err = fmt.Errorf("handler panicked: %v", rec)
				}
			}()
			return next(ctx, msg)
		}
	}
}

// LoggingMiddleware logs every message with its outcome. Message text is only
// logged at debug level.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, msg domain.Message) error {
			started := time.Now()
			err := next(ctx, msg)

			attrs := []any{
				"chat_id", msg.ChatID,
				"command", msg.Command(),
				"duration", time.Since(started),
			}
			if err != nil {
				logger.Error("message failed", append(attrs, "err", err)...)
				return err
			}
			logger.Debug("message handled", append(attrs, "text", msg.Text)...)
			return nil
		}
	}
}

// AllowChatsMiddleware drops messages from chats outside the list.
// An empty list allows every chat.
func AllowChatsMiddleware(logger *slog.Logger, chatIDs ...int64) Middleware {
	allowed := make(map[int64]struct{}, len(chatIDs))
	for _, id := range chatIDs {
		allowed[id] = struct{}{}
	}
	return func(next HandlerFunc) HandlerFunc {
		if len(allowed) == 0 {
			return next
		}
		return func(ctx context.Context, msg domain.Message) error {
			if _, ok := allowed[msg.ChatID]; !ok {
				logger.Warn("ignored message from unknown chat", "chat_id", msg.ChatID, "username", msg.Username)
				return nil
			}
			return next(ctx, msg)
		}
	}
}
