package logging

import (
	"io"
	"log/slog"
	"os"
)

// New creates the bot's process logger.
// It writes text to Stderr so Stdout stays free for the console chat.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, options(level)))
}

// NewSearchLog creates the JSON logger behind one archived search log.
// Every record is kept, so /debug can show the full trace.
func NewSearchLog(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, options(slog.LevelDebug)))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// options renames "error" to "err" so both handlers agree on the key.
func options(level slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}
}
