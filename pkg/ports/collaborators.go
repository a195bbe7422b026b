package ports

import (
	"context"
	"io"

	"github.com/aretw0/renfebot/pkg/domain"
)

// Searcher is the train search backend.
type Searcher interface {
	Search(ctx context.Context, req domain.SearchRequest) (domain.SearchResult, error)
}

// StationResolver maps free text to the canonical station name the search
// backend recognizes. It returns domain.ErrUnknownStation when it cannot.
type StationResolver interface {
	Resolve(input string) (string, error)
}

// LogArchive stores per-user debug logs.
type LogArchive interface {
	// Create opens a new log for username and returns its name.
	Create(ctx context.Context, username string) (io.WriteCloser, string, error)

	// Latest returns the path of the newest log whose name contains username,
	// or domain.ErrNoLogs.
	Latest(ctx context.Context, username string) (string, error)
}
