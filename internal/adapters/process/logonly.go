package process

import (
	"context"
	"log/slog"

	"github.com/aretw0/renfebot/internal/logging"
	"github.com/aretw0/renfebot/pkg/domain"
)

// LogOnly implements ports.Searcher for deployments where the scraper runs
// on its own and reads the exported snapshot. It only logs the request.
type LogOnly struct {
	logger *slog.Logger
}

// NewLogOnly creates a LogOnly searcher.
func NewLogOnly(logger *slog.Logger) *LogOnly {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &LogOnly{logger: logger}
}

func (l *LogOnly) Search(ctx context.Context, req domain.SearchRequest) (domain.SearchResult, error) {
	l.logger.InfoContext(ctx, "search exported",
		"origin", req.OriginStation,
		"destination", req.DestinationStation,
		"departure", req.DepartureDate,
		"return", req.Return,
	)
	return domain.SearchResult{}, domain.ErrSearchDelegated
}
