package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/renfebot/internal/logging"
	"github.com/aretw0/renfebot/pkg/domain"
	"github.com/aretw0/renfebot/pkg/ports"
)

// runSearch raises the search flag and runs the backend in the background.
// The announcement is sent once the flag is held.
func (r *Runner) runSearch(ctx context.Context, msg domain.Message, req domain.SearchRequest, announcement string) error {
	lease, err := r.guard.Begin(ctx, msg.SessionID())
	if errors.Is(err, domain.ErrSearchInProgress) {
		r.emitFinish(ctx, msg, req, 0, 0, domain.OutcomeBusy)
		return r.reply(ctx, msg, MsgBusy)
	}
	if err != nil {
		return fmt.Errorf("failed to raise search flag: %w", err)
	}

	if announcement != "" {
		if err := r.reply(ctx, msg, announcement); err != nil {
			r.logger.Warn("failed to announce search", "chat_id", msg.ChatID, "err", err)
		}
	}

	if err := r.snapshot.Save(ctx, req); err != nil {
		r.logger.Warn("failed to export last request", "err", err)
	}

	searchLog, closeLog := r.openSearchLog(ctx, msg)
	searchLog.Info("search started", "request", req)

	if r.hooks.OnSearchStart != nil {
		r.hooks.OnSearchStart(ctx, &domain.SearchEvent{
			EventBase: domain.EventBase{
				Timestamp: time.Now(),
				Type:      domain.EventSearchStart,
				SessionID: msg.SessionID(),
			},
			Request: req,
		})
	}

	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		defer closeLog()
		r.execute(context.WithoutCancel(ctx), msg, req, lease, searchLog)
	}()
	return nil
}

// execute runs the backend and replies with its outcome.
// The search is interrupted when the lease is lost or the runner closes.
func (r *Runner) execute(ctx context.Context, msg domain.Message, req domain.SearchRequest, lease ports.Lease, searchLog *slog.Logger) {
	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stopOnClose := context.AfterFunc(r.base, cancel)
	defer stopOnClose()
	if r.searchTimeout > 0 {
		var cancelTimeout context.CancelFunc
		searchCtx, cancelTimeout = context.WithTimeout(searchCtx, r.searchTimeout)
		defer cancelTimeout()
	}

	go func() {
		select {
		case <-lease.Lost():
			cancel()
		case <-searchCtx.Done():
		}
	}()

	started := time.Now()
	result, err := r.searcher.Search(searchCtx, req)
	elapsed := time.Since(started)

	lost := false
	select {
	case <-lease.Lost():
		lost = true
	default:
		// The lease may only notice a remote cancel on its next poll.
		held, herr := lease.Held(ctx)
		if herr != nil {
			r.logger.Warn("failed to check search flag", "err", herr)
		}
		lost = herr == nil && !held
	}

	outcome, text, kept := r.describe(req, result, err, lost)
	if err != nil {
		searchLog.Error("search failed", "err", err, "outcome", outcome, "duration", elapsed)
	} else {
		searchLog.Info("search finished", "outcome", outcome, "trains", len(result.Trains), "kept", kept, "duration", elapsed)
	}
	r.logger.Info("search finished", "chat_id", msg.ChatID, "outcome", outcome, "duration", elapsed)

	if text != "" {
		if err := r.reply(ctx, msg, text); err != nil {
			r.logger.Warn("failed to send search results", "chat_id", msg.ChatID, "err", err)
		}
	}

	if err := lease.Release(ctx); err != nil {
		r.logger.Warn("failed to lower search flag", "err", err)
	}

	r.emitFinish(ctx, msg, req, kept, elapsed, outcome)
}

// describe maps a backend reply to an outcome, the chat reply and the number of trains shown.
func (r *Runner) describe(req domain.SearchRequest, result domain.SearchResult, err error, lost bool) (string, string, int) {
	switch {
	case lost:
		// /cancelar already answered the chat.
		return domain.OutcomeCanceled, "", 0
	case errors.Is(err, domain.ErrSearchDelegated):
		return domain.OutcomeDelegated, MsgDelegated, 0
	case err != nil && r.base.Err() != nil:
		return domain.OutcomeCanceled, MsgInterrupted, 0
	case err != nil:
		return domain.OutcomeError, MsgSearchFailed, 0
	}

	trains := req.Filter(result.Trains)
	switch {
	case len(result.Trains) == 0:
		return domain.OutcomeEmpty, MsgNoTrains, 0
	case len(trains) == 0:
		return domain.OutcomeEmpty, fmt.Sprintf(MsgNoMatches, len(result.Trains)), 0
	}
	return domain.OutcomeOK, FormatResults(req, trains), len(trains)
}

// openSearchLog creates the per-search log in the archive.
// Without an archive the log is discarded.
func (r *Runner) openSearchLog(ctx context.Context, msg domain.Message) (*slog.Logger, func()) {
	discard := logging.NewNop()
	if r.archive == nil {
		return discard, func() {}
	}

	w, name, err := r.archive.Create(ctx, logOwner(msg))
	if err != nil {
		r.logger.Warn("failed to create search log", "chat_id", msg.ChatID, "err", err)
		return discard, func() {}
	}

	logger := logging.NewSearchLog(w).With("chat_id", msg.ChatID, "user", logOwner(msg))
	return logger, func() {
		if err := w.Close(); err != nil {
			r.logger.Warn("failed to close search log", "log", name, "err", err)
		}
	}
}

func (r *Runner) emitFinish(ctx context.Context, msg domain.Message, req domain.SearchRequest, trains int, elapsed time.Duration, outcome string) {
	if r.hooks.OnSearchFinish == nil {
		return
	}
	r.hooks.OnSearchFinish(ctx, &domain.SearchEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      domain.EventSearchFinish,
			SessionID: msg.SessionID(),
		},
		Request:  req,
		Trains:   trains,
		Duration: elapsed,
		Outcome:  outcome,
	})
}
