package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/renfebot/internal/presentation/tui"
	httpadapter "github.com/aretw0/renfebot/pkg/adapters/http"
	"github.com/aretw0/renfebot/pkg/adapters/telegram"
	"github.com/aretw0/renfebot/pkg/runner"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

// RunTelegram long-polls Telegram until ctx is done. When metricsAddr is
// set, /metrics is served there as well.
func RunTelegram(ctx context.Context, app *App, metricsAddr string) error {
	token, err := app.Config.Token()
	if err != nil {
		return err
	}
	bot, err := telegram.New(token,
		telegram.WithLogger(app.Logger),
		telegram.WithPollTimeout(app.Config.PollTimeout),
	)
	if err != nil {
		return err
	}

	r, err := app.NewRunner(bot)
	if err != nil {
		return err
	}
	defer r.Close()

	if metricsAddr != "" {
		router := chi.NewRouter()
		router.Handle("/metrics", app.metricsHandler())
		stop := listen(ctx, app, metricsAddr, router)
		defer stop()
	}

	return handleExecutionError(bot.Poll(ctx, r.Handle))
}

// ConsoleOptions configures the console transport.
type ConsoleOptions struct {
	Username  string
	FirstName string
	Plain     bool // no banner, no markdown rendering
}

// RunConsole chats with the bot on in/out, as chat 1.
func RunConsole(ctx context.Context, app *App, in io.Reader, out io.Writer, opts ConsoleOptions) error {
	handlerOpts := []runner.TextHandlerOption{
		runner.WithTextHandlerIdentity(1, opts.Username, opts.FirstName),
	}

	if f, ok := out.(*os.File); ok && !opts.Plain && tui.IsInteractive(f) {
		tui.PrintBanner(out)
		render, err := tui.NewRenderer(tui.Width(f))
		if err != nil {
			app.Logger.Warn("Markdown rendering disabled", "err", err)
		} else {
			handlerOpts = append(handlerOpts, runner.WithTextHandlerRenderer(render))
		}
		printSystemMessage(out, "Escribe /ayuda para ver los comandos. Ctrl+D para salir.")
	}

	console := runner.NewTextHandler(in, out, handlerOpts...)
	r, err := app.NewRunner(console)
	if err != nil {
		return err
	}

	serveErr := console.Serve(ctx, r.Handle)
	// Let a running search answer before leaving, unless interrupted.
	if ctx.Err() == nil {
		r.Wait()
	}
	if err := r.Close(); err != nil {
		app.Logger.Warn("Runner close failed", "err", err)
	}
	return handleExecutionError(serveErr)
}

// Serve exposes the bot over HTTP on addr until ctx is done.
func Serve(ctx context.Context, app *App, addr string) error {
	outbox := httpadapter.NewOutbox(0)
	r, err := app.NewRunner(outbox)
	if err != nil {
		return err
	}
	defer r.Close()

	handler := httpadapter.NewHandler(r.Handle, outbox,
		httpadapter.WithSessions(app.Sessions),
		httpadapter.WithSnapshot(app.Snapshot),
		httpadapter.WithConversation(app.Engine),
		httpadapter.WithMetrics(app.metricsHandler()),
		httpadapter.WithLogger(app.Logger),
	)

	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		app.Logger.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func (a *App) metricsHandler() http.Handler {
	return promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})
}

// listen serves handler in the background. The returned func stops it.
func listen(ctx context.Context, app *App, addr string, handler http.Handler) func() {
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		app.Logger.Info("Metrics listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Logger.Error("Metrics server failed", "err", err)
		}
	}()
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}
