package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/renfebot"
	"github.com/aretw0/renfebot/internal/adapters/file"
	"github.com/aretw0/renfebot/internal/adapters/process"
	"github.com/aretw0/renfebot/internal/config"
	"github.com/aretw0/renfebot/pkg/adapters/memory"
	"github.com/aretw0/renfebot/pkg/adapters/redis"
	"github.com/aretw0/renfebot/pkg/adapters/stations"
	"github.com/aretw0/renfebot/pkg/domain"
	"github.com/aretw0/renfebot/pkg/observability"
	"github.com/aretw0/renfebot/pkg/persistence/middleware"
	"github.com/aretw0/renfebot/pkg/ports"
	"github.com/aretw0/renfebot/pkg/runner"
	"github.com/aretw0/renfebot/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App holds every collaborator a transport needs to host the bot.
type App struct {
	Config   config.Config
	Engine   *renfebot.Engine
	Sessions ports.StateStore
	Manager  *session.Manager
	Guard    ports.SearchGuard
	Snapshot ports.LastRequestStore
	Archive  ports.LogArchive
	Searcher ports.Searcher
	Metrics  *observability.Metrics
	Registry *prometheus.Registry
	Logger   *slog.Logger

	hooks   domain.LifecycleHooks
	closers []func() error
}

// Build assembles the bot from configuration: storage backend, station
// catalog, search backend and metrics.
func Build(cfg config.Config, logger *slog.Logger) (*App, error) {
	app := &App{
		Config:   cfg,
		Archive:  file.NewArchive(cfg.LogsDir),
		Registry: prometheus.NewRegistry(),
		Logger:   logger,
	}
	app.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	metrics, err := observability.NewMetrics(app.Registry, observability.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	app.Metrics = metrics

	resolver, err := loadStations(cfg.StationsFile)
	if err != nil {
		return nil, err
	}

	app.hooks = metrics.Hooks()
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		app.hooks = observability.Combine(app.hooks, createDebugHooks(logger))
	}

	app.Engine, err = renfebot.New(
		renfebot.WithStationResolver(resolver),
		renfebot.WithLifecycleHooks(app.hooks),
		renfebot.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}

	var locker ports.DistributedLocker
	if err := app.setupStorage(&locker); err != nil {
		_ = app.Close()
		return nil, err
	}

	if cfg.EncryptionKey != "" {
		mw, err := encryption(cfg)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.Sessions = middleware.Wrap(app.Sessions, mw)
	}

	managerOpts := []session.Option{session.WithLogger(logger)}
	if locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(locker))
	}
	app.Manager = session.NewManager(app.Sessions, managerOpts...)

	app.Searcher, err = createSearcher(cfg, logger)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) setupStorage(locker *ports.DistributedLocker) error {
	cfg := a.Config
	switch cfg.Backend {
	case config.BackendRedis:
		store, err := redis.New(cfg.RedisURL, redis.WithPrefix(cfg.RedisPrefix+"session:"), redis.WithTTL(cfg.SessionTTL))
		if err != nil {
			return err
		}
		a.closers = append(a.closers, store.Close)
		a.Sessions = store
		a.Guard = redis.NewGuard(store.Client(), cfg.RedisPrefix, redis.WithGuardTTL(guardTTL(cfg.SearchTimeout)))
		a.Snapshot = redis.NewLastRequest(store.Client(), cfg.RedisPrefix)
		*locker = redis.NewLocker(store.Client(), cfg.RedisPrefix+"lock:")
	case config.BackendMemory:
		a.Sessions = memory.NewStore()
		a.Guard = memory.NewGuard()
		a.Snapshot = memory.NewLastRequest()
	default:
		a.Sessions = file.New(cfg.SessionDir)
		a.Guard = memory.NewGuard()
		a.Snapshot = file.NewLastRequest(cfg.ResourcesDir)
	}
	return nil
}

// guardTTL outlives the search timeout so a healthy search never loses its flag.
func guardTTL(searchTimeout time.Duration) time.Duration {
	if searchTimeout <= 0 {
		return 10 * time.Minute
	}
	return searchTimeout + time.Minute
}

func encryption(cfg config.Config) (middleware.Middleware, error) {
	active, err := middleware.ParseKey(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("RENFEBOT_ENCRYPTION_KEY: %w", err)
	}
	conf := middleware.EncryptionConfig{ActiveKey: active}
	for i, k := range cfg.FallbackKeys {
		key, err := middleware.ParseKey(k)
		if err != nil {
			return nil, fmt.Errorf("RENFEBOT_FALLBACK_KEYS[%d]: %w", i, err)
		}
		conf.FallbackKeys = append(conf.FallbackKeys, key)
	}
	return middleware.NewEncryptionMiddleware(conf)
}

func loadStations(path string) (ports.StationResolver, error) {
	if path == "" {
		return stations.Default()
	}
	return stations.Load(path)
}

func createSearcher(cfg config.Config, logger *slog.Logger) (ports.Searcher, error) {
	var (
		pc  process.Config
		err error
	)
	switch {
	case cfg.SearchConfig != "":
		pc, err = process.LoadConfig(cfg.SearchConfig)
	case cfg.SearchCommand != "":
		pc, err = process.ParseCommandLine(cfg.SearchCommand)
	default:
		logger.Warn("No search command configured; requests are only exported")
		return process.NewLogOnly(logger), nil
	}
	if err != nil {
		return nil, err
	}
	return process.New(pc, process.WithLogger(logger)), nil
}

// NewRunner hosts the bot on messenger.
func (a *App) NewRunner(messenger runner.Messenger, extra ...runner.Option) (*runner.Runner, error) {
	opts := []runner.Option{
		runner.WithSessions(a.Manager),
		runner.WithGuard(a.Guard),
		runner.WithSnapshot(a.Snapshot),
		runner.WithArchive(a.Archive),
		runner.WithHooks(a.hooks),
		runner.WithLogger(a.Logger),
		runner.WithSearchTimeout(a.Config.SearchTimeout),
		runner.WithMiddleware(
			runner.RecoverMiddleware(a.Logger),
			runner.LoggingMiddleware(a.Logger),
			runner.AllowChatsMiddleware(a.Logger, a.Config.AllowedChats...),
		),
	}
	return runner.New(a.Engine, messenger, a.Searcher, append(opts, extra...)...)
}

// Close releases backend connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}
