// Package main is the entry point for the rapidcontext command. It wires all
// dependencies using samber/do v2 and hands the wired runtime to the cobra
// commands. The serve command starts the HTTP server and handles graceful
// shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	"github.com/jsamuelsen11/rapidcontext/internal/adapters/cli"
	adapthttp "github.com/jsamuelsen11/rapidcontext/internal/adapters/http"
	"github.com/jsamuelsen11/rapidcontext/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/rapidcontext/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/rapidcontext/internal/adapters/pool"
	"github.com/jsamuelsen11/rapidcontext/internal/adapters/procedure/httpproc"
	"github.com/jsamuelsen11/rapidcontext/internal/adapters/procedure/jsproc"
	"github.com/jsamuelsen11/rapidcontext/internal/adapters/procedure/sqlproc"
	"github.com/jsamuelsen11/rapidcontext/internal/adapters/storage/boltstore"
	"github.com/jsamuelsen11/rapidcontext/internal/adapters/storage/filestore"

	"github.com/jsamuelsen11/rapidcontext/internal/app"
	"github.com/jsamuelsen11/rapidcontext/internal/app/callctx"
	"github.com/jsamuelsen11/rapidcontext/internal/app/library"
	"github.com/jsamuelsen11/rapidcontext/internal/platform/config"
	"github.com/jsamuelsen11/rapidcontext/internal/platform/health"
	"github.com/jsamuelsen11/rapidcontext/internal/platform/logging"
	"github.com/jsamuelsen11/rapidcontext/internal/platform/telemetry"
	"github.com/jsamuelsen11/rapidcontext/internal/ports"
)

const (
	serverShutdownTimeout = 15 * time.Second
	otelShutdownTimeout   = 5 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cli.NewRootCommand(bootstrap).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads config, builds logger and telemetry and wires the
// dependency graph up to the procedure service.
func bootstrap(ctx context.Context, opts *cli.RootOptions) (*cli.Runtime, error) {
	cfg, err := config.Load(opts.Profile, config.WithConfigDir(opts.ConfigDir))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	tel, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("initializing telemetry: %w", err)
	}

	// DI container.
	injector := do.New()

	stats := &statsStore{path: cfg.Metrics.Path}

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, tel.Metrics)
	do.ProvideValue(injector, stats)

	registerDependencies(injector, cfg, logger)

	// Resolve the service (eagerly wires pools, storage and the library).
	svc, err := do.Invoke[ports.ProcedureService](injector)
	if err != nil {
		_ = tel.Shutdown(ctx)
		return nil, fmt.Errorf("resolving procedure service: %w", err)
	}

	lib := do.MustInvoke[*library.Library](injector)
	if err := lib.RefreshAliases(ctx); err != nil {
		logger.WarnContext(ctx, "failed to load procedure aliases",
			slog.String("operation", "bootstrap"),
			slog.Any("error", err),
		)
	}

	return &cli.Runtime{
		Service: svc,
		Serve: func(ctx context.Context) error {
			return serve(ctx, injector, cfg, logger)
		},
		Close: func(ctx context.Context) error {
			env := do.MustInvoke[*pool.Environment](injector)
			otelCtx, cancel := context.WithTimeout(ctx, otelShutdownTimeout)
			defer cancel()
			return errors.Join(env.Close(), stats.Close(), tel.Shutdown(otelCtx))
		},
	}, nil
}

// serve runs the HTTP server and the storage watcher until ctx is done.
func serve(ctx context.Context, injector do.Injector, cfg *config.Config, logger *slog.Logger) error {
	// Resolve the server (wires the HTTP side of the graph).
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	// Register health checkers after the graph is wired.
	registry := do.MustInvoke[ports.HealthRegistry](injector)
	env := do.MustInvoke[*pool.Environment](injector)
	for _, checker := range env.HealthCheckers() {
		registry.Register(checker)
	}

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	if cfg.Storage.Watch {
		watcher, err := do.Invoke[*filestore.Watcher](injector)
		if err != nil {
			return fmt.Errorf("resolving storage watcher: %w", err)
		}
		go func() {
			if err := watcher.Run(watchCtx); err != nil {
				logger.Error("storage watcher stopped", slog.Any("error", err))
			}
		}()
	}

	// Start server in background.
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for shutdown signal or server error.
	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal", slog.Any("cause", context.Cause(ctx)))
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	// Graceful shutdown: drain HTTP requests.
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), serverShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	// Wait for Start() goroutine to return.
	<-serverErr

	logger.Info("shutdown complete")
	return nil
}

// statsStore opens the procedure statistics database on first use.
type statsStore struct {
	path string

	mu    sync.Mutex
	store *boltstore.Store
}

func (s *statsStore) Open() (ports.MetricsSink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		store, err := boltstore.Open(s.path)
		if err != nil {
			return nil, err
		}
		s.store = store
	}
	return s.store, nil
}

func (s *statsStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(i do.Injector) (*pool.Environment, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return pool.FromConfig(cfg.Pools, metrics, logger)
	})

	do.Provide(injector, func(_ do.Injector) (*filestore.Store, error) {
		return filestore.New(cfg.Storage.Dir), nil
	})

	do.Provide(injector, func(i do.Injector) (*library.Library, error) {
		store := do.MustInvoke[*filestore.Store](i)
		env := do.MustInvoke[*pool.Environment](i)
		opts := []library.Option{
			library.WithStore(store),
			library.WithEnvironment(env),
			library.WithLogger(logger),
			library.WithFactory(httpproc.Type, httpproc.New),
			library.WithFactory(sqlproc.TypeQuery, sqlproc.New),
			library.WithFactory(sqlproc.TypeStatement, sqlproc.New),
			library.WithFactory(jsproc.Type, jsproc.New),
		}
		if cfg.Metrics.Path != "" {
			stats := do.MustInvoke[*statsStore](i)
			opts = append(opts, library.WithMetricsSink(stats.Open))
		}
		return library.New(opts...), nil
	})

	do.Provide(injector, func(i do.Injector) (*filestore.Watcher, error) {
		store := do.MustInvoke[*filestore.Store](i)
		lib := do.MustInvoke[*library.Library](i)
		return filestore.NewWatcher(store, reloadProcedures(lib, logger),
			filestore.WithDebounce(cfg.Storage.Debounce),
			filestore.WithWatchLogger(logger),
		)
	})

	do.Provide(injector, func(i do.Injector) (*callctx.Chain, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return callctx.NewChain(
			callctx.Recovery(),
			callctx.Logging(logger),
			callctx.Telemetry(metrics),
			callctx.Timeout(cfg.Call.Timeout),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.ProcedureService, error) {
		lib := do.MustInvoke[*library.Library](i)
		env := do.MustInvoke[*pool.Environment](i)
		chain := do.MustInvoke[*callctx.Chain](i)
		return app.NewProcedureService(lib, env, chain, cfg.Call, logger), nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.ProcedureHandler, error) {
		svc := do.MustInvoke[ports.ProcedureService](i)
		return handlers.NewProcedureHandler(svc), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		registry := do.MustInvoke[ports.HealthRegistry](i)
		return handlers.NewHealthHandler(registry), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		procH := do.MustInvoke[*handlers.ProcedureHandler](i)
		healthH := do.MustInvoke[*handlers.HealthHandler](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		return adapthttp.NewRouter(procH, healthH,
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.CorrelationID(),
			middleware.OpenTelemetry(metrics),
			middleware.Logging(logger),
			middleware.Timeout(cfg.Server.WriteTimeout),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}

// reloadProcedures drops changed definitions from the library cache and
// rebuilds the alias map.
func reloadProcedures(lib *library.Library, logger *slog.Logger) filestore.ChangeFunc {
	return func(ctx context.Context, ids []string) {
		for _, id := range ids {
			lib.Invalidate(id)
		}
		logger.InfoContext(ctx, "procedure definitions changed", slog.Any("procedures", ids))
		if err := lib.RefreshAliases(ctx); err != nil {
			logger.ErrorContext(ctx, "failed to refresh procedure aliases",
				slog.String("operation", "reloadProcedures"),
				slog.Any("error", err),
			)
		}
	}
}
