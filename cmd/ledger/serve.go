package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/subcommands"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/groupledger/internal/auth"
	"github.com/mmynk/groupledger/internal/config"
	"github.com/mmynk/groupledger/internal/ledger"
	"github.com/mmynk/groupledger/internal/metrics"
	"github.com/mmynk/groupledger/internal/middleware"
	"github.com/mmynk/groupledger/internal/service"
	"github.com/mmynk/groupledger/internal/storage/sqlite"
	"github.com/mmynk/groupledger/pkg/logging"
)

type serveCmd struct{}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the ledger Connect server" }
func (*serveCmd) Usage() string {
	return `ledger serve

  Opens the database, applies pending migrations and serves the ledger API,
  /metrics and /healthz until interrupted. Settings come from LEDGER_*
  environment variables or a .env file.
`
}

func (*serveCmd) SetFlags(*flag.FlagSet) {}

func (*serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	if err := logging.Setup(cfg.App.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg); err != nil {
		slog.Error("Server failed", "error", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func serve(ctx context.Context, cfg *config.Config) error {
	store, err := sqlite.New(cfg.DB.Path, sqlite.WithBusyTimeout(cfg.DB.BusyTimeout))
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DB.Path, "schema_version", store.SchemaVersion())

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc := ledger.NewService(store,
		ledger.WithMetrics(metrics.NewLedgerMetrics(reg)),
		ledger.WithRecentLimit(cfg.App.RecentExpenses),
	)
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL)
	apiPath, apiHandler := service.NewLedgerServiceHandler(
		service.NewLedgerService(svc, cfg.App.Currency),
		connect.WithInterceptors(middleware.RequireAuth(jwtManager), middleware.LoggingInterceptor()),
	)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Mount(apiPath, apiHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := store.Ping(req.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              cfg.App.Addr(),
		Handler:           h2c.NewHandler(r, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Connect server starting", "address", srv.Addr, "service", apiPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down", "timeout", cfg.App.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
