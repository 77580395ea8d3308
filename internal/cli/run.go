// Package cli wires the arbor command line: configuration, logging, metrics, persistence,
// the introspection server and the tick loop.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/config"
	"github.com/aretw0/arbor/internal/demo"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/internal/presentation/tui"
	httpadapter "github.com/aretw0/arbor/pkg/adapters/http"
	redisadapter "github.com/aretw0/arbor/pkg/adapters/redis"
	"github.com/aretw0/arbor/pkg/blackboard"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/aretw0/arbor/pkg/persistence/middleware"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/runner"
)

const shutdownTimeout = 5 * time.Second

// RunOptions holds everything Run needs besides the context.
type RunOptions struct {
	Config  config.Config
	Out     io.Writer // demo output and tick status lines
	Err     io.Writer // logs and traces
	Version string
	Banner  bool
}

// Run builds the configured demo tree and ticks it until a stop rule matches or ctx is
// cancelled. When a server address is configured it keeps serving after the run ends,
// until ctx is cancelled. Cancellation is not an error.
func Run(ctx context.Context, opts RunOptions) error {
	cfg := opts.Config

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger, err := logging.NewWriter(opts.Err, level, cfg.Log.Format)
	if err != nil {
		return err
	}

	if opts.Banner {
		tui.PrintBanner(opts.Out, opts.Version)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics, err := observability.NewMetrics(reg, observability.WithNamespace(cfg.Server.Namespace))
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	recorder := httpadapter.NewRecorder()
	streams := httpadapter.NewStreamManager()

	treeOpts := []arbor.Option{
		arbor.WithLogger(logger),
		arbor.WithLifecycleHooks(observability.Combine(
			metrics.Hooks(),
			recorder.Hooks(),
			observability.LoggingHooks(logger),
		)),
	}
	if cfg.TreeID != "" {
		treeOpts = append(treeOpts, arbor.WithID(cfg.TreeID))
	}
	if cfg.Trace {
		tp, err := newTracerProvider(opts.Err)
		if err != nil {
			return err
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Error("tracer shutdown failed", "error", err)
			}
		}()
		treeOpts = append(treeOpts, arbor.WithTracerProvider(tp))
	}

	var bbOpts []blackboard.Option
	if cfg.Board.Strict {
		bbOpts = append(bbOpts, blackboard.WithStrict())
	}
	bb := blackboard.New(bbOpts...)

	tree, err := demo.Build(cfg.Demo, opts.Out, bb, treeOpts...)
	if err != nil {
		return err
	}
	if len(cfg.Board.Seed) > 0 {
		if err := bb.Seed(cfg.Board.Seed); err != nil {
			return fmt.Errorf("seed blackboard: %w", err)
		}
	}

	stopOn, err := cfg.StopStates()
	if err != nil {
		return err
	}
	printer := tui.NewStatusPrinter(opts.Out)
	runnerOpts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithInterval(cfg.Interval),
		runner.WithMaxTicks(cfg.Ticks),
		runner.WithStopOn(stopOn...),
		runner.WithObserver(printer.Print),
		runner.WithObserver(streams.Observe),
	}

	if cfg.Redis.Addr != "" {
		store := redisadapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redisadapter.WithPrefix(cfg.Redis.Prefix),
			redisadapter.WithTTL(cfg.Redis.TTL),
		)
		defer store.Close()
		if err := store.Ping(ctx); err != nil {
			return fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err)
		}
		snapshots, err := wrapStore(store, cfg.Redis)
		if err != nil {
			return err
		}
		runnerOpts = append(runnerOpts, runner.WithStore(snapshots))
		if cfg.Redis.Lock {
			locker := redisadapter.NewLocker(store.Client(), cfg.Redis.Prefix)
			runnerOpts = append(runnerOpts, runner.WithLocker(locker, runner.DefaultLockTTL))
		}
		logger.Info("snapshot persistence enabled", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix)
	}

	r := runner.New(tree, runnerOpts...)
	if err := r.Resume(ctx); err != nil {
		return err
	}

	if cfg.Server.Addr != "" {
		server := httpadapter.NewServer(r,
			httpadapter.WithGatherer(reg),
			httpadapter.WithRecorder(recorder),
			httpadapter.WithStreams(streams),
			httpadapter.WithLogger(logger),
		)
		stop, err := serve(ctx, cfg.Server.Addr, server.Handler(), logger)
		if err != nil {
			return err
		}
		defer stop()
	}

	if err := r.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			logger.Info("run interrupted", "tick", r.Status().Tick)
			return nil
		}
		return err
	}

	if cfg.Server.Addr != "" {
		logger.Info("run finished, serving until interrupted")
		<-ctx.Done()
	}
	return nil
}

// wrapStore applies redaction and encryption, in that order, when configured.
func wrapStore(store ports.SnapshotStore, cfg config.RedisConfig) (ports.SnapshotStore, error) {
	var mws []middleware.Middleware
	if len(cfg.Redact) > 0 {
		mw, err := middleware.NewRedaction(cfg.Redact)
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	if cfg.EncryptionKey != "" {
		key, err := cfg.Key()
		if err != nil {
			return nil, err
		}
		mw, err := middleware.NewEncryption(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	return middleware.Chain(store, mws...), nil
}

// serve starts an HTTP server in the background and returns a function that shuts it down.
func serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("introspection server listening", "addr", ln.Addr().String())
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			_ = srv.Close()
		}
	}, nil
}

// newTracerProvider exports tick spans to w as they end.
func newTracerProvider(w io.Writer) (*sdktrace.TracerProvider, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("create exporter: %w", err)
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	), nil
}
