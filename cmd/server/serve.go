package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	editsmetrics "qualitydesk/internal/edits/metrics"
	editsservice "qualitydesk/internal/edits/service"
	editsstore "qualitydesk/internal/edits/store"
	jwttoken "qualitydesk/internal/jwt_token"
	"qualitydesk/internal/platform/config"
	"qualitydesk/internal/platform/httpserver"
	"qualitydesk/internal/platform/logger"
	"qualitydesk/internal/platform/metrics"
	"qualitydesk/internal/platform/postgres"
	platformredis "qualitydesk/internal/platform/redis"
	"qualitydesk/pkg/platform/audit"
	auditkafka "qualitydesk/pkg/platform/audit/store/kafka"
	auditmemory "qualitydesk/pkg/platform/audit/store/memory"
	auditworker "qualitydesk/pkg/platform/audit/worker"
	"qualitydesk/pkg/platform/circuit"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		log := logger.New(cfg.Log.Level, cfg.Log.Format)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, log)
	},
}

// serve wires dependencies and blocks until ctx is cancelled or a component
// fails. Business logic lives in internal services packages.
func serve(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	infra, err := openInfra(ctx, cfg)
	if err != nil {
		return err
	}
	defer infra.close()

	retained := auditmemory.NewInMemoryStore(auditmemory.WithCapacity(cfg.Audit.MemoryCapacity))
	auditSink, closeAudit, err := newAuditSink(ctx, cfg, retained, log)
	if err != nil {
		return err
	}
	defer closeAudit()
	reg.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
		Name: "qualitydesk_audit_events_evicted_total",
		Help: "Audit events overwritten in the bounded in-memory store.",
	}, func() float64 { return float64(retained.Evicted()) }))
	publisher := audit.NewPublisher(cfg.Audit.BufferSize, log)
	reg.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
		Name: "qualitydesk_audit_events_dropped_total",
		Help: "Audit events discarded because the publisher buffer was full.",
	}, func() float64 { return float64(publisher.Dropped()) }))

	opts := []editsservice.Option{
		editsservice.WithLogger(log),
		editsservice.WithMetrics(editsmetrics.New(reg)),
		editsservice.WithAuditPublisher(publisher),
		editsservice.WithTxTimeout(cfg.Store.TxTimeout),
	}
	if pg, ok := infra.store.(*editsstore.PostgresStore); ok {
		opts = append(opts, editsservice.WithTx(pg.WithTxTimeout(cfg.Store.TxTimeout)))
	}
	svc := editsservice.New(infra.store, opts...)

	jwtService := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)
	router := newRouter(routerDeps{
		logger:         log,
		service:        svc,
		validator:      jwttoken.NewJWTServiceAdapter(jwtService),
		metrics:        metrics.New(reg),
		registry:       reg,
		health:         infra.health,
		auditLog:       retained,
		requestTimeout: cfg.Server.RequestTimeout,
	})
	srv := httpserver.New(cfg.Server.Addr, router, cfg.Server.ReadHeaderTimeout)

	log.Info("starting qualitydesk", "addr", cfg.Server.Addr, "store", cfg.Store.Backend, "version", version)
	return run(ctx, log, srv, auditworker.NewWorker(auditSink, publisher.Events(), log), cfg.Server.ShutdownTimeout)
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

type backgroundWorker interface {
	Run(ctx context.Context) error
}

// run serves until ctx is cancelled or the server fails. The worker outlives
// the server: it is stopped only after Shutdown has let in-flight requests
// finish, and then drains what they emitted.
func run(ctx context.Context, log *slog.Logger, srv httpServer, worker backgroundWorker, shutdownTimeout time.Duration) error {
	workerCtx, stopWorker := context.WithCancel(context.WithoutCancel(ctx))
	defer stopWorker()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := worker.Run(workerCtx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		defer stopWorker()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		log.Info("server stopped")
		return nil
	})
	return g.Wait()
}

type infra struct {
	store  editsservice.Store
	health func(context.Context) error
	close  func()
}

func openInfra(ctx context.Context, cfg *config.Config) (*infra, error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		db, err := postgres.Open(ctx, cfg.Store.PostgresDSN)
		if err != nil {
			return nil, err
		}
		store := editsstore.NewPostgres(db)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &infra{
			store:  store,
			health: db.PingContext,
			close:  func() { closeDB(db) },
		}, nil
	case config.BackendRedis:
		client, err := platformredis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return &infra{
			store:  editsstore.NewRedis(client.Client, editsstore.WithTTL(cfg.Store.SessionTTL)),
			health: client.Health,
			close:  func() { _ = client.Close() },
		}, nil
	default:
		return &infra{
			store:  editsstore.NewInMemoryStore(),
			health: func(context.Context) error { return nil },
			close:  func() {},
		}, nil
	}
}

func closeDB(db *sql.DB) {
	_ = db.Close()
}

// newAuditSink produces to Kafka when brokers are configured, with retained
// as the fallback while the broker is unreachable. Without brokers retained is
// the sink.
func newAuditSink(ctx context.Context, cfg *config.Config, retained *auditmemory.InMemoryStore, log *slog.Logger) (audit.Store, func(), error) {
	if len(cfg.Audit.KafkaBrokers) == 0 {
		return retained, func() {}, nil
	}
	sink, err := auditkafka.New(cfg.Audit.KafkaBrokers, cfg.Audit.KafkaTopic)
	if err != nil {
		return nil, nil, err
	}
	if err := sink.EnsureTopic(ctx, 3, 1); err != nil {
		log.Warn("audit topic not created, relying on broker auto-creation", "topic", cfg.Audit.KafkaTopic, "error", err)
	}
	store := audit.NewFallbackStore(sink, retained, circuit.New("audit-kafka"), log)
	return store, sink.Close, nil
}
