package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	editshandler "qualitydesk/internal/edits/handler"
	"qualitydesk/internal/platform/metrics"
	"qualitydesk/internal/platform/middleware"
	"qualitydesk/pkg/platform/httputil"
	authmw "qualitydesk/pkg/platform/middleware/auth"
	"qualitydesk/pkg/platform/middleware/requesttime"
)

type routerDeps struct {
	logger         *slog.Logger
	service        editshandler.Service
	validator      authmw.JWTValidator
	metrics        *metrics.Metrics
	registry       *prometheus.Registry
	health         func(context.Context) error
	auditLog       editshandler.AuditLog
	requestTimeout time.Duration
}

func newRouter(deps routerDeps) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(deps.logger))
	r.Use(middleware.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Timeout(deps.requestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := deps.health(r.Context()); err != nil {
			deps.logger.WarnContext(r.Context(), "health check failed", "error", err)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(deps.registry, promhttp.HandlerOpts{}))

	editshandler.New(deps.service, deps.logger, deps.metrics, deps.validator).
		WithAuditLog(deps.auditLog).
		Register(r)
	return r
}
