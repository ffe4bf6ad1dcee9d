package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"qualitydesk/internal/edits/models"
	"qualitydesk/internal/platform/metrics"
	"qualitydesk/internal/platform/middleware"
	"qualitydesk/pkg/domain"
	dErrors "qualitydesk/pkg/domain-errors"
	"qualitydesk/pkg/platform/audit"
	"qualitydesk/pkg/platform/httputil"
	authmw "qualitydesk/pkg/platform/middleware/auth"
	"qualitydesk/pkg/requestcontext"
)

// Service defines the interface for edit session operations.
type Service interface {
	Load(ctx context.Context, projectID domain.ProjectID) (*models.EditSession, error)
	Open(ctx context.Context, projectID domain.ProjectID, fileName string) (*models.EditSession, error)
	ApplyEdits(ctx context.Context, projectID domain.ProjectID, incoming []models.ValueEdit) (*models.EditSession, error)
	RenameIndicator(ctx context.Context, projectID domain.ProjectID, edit models.IndicatorRenameEdit) (*models.EditSession, error)
	Clear(ctx context.Context, projectID domain.ProjectID) error
	ClearProjects(ctx context.Context, projectIDs []domain.ProjectID) (int, error)
	Summary(ctx context.Context, projectID domain.ProjectID) (*models.EditSummary, error)
}

// AuditLog reads the audit events this instance still holds for a project.
type AuditLog interface {
	ListByProject(ctx context.Context, projectID domain.ProjectID) ([]audit.Event, error)
}

// Handler serves the edit session endpoints.
type Handler struct {
	logger       *slog.Logger
	edits        Service
	metrics      *metrics.Metrics
	jwtValidator authmw.JWTValidator
	auditLog     AuditLog
}

// New creates a new edits Handler.
func New(
	edits Service,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	jwtValidator authmw.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		edits:        edits,
		metrics:      metrics,
		jwtValidator: jwtValidator,
	}
}

// WithAuditLog exposes recent audit events at GET /projects/{projectID}/audit
// for admins.
func (h *Handler) WithAuditLog(log AuditLog) *Handler {
	h.auditLog = log
	return h
}

// Register registers the edit routes with the chi router. Every route
// requires a bearer token; destructive routes require the admin role.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.LatencyMiddleware(h.metrics))
		r.Use(authmw.RequireAuth(h.jwtValidator, h.logger))

		r.Route("/projects/{projectID}", func(r chi.Router) {
			r.Get("/edits", h.handleGetSession)
			r.Put("/edits", h.handleOpenSession)
			r.Post("/edits", h.handleApplyEdits)
			r.Get("/edits/summary", h.handleSummary)
			r.Post("/indicator-renames", h.handleRenameIndicator)
			r.With(authmw.RequireRole(requestcontext.RoleAdmin, h.logger)).
				Delete("/edits", h.handleClearSession)
			if h.auditLog != nil {
				r.With(authmw.RequireRole(requestcontext.RoleAdmin, h.logger)).
					Get("/audit", h.handleAuditTrail)
			}
		})
		r.With(authmw.RequireRole(requestcontext.RoleAdmin, h.logger)).
			Post("/edits/clear", h.handleClearProjects)
	})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.projectID(w, r)
	if !ok {
		return
	}
	session, err := h.edits.Load(r.Context(), projectID)
	if err != nil {
		h.writeError(w, r, "failed to load edit session", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.projectID(w, r)
	if !ok {
		return
	}
	var req models.OpenSessionRequest
	if !h.decode(w, r, &req) {
		return
	}
	session, err := h.edits.Open(r.Context(), projectID, req.FileName)
	if err != nil {
		h.writeError(w, r, "failed to open edit session", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) handleApplyEdits(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.projectID(w, r)
	if !ok {
		return
	}
	var req models.ApplyEditsRequest
	if !h.decode(w, r, &req) {
		return
	}
	session, err := h.edits.ApplyEdits(r.Context(), projectID, req.Edits)
	if err != nil {
		h.writeError(w, r, "failed to apply edits", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) handleRenameIndicator(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.projectID(w, r)
	if !ok {
		return
	}
	var req models.IndicatorRenameEdit
	if !h.decode(w, r, &req) {
		return
	}
	session, err := h.edits.RenameIndicator(r.Context(), projectID, req)
	if err != nil {
		h.writeError(w, r, "failed to rename indicator", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.projectID(w, r)
	if !ok {
		return
	}
	summary, err := h.edits.Summary(r.Context(), projectID)
	if err != nil {
		h.writeError(w, r, "failed to summarize edit session", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleClearSession(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.projectID(w, r)
	if !ok {
		return
	}
	if err := h.edits.Clear(r.Context(), projectID); err != nil {
		h.writeError(w, r, "failed to clear edit session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleClearProjects(w http.ResponseWriter, r *http.Request) {
	var req models.ClearProjectsRequest
	if !h.decode(w, r, &req) {
		return
	}
	ids, err := req.Parse()
	if err != nil {
		h.writeError(w, r, "invalid clear request", err)
		return
	}
	deleted, err := h.edits.ClearProjects(r.Context(), ids)
	if err != nil {
		h.writeError(w, r, "failed to clear edit sessions", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ClearProjectsResponse{Deleted: deleted})
}

func (h *Handler) handleAuditTrail(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.projectID(w, r)
	if !ok {
		return
	}
	events, err := h.auditLog.ListByProject(r.Context(), projectID)
	if err != nil {
		h.writeError(w, r, "failed to read audit events", dErrors.Wrap(err, dErrors.CodeInternal, "failed to read audit events"))
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	httputil.WriteJSON(w, http.StatusOK, models.AuditTrailResponse{Events: events})
}

func (h *Handler) projectID(w http.ResponseWriter, r *http.Request) (domain.ProjectID, bool) {
	projectID, err := domain.ParseProjectID(chi.URLParam(r, "projectID"))
	if err != nil {
		h.writeError(w, r, "invalid project id", err)
		return domain.ProjectID{}, false
	}
	return projectID, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httputil.DecodeJSON(r, dst); err != nil {
		h.writeError(w, r, "invalid request body", err)
		return false
	}
	sanitize(dst)
	return true
}

// writeError logs client errors as warnings and everything else as errors,
// then writes the error envelope.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	status := dErrors.HTTPStatus(dErrors.CodeOf(err))
	if status < http.StatusInternalServerError {
		h.logger.WarnContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
	} else {
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}
