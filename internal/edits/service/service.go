package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"qualitydesk/internal/edits/metrics"
	"qualitydesk/internal/edits/models"
	"qualitydesk/pkg/domain"
	dErrors "qualitydesk/pkg/domain-errors"
	"qualitydesk/pkg/platform/audit"
	"qualitydesk/pkg/platform/sentinel"
	"qualitydesk/pkg/requestcontext"
)

const tracerName = "qualitydesk/internal/edits/service"

// Store persists one edit session per project. FindByProject and Delete
// return sentinel.ErrNotFound when nothing is stored.
type Store interface {
	FindByProject(ctx context.Context, projectID domain.ProjectID) (*models.EditSession, error)
	Save(ctx context.Context, projectID domain.ProjectID, session *models.EditSession) error
	Delete(ctx context.Context, projectID domain.ProjectID) error
}

// BatchDeleter drops many sessions at once. The default SessionTx and the
// Postgres store implement it while holding every affected project's lock;
// ClearProjects relies on that and never calls a store's DeleteMany directly.
type BatchDeleter interface {
	DeleteMany(ctx context.Context, projectIDs []domain.ProjectID) (int64, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

// Service owns the edit session of every project: it loads, reconciles and
// persists edits, and reports what changed.
type Service struct {
	store          Store
	tx             SessionTx
	txTimeout      time.Duration
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTx replaces the default sharded-lock transaction runner.
func WithTx(tx SessionTx) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

// WithTxTimeout bounds how long a mutation may wait for and hold the
// project's lock.
func WithTxTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.txTimeout = d
	}
}

// New constructs a Service.
func New(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = NewShardedTx(store, s.txTimeout)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s
}

// Load returns the project's session, or an empty default when none is stored.
func (s *Service) Load(ctx context.Context, projectID domain.ProjectID) (*models.EditSession, error) {
	ctx, finish := s.begin(ctx, "Load", projectID)
	session, err := s.load(ctx, s.store, projectID)
	finish(err)
	return session, err
}

// Open binds the project's session to fileName. An existing session is
// returned unchanged unless it has no file name yet.
func (s *Service) Open(ctx context.Context, projectID domain.ProjectID, fileName string) (*models.EditSession, error) {
	ctx, finish := s.begin(ctx, "Open", projectID)
	req := models.OpenSessionRequest{FileName: fileName}
	if err := req.Validate(); err != nil {
		finish(err)
		return nil, err
	}

	var (
		result  *models.EditSession
		created bool
	)
	err := s.tx.RunInTx(ctx, projectID, func(ctx context.Context, store Store) error {
		current, err := store.FindByProject(ctx, projectID)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load edit session")
		}
		if current != nil && current.FileName != "" {
			result = current
			return nil
		}
		next := models.SessionOrDefault(current).Clone()
		next.FileName = fileName
		if current == nil {
			next.LastUpdated = models.ToMillis(requestcontext.Now(ctx))
		}
		if err := store.Save(ctx, projectID, next); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save edit session")
		}
		result = next
		created = true
		return nil
	})
	if err != nil {
		finish(err)
		return nil, err
	}
	if created {
		s.emitAudit(ctx, audit.Event{
			ProjectID: projectID,
			Action:    audit.EventSessionOpened,
			Detail:    fileName,
		})
	}
	finish(nil)
	return result, nil
}

// ApplyEdits merges incoming into the project's history with last-write-wins
// semantics; every incoming edit is stamped with the request time.
func (s *Service) ApplyEdits(ctx context.Context, projectID domain.ProjectID, incoming []models.ValueEdit) (*models.EditSession, error) {
	ctx, finish := s.begin(ctx, "ApplyEdits", projectID)
	req := models.ApplyEditsRequest{Edits: incoming}
	if err := req.Validate(); err != nil {
		finish(err)
		return nil, err
	}

	now := requestcontext.Now(ctx)
	var (
		result       *models.EditSession
		deduplicated int
	)
	err := s.tx.RunInTx(ctx, projectID, func(ctx context.Context, store Store) error {
		current, err := s.load(ctx, store, projectID)
		if err != nil {
			return err
		}
		next := current.ApplyEdits(incoming, now)
		if err := store.Save(ctx, projectID, next); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save edit session")
		}
		deduplicated = len(current.DataEdits) + len(incoming) - len(next.DataEdits)
		result = next
		return nil
	})
	if err != nil {
		finish(err)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ObserveBatch(len(incoming), deduplicated)
	}
	event := audit.Event{
		ProjectID: projectID,
		Action:    audit.EventEditsApplied,
		EditCount: len(incoming),
	}
	if len(incoming) == 1 {
		event.Detail = incoming[0].Describe()
	}
	s.emitAudit(ctx, event)
	s.logger.InfoContext(ctx, "edits applied",
		"project_id", projectID.String(),
		"submitted", len(incoming),
		"total", len(result.DataEdits),
		"request_id", requestcontext.RequestID(ctx),
	)
	finish(nil)
	return result, nil
}

// RenameIndicator appends edit to the project's rename history.
func (s *Service) RenameIndicator(ctx context.Context, projectID domain.ProjectID, edit models.IndicatorRenameEdit) (*models.EditSession, error) {
	ctx, finish := s.begin(ctx, "RenameIndicator", projectID)
	if err := edit.Validate(); err != nil {
		finish(err)
		return nil, err
	}
	if edit.Timestamp == 0 {
		edit.Timestamp = models.ToMillis(requestcontext.Now(ctx))
	}

	var result *models.EditSession
	err := s.tx.RunInTx(ctx, projectID, func(ctx context.Context, store Store) error {
		current, err := s.load(ctx, store, projectID)
		if err != nil {
			return err
		}
		next := current.ApplyIndicatorRename(edit)
		if err := store.Save(ctx, projectID, next); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save edit session")
		}
		result = next
		return nil
	})
	if err != nil {
		finish(err)
		return nil, err
	}
	s.emitAudit(ctx, audit.Event{
		ProjectID: projectID,
		Action:    audit.EventIndicatorRenamed,
		Detail:    edit.OldName + " -> " + edit.NewName,
	})
	finish(nil)
	return result, nil
}

// Clear discards the project's session. Clearing an absent session succeeds.
func (s *Service) Clear(ctx context.Context, projectID domain.ProjectID) error {
	ctx, finish := s.begin(ctx, "Clear", projectID)
	err := s.tx.RunInTx(ctx, projectID, func(ctx context.Context, store Store) error {
		if err := store.Delete(ctx, projectID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete edit session")
		}
		return nil
	})
	if err != nil {
		finish(err)
		return err
	}
	s.emitAudit(ctx, audit.Event{
		ProjectID: projectID,
		Action:    audit.EventEditSessionCleared,
	})
	s.logger.InfoContext(ctx, "edit session cleared",
		"project_id", projectID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	finish(nil)
	return nil
}

// ClearProjects discards the sessions of every listed project and returns how
// many existed. Each project is locked as for Clear, so an ApplyEdits already
// in flight finishes before its session is dropped.
func (s *Service) ClearProjects(ctx context.Context, projectIDs []domain.ProjectID) (int, error) {
	ctx, span := s.tracer.Start(ctx, "edits.ClearProjects",
		trace.WithAttributes(attribute.Int("project.count", len(projectIDs))),
	)
	defer span.End()
	start := time.Now()
	if s.metrics != nil {
		defer s.metrics.ObserveOperation("ClearProjects", start)
	}
	if len(projectIDs) == 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "projectIds must not be empty")
	}

	var deleted int
	if batch, ok := s.tx.(BatchDeleter); ok {
		n, err := batch.DeleteMany(ctx, projectIDs)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "delete failed")
			return 0, deleteError(err)
		}
		deleted = int(n)
	} else {
		for _, id := range projectIDs {
			err := s.tx.RunInTx(ctx, id, func(ctx context.Context, store Store) error {
				return store.Delete(ctx, id)
			})
			switch {
			case err == nil:
				deleted++
			case errors.Is(err, sentinel.ErrNotFound):
			default:
				span.RecordError(err)
				span.SetStatus(codes.Error, "delete failed")
				return deleted, deleteError(err)
			}
		}
	}

	for _, id := range projectIDs {
		s.emitAudit(ctx, audit.Event{ProjectID: id, Action: audit.EventEditSessionCleared})
	}
	s.logger.InfoContext(ctx, "edit sessions cleared",
		"requested", len(projectIDs),
		"deleted", deleted,
		"request_id", requestcontext.RequestID(ctx),
	)
	return deleted, nil
}

// Summary describes the project's session for the dashboard.
func (s *Service) Summary(ctx context.Context, projectID domain.ProjectID) (*models.EditSummary, error) {
	ctx, finish := s.begin(ctx, "Summary", projectID)
	session, err := s.load(ctx, s.store, projectID)
	if err != nil {
		finish(err)
		return nil, err
	}
	finish(nil)
	return session.Summarize(), nil
}

func (s *Service) load(ctx context.Context, store Store, projectID domain.ProjectID) (*models.EditSession, error) {
	session, err := store.FindByProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.NewEditSession(""), nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "edit session lookup cancelled")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load edit session")
	}
	return models.SessionOrDefault(session), nil
}

// begin opens a span for op and returns a func that ends it and records the
// duration.
func (s *Service) begin(ctx context.Context, op string, projectID domain.ProjectID) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "edits."+op,
		trace.WithAttributes(attribute.String("project.id", projectID.String())),
	)
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, dErrors.MessageOf(err))
		}
		span.End()
		if s.metrics != nil {
			s.metrics.ObserveOperation(op, start)
		}
	}
}

// deleteError keeps codes the transaction already set (e.g. timeout).
func deleteError(err error) error {
	if dErrors.CodeOf(err) != dErrors.CodeInternal {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete edit sessions")
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	event.ActorID = requestcontext.UserID(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	s.auditPublisher.Emit(ctx, event)
}
