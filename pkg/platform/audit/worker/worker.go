package worker

import (
	"context"
	"log/slog"
	"time"

	audit "qualitydesk/pkg/platform/audit"
)

const defaultDrainTimeout = 5 * time.Second

// Worker drains audit events from a channel into a store. A failing store does
// not stop the worker; the failure is logged and the next event is processed.
type Worker struct {
	store        audit.Store
	inbox        <-chan audit.Event
	logger       *slog.Logger
	drainTimeout time.Duration
}

func NewWorker(store audit.Store, inbox <-chan audit.Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger, drainTimeout: defaultDrainTimeout}
}

// Run blocks until ctx is cancelled or the inbox is closed. After
// cancellation it persists whatever is still buffered, bounded by the drain
// timeout, and then returns ctx.Err().
func (w *Worker) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			w.drain(ctx)
			return ctx.Err()
		}
		select {
		case <-ctx.Done():
			w.drain(ctx)
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			w.persist(ctx, event)
		}
	}
}

func (w *Worker) drain(ctx context.Context) {
	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.drainTimeout)
	defer cancel()

	var drained int
	defer func() {
		if drained > 0 {
			w.logger.InfoContext(ctx, "audit events drained on shutdown", "count", drained)
		}
	}()
	for {
		if drainCtx.Err() != nil {
			w.logger.WarnContext(ctx, "audit drain timed out", "remaining", len(w.inbox))
			return
		}
		select {
		case event, ok := <-w.inbox:
			if !ok {
				return
			}
			w.persist(drainCtx, event)
			drained++
		default:
			return
		}
	}
}

func (w *Worker) persist(ctx context.Context, event audit.Event) {
	if err := w.store.Append(ctx, event); err != nil {
		w.logger.ErrorContext(ctx, "failed to persist audit event",
			"action", event.Action,
			"project_id", event.ProjectID.String(),
			"error", err,
		)
	}
}
