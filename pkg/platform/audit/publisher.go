package audit

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const defaultBufferSize = 1024

// Publisher hands events to a background worker without blocking the caller.
// Auditing is fail-open: a full buffer drops the event and logs it, the edit
// itself has already been persisted.
type Publisher struct {
	inbox   chan Event
	logger  *slog.Logger
	dropped atomic.Uint64
}

// NewPublisher creates a publisher with a buffer of size events.
func NewPublisher(size int, logger *slog.Logger) *Publisher {
	if size <= 0 {
		size = defaultBufferSize
	}
	return &Publisher{
		inbox:  make(chan Event, size),
		logger: logger,
	}
}

// Emit enqueues event, stamping it when Timestamp is zero.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.inbox <- event:
	default:
		p.dropped.Add(1)
		if p.logger != nil {
			p.logger.WarnContext(ctx, "audit buffer full, dropping event",
				"action", event.Action,
				"project_id", event.ProjectID.String(),
				"request_id", event.RequestID,
			)
		}
	}
}

// Dropped reports how many events were discarded because the buffer was full.
func (p *Publisher) Dropped() uint64 {
	return p.dropped.Load()
}

// Events exposes the queue for the worker.
func (p *Publisher) Events() <-chan Event {
	return p.inbox
}
