package audit

import (
	"context"
	"log/slog"

	"qualitydesk/pkg/platform/circuit"
)

// FallbackStore appends to primary and, once primary has failed often enough
// to open the breaker, keeps events in fallback until primary recovers.
type FallbackStore struct {
	primary  Store
	fallback Store
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

func NewFallbackStore(primary, fallback Store, breaker *circuit.Breaker, logger *slog.Logger) *FallbackStore {
	return &FallbackStore{
		primary:  primary,
		fallback: fallback,
		breaker:  breaker,
		logger:   logger,
	}
}

func (f *FallbackStore) Append(ctx context.Context, event Event) error {
	err := f.primary.Append(ctx, event)
	if err == nil {
		if _, change := f.breaker.RecordSuccess(); change.Closed {
			f.logger.InfoContext(ctx, "audit sink recovered", "breaker", f.breaker.Name())
		}
		return nil
	}

	useFallback, change := f.breaker.RecordFailure()
	if change.Opened {
		f.logger.WarnContext(ctx, "audit sink failing, switching to fallback",
			"breaker", f.breaker.Name(),
			"error", err,
		)
	}
	if !useFallback {
		return err
	}
	return f.fallback.Append(ctx, event)
}
