// Package memory keeps the most recent audit events in process. It is the
// sink when no broker is configured and the fallback while Kafka is down, so
// it holds a bounded window rather than the full history.
package memory

import (
	"context"
	"sync"

	"qualitydesk/pkg/domain"
	audit "qualitydesk/pkg/platform/audit"
)

// DefaultCapacity is the number of events kept when no capacity is set.
const DefaultCapacity = 10_000

// InMemoryStore is a ring buffer of events; once full, each Append evicts
// the oldest event.
type InMemoryStore struct {
	mu      sync.RWMutex
	ring    []audit.Event
	next    int
	full    bool
	evicted uint64
}

type Option func(*InMemoryStore)

// WithCapacity bounds the number of retained events. Non-positive values
// keep the default.
func WithCapacity(n int) Option {
	return func(s *InMemoryStore) {
		if n > 0 {
			s.ring = make([]audit.Event, n)
		}
	}
}

func NewInMemoryStore(opts ...Option) *InMemoryStore {
	s := &InMemoryStore{ring: make([]audit.Event, DefaultCapacity)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.full {
		s.evicted++
	}
	s.ring[s.next] = event
	s.next = (s.next + 1) % len(s.ring)
	if s.next == 0 {
		s.full = true
	}
	return nil
}

// ListByProject returns the retained events of a project in emission order.
func (s *InMemoryStore) ListByProject(_ context.Context, projectID domain.ProjectID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []audit.Event
	s.each(func(e audit.Event) {
		if e.ProjectID == projectID {
			out = append(out, e)
		}
	})
	return out, nil
}

// Evicted reports how many events were overwritten since the store was created.
func (s *InMemoryStore) Evicted() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.evicted
}

func (s *InMemoryStore) each(fn func(audit.Event)) {
	if s.full {
		for _, e := range s.ring[s.next:] {
			fn(e)
		}
	}
	for _, e := range s.ring[:s.next] {
		fn(e)
	}
}
