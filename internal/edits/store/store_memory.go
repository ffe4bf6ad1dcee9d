package store

import (
	"context"
	"sync"

	"qualitydesk/internal/edits/models"
	"qualitydesk/pkg/domain"
	"qualitydesk/pkg/platform/sentinel"
)

// InMemoryStore keeps sessions in a map. Sessions are copied on the way in
// and out so callers never share slices with the store.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[domain.ProjectID]*models.EditSession
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[domain.ProjectID]*models.EditSession)}
}

func (s *InMemoryStore) FindByProject(_ context.Context, projectID domain.ProjectID) (*models.EditSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[projectID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return session.Clone(), nil
}

func (s *InMemoryStore) Save(_ context.Context, projectID domain.ProjectID, session *models.EditSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[projectID] = models.SessionOrDefault(session).Clone()
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, projectID domain.ProjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[projectID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.sessions, projectID)
	return nil
}

// DeleteMany removes every listed session and reports how many existed.
func (s *InMemoryStore) DeleteMany(_ context.Context, projectIDs []domain.ProjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for _, id := range projectIDs {
		if _, ok := s.sessions[id]; ok {
			delete(s.sessions, id)
			deleted++
		}
	}
	return deleted, nil
}
