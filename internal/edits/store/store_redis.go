package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"qualitydesk/internal/edits/models"
	"qualitydesk/pkg/domain"
	"qualitydesk/pkg/platform/sentinel"
)

const sessionKeyPrefix = "edits:session:"

// RedisStore keeps each session as a JSON blob. A zero TTL keeps sessions
// until they are cleared.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisOption func(*RedisStore)

// WithTTL expires sessions ttl after their last save.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

func NewRedis(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func sessionKey(projectID domain.ProjectID) string {
	return sessionKeyPrefix + projectID.String()
}

func (s *RedisStore) FindByProject(ctx context.Context, projectID domain.ProjectID) (*models.EditSession, error) {
	raw, err := s.client.Get(ctx, sessionKey(projectID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get edit session: %w", err)
	}
	var session models.EditSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("unmarshal edit session: %w", err)
	}
	return session.Clone(), nil
}

func (s *RedisStore) Save(ctx context.Context, projectID domain.ProjectID, session *models.EditSession) error {
	raw, err := json.Marshal(models.SessionOrDefault(session))
	if err != nil {
		return fmt.Errorf("marshal edit session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(projectID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("set edit session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, projectID domain.ProjectID) error {
	n, err := s.client.Del(ctx, sessionKey(projectID)).Result()
	if err != nil {
		return fmt.Errorf("delete edit session: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// DeleteMany removes every listed session with a single DEL.
func (s *RedisStore) DeleteMany(ctx context.Context, projectIDs []domain.ProjectID) (int64, error) {
	if len(projectIDs) == 0 {
		return 0, nil
	}
	keys := make([]string, len(projectIDs))
	for i, id := range projectIDs {
		keys[i] = sessionKey(id)
	}
	n, err := s.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("delete edit sessions: %w", err)
	}
	return n, nil
}
