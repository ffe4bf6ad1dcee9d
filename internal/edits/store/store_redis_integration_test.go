//go:build integration

package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"qualitydesk/internal/edits/models"
	"qualitydesk/internal/edits/store"
	"qualitydesk/pkg/domain"
	"qualitydesk/pkg/platform/sentinel"
	"qualitydesk/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *store.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.store = store.NewRedis(s.redis.Client, store.WithTTL(time.Hour))
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	projectID := domain.NewProjectID()

	_, err := s.store.FindByProject(ctx, projectID)
	s.True(errors.Is(err, sentinel.ErrNotFound))

	session := models.NewEditSession("survey.xlsx")
	session.DataEdits = []models.ValueEdit{{IndicatorName: "GDP", FilterName: "Total", Year: 2020, Month: 4, Timestamp: 3}}
	s.Require().NoError(s.store.Save(ctx, projectID, session))

	got, err := s.store.FindByProject(ctx, projectID)
	s.Require().NoError(err)
	s.Equal(session, got)

	ttl, err := s.redis.Client.TTL(ctx, "edits:session:"+projectID.String()).Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))

	s.Require().NoError(s.store.Delete(ctx, projectID))
	s.True(errors.Is(s.store.Delete(ctx, projectID), sentinel.ErrNotFound))
}

func (s *RedisStoreSuite) TestDeleteMany() {
	ctx := context.Background()
	a, b := domain.NewProjectID(), domain.NewProjectID()
	s.Require().NoError(s.store.Save(ctx, a, models.NewEditSession("a.xlsx")))

	n, err := s.store.DeleteMany(ctx, []domain.ProjectID{a, b})
	s.Require().NoError(err)
	s.Equal(int64(1), n)
}
