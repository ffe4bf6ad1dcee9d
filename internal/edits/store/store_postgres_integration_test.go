//go:build integration

package store_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"qualitydesk/internal/edits/models"
	"qualitydesk/internal/edits/service"
	"qualitydesk/internal/edits/store"
	"qualitydesk/pkg/domain"
	"qualitydesk/pkg/platform/sentinel"
	"qualitydesk/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "edit_sessions"))
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	projectID := domain.NewProjectID()

	_, err := s.store.FindByProject(ctx, projectID)
	s.True(errors.Is(err, sentinel.ErrNotFound))

	session := models.NewEditSession("survey.xlsx")
	session.DataEdits = []models.ValueEdit{{IndicatorName: "GDP", FilterName: "Total", Year: 2020, Quarter: 2, NewValue: 1.5, Timestamp: 10}}
	session.IndicatorEdits = []models.IndicatorRenameEdit{{OldName: "GDP", NewName: "Output", Timestamp: 11}}
	session.LastUpdated = 11
	s.Require().NoError(s.store.Save(ctx, projectID, session))

	got, err := s.store.FindByProject(ctx, projectID)
	s.Require().NoError(err)
	s.Equal(session, got)

	session.FileName = "renamed.xlsx"
	s.Require().NoError(s.store.Save(ctx, projectID, session), "upsert overwrites")
	got, err = s.store.FindByProject(ctx, projectID)
	s.Require().NoError(err)
	s.Equal("renamed.xlsx", got.FileName)

	s.Require().NoError(s.store.Delete(ctx, projectID))
	s.True(errors.Is(s.store.Delete(ctx, projectID), sentinel.ErrNotFound))
}

func (s *PostgresStoreSuite) TestDeleteMany() {
	ctx := context.Background()
	ids := []domain.ProjectID{domain.NewProjectID(), domain.NewProjectID(), domain.NewProjectID()}
	for _, id := range ids[:2] {
		s.Require().NoError(s.store.Save(ctx, id, models.NewEditSession("x.xlsx")))
	}

	n, err := s.store.DeleteMany(ctx, ids)
	s.Require().NoError(err)
	s.Equal(int64(2), n)
}

// Two service instances share the database but not a process lock; the
// advisory lock taken by RunInTx must still serialize their writes.
func (s *PostgresStoreSuite) TestConcurrentServicesLoseNoEdits() {
	ctx := context.Background()
	projectID := domain.NewProjectID()
	newService := func() *service.Service {
		return service.New(s.store, service.WithTx(s.store))
	}
	services := []*service.Service{newService(), newService()}

	const writers = 20
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			_, err := services[i%2].ApplyEdits(ctx, projectID, []models.ValueEdit{{
				IndicatorName: fmt.Sprintf("indicator-%d", i),
				FilterName:    "Total",
				Year:          2020,
			}})
			s.NoError(err)
		}()
	}
	wg.Wait()

	session, err := s.store.FindByProject(ctx, projectID)
	s.Require().NoError(err)
	s.Len(session.DataEdits, writers)
}

func (s *PostgresStoreSuite) TestDeleteManyWaitsForSessionLock() {
	ctx := context.Background()
	projectID := domain.NewProjectID()
	s.Require().NoError(s.store.Save(ctx, projectID, models.NewEditSession("f.csv")))

	locked := make(chan struct{})
	release := make(chan struct{})
	txDone := make(chan error, 1)
	go func() {
		txDone <- s.store.RunInTx(ctx, projectID, func(ctx context.Context, st service.Store) error {
			session, err := st.FindByProject(ctx, projectID)
			if err != nil {
				return err
			}
			close(locked)
			<-release
			session.DataEdits = append(session.DataEdits, models.ValueEdit{IndicatorName: "GDP", FilterName: "Total", Year: 2020})
			return st.Save(ctx, projectID, session)
		})
	}()
	<-locked

	type result struct {
		n   int64
		err error
	}
	deleteDone := make(chan result, 1)
	go func() {
		n, err := s.store.DeleteMany(ctx, []domain.ProjectID{projectID, domain.NewProjectID()})
		deleteDone <- result{n, err}
	}()

	s.Never(func() bool { return len(deleteDone) > 0 }, 200*time.Millisecond, 10*time.Millisecond,
		"DeleteMany must wait for the project's transaction")
	close(release)
	s.Require().NoError(<-txDone)

	res := <-deleteDone
	s.Require().NoError(res.err)
	s.Equal(int64(1), res.n)
	_, err := s.store.FindByProject(ctx, projectID)
	s.True(errors.Is(err, sentinel.ErrNotFound), "the session saved inside the transaction is cleared afterwards")
}
