package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"qualitydesk/internal/edits/handler/mocks"
	"qualitydesk/internal/edits/models"
	"qualitydesk/pkg/domain"
	dErrors "qualitydesk/pkg/domain-errors"
	"qualitydesk/pkg/platform/audit"
	auditmemory "qualitydesk/pkg/platform/audit/store/memory"
	authmw "qualitydesk/pkg/platform/middleware/auth"
	"qualitydesk/pkg/requestcontext"
	"qualitydesk/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/edits-mocks.go -package=mocks Service

const (
	adminToken = "admin-token"
	userToken  = "user-token"
)

type stubValidator struct{}

func (stubValidator) ValidateToken(token string) (*authmw.JWTClaims, error) {
	switch token {
	case adminToken:
		return &authmw.JWTClaims{UserID: "admin-1", Role: requestcontext.RoleAdmin}, nil
	case userToken:
		return &authmw.JWTClaims{UserID: "user-1", Role: requestcontext.RoleUser}, nil
	}
	return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
}

type EditsHandlerSuite struct {
	suite.Suite
	service   *mocks.MockService
	router    chi.Router
	projectID domain.ProjectID
}

func TestEditsHandlerSuite(t *testing.T) {
	suite.Run(t, new(EditsHandlerSuite))
}

func (s *EditsHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.T().Cleanup(ctrl.Finish)
	s.service = mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.router = chi.NewRouter()
	New(s.service, logger, nil, stubValidator{}).Register(s.router)
	s.projectID = domain.NewProjectID()
}

func (s *EditsHandlerSuite) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = testutil.NewRequest(s.T(), method, path)
	} else {
		req = testutil.NewRequestWithBody(s.T(), method, path, body)
	}
	return testutil.DoRequest(s.router, testutil.WithBearer(req, token))
}

func (s *EditsHandlerSuite) editsPath() string {
	return "/projects/" + s.projectID.String() + "/edits"
}

func (s *EditsHandlerSuite) TestGetSession() {
	s.Run("returns the session", func() {
		session := models.NewEditSession("survey.xlsx")
		s.service.EXPECT().Load(gomock.Any(), s.projectID).Return(session, nil)

		rr := s.do(http.MethodGet, s.editsPath(), userToken, "")

		s.Equal(http.StatusOK, rr.Code)
		got := testutil.UnmarshalResponse[models.EditSession](s.T(), rr)
		s.Equal("survey.xlsx", got.FileName)
		s.NotNil(got.DataEdits)
	})

	s.Run("requires a token", func() {
		rr := s.do(http.MethodGet, s.editsPath(), "", "")
		s.Equal(http.StatusUnauthorized, rr.Code)
	})

	s.Run("rejects a malformed project id", func() {
		rr := s.do(http.MethodGet, "/projects/not-a-uuid/edits", userToken, "")
		s.Equal(http.StatusBadRequest, rr.Code)
		s.Equal(string(dErrors.CodeInvalidInput), testutil.ErrorCode(s.T(), rr))
	})

	s.Run("hides internal errors", func() {
		s.service.EXPECT().Load(gomock.Any(), s.projectID).
			Return(nil, dErrors.New(dErrors.CodeInternal, "pq: connection refused"))

		rr := s.do(http.MethodGet, s.editsPath(), userToken, "")
		s.Equal(http.StatusInternalServerError, rr.Code)
		s.NotContains(rr.Body.String(), "pq:")
	})
}

func (s *EditsHandlerSuite) TestOpenSession() {
	s.service.EXPECT().Open(gomock.Any(), s.projectID, "survey.xlsx").
		Return(models.NewEditSession("survey.xlsx"), nil)

	rr := s.do(http.MethodPut, s.editsPath(), userToken, `{"fileName":"  survey.xlsx "}`)

	s.Equal(http.StatusOK, rr.Code)
}

func (s *EditsHandlerSuite) TestApplyEdits() {
	s.Run("trims strings and forwards the batch", func() {
		s.service.EXPECT().ApplyEdits(gomock.Any(), s.projectID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ domain.ProjectID, in []models.ValueEdit) (*models.EditSession, error) {
				s.Require().Len(in, 1)
				s.Equal("GDP", in[0].IndicatorName)
				s.Equal("Total", in[0].FilterName)
				s.Equal(3, in[0].Month)
				return &models.EditSession{DataEdits: in, IndicatorEdits: []models.IndicatorRenameEdit{}}, nil
			})

		body := `{"edits":[{"indicatorName":" GDP ","filterName":"Total ","year":2020,"month":3,"oldValue":1,"newValue":2}]}`
		rr := s.do(http.MethodPost, s.editsPath(), userToken, body)
		s.Equal(http.StatusOK, rr.Code)
	})

	s.Run("maps validation failures to 400", func() {
		s.service.EXPECT().ApplyEdits(gomock.Any(), s.projectID, gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeBadRequest, "edits must not be empty"))

		rr := s.do(http.MethodPost, s.editsPath(), userToken, `{"edits":[]}`)
		s.Equal(http.StatusBadRequest, rr.Code)
		s.Equal(string(dErrors.CodeBadRequest), testutil.ErrorCode(s.T(), rr))
	})

	s.Run("rejects malformed json", func() {
		rr := s.do(http.MethodPost, s.editsPath(), userToken, `{"edits":`)
		s.Equal(http.StatusBadRequest, rr.Code)
	})
}

func (s *EditsHandlerSuite) TestRenameIndicator() {
	rename := models.IndicatorRenameEdit{OldName: "GDP", NewName: "Gross domestic product"}
	s.service.EXPECT().RenameIndicator(gomock.Any(), s.projectID, rename).
		Return(&models.EditSession{IndicatorEdits: []models.IndicatorRenameEdit{rename}}, nil)

	path := "/projects/" + s.projectID.String() + "/indicator-renames"
	rr := s.do(http.MethodPost, path, userToken, `{"oldName":"GDP","newName":" Gross domestic product"}`)

	s.Equal(http.StatusOK, rr.Code)
}

func (s *EditsHandlerSuite) TestSummary() {
	s.service.EXPECT().Summary(gomock.Any(), s.projectID).
		Return(&models.EditSummary{TotalEdits: 2, EditedIndicators: []string{"GDP"}}, nil)

	rr := s.do(http.MethodGet, s.editsPath()+"/summary", userToken, "")

	s.Equal(http.StatusOK, rr.Code)
	got := testutil.UnmarshalResponse[models.EditSummary](s.T(), rr)
	s.Equal(2, got.TotalEdits)
}

func (s *EditsHandlerSuite) TestClearSession() {
	s.Run("admin clears", func() {
		s.service.EXPECT().Clear(gomock.Any(), s.projectID).Return(nil)

		rr := s.do(http.MethodDelete, s.editsPath(), adminToken, "")
		s.Equal(http.StatusNoContent, rr.Code)
	})

	s.Run("non-admin is forbidden", func() {
		rr := s.do(http.MethodDelete, s.editsPath(), userToken, "")
		s.Equal(http.StatusForbidden, rr.Code)
	})
}

func (s *EditsHandlerSuite) TestClearProjects() {
	other := domain.NewProjectID()
	s.service.EXPECT().ClearProjects(gomock.Any(), []domain.ProjectID{s.projectID, other}).Return(1, nil)

	body := `{"projectIds":["` + s.projectID.String() + `"," ` + other.String() + `"]}`
	rr := s.do(http.MethodPost, "/edits/clear", adminToken, body)

	s.Equal(http.StatusOK, rr.Code)
	s.JSONEq(`{"deleted":1}`, strings.TrimSpace(rr.Body.String()))
}

func (s *EditsHandlerSuite) TestAuditTrail() {
	log := auditmemory.NewInMemoryStore()
	s.Require().NoError(log.Append(context.Background(), audit.Event{ProjectID: s.projectID, Action: audit.EventEditsApplied, EditCount: 2}))
	router := chi.NewRouter()
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil)), nil, stubValidator{}).
		WithAuditLog(log).
		Register(router)
	path := "/projects/" + s.projectID.String() + "/audit"

	s.Run("admin reads retained events", func() {
		req := testutil.WithBearer(testutil.NewRequest(s.T(), http.MethodGet, path), adminToken)
		rr := testutil.DoRequest(router, req)
		s.Equal(http.StatusOK, rr.Code)
		got := testutil.UnmarshalResponse[models.AuditTrailResponse](s.T(), rr)
		s.Require().Len(got.Events, 1)
		s.Equal(audit.EventEditsApplied, got.Events[0].Action)
	})

	s.Run("non-admin is forbidden", func() {
		req := testutil.WithBearer(testutil.NewRequest(s.T(), http.MethodGet, path), userToken)
		s.Equal(http.StatusForbidden, testutil.DoRequest(router, req).Code)
	})

	s.Run("not mounted without an audit log", func() {
		rr := s.do(http.MethodGet, path, adminToken, "")
		s.Equal(http.StatusNotFound, rr.Code)
	})
}

func TestSanitize(t *testing.T) {
	req := models.ApplyEditsRequest{Edits: []models.ValueEdit{{IndicatorName: " a ", Comment: "\tnote\n"}}}
	sanitize(&req)
	if req.Edits[0].IndicatorName != "a" || req.Edits[0].Comment != "note" {
		t.Fatalf("strings not trimmed: %+v", req.Edits[0])
	}
	sanitize(nil)
	sanitize(req)
}
