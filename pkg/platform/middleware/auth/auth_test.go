package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"qualitydesk/pkg/requestcontext"
	"qualitydesk/pkg/testutil"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (s stubValidator) ValidateToken(string) (*JWTClaims, error) {
	return s.claims, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequireAuth(t *testing.T) {
	var gotUser, gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = requestcontext.UserID(r.Context())
		gotRole = requestcontext.Role(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	t.Run("missing header", func(t *testing.T) {
		h := RequireAuth(stubValidator{}, discardLogger())(next)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"unauthorized","error_description":"Missing or invalid Authorization header"}`, rec.Body.String())
	})

	t.Run("invalid token", func(t *testing.T) {
		h := RequireAuth(stubValidator{err: errors.New("bad signature")}, discardLogger())(next)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token populates context", func(t *testing.T) {
		v := stubValidator{claims: &JWTClaims{UserID: "analyst-1", Role: requestcontext.RoleUser}}
		h := RequireAuth(v, discardLogger())(next)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "analyst-1", gotUser)
		assert.Equal(t, requestcontext.RoleUser, gotRole)
	})
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := RequireRole(requestcontext.RoleAdmin, discardLogger())(next)

	t.Run("user role is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		req = testutil.WithPrincipal(req, "u1", requestcontext.RoleUser)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		req = testutil.WithPrincipal(req, "u2", requestcontext.RoleAdmin)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
