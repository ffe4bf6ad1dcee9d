package jwttoken

import (
	"testing"
	"time"

	dErrors "qualitydesk/pkg/domain-errors"
	authmw "qualitydesk/pkg/platform/middleware/auth"
	"qualitydesk/pkg/requestcontext"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ authmw.JWTValidator = (*JWTServiceAdapter)(nil)

func newTestService() *JWTService {
	return NewJWTService("test-signing-key", "test-issuer", "test-audience")
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	token, err := svc.GenerateAccessToken(userID, requestcontext.RoleAdmin, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, requestcontext.RoleAdmin, claims.Role)
	assert.Equal(t, "test-issuer", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newTestService()
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := svc.GenerateAccessToken(uuid.New(), requestcontext.RoleUser, time.Hour)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.Contains(t, err.Error(), "expired")
}

func TestValidateToken_Rejects(t *testing.T) {
	svc := newTestService()
	good, err := svc.GenerateAccessToken(uuid.New(), requestcontext.RoleUser, time.Hour)
	require.NoError(t, err)

	cases := map[string]struct {
		validator *JWTService
		token     string
	}{
		"garbage":        {validator: svc, token: "not-a-jwt"},
		"wrong key":      {validator: NewJWTService("other-key", "test-issuer", "test-audience"), token: good},
		"wrong issuer":   {validator: NewJWTService("test-signing-key", "other-issuer", "test-audience"), token: good},
		"wrong audience": {validator: NewJWTService("test-signing-key", "test-issuer", "other-audience"), token: good},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := tc.validator.ValidateToken(tc.token)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
		})
	}
}

func TestAdapter(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()
	token, err := svc.GenerateAccessToken(userID, requestcontext.RoleUser, time.Minute)
	require.NoError(t, err)

	claims, err := NewJWTServiceAdapter(svc).ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, &authmw.JWTClaims{UserID: userID.String(), Role: requestcontext.RoleUser}, claims)
}

func TestAdapter_RejectsUnknownRole(t *testing.T) {
	svc := newTestService()
	token, err := svc.GenerateAccessToken(uuid.New(), "auditor", time.Minute)
	require.NoError(t, err)

	_, err = NewJWTServiceAdapter(svc).ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
