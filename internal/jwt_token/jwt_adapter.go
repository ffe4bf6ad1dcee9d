package jwttoken

import (
	dErrors "qualitydesk/pkg/domain-errors"
	authmw "qualitydesk/pkg/platform/middleware/auth"
	"qualitydesk/pkg/requestcontext"
)

// ToMiddlewareClaims maps dashboard token claims onto the middleware's view.
func ToMiddlewareClaims(claims *Claims) *authmw.JWTClaims {
	return &authmw.JWTClaims{
		UserID: claims.UserID,
		Role:   claims.Role,
	}
}

// JWTServiceAdapter satisfies authmw.JWTValidator. Tokens carrying a role the
// dashboard does not know are rejected, even when the signature is valid.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*authmw.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	switch claims.Role {
	case requestcontext.RoleAdmin, requestcontext.RoleUser:
	default:
		return nil, dErrors.New(dErrors.CodeUnauthorized, "unknown role")
	}
	return ToMiddlewareClaims(claims), nil
}
