package testutil

import (
	"net/http"

	"qualitydesk/pkg/requestcontext"
)

// WithPrincipal adds a user ID and role to the request context.
// This simulates what the auth middleware would do for authenticated requests.
func WithPrincipal(req *http.Request, userID, role string) *http.Request {
	return req.WithContext(requestcontext.WithPrincipal(req.Context(), userID, role))
}
