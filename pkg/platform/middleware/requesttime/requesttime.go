// Package requesttime fixes one "now" per HTTP request. Every edit stamped
// while serving a request carries the same timestamp.
package requesttime

import (
	"net/http"
	"time"

	"qualitydesk/pkg/requestcontext"
)

// Middleware captures the current UTC time at the start of the request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now().UTC())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
