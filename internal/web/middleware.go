package web

import (
	"net/http"

	"github.com/sidereusnuntius/filecat/internal/catalog/sparql"
)

// MuHeadersMiddleware passes the session and call ids set by the identifier and dispatcher on to the
// catalog requests made while serving the request.
func MuHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, call := r.Header.Get("mu-session-id"), r.Header.Get("mu-call-id")
		if session != "" || call != "" {
			r = r.WithContext(sparql.WithMuHeaders(r.Context(), session, call))
		}
		next.ServeHTTP(w, r)
	})
}
