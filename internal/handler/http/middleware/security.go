package middleware

import (
	"net/http"
	"strings"
)

const (
	// apiPolicy forbids every resource load; JSON responses need none.
	apiPolicy = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'; form-action 'none'"

	// swaggerPolicy lets the bundled Swagger UI load its own assets.
	swaggerPolicy = "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; " +
		"img-src 'self' data:; frame-ancestors 'none'; base-uri 'self'; object-src 'none'"

	// mediaPolicy applies to images served by the in-process object store.
	mediaPolicy = "default-src 'none'; img-src 'self'; frame-ancestors 'none'"
)

// SecurityHeaders sets nosniff, frame and referrer headers on every
// response, plus a Content-Security-Policy chosen by path prefix.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", policyFor(r.URL.Path))
		next.ServeHTTP(w, r)
	})
}

func policyFor(path string) string {
	switch {
	case strings.HasPrefix(path, "/swagger/"):
		return swaggerPolicy
	case strings.HasPrefix(path, "/media/"):
		return mediaPolicy
	default:
		return apiPolicy
	}
}
