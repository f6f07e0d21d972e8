package http

import (
	"net/http"

	"postboard/internal/handler/http/respond"
)

const (
	maxAuthorizationHeader = 8 << 10
	maxPathLength          = 2 << 10
)

// InputValidation rejects requests with an oversized Authorization header
// (400) or path (414) before routing.
func InputValidation() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.Header.Get("Authorization")) > maxAuthorizationHeader {
				respond.SafeErrorV2(w, http.StatusBadRequest,
					respond.NewAppError(http.StatusBadRequest, "authorization header too large", nil))
				return
			}
			if len(r.URL.Path) > maxPathLength {
				respond.SafeErrorV2(w, http.StatusRequestURITooLong,
					respond.NewAppError(http.StatusRequestURITooLong, "URI too long", nil))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
