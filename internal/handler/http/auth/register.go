// Package auth exposes the identity endpoints and the bearer token gate
// that protects mutating routes.
package auth

import (
	"net/http"
)

// Register mounts /signup, /login, /logout and /verify on mux. limit, when
// not nil, wraps the credential endpoints (signup and login).
func Register(mux *http.ServeMux, svc IdentityService, verifier TokenVerifier, limit func(http.Handler) http.Handler) {
	if limit == nil {
		limit = func(h http.Handler) http.Handler { return h }
	}

	mux.Handle("POST /signup", limit(SignupHandler{Svc: svc}))
	mux.Handle("POST /login", limit(LoginHandler{Svc: svc}))
	mux.Handle("POST /logout", LogoutHandler{})
	mux.Handle("GET /verify", Gate(verifier)(VerifyHandler{Svc: svc}))
}
