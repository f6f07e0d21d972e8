package article

import (
	"net/http"

	"postboard/internal/handler/http/auth"
)

// Register mounts the /posts routes on mux. Create, update and delete
// require a bearer token checked by verifier.
func Register(mux *http.ServeMux, svc Service, verifier auth.TokenVerifier) {
	gate := auth.Gate(verifier)

	mux.Handle("GET /posts", ListHandler{Svc: svc})
	mux.Handle("GET /posts/{id}", GetHandler{Svc: svc})

	mux.Handle("POST /posts", gate(CreateHandler{Svc: svc}))
	mux.Handle("PUT /posts/{id}", gate(UpdateHandler{Svc: svc}))
	mux.Handle("DELETE /posts/{id}", gate(DeleteHandler{Svc: svc}))
}
