package auth

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"postboard/internal/domain/entity"
	"postboard/internal/handler/http/respond"
	"postboard/internal/observability/logging"
	authservice "postboard/internal/service/auth"
)

// IdentityService is the identity flow used by the endpoints.
type IdentityService interface {
	Signup(ctx context.Context, in authservice.SignupInput) (*entity.User, string, error)
	Login(ctx context.Context, email, password string) (*entity.User, string, error)
	Verify(ctx context.Context, claims *authservice.Claims) (*entity.User, error)
}

type SignupHandler struct{ Svc IdentityService }

// ServeHTTP registers a user.
// @Summary      Sign up
// @Description  Registers a new identity and returns it with a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body signupRequest true "Handle, email and password"
// @Success      201 {object} tokenResponse
// @Failure      400 {string} string "Invalid input or handle/email already taken"
// @Failure      429 {string} string "Too many requests - rate limit exceeded"
// @Header       429 {integer} Retry-After "Seconds until the client should retry"
// @Router       /signup [post]
func (h SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "signup"
	start := time.Now()
	logger := logging.FromContext(r.Context())

	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		finish(logger, op, start, err)
		writeError(w, err)
		return
	}

	user, token, err := h.Svc.Signup(r.Context(), authservice.SignupInput{
		Handle:   req.Handle,
		Email:    req.Email,
		Password: req.Password,
	})
	finish(logger, op, start, err)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, tokenResponse{Token: token, User: NewUserDTO(user)})
}

type LoginHandler struct{ Svc IdentityService }

// ServeHTTP exchanges credentials for a token.
// @Summary      Log in
// @Description  Authenticates with email and password and returns a bearer token valid for 24 hours
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body loginRequest true "Email and password"
// @Success      200 {object} tokenResponse
// @Failure      400 {string} string "Invalid email or password"
// @Failure      429 {string} string "Too many requests - rate limit exceeded"
// @Header       429 {integer} Retry-After "Seconds until the client should retry"
// @Router       /login [post]
func (h LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "login"
	start := time.Now()
	logger := logging.FromContext(r.Context())

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		finish(logger, op, start, err)
		writeError(w, err)
		return
	}

	user, token, err := h.Svc.Login(r.Context(), req.Email, req.Password)
	finish(logger, op, start, err)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, tokenResponse{Token: token, User: NewUserDTO(user)})
}

type LogoutHandler struct{}

// ServeHTTP acknowledges a logout. Tokens are stateless; the client discards it.
// @Summary      Log out
// @Description  No server-side state is kept; the client discards its token
// @Tags         auth
// @Produce      json
// @Success      200 {object} messageResponse
// @Router       /logout [post]
func (LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	RecordAuthRequest("logout", resultSuccess)
	respond.JSON(w, http.StatusOK, messageResponse{Message: "logged out"})
}

type VerifyHandler struct{ Svc IdentityService }

// ServeHTTP returns the identity behind the bearer token.
// @Summary      Verify token
// @Description  Returns the user the bearer token belongs to
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} userResponse
// @Failure      401 {string} string "Authentication required - missing, invalid or expired token"
// @Failure      404 {string} string "User no longer exists"
// @Router       /verify [get]
func (h VerifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, authservice.ErrUnauthenticated)
		return
	}

	user, err := h.Svc.Verify(r.Context(), claims)
	if err != nil {
		RecordAuthRequest("verify", resultFor(err))
		writeError(w, err)
		return
	}
	RecordAuthRequest("verify", resultSuccess)
	respond.JSON(w, http.StatusOK, userResponse{User: NewUserDTO(user)})
}

func finish(logger *slog.Logger, op string, start time.Time, err error) {
	elapsed := time.Since(start)
	RecordAuthDuration(op, elapsed.Seconds())
	if err == nil {
		RecordAuthRequest(op, resultSuccess)
		logger.Info(op+" succeeded", slog.Int64("duration_ms", elapsed.Milliseconds()))
		return
	}

	result := resultFor(err)
	RecordAuthRequest(op, result)
	attrs := []any{
		slog.String("reason", respond.SanitizeError(err)),
		slog.Int64("duration_ms", elapsed.Milliseconds()),
	}
	if result == resultError {
		logger.Error(op+" failed", attrs...)
		return
	}
	logger.Warn(op+" rejected", attrs...)
}
