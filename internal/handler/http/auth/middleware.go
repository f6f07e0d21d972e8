package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"postboard/internal/handler/http/respond"
	"postboard/internal/observability/logging"
	authservice "postboard/internal/service/auth"
)

const gateOperation = "gate"

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*authservice.Claims, error)
}

var errMissingToken = errors.New("missing bearer token")

// Gate requires a valid bearer token. Verified claims are stored in the
// request context (see ClaimsFromContext). Gate performs no database lookup,
// so a token stays usable until it expires even if its user is gone.
func Gate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			claims, err := authenticate(verifier, r.Header.Get("Authorization"))
			RecordAuthzCheckDuration(time.Since(start).Seconds())

			if err != nil {
				result := gateResult(err)
				RecordAuthRequest(gateOperation, result)
				logging.FromContext(r.Context()).Warn("authentication rejected",
					slog.String("reason", result),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path))
				writeUnauthorized(w, err)
				return
			}

			RecordAuthRequest(gateOperation, resultSuccess)
			ctx := WithClaims(r.Context(), claims)
			ctx = logging.WithLogger(ctx, logging.FromContext(ctx).With(slog.String("user_id", claims.UserID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authenticate accepts exactly "Bearer <token>" (scheme case-insensitive,
// any whitespace between the parts). Anything else counts as no token.
func authenticate(verifier TokenVerifier, header string) (*authservice.Claims, error) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, errMissingToken
	}
	return verifier.Verify(parts[1])
}

func gateResult(err error) string {
	switch {
	case errors.Is(err, errMissingToken):
		return resultMissing
	case errors.Is(err, authservice.ErrExpiredToken):
		return resultExpired
	default:
		return resultInvalid
	}
}

func writeUnauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="postboard"`)
	msg := "authentication required"
	if errors.Is(err, authservice.ErrExpiredToken) {
		msg = "token expired"
	}
	respond.SafeErrorV2(w, http.StatusUnauthorized, respond.NewAppError(http.StatusUnauthorized, msg, err))
}
