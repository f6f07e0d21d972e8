package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"postboard/internal/domain/entity"
	"postboard/internal/handler/http/respond"
	"postboard/internal/repository"
	authservice "postboard/internal/service/auth"
)

// MaxJSONBodyBytes caps signup and login bodies.
const MaxJSONBodyBytes = 1 << 20

var (
	errInvalidBody  = errors.New("invalid request body")
	errBodyTooLarge = errors.New("request body too large")
)

// decodeJSON reads a single JSON object from the capped request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errBodyTooLarge
		}
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected data after JSON object", errInvalidBody)
	}
	return nil
}

// statusFor maps identity errors onto HTTP status codes.
func statusFor(err error) int {
	var vErr *entity.ValidationError
	switch {
	case errors.As(err, &vErr),
		errors.Is(err, errInvalidBody),
		errors.Is(err, errBodyTooLarge),
		errors.Is(err, repository.ErrDuplicateUser),
		errors.Is(err, authservice.ErrInvalidCredentials):
		return http.StatusBadRequest
	case errors.Is(err, authservice.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, authservice.ErrUserNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	switch code {
	case http.StatusUnauthorized:
		writeUnauthorized(w, err)
	case http.StatusBadRequest:
		var vErr *entity.ValidationError
		switch {
		case errors.As(err, &vErr):
			respond.SafeError(w, code, vErr)
		case errors.Is(err, errInvalidBody):
			respond.SafeError(w, code, errInvalidBody)
		default:
			respond.SafeError(w, code, err)
		}
	default:
		respond.SafeError(w, code, err)
	}
}

// resultFor labels an error for auth_requests_total.
func resultFor(err error) string {
	if statusFor(err) == http.StatusInternalServerError {
		return resultError
	}
	return resultRejected
}
