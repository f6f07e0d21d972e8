package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"postboard/internal/domain/entity"
	"postboard/internal/repository"
	authservice "postboard/internal/service/auth"
)

/* ───────── in-memory user repository ───────── */

type memUsers struct {
	mu     sync.Mutex
	byID   map[string]*entity.User
	getErr error
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]*entity.User{}}
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Handle == u.Handle || existing.Email == u.Email {
			return repository.ErrDuplicateUser
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = testNow
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) ExistsByHandleOrEmail(_ context.Context, handle, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Handle == handle || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
}

/* ───────── helpers ───────── */

type testEnv struct {
	users  *memUsers
	tokens *authservice.TokenManager
	mux    *http.ServeMux
}

func newTestEnv(t *testing.T, limit func(http.Handler) http.Handler) *testEnv {
	t.Helper()
	users := newMemUsers()
	tokens := newTestTokens(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := authservice.NewService(users, authservice.NewPasswordHasher(bcrypt.MinCost), tokens, 1, logger)

	mux := http.NewServeMux()
	Register(mux, svc, tokens, limit)
	return &testEnv{users: users, tokens: tokens, mux: mux}
}

func (e *testEnv) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.mux.ServeHTTP(rr, req)
	return rr
}

func decodeToken(t *testing.T, rr *httptest.ResponseRecorder) tokenResponse {
	t.Helper()
	var resp tokenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

const aliceSignup = `{"handle":"alice","email":"a@x.com","password":"pw1"}`

/* ───────── signup ───────── */

func TestSignupHandler(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(t, http.MethodPost, "/signup", aliceSignup, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.NotContains(t, rr.Body.String(), "password")

	resp := decodeToken(t, rr)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Handle)
	assert.Equal(t, "a@x.com", resp.User.Email)
	assert.NotEmpty(t, resp.User.ID)

	claims, err := env.tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, testNow.Add(24*time.Hour), claims.ExpiresAt.Time.UTC())
}

func TestSignupHandler_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantBody string
	}{
		{name: "duplicate handle", body: `{"handle":"alice","email":"other@x.com","password":"pw1"}`, wantBody: "already exists"},
		{name: "duplicate email", body: `{"handle":"bob","email":"A@X.com","password":"pw1"}`, wantBody: "already exists"},
		{name: "malformed email", body: `{"handle":"bob","email":"nope","password":"pw1"}`, wantBody: "email"},
		{name: "missing password", body: `{"handle":"bob","email":"b@x.com"}`, wantBody: "password"},
		{name: "missing handle", body: `{"email":"b@x.com","password":"pw1"}`, wantBody: "handle"},
		{name: "not json", body: `handle=bob`, wantBody: "invalid request body"},
		{name: "trailing data", body: `{"handle":"bob","email":"b@x.com","password":"pw1"} {}`, wantBody: "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/signup", aliceSignup, "").Code)

			rr := env.do(t, http.MethodPost, "/signup", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantBody)
		})
	}
}

func TestSignupHandler_BodyTooLarge(t *testing.T) {
	env := newTestEnv(t, nil)
	body := `{"handle":"bob","email":"b@x.com","password":"` + strings.Repeat("p", MaxJSONBodyBytes) + `"}`

	rr := env.do(t, http.MethodPost, "/signup", body, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "too large")
}

/* ───────── login ───────── */

func TestLoginHandler(t *testing.T) {
	env := newTestEnv(t, nil)
	signup := decodeToken(t, env.do(t, http.MethodPost, "/signup", aliceSignup, ""))

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "correct credentials", body: `{"email":"a@x.com","password":"pw1"}`, wantStatus: http.StatusOK},
		{name: "email differs only in case", body: `{"email":"A@X.COM","password":"pw1"}`, wantStatus: http.StatusOK},
		{name: "wrong password", body: `{"email":"a@x.com","password":"pw2"}`, wantStatus: http.StatusBadRequest},
		{name: "unknown email", body: `{"email":"z@x.com","password":"pw1"}`, wantStatus: http.StatusBadRequest},
		{name: "empty body object", body: `{}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, "/login", tt.body, "")
			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			if tt.wantStatus != http.StatusOK {
				assert.Contains(t, rr.Body.String(), "invalid email or password")
				return
			}
			resp := decodeToken(t, rr)
			assert.Equal(t, signup.User.ID, resp.User.ID)
			assert.NotEmpty(t, resp.Token)
		})
	}
}

/* ───────── logout ───────── */

func TestLogoutHandler(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(t, http.MethodPost, "/logout", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"logged out"}`, rr.Body.String())
}

/* ───────── verify ───────── */

func TestVerifyHandler(t *testing.T) {
	env := newTestEnv(t, nil)
	signup := decodeToken(t, env.do(t, http.MethodPost, "/signup", aliceSignup, ""))

	t.Run("valid token", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/verify", "", signup.Token)
		require.Equal(t, http.StatusOK, rr.Code)

		var resp userResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, signup.User, resp.User)
	})

	t.Run("missing token", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/verify", "", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("tampered token", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/verify", "", signup.Token+"x")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("repository failure", func(t *testing.T) {
		env.users.getErr = errors.New("connection reset by peer")
		defer func() { env.users.getErr = nil }()

		rr := env.do(t, http.MethodGet, "/verify", "", signup.Token)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "connection reset")
	})

	t.Run("user removed after issuing", func(t *testing.T) {
		env.users.remove(signup.User.ID)
		rr := env.do(t, http.MethodGet, "/verify", "", signup.Token)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestVerifyHandler_WithoutGate(t *testing.T) {
	rr := httptest.NewRecorder()
	VerifyHandler{}.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/verify", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

/* ───────── routing ───────── */

func TestRegister_LimitWrapsCredentialEndpoints(t *testing.T) {
	var limited []string
	limit := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limited = append(limited, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}
	env := newTestEnv(t, limit)

	env.do(t, http.MethodPost, "/signup", aliceSignup, "")
	env.do(t, http.MethodPost, "/login", `{"email":"a@x.com","password":"pw1"}`, "")
	env.do(t, http.MethodPost, "/logout", "", "")
	env.do(t, http.MethodGet, "/verify", "", "")

	assert.Equal(t, []string{"/signup", "/login"}, limited)
}

func TestRegister_MethodNotAllowed(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(t, http.MethodGet, "/signup", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

/* ───────── error mapping ───────── */

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: &entity.ValidationError{Field: "email", Message: "is invalid"}, want: http.StatusBadRequest},
		{name: "duplicate", err: repository.ErrDuplicateUser, want: http.StatusBadRequest},
		{name: "bad credentials", err: authservice.ErrInvalidCredentials, want: http.StatusBadRequest},
		{name: "body", err: errInvalidBody, want: http.StatusBadRequest},
		{name: "expired", err: authservice.ErrExpiredToken, want: http.StatusUnauthorized},
		{name: "user gone", err: authservice.ErrUserNotFound, want: http.StatusNotFound},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
