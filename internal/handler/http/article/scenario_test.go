package article_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"postboard/internal/domain/entity"
	"postboard/internal/handler/http/article"
	"postboard/internal/handler/http/auth"
	"postboard/internal/infra/objectstore"
	"postboard/internal/repository"
	authservice "postboard/internal/service/auth"
	artUC "postboard/internal/usecase/article"
	"postboard/internal/usecase/media"
)

/* ───────── in-memory stores ───────── */

type memUsers struct {
	mu   sync.Mutex
	byID map[string]entity.User
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
	u.CreatedAt = time.Now().UTC()
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return &u, nil
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

func (m *memUsers) handle(id string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id].Handle
}

type memArticles struct {
	mu    sync.Mutex
	data  map[string]entity.Article
	users *memUsers
}

func (m *memArticles) ListWithOwner(_ context.Context) ([]repository.ArticleWithOwner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]repository.ArticleWithOwner, 0, len(m.data))
	for _, a := range m.data {
		cp := a
		out = append(out, repository.ArticleWithOwner{Article: &cp, OwnerHandle: m.users.handle(a.OwnerID)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Article.CreatedAt.After(out[j].Article.CreatedAt) })
	return out, nil
}

func (m *memArticles) Get(_ context.Context, id string) (*entity.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.data[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (m *memArticles) GetWithOwner(ctx context.Context, id string) (*entity.Article, string, error) {
	a, err := m.Get(ctx, id)
	if a == nil || err != nil {
		return nil, "", err
	}
	return a, m.users.handle(a.OwnerID), nil
}

func (m *memArticles) Create(_ context.Context, a *entity.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = uuid.NewString()
	m.data[a.ID] = *a
	return nil
}

func (m *memArticles) Update(_ context.Context, a *entity.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.data[a.ID]
	if !ok {
		return entity.ErrNotFound
	}
	cp := *a
	cp.OwnerID = old.OwnerID
	m.data[a.ID] = cp
	return nil
}

func (m *memArticles) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[id]; !ok {
		return entity.ErrNotFound
	}
	delete(m.data, id)
	return nil
}

/* ───────── server ───────── */

type server struct {
	mux    *http.ServeMux
	store  *objectstore.MemoryStore
	tokens *authservice.TokenManager
}

func newServer(t *testing.T) *server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := &memUsers{byID: map[string]entity.User{}}
	articles := &memArticles{data: map[string]entity.Article{}, users: users}
	store := objectstore.NewMemoryStore("")

	tokens, err := authservice.NewTokenManager("0123456789abcdef0123456789abcdef", 24*time.Hour)
	require.NoError(t, err)
	identity := authservice.NewService(users, authservice.NewPasswordHasher(bcrypt.MinCost), tokens, 1, logger)
	posts := &artUC.Service{
		Repo:   articles,
		Users:  users,
		Media:  media.NewUploader(store, media.Options{Logger: logger}),
		Logger: logger,
	}

	mux := http.NewServeMux()
	auth.Register(mux, identity, tokens, nil)
	article.Register(mux, posts, tokens)
	mux.Handle(store.BasePath()+"/", store)
	return &server{mux: mux, store: store, tokens: tokens}
}

func (s *server) do(t *testing.T, method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.mux.ServeHTTP(rr, req)
	return rr
}

func (s *server) signup(t *testing.T, handle, email, password string) string {
	t.Helper()
	body := `{"handle":"` + handle + `","email":"` + email + `","password":"` + password + `"}`
	rr := s.do(t, http.MethodPost, "/signup", "", strings.NewReader(body), "application/json")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Token
}

func decodeArticle(t *testing.T, rr *httptest.ResponseRecorder) article.DTO {
	t.Helper()
	var dto article.DTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dto))
	return dto
}

// twoMegabytePNG returns an uncompressed PNG just over 2 MB. The image is
// opaque, so the encoder writes 3 bytes per pixel.
func twoMegabytePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 1000, 700))
	for y := 0; y < 700; y++ {
		for x := 0; x < 1000; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.NoCompression}
	require.NoError(t, enc.Encode(&buf, img))
	require.Greater(t, buf.Len(), 2_000_000)
	require.Less(t, buf.Len(), 5<<20)
	return buf.Bytes()
}

/* ───────── scenario ───────── */

func TestScenario_AuthorLifecycle(t *testing.T) {
	srv := newServer(t)

	t1 := srv.signup(t, "alice", "a@x.com", "pw1")

	rr := srv.do(t, http.MethodPost, "/login", "", strings.NewReader(`{"email":"a@x.com","password":"pw1"}`), "application/json")
	require.Equal(t, http.StatusOK, rr.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &login))
	t2 := login.Token
	assert.NotEqual(t, t1, t2)

	c1, err := srv.tokens.Verify(t1)
	require.NoError(t, err)
	c2, err := srv.tokens.Verify(t2)
	require.NoError(t, err)
	assert.Equal(t, c1.UserID, c2.UserID)
	assert.Equal(t, c1.Handle, c2.Handle)

	// create without image
	body, ct := multipartBody(t, map[string]string{"title": "Hi", "content": "hello"}, nil)
	rr = srv.do(t, http.MethodPost, "/posts", t1, body, ct)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decodeArticle(t, rr)
	assert.Empty(t, created.ImageURL)
	assert.Equal(t, "alice", created.Author.Handle)
	assert.Equal(t, c1.UserID, created.Author.ID)

	// update with a 2 MB PNG
	body, ct = multipartBody(t, map[string]string{"title": "Hi", "content": "hello again"},
		&imagePart{contentType: "image/png", data: twoMegabytePNG(t)})
	rr = srv.do(t, http.MethodPut, "/posts/"+created.ID, t1, body, ct)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decodeArticle(t, rr)
	require.NotEmpty(t, updated.ImageURL)
	assert.Equal(t, 1, srv.store.Len())

	// the stored image resolves
	rr = srv.do(t, http.MethodGet, updated.ImageURL, "", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/jpeg", rr.Header().Get("Content-Type"))

	// text-only update keeps the image reference verbatim
	body, ct = multipartBody(t, map[string]string{"title": "Hi!", "content": "edited"}, nil)
	rr = srv.do(t, http.MethodPut, "/posts/"+created.ID, t1, body, ct)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, updated.ImageURL, decodeArticle(t, rr).ImageURL)

	// another identity may not delete it
	other := srv.signup(t, "bob", "b@x.com", "pw2")
	rr = srv.do(t, http.MethodDelete, "/posts/"+created.ID, other, nil, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// nor update it
	body, ct = multipartBody(t, map[string]string{"title": "mine now", "content": "x"}, nil)
	rr = srv.do(t, http.MethodPut, "/posts/"+created.ID, other, body, ct)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// owner deletes it; the image goes with it
	rr = srv.do(t, http.MethodDelete, "/posts/"+created.ID, t1, nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, srv.store.Len())

	rr = srv.do(t, http.MethodGet, "/posts/"+created.ID, "", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestScenario_RejectedUploadWritesNothing(t *testing.T) {
	tests := []struct {
		name string
		img  *imagePart
	}{
		{name: "not an image", img: &imagePart{contentType: "text/plain", data: []byte("not an image")}},
		{name: "over the image limit", img: &imagePart{contentType: "image/png", data: bytes.Repeat([]byte{0x89}, 7<<20)}},
		{name: "undecodable", img: &imagePart{contentType: "image/png", data: []byte("definitely not a png")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t)
			token := srv.signup(t, "alice", "a@x.com", "pw1")

			body, ct := multipartBody(t, map[string]string{"title": "Hi", "content": "hello"}, tt.img)
			rr := srv.do(t, http.MethodPost, "/posts", token, body, ct)
			assert.Equal(t, http.StatusInternalServerError, rr.Code)
			assert.Contains(t, rr.Body.String(), "image upload failed")

			rr = srv.do(t, http.MethodGet, "/posts", "", nil, "")
			require.Equal(t, http.StatusOK, rr.Code)
			assert.JSONEq(t, `[]`, rr.Body.String())
			assert.Equal(t, 0, srv.store.Len())
		})
	}
}

func TestScenario_ListNewestFirst(t *testing.T) {
	srv := newServer(t)
	token := srv.signup(t, "alice", "a@x.com", "pw1")

	for _, title := range []string{"first", "second"} {
		body, ct := multipartBody(t, map[string]string{"title": title, "content": "c"}, nil)
		require.Equal(t, http.StatusCreated, srv.do(t, http.MethodPost, "/posts", token, body, ct).Code)
		time.Sleep(2 * time.Millisecond)
	}

	rr := srv.do(t, http.MethodGet, "/posts", "", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var list []article.DTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Title)
	assert.Equal(t, "first", list[1].Title)
}
