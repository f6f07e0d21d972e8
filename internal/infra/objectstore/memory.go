package objectstore

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// DefaultMemoryBaseURL is the path MemoryStore objects are served under.
const DefaultMemoryBaseURL = "/media"

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryStore keeps objects in a map. It also serves them over HTTP so the
// returned URLs resolve when the API is run without S3.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	baseURL string
	// basePath is the path component of baseURL, matched by ServeHTTP.
	basePath string
}

// NewMemoryStore returns an empty store whose URLs start with baseURL.
func NewMemoryStore(baseURL string) *MemoryStore {
	if baseURL == "" {
		baseURL = DefaultMemoryBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	basePath := baseURL
	if u, err := url.Parse(baseURL); err == nil {
		basePath = strings.TrimRight(u.Path, "/")
	}
	return &MemoryStore{
		objects:  make(map[string]memoryObject),
		baseURL:  baseURL,
		basePath: basePath,
	}
}

func (m *MemoryStore) Put(_ context.Context, key string, body []byte, contentType string) (string, error) {
	data := make([]byte, len(body))
	copy(data, body)

	m.mu.Lock()
	m.objects[key] = memoryObject{data: data, contentType: contentType}
	m.mu.Unlock()
	return m.baseURL + "/" + key, nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) KeyFromURL(rawURL string) (string, bool) {
	return keyFromURL(m.baseURL, rawURL)
}

// BasePath is the URL path prefix ServeHTTP expects to be mounted on.
func (m *MemoryStore) BasePath() string { return m.basePath }

func (m *MemoryStore) HealthCheck(context.Context) error { return nil }

// Get returns a copy of the object stored under key.
func (m *MemoryStore) Get(key string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, "", false
	}
	data := make([]byte, len(obj.data))
	copy(data, obj.data)
	return data, obj.contentType, true
}

// Len returns the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

// ServeHTTP serves GET requests for BasePath() + "/" + key.
func (m *MemoryStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	key, ok := keyFromURL(m.basePath, r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	data, contentType, ok := m.Get(key)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodGet {
		_, _ = w.Write(data)
	}
}
