package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"postboard/internal/resilience/circuitbreaker"
)

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	deleted []string
	putErr  error
	delErr  error
	puts    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeStore) Put(_ context.Context, key string, body []byte, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.putErr != nil {
		return "", f.putErr
	}
	f.objects[key] = body
	f.types[key] = contentType
	return "https://cdn.test/" + key, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, key)
	delete(f.objects, key)
	return nil
}

func (f *fakeStore) KeyFromURL(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, "https://cdn.test/")
	return key, ok && key != ""
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 128})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestUploader(store ObjectStore) *Uploader {
	cfg := circuitbreaker.ObjectStoreConfig()
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewUploader(store, Options{
		Breaker: circuitbreaker.New(cfg),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:     func() time.Time { return time.UnixMilli(1_700_000_000_123) },
	})
}

func TestUploader_Upload_NormalizesToJPEG(t *testing.T) {
	store := newFakeStore()
	u := newTestUploader(store)

	before := testutil.ToFloat64(uploadsTotal.WithLabelValues(resultSuccess))

	url, err := u.Upload(context.Background(), pngBytes(t, 32, 16), "image/png")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^https://cdn\.test/articles/1700000000123-[0-9a-f]{16}\.jpg$`), url)

	key, _ := store.KeyFromURL(url)
	assert.Equal(t, "image/jpeg", store.types[key])

	img, err := jpeg.Decode(bytes.NewReader(store.objects[key]))
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 16, img.Bounds().Dy())

	assert.Equal(t, before+1, testutil.ToFloat64(uploadsTotal.WithLabelValues(resultSuccess)))
}

// losslessWebP is a 1x1 VP8L image.
const losslessWebP = "UklGRhoAAABXRUJQVlA4TA0AAAAvAAAAEAcQERGIiP4HAA=="

func TestUploader_Upload_AcceptedFormats(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 6, 3))
	for x := 0; x < 6; x++ {
		for y := 0; y < 3; y++ {
			src.Set(x, y, color.RGBA{R: uint8(40 * x), G: uint8(80 * y), B: 90, A: 255})
		}
	}
	encode := func(fn func(*bytes.Buffer) error) []byte {
		var buf bytes.Buffer
		require.NoError(t, fn(&buf))
		return buf.Bytes()
	}
	webp, err := base64.StdEncoding.DecodeString(losslessWebP)
	require.NoError(t, err)

	tests := []struct {
		name        string
		data        []byte
		contentType string
		width       int
	}{
		{name: "png", data: pngBytes(t, 6, 3), contentType: "image/png", width: 6},
		{name: "jpeg", data: encode(func(b *bytes.Buffer) error { return jpeg.Encode(b, src, nil) }), contentType: "image/jpeg", width: 6},
		{name: "gif", data: encode(func(b *bytes.Buffer) error { return gif.Encode(b, src, nil) }), contentType: "image/gif", width: 6},
		{name: "bmp", data: encode(func(b *bytes.Buffer) error { return bmp.Encode(b, src) }), contentType: "image/bmp", width: 6},
		{name: "tiff", data: encode(func(b *bytes.Buffer) error { return tiff.Encode(b, src, nil) }), contentType: "image/tiff", width: 6},
		{name: "webp", data: webp, contentType: "image/webp", width: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			u := newTestUploader(store)

			url, err := u.Upload(context.Background(), tt.data, tt.contentType)
			require.NoError(t, err)
			assert.True(t, strings.HasSuffix(url, ".jpg"))

			key, _ := store.KeyFromURL(url)
			assert.Equal(t, "image/jpeg", store.types[key])
			img, err := jpeg.Decode(bytes.NewReader(store.objects[key]))
			require.NoError(t, err)
			assert.Equal(t, tt.width, img.Bounds().Dx())
		})
	}
}

func TestUploader_Upload_UniqueKeys(t *testing.T) {
	store := newFakeStore()
	u := newTestUploader(store)
	data := pngBytes(t, 4, 4)

	a, err := u.Upload(context.Background(), data, "image/png")
	require.NoError(t, err)
	b, err := u.Upload(context.Background(), data, "image/png")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, store.objects, 2)
}

func TestUploader_Upload_Rejections(t *testing.T) {
	valid := pngBytes(t, 4, 4)

	tests := []struct {
		name        string
		data        []byte
		contentType string
		want        error
	}{
		{name: "not an image type", data: valid, contentType: "text/plain", want: ErrNotImage},
		{name: "missing type", data: valid, contentType: "", want: ErrNotImage},
		{name: "empty buffer", data: nil, contentType: "image/png", want: ErrEmptyImage},
		{name: "over 5 MiB", data: make([]byte, MaxImageBytes+1), contentType: "image/png", want: ErrTooLarge},
		{name: "garbage bytes", data: []byte("definitely not a png"), contentType: "image/png", want: ErrDecode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			u := newTestUploader(store)

			_, err := u.Upload(context.Background(), tt.data, tt.contentType)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrUpload)
			assert.Zero(t, store.puts, "store must not be contacted")
		})
	}
}

func TestUploader_Upload_SizeLimitIsInclusive(t *testing.T) {
	// 5 MiB of bytes is not rejected by the size check; it fails decoding instead.
	u := newTestUploader(newFakeStore())
	_, err := u.Upload(context.Background(), make([]byte, MaxImageBytes), "image/jpeg")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestUploader_Upload_ProviderFailure(t *testing.T) {
	cause := errors.New("quota exceeded")
	store := newFakeStore()
	store.putErr = cause
	u := newTestUploader(store)

	url, err := u.Upload(context.Background(), pngBytes(t, 4, 4), "image/png")
	assert.Empty(t, url)
	assert.ErrorIs(t, err, ErrUpload)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, store.puts, "no retry")
}

func TestUploader_Delete(t *testing.T) {
	store := newFakeStore()
	u := newTestUploader(store)

	url, err := u.Upload(context.Background(), pngBytes(t, 4, 4), "image/png")
	require.NoError(t, err)

	require.NoError(t, u.Delete(context.Background(), url))
	assert.Empty(t, store.objects)

	assert.NoError(t, u.Delete(context.Background(), ""))
	assert.NoError(t, u.Delete(context.Background(), "https://elsewhere.test/x.jpg"))
	assert.Len(t, store.deleted, 1)
}

func TestUploader_Delete_Failure(t *testing.T) {
	store := newFakeStore()
	store.delErr = errors.New("network down")
	u := newTestUploader(store)

	err := u.Delete(context.Background(), "https://cdn.test/articles/x.jpg")
	assert.ErrorIs(t, err, store.delErr)
}

func TestNewUploader_Defaults(t *testing.T) {
	u := NewUploader(newFakeStore(), Options{Folder: "/covers/"})
	assert.Equal(t, "covers", u.folder)
	assert.NotNil(t, u.breaker)
	assert.NotNil(t, u.logger)

	u = NewUploader(newFakeStore(), Options{})
	assert.Equal(t, DefaultFolder, u.folder)
}
