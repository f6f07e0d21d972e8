// Package media validates image uploads, normalizes them to JPEG and hands
// them to an object store.
package media

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"log/slog"
	"strings"
	"time"

	// decoders accepted on upload
	_ "image/gif"
	_ "image/png"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"postboard/internal/resilience/circuitbreaker"
)

const (
	// MaxImageBytes is the largest accepted upload.
	MaxImageBytes = 5 << 20

	// MaxImagePixels bounds width*height before a full decode.
	MaxImagePixels = 40_000_000

	DefaultFolder = "articles"
	jpegQuality   = 85
)

var tracer = otel.Tracer("postboard/media")

// ObjectStore hosts uploaded objects at public URLs.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	// KeyFromURL maps a URL returned by Put back to its key.
	KeyFromURL(url string) (string, bool)
}

// Options tunes an Uploader. Zero values select the defaults.
type Options struct {
	Folder  string
	Breaker *circuitbreaker.CircuitBreaker
	Logger  *slog.Logger
	Now     func() time.Time
}

// Uploader is safe for concurrent use.
type Uploader struct {
	store   ObjectStore
	folder  string
	breaker *circuitbreaker.CircuitBreaker
	logger  *slog.Logger
	now     func() time.Time
}

func NewUploader(store ObjectStore, opts Options) *Uploader {
	u := &Uploader{
		store:   store,
		folder:  strings.Trim(opts.Folder, "/"),
		breaker: opts.Breaker,
		logger:  opts.Logger,
		now:     opts.Now,
	}
	if u.folder == "" {
		u.folder = DefaultFolder
	}
	if u.breaker == nil {
		u.breaker = circuitbreaker.New(circuitbreaker.ObjectStoreConfig())
	}
	if u.logger == nil {
		u.logger = slog.Default()
	}
	if u.now == nil {
		u.now = time.Now
	}
	return u
}

// Upload validates data, re-encodes it as JPEG and stores it under a fresh
// key. Every call creates a new object; failures are never retried.
func (u *Uploader) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	ctx, span := tracer.Start(ctx, "media.Upload",
		trace.WithAttributes(
			attribute.String("content.type", contentType),
			attribute.Int("content.size", len(data)),
		),
	)
	defer span.End()

	normalized, err := normalize(data, contentType)
	if err != nil {
		recordUpload(resultRejected, 0)
		span.RecordError(err)
		span.SetStatus(codes.Error, "image rejected")
		return "", err
	}

	key, err := u.newKey()
	if err != nil {
		recordUpload(resultProviderError, 0)
		span.RecordError(err)
		span.SetStatus(codes.Error, "key generation failed")
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	span.SetAttributes(attribute.String("object.key", key))

	var url string
	err = u.breaker.Run(func() error {
		var putErr error
		url, putErr = u.store.Put(ctx, key, normalized, "image/jpeg")
		return putErr
	})
	if err != nil {
		recordUpload(resultProviderError, 0)
		span.RecordError(err)
		span.SetStatus(codes.Error, "object store put failed")
		u.logger.ErrorContext(ctx, "image upload failed",
			slog.String("key", key),
			slog.Any("error", err))
		return "", fmt.Errorf("%w: %w", ErrUpload, err)
	}

	recordUpload(resultSuccess, len(normalized))
	span.SetStatus(codes.Ok, "image stored")
	u.logger.InfoContext(ctx, "image uploaded",
		slog.String("key", key),
		slog.Int("bytes", len(normalized)))
	return url, nil
}

// Delete removes an object previously returned by Upload. Empty and foreign
// URLs are ignored.
func (u *Uploader) Delete(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	key, ok := u.store.KeyFromURL(url)
	if !ok {
		u.logger.DebugContext(ctx, "skipping delete of foreign image url", slog.String("url", url))
		return nil
	}

	ctx, span := tracer.Start(ctx, "media.Delete", trace.WithAttributes(attribute.String("object.key", key)))
	defer span.End()

	if err := u.breaker.Run(func() error { return u.store.Delete(ctx, key) }); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "object store delete failed")
		return fmt.Errorf("delete image %s: %w", key, err)
	}
	return nil
}

// normalize runs the pre-upload checks and returns the JPEG re-encoding.
func normalize(data []byte, contentType string) ([]byte, error) {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/") {
		return nil, ErrNotImage
	}
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	if len(data) > MaxImageBytes {
		return nil, ErrTooLarge
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > MaxImagePixels {
		return nil, ErrTooLarge
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	// JPEG has no alpha channel; flatten onto white.
	b := img.Bounds()
	flat := image.NewRGBA(b)
	draw.Draw(flat, b, &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(flat, b, img, b.Min, draw.Over)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return buf.Bytes(), nil
}

// newKey returns <folder>/<unix-millis>-<16 hex chars>.jpg.
func (u *Uploader) newKey() (string, error) {
	var rnd [8]byte
	if _, err := rand.Read(rnd[:]); err != nil {
		return "", fmt.Errorf("random key suffix: %w", err)
	}
	return fmt.Sprintf("%s/%d-%s.jpg", u.folder, u.now().UnixMilli(), hex.EncodeToString(rnd[:])), nil
}
