package article

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"postboard/internal/domain/entity"
	"postboard/internal/observability/metrics"
	"postboard/internal/repository"
	authservice "postboard/internal/service/auth"
	"postboard/internal/usecase/media"
)

// ImageUploader stores image buffers and removes stored images.
type ImageUploader interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// ImageInput is an image buffer attached to a write.
type ImageInput struct {
	Data        []byte
	ContentType string
}

// CreateInput represents the input parameters for creating a new article.
type CreateInput struct {
	Title    string
	Subtitle string
	Body     string
	Image    *ImageInput
}

// UpdateInput replaces the text fields of an article. A nil Image keeps the
// stored image reference unchanged.
type UpdateInput struct {
	Title    string
	Subtitle string
	Body     string
	Image    *ImageInput
}

// Service provides article management use cases.
// Every mutation runs validate, authorize, upload, persist in that order.
type Service struct {
	Repo   repository.ArticleRepository
	Users  repository.UserRepository
	Media  ImageUploader
	Logger *slog.Logger
	Now    func() time.Time
}

// List returns every article, newest first, with owner handles.
func (s *Service) List(ctx context.Context) ([]repository.ArticleWithOwner, error) {
	articles, err := s.Repo.ListWithOwner(ctx)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return articles, nil
}

// Get retrieves a single article by its ID along with the owner's handle.
// Returns ErrInvalidArticleID if the ID is not a UUID.
// Returns ErrArticleNotFound if the article does not exist.
func (s *Service) Get(ctx context.Context, id string) (repository.ArticleWithOwner, error) {
	if err := validateID(id); err != nil {
		return repository.ArticleWithOwner{}, err
	}
	art, handle, err := s.Repo.GetWithOwner(ctx, id)
	if err != nil {
		return repository.ArticleWithOwner{}, fmt.Errorf("get article: %w", err)
	}
	if art == nil {
		return repository.ArticleWithOwner{}, ErrArticleNotFound
	}
	return repository.ArticleWithOwner{Article: art, OwnerHandle: handle}, nil
}

// Create persists a new article owned by the caller. When an image is
// attached it is uploaded first; an upload failure writes nothing.
func (s *Service) Create(ctx context.Context, claims *authservice.Claims, in CreateInput) (_ repository.ArticleWithOwner, err error) {
	defer func() { recordOutcome("create", err) }()
	if claims == nil || claims.UserID == "" {
		return repository.ArticleWithOwner{}, authservice.ErrUnauthenticated
	}
	title, subtitle, body := normalizeText(in.Title, in.Subtitle, in.Body)
	if err := entity.ValidateArticleContent(title, subtitle, body); err != nil {
		return repository.ArticleWithOwner{}, err
	}

	owner, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		return repository.ArticleWithOwner{}, fmt.Errorf("load owner: %w", err)
	}
	if owner == nil {
		return repository.ArticleWithOwner{}, fmt.Errorf("%w: token owner no longer exists", authservice.ErrUnauthenticated)
	}

	imageURL := ""
	if in.Image != nil {
		imageURL, err = s.Media.Upload(ctx, in.Image.Data, in.Image.ContentType)
		if err != nil {
			return repository.ArticleWithOwner{}, fmt.Errorf("upload image: %w", err)
		}
	}

	now := s.now()
	art := &entity.Article{
		OwnerID:   owner.ID,
		Title:     title,
		Subtitle:  subtitle,
		Body:      body,
		ImageURL:  imageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, art); err != nil {
		s.cleanupImage(ctx, imageURL, "create failed")
		return repository.ArticleWithOwner{}, fmt.Errorf("create article: %w", err)
	}

	s.logger().InfoContext(ctx, "article created",
		slog.String("article_id", art.ID),
		slog.String("owner_id", art.OwnerID),
		slog.Bool("has_image", art.HasImage()))
	return repository.ArticleWithOwner{Article: art, OwnerHandle: owner.Handle}, nil
}

// Update rewrites an article the caller owns.
// Returns ErrArticleNotFound if absent and ErrForbidden for a non-owner.
// On upload failure the stored article is left untouched.
func (s *Service) Update(ctx context.Context, claims *authservice.Claims, id string, in UpdateInput) (_ repository.ArticleWithOwner, err error) {
	defer func() { recordOutcome("update", err) }()
	if claims == nil || claims.UserID == "" {
		return repository.ArticleWithOwner{}, authservice.ErrUnauthenticated
	}
	if err := validateID(id); err != nil {
		return repository.ArticleWithOwner{}, err
	}
	title, subtitle, body := normalizeText(in.Title, in.Subtitle, in.Body)
	if err := entity.ValidateArticleContent(title, subtitle, body); err != nil {
		return repository.ArticleWithOwner{}, err
	}

	art, handle, err := s.Repo.GetWithOwner(ctx, id)
	if err != nil {
		return repository.ArticleWithOwner{}, fmt.Errorf("get article: %w", err)
	}
	if art == nil {
		return repository.ArticleWithOwner{}, ErrArticleNotFound
	}
	if !art.IsOwnedBy(claims.UserID) {
		return repository.ArticleWithOwner{}, ErrForbidden
	}

	previousImage := art.ImageURL
	if in.Image != nil {
		url, err := s.Media.Upload(ctx, in.Image.Data, in.Image.ContentType)
		if err != nil {
			return repository.ArticleWithOwner{}, fmt.Errorf("upload image: %w", err)
		}
		art.ImageURL = url
	}

	art.Title = title
	art.Subtitle = subtitle
	art.Body = body
	art.UpdatedAt = s.now()

	if err := s.Repo.Update(ctx, art); err != nil {
		if in.Image != nil {
			s.cleanupImage(ctx, art.ImageURL, "update failed")
		}
		if errors.Is(err, entity.ErrNotFound) {
			return repository.ArticleWithOwner{}, ErrArticleNotFound
		}
		return repository.ArticleWithOwner{}, fmt.Errorf("update article: %w", err)
	}

	if in.Image != nil && previousImage != "" && previousImage != art.ImageURL {
		s.cleanupImage(ctx, previousImage, "image replaced")
	}

	s.logger().InfoContext(ctx, "article updated",
		slog.String("article_id", art.ID),
		slog.Bool("image_replaced", in.Image != nil))
	return repository.ArticleWithOwner{Article: art, OwnerHandle: handle}, nil
}

// Delete removes an article the caller owns, then removes its image on a
// best-effort basis.
func (s *Service) Delete(ctx context.Context, claims *authservice.Claims, id string) (err error) {
	defer func() { recordOutcome("delete", err) }()
	if claims == nil || claims.UserID == "" {
		return authservice.ErrUnauthenticated
	}
	if err := validateID(id); err != nil {
		return err
	}

	art, err := s.Repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get article: %w", err)
	}
	if art == nil {
		return ErrArticleNotFound
	}
	if !art.IsOwnedBy(claims.UserID) {
		return ErrForbidden
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrArticleNotFound
		}
		return fmt.Errorf("delete article: %w", err)
	}

	s.cleanupImage(ctx, art.ImageURL, "article deleted")
	s.logger().InfoContext(ctx, "article deleted", slog.String("article_id", id))
	return nil
}

// cleanupImage never fails the caller; errors are only logged.
func (s *Service) cleanupImage(ctx context.Context, url, reason string) {
	if url == "" || s.Media == nil {
		return
	}
	if err := s.Media.Delete(ctx, url); err != nil {
		s.logger().WarnContext(ctx, "image cleanup failed",
			slog.String("image_url", url),
			slog.String("reason", reason),
			slog.Any("error", err))
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// recordOutcome counts a finished mutation by its error class.
func recordOutcome(op string, err error) {
	var vErr *entity.ValidationError
	result := metrics.ResultSuccess
	switch {
	case err == nil:
	case errors.As(err, &vErr), errors.Is(err, ErrInvalidArticleID), errors.Is(err, authservice.ErrUnauthenticated):
		result = metrics.ResultRejected
	case errors.Is(err, ErrForbidden):
		result = metrics.ResultForbidden
	case errors.Is(err, ErrArticleNotFound):
		result = metrics.ResultNotFound
	case errors.Is(err, media.ErrUpload):
		result = metrics.ResultUploadFailed
	default:
		result = metrics.ResultError
	}
	metrics.RecordArticleOperation(op, result)
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidArticleID
	}
	return nil
}

func normalizeText(title, subtitle, body string) (string, string, string) {
	return strings.TrimSpace(title), strings.TrimSpace(subtitle), strings.TrimSpace(body)
}
