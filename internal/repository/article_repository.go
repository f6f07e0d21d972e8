// Package repository declares the persistence ports used by the use cases.
// Implementations live under internal/infra/adapter/persistence.
package repository

import (
	"context"

	"postboard/internal/domain/entity"
)

// ArticleWithOwner is an article joined with its owner's public handle.
type ArticleWithOwner struct {
	Article     *entity.Article
	OwnerHandle string
}

// ArticleRepository persists articles. Each call is atomic at the store level;
// no optimistic concurrency control is applied, so concurrent updates are
// last-write-wins.
type ArticleRepository interface {
	// ListWithOwner returns every article ordered by created_at DESC.
	ListWithOwner(ctx context.Context) ([]ArticleWithOwner, error)
	// Get returns (nil, nil) when the article does not exist.
	Get(ctx context.Context, id string) (*entity.Article, error)
	// GetWithOwner returns (nil, "", nil) when the article does not exist.
	GetWithOwner(ctx context.Context, id string) (*entity.Article, string, error)
	// Create assigns ID and timestamps to article when they are empty.
	Create(ctx context.Context, article *entity.Article) error
	// Update rewrites title, subtitle, body, image_url and updated_at.
	// The owner column is never touched.
	Update(ctx context.Context, article *entity.Article) error
	// Delete reports entity.ErrNotFound when no row was removed.
	Delete(ctx context.Context, id string) error
}
