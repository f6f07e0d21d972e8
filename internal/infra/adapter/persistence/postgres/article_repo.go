package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"postboard/internal/domain/entity"
	"postboard/internal/repository"
)

type ArticleRepo struct {
	db  DBTX
	now func() time.Time
}

func NewArticleRepo(db DBTX) repository.ArticleRepository {
	return &ArticleRepo{db: db, now: time.Now}
}

func (repo *ArticleRepo) ListWithOwner(ctx context.Context) ([]repository.ArticleWithOwner, error) {
	const query = `
SELECT a.id, a.owner_id, a.title, a.subtitle, a.body, a.image_url, a.created_at, a.updated_at, u.handle
FROM articles a
INNER JOIN users u ON a.owner_id = u.id
ORDER BY a.created_at DESC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListWithOwner: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]repository.ArticleWithOwner, 0, 64)
	for rows.Next() {
		var article entity.Article
		var handle string
		if err := rows.Scan(&article.ID, &article.OwnerID, &article.Title, &article.Subtitle,
			&article.Body, &article.ImageURL, &article.CreatedAt, &article.UpdatedAt, &handle); err != nil {
			return nil, fmt.Errorf("ListWithOwner: Scan: %w", err)
		}
		result = append(result, repository.ArticleWithOwner{
			Article:     &article,
			OwnerHandle: handle,
		})
	}
	return result, rows.Err()
}

func (repo *ArticleRepo) Get(ctx context.Context, id string) (*entity.Article, error) {
	const query = `
SELECT id, owner_id, title, subtitle, body, image_url, created_at, updated_at
FROM articles
WHERE id = $1
LIMIT 1`
	var article entity.Article
	err := repo.db.QueryRowContext(ctx, query, id).
		Scan(&article.ID, &article.OwnerID, &article.Title, &article.Subtitle,
			&article.Body, &article.ImageURL, &article.CreatedAt, &article.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &article, nil
}

func (repo *ArticleRepo) GetWithOwner(ctx context.Context, id string) (*entity.Article, string, error) {
	const query = `
SELECT a.id, a.owner_id, a.title, a.subtitle, a.body, a.image_url, a.created_at, a.updated_at, u.handle
FROM articles a
INNER JOIN users u ON a.owner_id = u.id
WHERE a.id = $1
LIMIT 1`
	var article entity.Article
	var handle string
	err := repo.db.QueryRowContext(ctx, query, id).
		Scan(&article.ID, &article.OwnerID, &article.Title, &article.Subtitle,
			&article.Body, &article.ImageURL, &article.CreatedAt, &article.UpdatedAt, &handle)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("GetWithOwner: %w", err)
	}
	return &article, handle, nil
}

func (repo *ArticleRepo) Create(ctx context.Context, article *entity.Article) error {
	const query = `
INSERT INTO articles (id, owner_id, title, subtitle, body, image_url, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if article.ID == "" {
		article.ID = uuid.NewString()
	}
	if article.CreatedAt.IsZero() {
		article.CreatedAt = repo.now().UTC()
	}
	if article.UpdatedAt.IsZero() {
		article.UpdatedAt = article.CreatedAt
	}
	_, err := repo.db.ExecContext(ctx, query,
		article.ID, article.OwnerID, article.Title, article.Subtitle,
		article.Body, article.ImageURL, article.CreatedAt, article.UpdatedAt)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *ArticleRepo) Update(ctx context.Context, article *entity.Article) error {
	const query = `
UPDATE articles
SET title = $1, subtitle = $2, body = $3, image_url = $4, updated_at = $5
WHERE id = $6`
	res, err := repo.db.ExecContext(ctx, query,
		article.Title, article.Subtitle, article.Body, article.ImageURL,
		article.UpdatedAt, article.ID)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Update: RowsAffected: %w", err)
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (repo *ArticleRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM articles WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: RowsAffected: %w", err)
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}
