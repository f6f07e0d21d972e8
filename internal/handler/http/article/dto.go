// Package article provides HTTP handlers for the /posts endpoints.
// Reads are public; create, update and delete sit behind the bearer gate.
package article

import (
	"time"

	"postboard/internal/repository"
)

// AuthorDTO is the public identity shown on an article.
type AuthorDTO struct {
	ID     string `json:"id" example:"0b5c3f0e-3f4e-4f5a-9d55-6f1c2a9f1e11"`
	Handle string `json:"handle" example:"alice"`
}

// DTO represents the JSON structure for article data transfer.
type DTO struct {
	ID        string    `json:"id" example:"7d2a4f7c-1b9e-4c1e-8f0a-3e5b6c7d8e9f"`
	Title     string    `json:"title" example:"Hi"`
	Subtitle  string    `json:"subtitle" example:"first post"`
	Content   string    `json:"content" example:"Hello, world."`
	ImageURL  string    `json:"image_url" example:"https://images.example.com/articles/1704110400000-3f9a.jpg"`
	Author    AuthorDTO `json:"author"`
	CreatedAt time.Time `json:"created_at" example:"2024-01-01T12:00:00Z"`
	UpdatedAt time.Time `json:"updated_at" example:"2024-01-01T12:00:00Z"`
}

type messageResponse struct {
	Message string `json:"message" example:"article deleted"`
}

// NewDTO converts an article joined with its owner handle.
func NewDTO(v repository.ArticleWithOwner) DTO {
	a := v.Article
	return DTO{
		ID:        a.ID,
		Title:     a.Title,
		Subtitle:  a.Subtitle,
		Content:   a.Body,
		ImageURL:  a.ImageURL,
		Author:    AuthorDTO{ID: a.OwnerID, Handle: v.OwnerHandle},
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
