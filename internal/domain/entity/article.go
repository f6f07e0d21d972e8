// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects, User and Article, along with
// their validation rules and domain-specific errors.
package entity

import "time"

// Article is a short text post with an optional hosted image.
// OwnerID is set on creation and never changes afterwards.
type Article struct {
	ID        string
	OwnerID   string
	Title     string
	Subtitle  string
	Body      string
	ImageURL  string // empty means no image
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOwnedBy reports whether userID is the article's owner.
func (a *Article) IsOwnedBy(userID string) bool {
	return a.OwnerID != "" && a.OwnerID == userID
}

// HasImage reports whether an image reference is stored for the article.
func (a *Article) HasImage() bool {
	return a.ImageURL != ""
}
