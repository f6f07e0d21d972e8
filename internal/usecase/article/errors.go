// Package article implements the article lifecycle: create, read, list,
// update and delete, with single-owner authorization on mutations.
package article

import "errors"

// Sentinel errors for article use case operations.
var (
	// ErrArticleNotFound indicates that the requested article was not found.
	ErrArticleNotFound = errors.New("article not found")

	// ErrInvalidArticleID indicates that the provided article ID is not a UUID.
	ErrInvalidArticleID = errors.New("invalid article ID")

	// ErrForbidden is returned when a caller mutates an article they do not own.
	ErrForbidden = errors.New("only the owner can modify this article")
)
