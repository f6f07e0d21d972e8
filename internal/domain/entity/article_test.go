package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArticle_IsOwnedBy(t *testing.T) {
	article := Article{ID: "a1", OwnerID: "u1"}

	assert.True(t, article.IsOwnedBy("u1"))
	assert.False(t, article.IsOwnedBy("u2"))
	assert.False(t, article.IsOwnedBy(""))

	var orphan Article
	assert.False(t, orphan.IsOwnedBy(""), "empty owner never matches")
}

func TestArticle_HasImage(t *testing.T) {
	assert.False(t, (&Article{}).HasImage())
	assert.True(t, (&Article{ImageURL: "https://cdn.example.com/articles/1.jpg"}).HasImage())
}
