package entity

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinHandleLength   = 3
	MaxHandleLength   = 32
	MaxEmailLength    = 254
	MaxPasswordLength = 72 // bcrypt ignores bytes past 72
	MaxTitleLength    = 200
	MaxSubtitleLength = 300
	MaxBodyLength     = 20000
)

var handlePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// NormalizeEmail lowercases and trims an address so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateHandle checks the public handle of a user.
func ValidateHandle(handle string) error {
	n := utf8.RuneCountInString(handle)
	if n == 0 {
		return &ValidationError{Field: "handle", Message: "is required"}
	}
	if n < MinHandleLength || n > MaxHandleLength {
		return &ValidationError{
			Field:   "handle",
			Message: fmt.Sprintf("must be between %d and %d characters", MinHandleLength, MaxHandleLength),
		}
	}
	if !handlePattern.MatchString(handle) {
		return &ValidationError{Field: "handle", Message: "must be made of letters, digits, '_', '.' or '-'"}
	}
	return nil
}

// ValidateEmail checks that email is a bare RFC 5322 address.
func ValidateEmail(email string) error {
	if email == "" {
		return &ValidationError{Field: "email", Message: "is required"}
	}
	if len(email) > MaxEmailLength {
		return &ValidationError{Field: "email", Message: "is too long"}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return &ValidationError{Field: "email", Message: "is invalid"}
	}
	return nil
}

// ValidatePassword checks the plaintext password before hashing.
func ValidatePassword(password string, minLength int) error {
	if password == "" {
		return &ValidationError{Field: "password", Message: "is required"}
	}
	if len(password) < minLength {
		return &ValidationError{Field: "password", Message: fmt.Sprintf("must be at least %d characters", minLength)}
	}
	if len(password) > MaxPasswordLength {
		return &ValidationError{Field: "password", Message: fmt.Sprintf("must be at most %d bytes", MaxPasswordLength)}
	}
	return nil
}

// ValidateArticleContent checks the text fields of an article.
func ValidateArticleContent(title, subtitle, body string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Message: "is required"}
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return &ValidationError{Field: "title", Message: fmt.Sprintf("must be at most %d characters", MaxTitleLength)}
	}
	if utf8.RuneCountInString(subtitle) > MaxSubtitleLength {
		return &ValidationError{Field: "subtitle", Message: fmt.Sprintf("must be at most %d characters", MaxSubtitleLength)}
	}
	if strings.TrimSpace(body) == "" {
		return &ValidationError{Field: "content", Message: "is required"}
	}
	if utf8.RuneCountInString(body) > MaxBodyLength {
		return &ValidationError{Field: "content", Message: fmt.Sprintf("must be at most %d characters", MaxBodyLength)}
	}
	return nil
}
