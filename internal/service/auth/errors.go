package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated is the class of every token failure.
	ErrUnauthenticated = errors.New("unauthenticated")

	ErrInvalidToken = fmt.Errorf("%w: invalid token", ErrUnauthenticated)
	ErrExpiredToken = fmt.Errorf("%w: token expired", ErrUnauthenticated)

	// ErrInvalidCredentials is returned for both an unknown email and a wrong
	// password so callers cannot tell which one failed.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrUserNotFound = errors.New("user not found")

	ErrEmptySecret = errors.New("token signing secret must be set")
)
