package repository

import (
	"context"
	"errors"

	"postboard/internal/domain/entity"
)

// ErrDuplicateUser is returned by Create when the handle or email is taken.
var ErrDuplicateUser = errors.New("user with this handle or email already exists")

// UserRepository persists identities. Lookups return (nil, nil) when absent.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// ExistsByHandleOrEmail reports whether either value is already registered.
	ExistsByHandleOrEmail(ctx context.Context, handle, email string) (bool, error)
}
