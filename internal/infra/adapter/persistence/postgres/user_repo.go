package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"postboard/internal/domain/entity"
	"postboard/internal/repository"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

type UserRepo struct {
	db  DBTX
	now func() time.Time
}

func NewUserRepo(db DBTX) repository.UserRepository {
	return &UserRepo{db: db, now: time.Now}
}

func (repo *UserRepo) Create(ctx context.Context, user *entity.User) error {
	const query = `
INSERT INTO users (id, handle, email, password_hash, created_at)
VALUES ($1, $2, $3, $4, $5)`
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = repo.now().UTC()
	}
	_, err := repo.db.ExecContext(ctx, query,
		user.ID, user.Handle, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		// the pre-check in the service can race; the constraint is authoritative
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicateUser
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	const query = `
SELECT id, handle, email, password_hash, created_at
FROM users
WHERE id = $1
LIMIT 1`
	return repo.getOne(ctx, "GetByID", query, id)
}

func (repo *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	const query = `
SELECT id, handle, email, password_hash, created_at
FROM users
WHERE email = $1
LIMIT 1`
	return repo.getOne(ctx, "GetByEmail", query, email)
}

func (repo *UserRepo) getOne(ctx context.Context, op, query string, arg string) (*entity.User, error) {
	var user entity.User
	err := repo.db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Handle, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

func (repo *UserRepo) ExistsByHandleOrEmail(ctx context.Context, handle, email string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM users WHERE handle = $1 OR email = $2)`
	var exists bool
	if err := repo.db.QueryRowContext(ctx, query, handle, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("ExistsByHandleOrEmail: %w", err)
	}
	return exists, nil
}
