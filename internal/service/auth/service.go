// Package auth implements password hashing, bearer token issuing and the
// signup/login flows on top of the user repository.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"postboard/internal/domain/entity"
	"postboard/internal/repository"
)

// SignupInput is the raw registration request.
type SignupInput struct {
	Handle   string
	Email    string
	Password string
}

// Service runs the identity flows. It holds no session state; a token is the
// whole session and logout is a client-side discard.
type Service struct {
	Users             repository.UserRepository
	Hasher            *PasswordHasher
	Tokens            *TokenManager
	MinPasswordLength int
	Logger            *slog.Logger

	dummyOnce sync.Once
	dummy     string
}

// NewService wires a Service with its collaborators.
func NewService(users repository.UserRepository, hasher *PasswordHasher, tokens *TokenManager, minPassword int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Users:             users,
		Hasher:            hasher,
		Tokens:            tokens,
		MinPasswordLength: minPassword,
		Logger:            logger,
	}
}

// Signup registers a new identity and returns it with a fresh token.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*entity.User, string, error) {
	handle := strings.TrimSpace(in.Handle)
	email := entity.NormalizeEmail(in.Email)

	if err := entity.ValidateHandle(handle); err != nil {
		return nil, "", err
	}
	if err := entity.ValidateEmail(email); err != nil {
		return nil, "", err
	}
	if err := entity.ValidatePassword(in.Password, s.MinPasswordLength); err != nil {
		return nil, "", err
	}

	exists, err := s.Users.ExistsByHandleOrEmail(ctx, handle, email)
	if err != nil {
		return nil, "", fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		return nil, "", repository.ErrDuplicateUser
	}

	digest, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, "", err
	}

	user := &entity.User{Handle: handle, Email: email, PasswordHash: digest}
	if err := s.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.Tokens.Issue(user.ID, user.Handle)
	if err != nil {
		return nil, "", err
	}

	s.Logger.Info("user registered", slog.String("user_id", user.ID), slog.String("handle", user.Handle))
	return user, token, nil
}

// Login exchanges email and password for a token.
func (s *Service) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	email = entity.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		// keep the response time close to the known-email path
		s.Hasher.Verify(password, s.dummyDigest())
		return nil, "", ErrInvalidCredentials
	}
	if !s.Hasher.Verify(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(user.ID, user.Handle)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Verify resolves the identity behind already-verified claims.
func (s *Service) Verify(ctx context.Context, claims *Claims) (*entity.User, error) {
	if claims == nil || claims.UserID == "" {
		return nil, ErrUnauthenticated
	}
	user, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *Service) dummyDigest() string {
	s.dummyOnce.Do(func() {
		d, err := s.Hasher.Hash("postboard-timing-equalizer")
		if err != nil {
			s.Logger.Warn("dummy digest generation failed", slog.Any("error", err))
		}
		s.dummy = d
	})
	return s.dummy
}
