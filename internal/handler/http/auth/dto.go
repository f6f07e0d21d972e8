package auth

import (
	"time"

	"postboard/internal/domain/entity"
)

// UserDTO is the public view of a user. It never carries the password hash.
type UserDTO struct {
	ID        string    `json:"id" example:"0b5c3f0e-3f4e-4f5a-9d55-6f1c2a9f1e11"`
	Handle    string    `json:"handle" example:"alice"`
	Email     string    `json:"email" example:"a@x.com"`
	CreatedAt time.Time `json:"created_at" example:"2024-01-01T00:00:00Z"`
}

// NewUserDTO converts an entity.User.
func NewUserDTO(u *entity.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Handle:    u.Handle,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

type signupRequest struct {
	Handle   string `json:"handle" example:"alice"`
	Email    string `json:"email" example:"a@x.com"`
	Password string `json:"password" example:"pw1"`
}

type loginRequest struct {
	Email    string `json:"email" example:"a@x.com"`
	Password string `json:"password" example:"pw1"`
}

type tokenResponse struct {
	Token string  `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	User  UserDTO `json:"user"`
}

type userResponse struct {
	User UserDTO `json:"user"`
}

type messageResponse struct {
	Message string `json:"message" example:"logged out"`
}
