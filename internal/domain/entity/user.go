package entity

import "time"

// User is a registered identity. Handle and Email are globally unique.
// PasswordHash holds a bcrypt digest, never the plaintext.
type User struct {
	ID           string
	Handle       string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
