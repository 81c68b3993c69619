package users

import (
	"time"

	"github.com/google/uuid"
)

// User is the persisted account entity. PasswordHash is an argon2id PHC
// digest; the plaintext password never reaches this struct.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Name         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser builds a User ready for insertion: fresh random ID, active,
// both timestamps set to now.
func NewUser(email, passwordHash, name string) *User {
	now := time.Now().UTC()
	return &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
