package users

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the store collaborator contract for user rows. Lookups
// return common.ErrorNotFound when no active row matches; Create returns
// common.ErrorEmailAlreadyExists when the email uniqueness constraint is
// violated, distinct from any other failure.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
}
