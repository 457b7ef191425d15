package repository

import (
	"context"

	"github.com/oksasatya/identity-service/internal/domain/entity"
)

// UserRepository defines the persistence contract for the user aggregate.
// Lookups return (nil, nil) when no row matches; any storage fault comes
// back as an internal error. Uniqueness of email and username is enforced
// by the store itself; Save surfaces a conflict on violation.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByID(ctx context.Context, id int64) (*entity.User, error)

	// Save inserts an unpersisted user and assigns its identifier. Passing
	// an already-persisted user is a programming error, reported distinctly
	// from storage faults.
	Save(ctx context.Context, u *entity.User) error

	// Update writes the mutable fields of a persisted user back to the store.
	Update(ctx context.Context, u *entity.User) error
}
