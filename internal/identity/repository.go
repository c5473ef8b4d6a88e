package identity

import (
	"context"

	"github.com/deskroute/deskroute/internal/domain"
)

// Repository defines the interface for user record storage.
type Repository interface {
	// EnsureIndexes provisions the unique index on email. Idempotent; called
	// once at startup before the service accepts traffic.
	EnsureIndexes(ctx context.Context) error

	// CreateUser inserts a new user record. Returns ErrEmailExists when the
	// store's uniqueness constraint rejects the email, which is the losing
	// side of a concurrent registration race.
	CreateUser(ctx context.Context, user *domain.User) error

	// GetUserByEmail looks up a user by normalized email. Returns
	// ErrUserNotFound when no record exists.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// EmailExists reports whether a record exists for the normalized email.
	EmailExists(ctx context.Context, email string) (bool, error)
}
