package user

import (
	"context"

	"acebook/internal/domain"
)

// Repository defines the interface for user credential persistence.
type Repository interface {
	// CreateUser adds a new user to the repository and returns its
	// generated ID.
	// Returns domain.ErrUserAlreadyExists if the email is already taken.
	CreateUser(ctx context.Context, email string, passwordHash []byte) (string, error)

	// GetUserByEmail retrieves a user by their login email.
	// Returns the user object and true if found, or nil and false if not found.
	// Returns an error if the operation fails.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, bool, error)

	// Close releases any resources held by the repository.
	// Returns an error if cleanup fails.
	Close() error
}

// RepositoryFactory is a function that creates a new Repository instance.
// Returns an error if initialization fails.
type RepositoryFactory func() (Repository, error)
