package domain

import "errors"

var (
	// ErrUserAlreadyExists is returned when trying to create a user with an existing email.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrUserNotFound is returned when looking up a non-existent user.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned when the email/password combination is incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User represents an account holder in the system.
// Users are only ever referenced by ID, never embedded in other documents.
type User struct {
	ID           string // Unique identifier
	Email        string // Login email
	PasswordHash []byte // Hashed password
	CreatedAt    int64  // Unix timestamp of account creation
}
