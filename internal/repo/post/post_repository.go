package post

import (
	"context"

	"acebook/internal/domain"
)

// Repository defines the interface for post document persistence. The
// whole aggregate (message, comments, likes) lives in one document, so
// single-document operations are all the feed needs.
type Repository interface {
	// Insert stores a new post document.
	Insert(ctx context.Context, post *domain.Post) error

	// FindByID retrieves a post by its ID.
	// Returns the post and true if found, or nil and false if not found.
	// Returns an error if the operation fails.
	FindByID(ctx context.Context, id string) (*domain.Post, bool, error)

	// FindAll retrieves every post document. No ordering is guaranteed;
	// callers sort.
	FindAll(ctx context.Context) ([]*domain.Post, error)

	// UpdateByID applies mutate to the stored document inside a single
	// atomic update; concurrent updates to the same post never lose
	// writes. Returns the updated post.
	// Returns domain.ErrPostNotFound if the post does not exist.
	UpdateByID(ctx context.Context, id string, mutate func(*domain.Post) error) (*domain.Post, error)

	// Close releases any resources held by the repository.
	// Returns an error if cleanup fails.
	Close() error
}

// RepositoryFactory is a function that creates a new Repository instance.
// Returns an error if initialization fails.
type RepositoryFactory func() (Repository, error)
