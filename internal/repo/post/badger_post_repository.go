package post

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"acebook/internal/domain"
	"acebook/internal/infra/logging"
)

const keyPrefix = "post:"

// BadgerPostRepositoryConfig holds configuration for the Badger post repository.
type BadgerPostRepositoryConfig struct {
	// DatabasePath is the filesystem path to the Badger database directory
	DatabasePath string `env:"DATABASE_PATH" default:"var/storage/posts.db"`

	// InMemory keeps the store entirely in memory; used by tests
	InMemory bool `env:"IN_MEMORY" default:"false"`
}

// BadgerPostRepository implements Repository using BadgerDB. Post
// documents are stored as JSON values under "post:<id>" keys; Badger's
// serializable transactions make the read-modify-write in UpdateByID
// atomic, which is what keeps concurrent comment appends from losing
// updates.
type BadgerPostRepository struct {
	db  *badger.DB
	log logging.Logger
}

var _ Repository = (*BadgerPostRepository)(nil)

// BadgerPostRepositoryFactory creates a factory function that returns a new BadgerPostRepository.
// The factory function implements the RepositoryFactory type.
func BadgerPostRepositoryFactory(cfg BadgerPostRepositoryConfig) RepositoryFactory {
	return func() (Repository, error) {
		return NewBadgerPostRepository(cfg)
	}
}

// NewBadgerPostRepository creates a new BadgerPostRepository with the given configuration.
// Returns an error if the database cannot be opened.
func NewBadgerPostRepository(cfg BadgerPostRepositoryConfig) (*BadgerPostRepository, error) {
	log := logging.GetLogger("repo.post.badger_post_repository").With(
		logging.Group("db", "path", cfg.DatabasePath, "inMemory", cfg.InMemory),
	)

	opts := badger.DefaultOptions(cfg.DatabasePath).
		WithInMemory(cfg.InMemory).
		WithLogger(nil)
	if cfg.InMemory {
		opts = opts.WithDir("").WithValueDir("")
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	return &BadgerPostRepository{
		db:  db,
		log: log,
	}, nil
}

// Insert implements Repository.Insert.
func (r *BadgerPostRepository) Insert(ctx context.Context, post *domain.Post) error {
	data, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("marshal post: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(post.ID), data)
	})
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	return nil
}

// FindByID implements Repository.FindByID.
func (r *BadgerPostRepository) FindByID(ctx context.Context, id string) (*domain.Post, bool, error) {
	var post domain.Post

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(id))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &post)
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("get post: %w", err)
	}

	return &post, true, nil
}

// FindAll implements Repository.FindAll by iterating the post key prefix.
func (r *BadgerPostRepository) FindAll(ctx context.Context) ([]*domain.Post, error) {
	posts := []*domain.Post{}

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var post domain.Post

			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &post)
			})
			if err != nil {
				return err
			}

			posts = append(posts, &post)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}

	return posts, nil
}

// UpdateByID implements Repository.UpdateByID. The transaction is
// retried on write conflict, so two mutations racing on the same post
// serialize instead of overwriting each other.
func (r *BadgerPostRepository) UpdateByID(
	ctx context.Context,
	id string,
	mutate func(*domain.Post) error,
) (*domain.Post, error) {
	for {
		var post domain.Post

		err := r.db.Update(func(txn *badger.Txn) error {
			item, err := txn.Get(key(id))
			if err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return domain.ErrPostNotFound
				}

				return fmt.Errorf("get post: %w", err)
			}

			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &post)
			}); err != nil {
				return fmt.Errorf("unmarshal post: %w", err)
			}

			if err := mutate(&post); err != nil {
				return err
			}

			data, err := json.Marshal(&post)
			if err != nil {
				return fmt.Errorf("marshal post: %w", err)
			}

			return txn.Set(key(id), data)
		})
		if errors.Is(err, badger.ErrConflict) {
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("update post: %w", err)
		}

		return &post, nil
	}
}

// Close implements Repository.Close by closing the database.
func (r *BadgerPostRepository) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}

	return nil
}

func key(id string) []byte {
	return []byte(keyPrefix + id)
}
