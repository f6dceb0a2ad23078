// Package feedsvc implements the shared feed: the Post aggregate and
// its mutation operations. Authentication is not this package's
// business; by the time a call arrives, the auth gate has already
// verified and rotated the caller's token.
package feedsvc

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"acebook/internal/domain"
	"acebook/internal/infra/logging"
	"acebook/internal/repo/post"
)

// FeedService owns the post aggregate operations: create, list, append
// comment, toggle like. All aggregate invariants (append-only comment
// list, at most one like marker per user) are enforced on the domain
// type inside a single atomic repository update.
type FeedService struct {
	PostRepo post.Repository
	Log      logging.Logger

	now func() time.Time
}

// NewFeedService creates a new FeedService with the given post repository factory.
// Returns an error if the post repository cannot be created.
func NewFeedService(repoFactory post.RepositoryFactory) (*FeedService, error) {
	log := logging.GetLogger("svc.feedsvc.feed_service")

	postRepo, err := repoFactory()
	if err != nil {
		return nil, fmt.Errorf("new post repo: %w", err)
	}

	return &FeedService{
		PostRepo: postRepo,
		Log:      log,
		now:      time.Now,
	}, nil
}

// CreatePost stores a new post authored by the given user.
// Returns domain.ErrEmptyMessage if the message is empty or blank.
func (s *FeedService) CreatePost(ctx context.Context, authorID, message string) (_ *domain.Post, err error) {
	log := s.Log.With(logging.Group("post", "author", authorID))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "create post failed", "error", err)
		} else {
			log.DebugContext(ctx, "post created")
		}
	}()

	newPost, err := domain.NewPost(uuid.NewString(), authorID, message, s.now())
	if err != nil {
		return nil, fmt.Errorf("new post: %w", err)
	}

	if err := s.PostRepo.Insert(ctx, newPost); err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	return newPost, nil
}

// AddComment appends a comment to the end of a post's comment list.
// The append happens inside one atomic repository update, so two
// comments racing on the same post both land.
// Returns domain.ErrPostNotFound if the post does not exist and
// domain.ErrEmptyMessage if the message is empty or blank.
func (s *FeedService) AddComment(ctx context.Context, postID, authorID, message string) (_ *domain.Post, err error) {
	log := s.Log.With(logging.Group("comment", "post", postID, "author", authorID))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "add comment failed", "error", err)
		} else {
			log.DebugContext(ctx, "comment added")
		}
	}()

	updated, err := s.PostRepo.UpdateByID(ctx, postID, func(p *domain.Post) error {
		return p.AppendComment(authorID, message, s.now())
	})
	if err != nil {
		return nil, fmt.Errorf("append comment: %w", err)
	}

	return updated, nil
}

// ToggleLike adds the user's like marker to a post, or removes it when
// already present.
// Returns domain.ErrPostNotFound if the post does not exist.
func (s *FeedService) ToggleLike(ctx context.Context, postID, userID string) (_ *domain.Post, err error) {
	log := s.Log.With(logging.Group("like", "post", postID, "user", userID))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "toggle like failed", "error", err)
		} else {
			log.DebugContext(ctx, "like toggled")
		}
	}()

	updated, err := s.PostRepo.UpdateByID(ctx, postID, func(p *domain.Post) error {
		p.ToggleLike(userID)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("toggle like: %w", err)
	}

	return updated, nil
}

// ListPosts returns every post, newest first. The sort is stable so a
// single response always presents one consistent order.
func (s *FeedService) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	posts, err := s.PostRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find all posts: %w", err)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].CreatedAt != posts[j].CreatedAt {
			return posts[i].CreatedAt > posts[j].CreatedAt
		}

		return posts[i].ID > posts[j].ID
	})

	return posts, nil
}

// Close releases resources held by the service, such as database handles.
// Returns an error if cleanup fails.
func (s *FeedService) Close() error {
	if err := s.PostRepo.Close(); err != nil {
		return fmt.Errorf("close post repo: %w", err)
	}

	return nil
}
