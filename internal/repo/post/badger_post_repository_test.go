package post_test

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"acebook/internal/domain"
	"acebook/internal/repo/post"
)

func newTestRepository(t *testing.T) post.Repository {
	t.Helper()

	repo, err := post.NewBadgerPostRepository(post.BadgerPostRepositoryConfig{
		DatabasePath: "",
		InMemory:     true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, repo.Close())
	})

	return repo
}

func newTestPost(t *testing.T, id, message string) *domain.Post {
	t.Helper()

	p, err := domain.NewPost(id, "author-1", message, time.Now())
	require.NoError(t, err)

	return p
}

func TestBadgerPostRepository_InsertAndFindByID(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	ctx := context.Background()

	want := newTestPost(t, "post-1", "hello world")
	require.NoError(t, repo.Insert(ctx, want))

	got, found, err := repo.FindByID(ctx, "post-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, want.ID, got.ID)
	require.Equal(t, want.Message, got.Message)
	require.Equal(t, want.AuthorID, got.AuthorID)
	require.Empty(t, got.Comments)
	require.Empty(t, got.Likes)
}

func TestBadgerPostRepository_FindByIDNotFound(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)

	got, found, err := repo.FindByID(context.Background(), "missing")
	require.NoError(t, err)
	require.False(t, found)
	require.Nil(t, got)
}

func TestBadgerPostRepository_FindAll(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	ctx := context.Background()

	posts, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Empty(t, posts)

	for i := range 3 {
		p := newTestPost(t, "post-"+strconv.Itoa(i), "message "+strconv.Itoa(i))
		require.NoError(t, repo.Insert(ctx, p))
	}

	posts, err = repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)

	seen := map[string]bool{}
	for _, p := range posts {
		seen[p.ID] = true
	}

	require.Len(t, seen, 3)
}

func TestBadgerPostRepository_UpdateByID(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newTestPost(t, "post-1", "hello")))

	updated, err := repo.UpdateByID(ctx, "post-1", func(p *domain.Post) error {
		return p.AppendComment("author-2", "a comment", time.Now())
	})
	require.NoError(t, err)
	require.Len(t, updated.Comments, 1)
	require.Equal(t, "a comment", updated.Comments[0].Message)

	// Mutation must have been persisted, not just returned.
	got, found, err := repo.FindByID(ctx, "post-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, got.Comments, 1)
}

func TestBadgerPostRepository_UpdateByIDNotFound(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)

	_, err := repo.UpdateByID(context.Background(), "missing", func(*domain.Post) error {
		return nil
	})
	require.ErrorIs(t, err, domain.ErrPostNotFound)
}

func TestBadgerPostRepository_UpdateByIDMutateError(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newTestPost(t, "post-1", "hello")))

	_, err := repo.UpdateByID(ctx, "post-1", func(p *domain.Post) error {
		return p.AppendComment("author-2", "   ", time.Now())
	})
	require.ErrorIs(t, err, domain.ErrEmptyMessage)

	// Failed mutation must not leave partial state behind.
	got, _, err := repo.FindByID(ctx, "post-1")
	require.NoError(t, err)
	require.Empty(t, got.Comments)
}

func TestBadgerPostRepository_ConcurrentUpdates(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newTestPost(t, "post-1", "hello")))

	const writers = 8

	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := repo.UpdateByID(ctx, "post-1", func(p *domain.Post) error {
				return p.AppendComment("author-"+strconv.Itoa(i), "comment "+strconv.Itoa(i), time.Now())
			})
			require.NoError(t, err)
		}()
	}

	wg.Wait()

	// Every append must have landed; conflicting transactions retry
	// instead of overwriting each other.
	got, found, err := repo.FindByID(ctx, "post-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, got.Comments, writers)
}
