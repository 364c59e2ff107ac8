// Package contracttest holds behaviour checks shared by every
// repository.PostRepository and repository.BlogRepository implementation.
package contracttest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/blog-service/internal/model"
	"github.com/d60-Lab/blog-service/internal/repository"
)

func ptr[T any](v T) *T { return &v }

// RunPostRepository runs the post contract against repositories built by newRepo.
// newRepo must return an empty repository on every call.
func RunPostRepository(t *testing.T, newRepo func(t *testing.T) repository.PostRepository) {
	t.Helper()
	ctx := context.Background()

	t.Run("FindAllEmpty", func(t *testing.T) {
		repo := newRepo(t)
		posts, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, posts)
		assert.Empty(t, posts)
	})

	t.Run("CreateAssignsIdentity", func(t *testing.T) {
		repo := newRepo(t)
		seen := make(map[int64]bool)
		for i := 0; i < 5; i++ {
			p, err := repo.Create(ctx, model.CreatePostData{Title: "A", Content: "B"})
			require.NoError(t, err)
			assert.NotZero(t, p.ID)
			assert.False(t, seen[p.ID], "id %d reused", p.ID)
			seen[p.ID] = true
			assert.False(t, p.CreatedAt.IsZero())
			assert.False(t, p.UpdatedAt.IsZero())
			assert.False(t, p.Published)
		}
	})

	t.Run("CreatePublished", func(t *testing.T) {
		repo := newRepo(t)
		p, err := repo.Create(ctx, model.CreatePostData{Title: "A", Content: "B", Published: ptr(true)})
		require.NoError(t, err)
		got, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.Published)
	})

	t.Run("FindAllNewestFirst", func(t *testing.T) {
		repo := newRepo(t)
		const n = 4
		for i := 0; i < n; i++ {
			_, err := repo.Create(ctx, model.CreatePostData{Title: "t", Content: "c"})
			require.NoError(t, err)
			time.Sleep(2 * time.Millisecond)
		}
		posts, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, posts, n)
		for i := 1; i < len(posts); i++ {
			assert.False(t, posts[i].CreatedAt.After(posts[i-1].CreatedAt), "posts not ordered newest first")
		}
	})

	t.Run("FindByIDMissing", func(t *testing.T) {
		repo := newRepo(t)
		p, err := repo.FindByID(ctx, 4242)
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("UpdatePartial", func(t *testing.T) {
		repo := newRepo(t)
		created, err := repo.Create(ctx, model.CreatePostData{Title: "old", Content: "body"})
		require.NoError(t, err)

		updated, err := repo.Update(ctx, created.ID, model.UpdatePostData{Title: ptr("new"), Published: ptr(true)})
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "new", updated.Title)
		assert.Equal(t, "body", updated.Content)
		assert.True(t, updated.Published)
	})

	t.Run("UpdateEmptyPatchTouchesOnlyUpdatedAt", func(t *testing.T) {
		repo := newRepo(t)
		created, err := repo.Create(ctx, model.CreatePostData{Title: "A", Content: "B"})
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)

		updated, err := repo.Update(ctx, created.ID, model.UpdatePostData{})
		require.NoError(t, err)
		assert.Equal(t, created.Title, updated.Title)
		assert.Equal(t, created.Content, updated.Content)
		assert.Equal(t, created.Published, updated.Published)
		assert.True(t, updated.CreatedAt.Equal(created.CreatedAt), "createdAt changed")
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt), "updatedAt did not increase")
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Update(ctx, 999, model.UpdatePostData{Title: ptr("x")})
		assert.ErrorIs(t, err, repository.ErrNotFound)
		var nf *repository.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, int64(999), nf.ID)
	})

	t.Run("Delete", func(t *testing.T) {
		repo := newRepo(t)
		created, err := repo.Create(ctx, model.CreatePostData{Title: "A", Content: "B"})
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, created.ID))
		got, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		assert.ErrorIs(t, repo.Delete(ctx, created.ID), repository.ErrNotFound)
	})
}

// RunBlogRepository runs the blog contract against repositories built by newRepo.
func RunBlogRepository(t *testing.T, newRepo func(t *testing.T) repository.BlogRepository) {
	t.Helper()
	ctx := context.Background()

	t.Run("FindAllEmpty", func(t *testing.T) {
		blogs, err := newRepo(t).FindAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, blogs)
		assert.Empty(t, blogs)
	})

	t.Run("CreateAndFind", func(t *testing.T) {
		repo := newRepo(t)
		b, err := repo.Create(ctx, model.CreateBlogData{Title: "T", Content: "C", Author: "ana", Published: true})
		require.NoError(t, err)
		assert.NotZero(t, b.ID)
		assert.False(t, b.CreatedAt.IsZero())

		got, err := repo.FindByID(ctx, b.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "ana", got.Author)
		assert.True(t, got.Published)

		missing, err := repo.FindByID(ctx, b.ID+100)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("FindAllNewestFirst", func(t *testing.T) {
		repo := newRepo(t)
		first, err := repo.Create(ctx, model.CreateBlogData{Title: "1", Content: "c", Author: "a"})
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
		second, err := repo.Create(ctx, model.CreateBlogData{Title: "2", Content: "c", Author: "a"})
		require.NoError(t, err)

		blogs, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, blogs, 2)
		assert.Equal(t, second.ID, blogs[0].ID)
		assert.Equal(t, first.ID, blogs[1].ID)
	})
}
