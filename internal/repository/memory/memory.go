// Package memory provides in-memory implementations of the repository
// contracts. They are safe for concurrent use and intended for tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/d60-Lab/blog-service/internal/model"
	"github.com/d60-Lab/blog-service/internal/repository"
)

// PostRepo is an in-memory repository.PostRepository.
type PostRepo struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]model.Post
	// Err, when set, is returned from every call to simulate a store outage.
	Err error
}

func NewPostRepo() *PostRepo {
	return &PostRepo{byID: make(map[int64]model.Post)}
}

var _ repository.PostRepository = (*PostRepo)(nil)

func (r *PostRepo) FindAll(_ context.Context) ([]model.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, &repository.StoreError{Op: "find posts", Err: r.Err}
	}
	out := make([]model.Post, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *PostRepo) FindByID(_ context.Context, id int64) (*model.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, &repository.StoreError{Op: "find post", Err: r.Err}
	}
	p, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *PostRepo) Create(_ context.Context, data model.CreatePostData) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, &repository.StoreError{Op: "create post", Err: r.Err}
	}
	r.nextID++
	now := time.Now()
	p := model.Post{
		ID:        r.nextID,
		Title:     data.Title,
		Content:   data.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if data.Published != nil {
		p.Published = *data.Published
	}
	r.byID[p.ID] = p
	return &p, nil
}

func (r *PostRepo) Update(_ context.Context, id int64, data model.UpdatePostData) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, &repository.StoreError{Op: "update post", Err: r.Err}
	}
	p, ok := r.byID[id]
	if !ok {
		return nil, &repository.NotFoundError{Entity: "post", ID: id}
	}
	if data.Title != nil {
		p.Title = *data.Title
	}
	if data.Content != nil {
		p.Content = *data.Content
	}
	if data.Published != nil {
		p.Published = *data.Published
	}
	p.UpdatedAt = time.Now()
	r.byID[id] = p
	return &p, nil
}

func (r *PostRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return &repository.StoreError{Op: "delete post", Err: r.Err}
	}
	if _, ok := r.byID[id]; !ok {
		return &repository.NotFoundError{Entity: "post", ID: id}
	}
	delete(r.byID, id)
	return nil
}

// BlogRepo is an in-memory repository.BlogRepository.
type BlogRepo struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]model.Blog
	Err    error
}

func NewBlogRepo() *BlogRepo {
	return &BlogRepo{byID: make(map[int64]model.Blog)}
}

var _ repository.BlogRepository = (*BlogRepo)(nil)

func (r *BlogRepo) FindAll(_ context.Context) ([]model.Blog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, &repository.StoreError{Op: "find blogs", Err: r.Err}
	}
	out := make([]model.Blog, 0, len(r.byID))
	for _, b := range r.byID {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *BlogRepo) FindByID(_ context.Context, id int64) (*model.Blog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, &repository.StoreError{Op: "find blog", Err: r.Err}
	}
	b, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *BlogRepo) Create(_ context.Context, data model.CreateBlogData) (*model.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, &repository.StoreError{Op: "create blog", Err: r.Err}
	}
	r.nextID++
	now := time.Now()
	b := model.Blog{
		ID:        r.nextID,
		Title:     data.Title,
		Content:   data.Content,
		Author:    data.Author,
		Published: data.Published,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.byID[b.ID] = b
	return &b, nil
}
