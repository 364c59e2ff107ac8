package usecase

import (
	"context"

	"github.com/d60-Lab/blog-service/internal/model"
	"github.com/d60-Lab/blog-service/internal/repository"
)

// ListBlogs 博客列表
type ListBlogs struct{ repo repository.BlogRepository }

func NewListBlogs(repo repository.BlogRepository) *ListBlogs { return &ListBlogs{repo: repo} }

func (uc *ListBlogs) Execute(ctx context.Context) ([]model.Blog, error) {
	return uc.repo.FindAll(ctx)
}

type GetBlog struct{ repo repository.BlogRepository }

func NewGetBlog(repo repository.BlogRepository) *GetBlog { return &GetBlog{repo: repo} }

func (uc *GetBlog) Execute(ctx context.Context, id int64) (*model.Blog, error) {
	return uc.repo.FindByID(ctx, id)
}

type CreateBlog struct{ repo repository.BlogRepository }

func NewCreateBlog(repo repository.BlogRepository) *CreateBlog { return &CreateBlog{repo: repo} }

func (uc *CreateBlog) Execute(ctx context.Context, data model.CreateBlogData) (*model.Blog, error) {
	return uc.repo.Create(ctx, data)
}

type BlogUseCases struct {
	List   *ListBlogs
	Get    *GetBlog
	Create *CreateBlog
}

func NewBlogUseCases(repo repository.BlogRepository) BlogUseCases {
	return BlogUseCases{
		List:   NewListBlogs(repo),
		Get:    NewGetBlog(repo),
		Create: NewCreateBlog(repo),
	}
}
