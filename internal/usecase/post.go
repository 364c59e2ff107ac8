package usecase

import (
	"context"

	"github.com/d60-Lab/blog-service/internal/model"
	"github.com/d60-Lab/blog-service/internal/repository"
)

// ListPosts 文章列表
type ListPosts struct{ repo repository.PostRepository }

func NewListPosts(repo repository.PostRepository) *ListPosts { return &ListPosts{repo: repo} }

func (uc *ListPosts) Execute(ctx context.Context) ([]model.Post, error) {
	return uc.repo.FindAll(ctx)
}

// GetPost 查询单篇文章，不存在时返回 (nil, nil)
type GetPost struct{ repo repository.PostRepository }

func NewGetPost(repo repository.PostRepository) *GetPost { return &GetPost{repo: repo} }

func (uc *GetPost) Execute(ctx context.Context, id int64) (*model.Post, error) {
	return uc.repo.FindByID(ctx, id)
}

// CreatePost 创建文章
type CreatePost struct{ repo repository.PostRepository }

func NewCreatePost(repo repository.PostRepository) *CreatePost { return &CreatePost{repo: repo} }

func (uc *CreatePost) Execute(ctx context.Context, data model.CreatePostData) (*model.Post, error) {
	return uc.repo.Create(ctx, data)
}

// UpdatePost 部分更新文章
type UpdatePost struct{ repo repository.PostRepository }

func NewUpdatePost(repo repository.PostRepository) *UpdatePost { return &UpdatePost{repo: repo} }

func (uc *UpdatePost) Execute(ctx context.Context, id int64, data model.UpdatePostData) (*model.Post, error) {
	return uc.repo.Update(ctx, id, data)
}

// DeletePost 删除文章
type DeletePost struct{ repo repository.PostRepository }

func NewDeletePost(repo repository.PostRepository) *DeletePost { return &DeletePost{repo: repo} }

func (uc *DeletePost) Execute(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

// PostUseCases 文章相关用例集合，便于路由装配
type PostUseCases struct {
	List   *ListPosts
	Get    *GetPost
	Create *CreatePost
	Update *UpdatePost
	Delete *DeletePost
}

func NewPostUseCases(repo repository.PostRepository) PostUseCases {
	return PostUseCases{
		List:   NewListPosts(repo),
		Get:    NewGetPost(repo),
		Create: NewCreatePost(repo),
		Update: NewUpdatePost(repo),
		Delete: NewDeletePost(repo),
	}
}
