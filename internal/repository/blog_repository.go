package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/blog-service/internal/model"
)

// BlogRepository 博客仓储接口（目前只支持读与创建）
type BlogRepository interface {
	FindAll(ctx context.Context) ([]model.Blog, error)
	FindByID(ctx context.Context, id int64) (*model.Blog, error)
	Create(ctx context.Context, data model.CreateBlogData) (*model.Blog, error)
}

type blogRepository struct{ db *gorm.DB }

func NewBlogRepository(db *gorm.DB) BlogRepository { return &blogRepository{db: db} }

func (r *blogRepository) FindAll(ctx context.Context) ([]model.Blog, error) {
	blogs := make([]model.Blog, 0)
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&blogs).Error; err != nil {
		return nil, storeError("find blogs", err)
	}
	return blogs, nil
}

func (r *blogRepository) FindByID(ctx context.Context, id int64) (*model.Blog, error) {
	var blog model.Blog
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&blog).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("find blog", err)
	}
	return &blog, nil
}

func (r *blogRepository) Create(ctx context.Context, data model.CreateBlogData) (*model.Blog, error) {
	blog := &model.Blog{
		Title:     data.Title,
		Content:   data.Content,
		Author:    data.Author,
		Published: data.Published,
	}
	if err := r.db.WithContext(ctx).Create(blog).Error; err != nil {
		return nil, storeError("create blog", err)
	}
	return blog, nil
}
