package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/blog-service/internal/model"
)

// PostRepository 文章仓储接口
type PostRepository interface {
	// FindAll 按创建时间倒序返回全部文章
	FindAll(ctx context.Context) ([]model.Post, error)

	// FindByID 不存在时返回 (nil, nil)
	FindByID(ctx context.Context, id int64) (*model.Post, error)

	Create(ctx context.Context, data model.CreatePostData) (*model.Post, error)

	// Update 只更新非 nil 字段，目标不存在返回 *NotFoundError
	Update(ctx context.Context, id int64, data model.UpdatePostData) (*model.Post, error)

	Delete(ctx context.Context, id int64) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) FindAll(ctx context.Context) ([]model.Post, error) {
	posts := make([]model.Post, 0)
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, storeError("find posts", err)
	}
	return posts, nil
}

func (r *postRepository) FindByID(ctx context.Context, id int64) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("find post", err)
	}
	return &post, nil
}

func (r *postRepository) Create(ctx context.Context, data model.CreatePostData) (*model.Post, error) {
	post := &model.Post{Title: data.Title, Content: data.Content}
	if data.Published != nil {
		post.Published = *data.Published
	}
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, storeError("create post", err)
	}
	return post, nil
}

func (r *postRepository) Update(ctx context.Context, id int64, data model.UpdatePostData) (*model.Post, error) {
	cols := data.Columns()
	cols["updated_at"] = time.Now()

	var post model.Post
	res := r.db.WithContext(ctx).
		Model(&post).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(cols)
	if res.Error != nil {
		return nil, storeError("update post", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, &NotFoundError{Entity: "post", ID: id}
	}
	return &post, nil
}

func (r *postRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Post{})
	if res.Error != nil {
		return storeError("delete post", res.Error)
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Entity: "post", ID: id}
	}
	return nil
}
