package model

import "time"

// Post 文章
type Post struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title     string    `json:"title" gorm:"type:varchar(255);not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Published bool      `json:"published" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt" gorm:"index:idx_post_created;not null"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"not null"`
}

func (Post) TableName() string { return "posts" }

// CreatePostData 创建文章的入参
type CreatePostData struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published *bool  `json:"published,omitempty"`
}

// UpdatePostData 部分更新，nil 字段保持原值
type UpdatePostData struct {
	Title     *string `json:"title,omitempty"`
	Content   *string `json:"content,omitempty"`
	Published *bool   `json:"published,omitempty"`
}

// Columns 返回需要更新的列（不含 updated_at）
func (d UpdatePostData) Columns() map[string]interface{} {
	cols := make(map[string]interface{}, 3)
	if d.Title != nil {
		cols["title"] = *d.Title
	}
	if d.Content != nil {
		cols["content"] = *d.Content
	}
	if d.Published != nil {
		cols["published"] = *d.Published
	}
	return cols
}
