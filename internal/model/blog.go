package model

import "time"

// Blog 博客
type Blog struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title     string    `json:"title" gorm:"type:varchar(255);not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Author    string    `json:"author" gorm:"type:varchar(128);not null"`
	Published bool      `json:"published" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt" gorm:"index:idx_blog_created;not null"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"not null"`
}

func (Blog) TableName() string { return "blogs" }

// CreateBlogData 创建博客的入参
type CreateBlogData struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Author    string `json:"author"`
	Published bool   `json:"published"`
}
