package models

import (
	"time"
)

// Post represents a published piece of content. Engagement counters
// are denormalized onto the row and maintained by the write path; the
// ranking engine only ever reads them.
type Post struct {
	ID             string     `gorm:"type:varchar(36);primaryKey;column:id"`
	AuthorID       string     `gorm:"type:varchar(36);not null;index;column:author_id"`
	PostType       string     `gorm:"type:varchar(32);not null;default:'standard';column:post_type"`
	TextContent    string     `gorm:"type:text;column:text_content"`
	Visibility     string     `gorm:"type:varchar(16);not null;default:'public';column:visibility"`
	LikesCount     int64      `gorm:"not null;default:0;column:likes_count"`
	CommentsCount  int64      `gorm:"not null;default:0;column:comments_count"`
	SharesCount    int64      `gorm:"not null;default:0;column:shares_count"`
	SavesCount     int64      `gorm:"not null;default:0;column:saves_count"`
	RelevanceScore float64    `gorm:"not null;default:0;column:relevance_score"`
	CreatedAt      time.Time  `gorm:"not null;column:created_at"`
	PublishedAt    *time.Time `gorm:"index;column:published_at"`
	DeletedAt      *time.Time `gorm:"index;column:deleted_at"`

	Author *User `gorm:"foreignKey:AuthorID;references:ID"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}
