package models

import (
	"time"
)

// User represents a member profile.
type User struct {
	ID        string    `gorm:"type:varchar(36);primaryKey;column:id"`
	Username  string    `gorm:"type:varchar(64);not null;uniqueIndex;column:username"`
	FullName  string    `gorm:"type:varchar(128);column:full_name"`
	Avatar    string    `gorm:"type:varchar(255);column:avatar"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// Follow is one directed follow edge.
type Follow struct {
	FollowerID string    `gorm:"type:varchar(36);primaryKey;column:follower_id"`
	FollowedID string    `gorm:"type:varchar(36);primaryKey;column:followed_id"`
	CreatedAt  time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for Follow
func (Follow) TableName() string {
	return "follows"
}

// Mute records that a user silenced another user's content.
type Mute struct {
	UserID      string    `gorm:"type:varchar(36);primaryKey;column:user_id"`
	MutedUserID string    `gorm:"type:varchar(36);primaryKey;column:muted_user_id"`
	CreatedAt   time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for Mute
func (Mute) TableName() string {
	return "mutes"
}

// MutedWord is a case-insensitive substring the user never wants to see.
type MutedWord struct {
	UserID    string    `gorm:"type:varchar(36);primaryKey;column:user_id"`
	Word      string    `gorm:"type:varchar(64);primaryKey;column:word"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for MutedWord
func (MutedWord) TableName() string {
	return "muted_words"
}

// HiddenPost records that a user dismissed a single post.
type HiddenPost struct {
	UserID    string    `gorm:"type:varchar(36);primaryKey;column:user_id"`
	PostID    string    `gorm:"type:varchar(36);primaryKey;column:post_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for HiddenPost
func (HiddenPost) TableName() string {
	return "hidden_posts"
}

// ContentPreference is a learned per-type affinity weight in [0, 1].
type ContentPreference struct {
	UserID    string    `gorm:"type:varchar(36);primaryKey;column:user_id"`
	PostType  string    `gorm:"type:varchar(32);primaryKey;column:post_type"`
	Weight    float64   `gorm:"not null;default:0;column:weight"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at"`
}

// TableName specifies the table name for ContentPreference
func (ContentPreference) TableName() string {
	return "content_preferences"
}
