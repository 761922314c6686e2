package models

import (
	"time"
)

// Interaction is one engagement event between two users: the actor
// messaged, commented on, shared, liked, or viewed the target's
// content. The feed path only reads these in aggregate per author.
type Interaction struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;column:id"`
	ActorID      string    `gorm:"type:varchar(36);not null;index:idx_interactions_actor_time;column:actor_id"`
	TargetUserID string    `gorm:"type:varchar(36);not null;column:target_user_id"`
	Type         string    `gorm:"type:varchar(16);not null;column:type"`
	CreatedAt    time.Time `gorm:"not null;index:idx_interactions_actor_time;column:created_at"`
}

// TableName specifies the table name for Interaction
func (Interaction) TableName() string {
	return "interactions"
}
