package types

import (
	"time"

	"github.com/google/uuid"
)

// Like existence is the source of truth for "has this user liked this
// post". Post.LikeCount is a derived counter maintained alongside.
type Like struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_like_pair,unique" json:"user_id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;index:idx_like_pair,unique;index" json:"post_id"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Like) TableName() string { return "like" }
