package types

import (
	"time"

	"github.com/google/uuid"
)

// Follow records that FollowerID sees FollowingID's finalized posts in their
// feed. The composite unique index prevents duplicate follows.
type Follow struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FollowerID  uuid.UUID `gorm:"type:uuid;not null;index:idx_follow_pair,unique" json:"follower_id"`
	FollowingID uuid.UUID `gorm:"type:uuid;not null;index:idx_follow_pair,unique;index" json:"following_id"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Follow) TableName() string { return "following" }
