package entity

import (
	"time"

	"github.com/google/uuid"
)

// Follow is one edge of the social graph: FollowerID follows FolloweeID.
// The composite unique index keeps a user from appearing twice in a
// follower set.
type Follow struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FollowerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follows_unique,priority:1;index:idx_follows_follower" json:"follower_id"`
	FolloweeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follows_unique,priority:2;index:idx_follows_followee" json:"followee_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	Follower *User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"follower,omitempty"`
	Followee *User `gorm:"foreignKey:FolloweeID;constraint:OnDelete:CASCADE" json:"followee,omitempty"`
}
