package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeedEntry is one row in a follower's timeline index. Entries are written
// once at publish time with the post's creation timestamp and removed in bulk
// when the post is deleted; they are never recomputed from the follow graph.
type FeedEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FollowerID  uuid.UUID `gorm:"type:uuid;not null;index:idx_feed_follower_created,priority:1" json:"follower_id"`
	PostID      uuid.UUID `gorm:"type:uuid;not null;index:idx_feed_post" json:"post_id"`
	PostOwnerID uuid.UUID `gorm:"type:uuid;not null" json:"post_owner_id"`
	CreatedAt   time.Time `gorm:"index:idx_feed_follower_created,priority:2,sort:desc" json:"created_at"`

	Post *Post `gorm:"foreignKey:PostID" json:"post,omitempty"`
}

func (f *FeedEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID, err = uuid.NewV7()
	}
	return
}
