package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like is one member of a post's like set. The unique pair index is what
// makes membership updates atomic at the store level.
type Like struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_likes_unique,priority:1;index:idx_likes_post" json:"post_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_likes_unique,priority:2" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;index" json:"post_id"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null" json:"owner_id"`
	Owner     User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"owner,omitempty"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}

// Bookmark references a post saved by a user. A user's bookmark list is
// this table filtered by owner.
type Bookmark struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bookmarks_unique,priority:1;index:idx_bookmarks_post" json:"post_id"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bookmarks_unique,priority:2;index:idx_bookmarks_owner" json:"owner_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Post *Post `gorm:"foreignKey:PostID" json:"post,omitempty"`
}
