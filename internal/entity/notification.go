package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationFollow  = "follow"
)

// Notification is keyed by (type, initiator, target, link): a repeated
// identical action bumps UpdatedAt on the live record instead of inserting
// a second one.
type Notification struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Type        string    `gorm:"size:20;not null;uniqueIndex:idx_notifications_key,priority:1" json:"type"`
	InitiatorID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_notifications_key,priority:2" json:"initiator_id"`
	TargetID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_notifications_key,priority:3;index:idx_notifications_target" json:"target_id"`
	Link        string    `gorm:"size:255;not null;uniqueIndex:idx_notifications_key,priority:4" json:"link"`
	IsRead      bool      `gorm:"default:false" json:"is_read"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Pointers to avoid recursion in JSON output
	Initiator *User `gorm:"foreignKey:InitiatorID" json:"initiator,omitempty"`
	Target    *User `gorm:"foreignKey:TargetID" json:"-"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID, err = uuid.NewV7()
	}
	return
}
