package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PrivacyPublic  = "public"
	PrivacyPrivate = "private"
)

type Post struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"author_id"`
	Author      User        `gorm:"constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Description string      `gorm:"type:text" json:"description"`
	Privacy     string      `gorm:"size:10;not null;default:public" json:"privacy"`
	IsEdited    bool        `gorm:"default:false" json:"is_edited"`
	Photos      []PostPhoto `gorm:"foreignKey:PostID" json:"photos,omitempty"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}

// PostPhoto holds one opaque storage reference owned by the external
// photo storage collaborator.
type PostPhoto struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;index" json:"post_id"`
	FileURL   string    `gorm:"type:text;not null" json:"file_url"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
