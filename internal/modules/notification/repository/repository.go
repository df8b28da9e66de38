package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sociable-dev/sociable/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationRepository interface {
	// Upsert inserts a notification under its natural key or, when the key
	// already exists, bumps the live record's updated_at. Returns true only
	// when a new record was inserted.
	Upsert(ctx context.Context, notification *entity.Notification) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error)
	GetByTargetID(ctx context.Context, targetID uuid.UUID, limit, offset int) ([]entity.Notification, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, targetID uuid.UUID) error
	CountUnread(ctx context.Context, targetID uuid.UUID) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Upsert(ctx context.Context, notification *entity.Notification) (bool, error) {
	// Ride the store's conflict handling instead of find-then-branch so two
	// concurrent identical actions cannot both insert.
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "type"}, {Name: "initiator_id"}, {Name: "target_id"}, {Name: "link"},
		},
		DoNothing: true,
	}).Create(notification)
	if res.Error != nil {
		return false, res.Error
	}

	if res.RowsAffected > 0 {
		return true, nil
	}

	// Bump: repeated identical action refreshes recency only
	err := r.db.WithContext(ctx).Model(&entity.Notification{}).
		Where("type = ? AND initiator_id = ? AND target_id = ? AND link = ?",
			notification.Type, notification.InitiatorID, notification.TargetID, notification.Link).
		Update("updated_at", time.Now()).Error
	return false, err
}

func (r *notificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error) {
	var notification entity.Notification
	err := r.db.WithContext(ctx).
		Preload("Initiator", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "fullname", "profile_picture")
		}).
		First(&notification, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) GetByTargetID(ctx context.Context, targetID uuid.UUID, limit, offset int) ([]entity.Notification, error) {
	var notifications []entity.Notification
	err := r.db.WithContext(ctx).
		Where("target_id = ?", targetID).
		Order("updated_at desc").
		Limit(limit).
		Offset(offset).
		Preload("Initiator", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "fullname", "profile_picture")
		}).
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.Notification{}).Where("id = ?", id).Update("is_read", true).Error
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, targetID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.Notification{}).
		Where("target_id = ? AND is_read = ?", targetID, false).
		Update("is_read", true).Error
}

func (r *notificationRepository) CountUnread(ctx context.Context, targetID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Notification{}).
		Where("target_id = ? AND is_read = ?", targetID, false).
		Count(&count).Error
	return count, err
}
