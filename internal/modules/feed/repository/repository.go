package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sociable-dev/sociable/internal/entity"
	"gorm.io/gorm"
)

type FeedRepository interface {
	// BulkInsert writes all fan-out entries for one post in a single batch
	// so publish latency does not scale with follower count as N round trips.
	BulkInsert(ctx context.Context, entries []entity.FeedEntry) error
	// DeleteByPostID removes the post from every feed in one keyed operation.
	DeleteByPostID(ctx context.Context, postID uuid.UUID) error
	FindPageByFollower(ctx context.Context, followerID uuid.UUID, offset, limit int) ([]entity.FeedEntry, error)
	CountByPostID(ctx context.Context, postID uuid.UUID) (int64, error)
}

type feedRepository struct {
	db *gorm.DB
}

func NewFeedRepository(db *gorm.DB) FeedRepository {
	return &feedRepository{db: db}
}

func (r *feedRepository) BulkInsert(ctx context.Context, entries []entity.FeedEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(entries, 500).Error
}

func (r *feedRepository) DeleteByPostID(ctx context.Context, postID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&entity.FeedEntry{}).Error
}

func (r *feedRepository) FindPageByFollower(ctx context.Context, followerID uuid.UUID, offset, limit int) ([]entity.FeedEntry, error) {
	var entries []entity.FeedEntry
	err := r.db.WithContext(ctx).
		Preload("Post").
		Preload("Post.Author").
		Preload("Post.Photos").
		Where("follower_id = ?", followerID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *feedRepository) CountByPostID(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.FeedEntry{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}
