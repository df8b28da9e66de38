package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sociable-dev/sociable/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowRepository interface {
	// FollowerIDs is the fan-out read path: everyone whose feed receives
	// the author's new posts.
	FollowerIDs(ctx context.Context, followeeID uuid.UUID) ([]uuid.UUID, error)
	Follow(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)
	Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error
	IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)
	Followers(ctx context.Context, followeeID uuid.UUID) ([]entity.User, error)
	Following(ctx context.Context, followerID uuid.UUID) ([]entity.User, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) FollowerIDs(ctx context.Context, followeeID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&entity.Follow{}).
		Where("followee_id = ?", followeeID).
		Pluck("follower_id", &ids).Error
	return ids, err
}

// Follow inserts the edge; a duplicate follow is a no-op. Returns true when
// the edge was newly created.
func (r *followRepository) Follow(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	edge := &entity.Follow{FollowerID: followerID, FolloweeID: followeeID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "follower_id"}, {Name: "followee_id"}},
		DoNothing: true,
	}).Create(edge)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&entity.Follow{}).Error
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	return count > 0, err
}

func (r *followRepository) Followers(ctx context.Context, followeeID uuid.UUID) ([]entity.User, error) {
	var users []entity.User
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followee_id = ?", followeeID).
		Find(&users).Error
	return users, err
}

func (r *followRepository) Following(ctx context.Context, followerID uuid.UUID) ([]entity.User, error) {
	var users []entity.User
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.followee_id = users.id").
		Where("follows.follower_id = ?", followerID).
		Find(&users).Error
	return users, err
}
