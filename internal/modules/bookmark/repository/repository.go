package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sociable-dev/sociable/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookmarkRepository interface {
	Add(ctx context.Context, postID, ownerID uuid.UUID) (bool, error)
	Remove(ctx context.Context, postID, ownerID uuid.UUID) (bool, error)
	Exists(ctx context.Context, postID, ownerID uuid.UUID) (bool, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]entity.Bookmark, error)
	// DeleteByPostID clears the post from every user's bookmark list in one
	// keyed operation, part of the post delete cascade.
	DeleteByPostID(ctx context.Context, postID uuid.UUID) error
}

type bookmarkRepository struct {
	db *gorm.DB
}

func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

func (r *bookmarkRepository) Add(ctx context.Context, postID, ownerID uuid.UUID) (bool, error) {
	bookmark := &entity.Bookmark{PostID: postID, OwnerID: ownerID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "owner_id"}},
		DoNothing: true,
	}).Create(bookmark)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *bookmarkRepository) Remove(ctx context.Context, postID, ownerID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("post_id = ? AND owner_id = ?", postID, ownerID).
		Delete(&entity.Bookmark{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *bookmarkRepository) Exists(ctx context.Context, postID, ownerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Bookmark{}).
		Where("post_id = ? AND owner_id = ?", postID, ownerID).
		Count(&count).Error
	return count > 0, err
}

func (r *bookmarkRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]entity.Bookmark, error) {
	var bookmarks []entity.Bookmark
	err := r.db.WithContext(ctx).
		Preload("Post").
		Preload("Post.Author").
		Preload("Post.Photos").
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&bookmarks).Error
	return bookmarks, err
}

func (r *bookmarkRepository) DeleteByPostID(ctx context.Context, postID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&entity.Bookmark{}).Error
}
