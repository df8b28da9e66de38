package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sociable-dev/sociable/internal/entity"
	"github.com/sociable-dev/sociable/pkg/apperror"
	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error)
	FindByPostID(ctx context.Context, postID uuid.UUID, offset, limit int) ([]entity.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByPostID(ctx context.Context, postID uuid.UUID) error
	CountByPostID(ctx context.Context, postID uuid.UUID) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error) {
	var comment entity.Comment
	err := r.db.WithContext(ctx).
		Preload("Owner", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "fullname", "profile_picture")
		}).
		First(&comment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) FindByPostID(ctx context.Context, postID uuid.UUID, offset, limit int) ([]entity.Comment, error) {
	var comments []entity.Comment
	err := r.db.WithContext(ctx).
		Preload("Owner", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "fullname", "profile_picture")
		}).
		Where("post_id = ?", postID).
		Order("created_at asc").
		Offset(offset).
		Limit(limit).
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Comment{}, "id = ?", id).Error
}

func (r *commentRepository) DeleteByPostID(ctx context.Context, postID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&entity.Comment{}).Error
}

func (r *commentRepository) CountByPostID(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Comment{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}
