package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sociable-dev/sociable/internal/entity"
	"github.com/sociable-dev/sociable/pkg/apperror"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error)
	FindByAuthor(ctx context.Context, authorID uuid.UUID, privacy []string, sortBy, sortOrder string, offset, limit int) ([]*entity.Post, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Like-set membership. Add and Remove are single-statement operations so
	// concurrent toggles by the same user cannot lose updates.
	AddLike(ctx context.Context, postID, userID uuid.UUID) (bool, error)
	RemoveLike(ctx context.Context, postID, userID uuid.UUID) (bool, error)
	HasLike(ctx context.Context, postID, userID uuid.UUID) (bool, error)
	CountLikes(ctx context.Context, postID uuid.UUID) (int64, error)
	DeleteLikesByPostID(ctx context.Context, postID uuid.UUID) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	var post entity.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Photos").
		First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindByAuthor(ctx context.Context, authorID uuid.UUID, privacy []string, sortBy, sortOrder string, offset, limit int) ([]*entity.Post, error) {
	var posts []*entity.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Photos").
		Where("author_id = ? AND privacy IN ?", authorID, privacy).
		Order(fmt.Sprintf("%s %s", sortBy, sortOrder)).
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&entity.Post{}).Where("id = ?", id).Updates(fields).Error
}

func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&entity.PostPhoto{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Post{}, "id = ?", id).Error
	})
}

func (r *postRepository) AddLike(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	like := &entity.Like{PostID: postID, UserID: userID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(like)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *postRepository) RemoveLike(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&entity.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *postRepository) HasLike(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *postRepository) CountLikes(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

func (r *postRepository) DeleteLikesByPostID(ctx context.Context, postID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&entity.Like{}).Error
}
