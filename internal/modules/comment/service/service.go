package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sociable-dev/sociable/internal/entity"
	commentDto "github.com/sociable-dev/sociable/internal/modules/comment/dto"
	commentRepo "github.com/sociable-dev/sociable/internal/modules/comment/repository"
	notifService "github.com/sociable-dev/sociable/internal/modules/notification/service"
	postRepo "github.com/sociable-dev/sociable/internal/modules/post/repository"
	"github.com/sociable-dev/sociable/pkg/apperror"
)

type CommentService interface {
	CreateComment(ctx context.Context, ownerID, postID uuid.UUID, req commentDto.CreateCommentRequest) (*commentDto.CommentResponse, error)
	GetComments(ctx context.Context, viewerID, postID uuid.UUID, offset, limit int) ([]commentDto.CommentResponse, error)
	DeleteComment(ctx context.Context, requesterID, commentID uuid.UUID) error
}

type commentService struct {
	commentRepo         commentRepo.CommentRepository
	postRepo            postRepo.PostRepository
	notificationService notifService.NotificationService
	redisClient         *redis.Client
}

func NewCommentService(
	commentRepo commentRepo.CommentRepository,
	postRepo postRepo.PostRepository,
	notificationService notifService.NotificationService,
	redisClient *redis.Client,
) CommentService {
	return &commentService{
		commentRepo:         commentRepo,
		postRepo:            postRepo,
		notificationService: notificationService,
		redisClient:         redisClient,
	}
}

// CreateComment notifies the post author only; followers are not fanned out
// to on comments.
func (s *commentService) CreateComment(ctx context.Context, ownerID, postID uuid.UUID, req commentDto.CreateCommentRequest) (*commentDto.CommentResponse, error) {
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, fmt.Errorf("comment body cannot be empty: %w", apperror.ErrBadRequest)
	}

	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.Privacy == entity.PrivacyPrivate && post.AuthorID != ownerID {
		return nil, fmt.Errorf("this post is private: %w", apperror.ErrForbidden)
	}

	comment := &entity.Comment{
		PostID:  postID,
		OwnerID: ownerID,
		Body:    body,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("%w: failed to persist comment: %v", apperror.ErrStorage, err)
	}

	s.bumpCommentCount(ctx, postID, 1)

	if post.AuthorID != ownerID && s.notificationService != nil {
		link := "/post/" + postID.String()
		if err := s.notificationService.Notify(ctx, entity.NotificationComment, ownerID, post.AuthorID, link); err != nil {
			log.Printf("failed to record comment notification for post %s: %v", postID, err)
		}
	}

	created, err := s.commentRepo.FindByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}

	resp := commentDto.FromEntity(created)
	return &resp, nil
}

func (s *commentService) GetComments(ctx context.Context, viewerID, postID uuid.UUID, offset, limit int) ([]commentDto.CommentResponse, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.Privacy == entity.PrivacyPrivate && post.AuthorID != viewerID {
		return nil, fmt.Errorf("this post is private: %w", apperror.ErrForbidden)
	}

	comments, err := s.commentRepo.FindByPostID(ctx, postID, offset, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]commentDto.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, commentDto.FromEntity(&comments[i]))
	}
	return responses, nil
}

func (s *commentService) DeleteComment(ctx context.Context, requesterID, commentID uuid.UUID) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.OwnerID != requesterID {
		return fmt.Errorf("only the owner can delete a comment: %w", apperror.ErrForbidden)
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return fmt.Errorf("%w: failed to delete comment: %v", apperror.ErrStorage, err)
	}

	s.bumpCommentCount(ctx, comment.PostID, -1)

	return nil
}

// bumpCommentCount only adjusts an already-populated counter hash; a miss is
// rebuilt from the database on the next read.
func (s *commentService) bumpCommentCount(ctx context.Context, postID uuid.UUID, delta int64) {
	if s.redisClient == nil {
		return
	}
	key := "counts:post:" + postID.String()
	exists, err := s.redisClient.Exists(ctx, key).Result()
	if err != nil || exists == 0 {
		return
	}
	if err := s.redisClient.HIncrBy(ctx, key, "comments", delta).Err(); err != nil {
		log.Printf("failed to bump comment count for post %s: %v", postID, err)
	}
}
