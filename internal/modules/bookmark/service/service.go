package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sociable-dev/sociable/internal/entity"
	bookmarkRepo "github.com/sociable-dev/sociable/internal/modules/bookmark/repository"
	postDto "github.com/sociable-dev/sociable/internal/modules/post/dto"
	postRepo "github.com/sociable-dev/sociable/internal/modules/post/repository"
	postService "github.com/sociable-dev/sociable/internal/modules/post/service"
	"github.com/sociable-dev/sociable/pkg/apperror"
)

type BookmarkService interface {
	ToggleBookmark(ctx context.Context, ownerID, postID uuid.UUID) (bool, error)
	GetBookmarks(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]postDto.PostResponse, error)
}

type bookmarkService struct {
	bookmarkRepo bookmarkRepo.BookmarkRepository
	postRepo     postRepo.PostRepository
	postService  postService.PostService
}

func NewBookmarkService(
	bookmarkRepo bookmarkRepo.BookmarkRepository,
	postRepo postRepo.PostRepository,
	postService postService.PostService,
) BookmarkService {
	return &bookmarkService{
		bookmarkRepo: bookmarkRepo,
		postRepo:     postRepo,
		postService:  postService,
	}
}

// ToggleBookmark flips membership and returns the new state. No
// notification is emitted; bookmarking is private to the owner.
func (s *bookmarkService) ToggleBookmark(ctx context.Context, ownerID, postID uuid.UUID) (bool, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return false, err
	}

	if post.Privacy == entity.PrivacyPrivate && post.AuthorID != ownerID {
		return false, fmt.Errorf("this post is private: %w", apperror.ErrForbidden)
	}

	exists, err := s.bookmarkRepo.Exists(ctx, postID, ownerID)
	if err != nil {
		return false, fmt.Errorf("%w: failed to read bookmark state: %v", apperror.ErrStorage, err)
	}

	if exists {
		if _, err := s.bookmarkRepo.Remove(ctx, postID, ownerID); err != nil {
			return false, fmt.Errorf("%w: failed to remove bookmark: %v", apperror.ErrStorage, err)
		}
		return false, nil
	}

	if _, err := s.bookmarkRepo.Add(ctx, postID, ownerID); err != nil {
		return false, fmt.Errorf("%w: failed to add bookmark: %v", apperror.ErrStorage, err)
	}
	return true, nil
}

func (s *bookmarkService) GetBookmarks(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]postDto.PostResponse, error) {
	bookmarks, err := s.bookmarkRepo.FindByOwner(ctx, ownerID, offset, limit)
	if err != nil {
		return nil, err
	}

	posts := make([]*entity.Post, 0, len(bookmarks))
	for i := range bookmarks {
		post := bookmarks[i].Post
		if post == nil {
			continue
		}
		// A bookmark may predate a privacy flip; the content stays hidden
		if post.Privacy == entity.PrivacyPrivate && post.AuthorID != ownerID {
			continue
		}
		posts = append(posts, post)
	}

	return s.postService.HydratePosts(ctx, ownerID, posts), nil
}
