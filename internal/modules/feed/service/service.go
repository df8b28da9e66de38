package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sociable-dev/sociable/internal/entity"
	feedRepo "github.com/sociable-dev/sociable/internal/modules/feed/repository"
	postDto "github.com/sociable-dev/sociable/internal/modules/post/dto"
	postService "github.com/sociable-dev/sociable/internal/modules/post/service"
)

const pageSize = 5

type FeedService interface {
	GetNewsFeed(ctx context.Context, viewerID uuid.UUID, offset int) ([]postDto.PostResponse, error)
}

type feedService struct {
	feedRepo    feedRepo.FeedRepository
	postService postService.PostService
}

func NewFeedService(feedRepo feedRepo.FeedRepository, postService postService.PostService) FeedService {
	return &feedService{feedRepo: feedRepo, postService: postService}
}

// GetNewsFeed reads one page of the viewer's precomputed feed, newest first.
// The offset is a page number, not a row offset.
func (s *feedService) GetNewsFeed(ctx context.Context, viewerID uuid.UUID, offset int) ([]postDto.PostResponse, error) {
	entries, err := s.feedRepo.FindPageByFollower(ctx, viewerID, offset*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	posts := make([]*entity.Post, 0, len(entries))
	for _, entry := range entries {
		post := entry.Post
		if post == nil {
			continue
		}
		// Feed entries survive a later flip to private; the content must not
		if post.Privacy == entity.PrivacyPrivate && post.AuthorID != viewerID {
			continue
		}
		posts = append(posts, post)
	}

	return s.postService.HydratePosts(ctx, viewerID, posts), nil
}
