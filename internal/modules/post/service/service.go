package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sociable-dev/sociable/internal/entity"
	bookmarkRepo "github.com/sociable-dev/sociable/internal/modules/bookmark/repository"
	commentRepo "github.com/sociable-dev/sociable/internal/modules/comment/repository"
	feedRepo "github.com/sociable-dev/sociable/internal/modules/feed/repository"
	followRepo "github.com/sociable-dev/sociable/internal/modules/follow/repository"
	notifService "github.com/sociable-dev/sociable/internal/modules/notification/service"
	postDto "github.com/sociable-dev/sociable/internal/modules/post/dto"
	postRepo "github.com/sociable-dev/sociable/internal/modules/post/repository"
	searchService "github.com/sociable-dev/sociable/internal/modules/search/service"
	userRepo "github.com/sociable-dev/sociable/internal/modules/user/repository"
	"github.com/sociable-dev/sociable/pkg/apperror"
	"github.com/sociable-dev/sociable/pkg/ratelimiter"
	"github.com/sociable-dev/sociable/pkg/storage"
)

const authorPageSize = 5

// Limiter gates publishes per user; see pkg/ratelimiter.CooldownLimiter.
type Limiter interface {
	Acquire(ctx context.Context, userID uuid.UUID, action string) (bool, error)
	TTL(ctx context.Context, userID uuid.UUID, action string) (time.Duration, error)
	Release(ctx context.Context, userID uuid.UUID, action string) error
}

// PostService coordinates every side effect of a mutating post action:
// graph lookup, feed index writes, engagement updates, notification
// aggregation and realtime pushes. Steps run sequentially and are
// best-effort rather than transactional; a failure surfaces to the caller
// without rolling back already-applied steps.
type PostService interface {
	PublishPost(ctx context.Context, authorID uuid.UUID, req postDto.CreatePostRequest) (*postDto.PostResponse, error)
	EditPost(ctx context.Context, requesterID, postID uuid.UUID, req postDto.UpdatePostRequest) (*postDto.PostResponse, error)
	DeletePost(ctx context.Context, requesterID, postID uuid.UUID) error
	ToggleLike(ctx context.Context, requesterID, postID uuid.UUID) (*postDto.ToggleLikeResponse, error)
	GetAuthorPosts(ctx context.Context, viewerID uuid.UUID, authorUsername string, filter postDto.AuthorPostsFilter) ([]postDto.PostResponse, error)
	GetPost(ctx context.Context, viewerID, postID uuid.UUID) (*postDto.PostResponse, error)
	HydratePosts(ctx context.Context, viewerID uuid.UUID, posts []*entity.Post) []postDto.PostResponse
}

type postService struct {
	postRepo            postRepo.PostRepository
	userRepo            userRepo.UserRepository
	followRepo          followRepo.FollowRepository
	feedRepo            feedRepo.FeedRepository
	commentRepo         commentRepo.CommentRepository
	bookmarkRepo        bookmarkRepo.BookmarkRepository
	photoStorage        storage.PhotoStorage
	redisClient         *redis.Client
	limiter             Limiter
	notificationService notifService.NotificationService
	search              searchService.SearchService
	dispatcher          notifService.Dispatcher
}

func NewPostService(
	postRepo postRepo.PostRepository,
	userRepo userRepo.UserRepository,
	followRepo followRepo.FollowRepository,
	feedRepo feedRepo.FeedRepository,
	commentRepo commentRepo.CommentRepository,
	bookmarkRepo bookmarkRepo.BookmarkRepository,
	photoStorage storage.PhotoStorage,
	redisClient *redis.Client,
	limiter Limiter,
	notificationService notifService.NotificationService,
	search searchService.SearchService,
	dispatcher notifService.Dispatcher,
) PostService {
	return &postService{
		postRepo:            postRepo,
		userRepo:            userRepo,
		followRepo:          followRepo,
		feedRepo:            feedRepo,
		commentRepo:         commentRepo,
		bookmarkRepo:        bookmarkRepo,
		photoStorage:        photoStorage,
		redisClient:         redisClient,
		limiter:             limiter,
		notificationService: notificationService,
		search:              search,
		dispatcher:          dispatcher,
	}
}

func (s *postService) PublishPost(ctx context.Context, authorID uuid.UUID, req postDto.CreatePostRequest) (*postDto.PostResponse, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" && len(req.Photos) == 0 {
		return nil, fmt.Errorf("a post needs a description or at least one photo: %w", apperror.ErrBadRequest)
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Acquire(ctx, authorID, "publish")
		if err != nil {
			return nil, fmt.Errorf("%w: rate limit check failed: %v", apperror.ErrStorage, err)
		}
		if !allowed {
			ttl, _ := s.limiter.TTL(ctx, authorID, "publish")
			return nil, &ratelimiter.RateLimitError{
				Message:    fmt.Sprintf("you are posting too fast, please wait %.0f seconds", ttl.Seconds()),
				RetryAfter: ttl,
			}
		}
	}

	privacy := req.Privacy
	if privacy == "" {
		privacy = entity.PrivacyPublic
	}

	photos := make([]entity.PostPhoto, 0, len(req.Photos))
	for _, url := range req.Photos {
		photos = append(photos, entity.PostPhoto{FileURL: url})
	}

	post := &entity.Post{
		AuthorID:    authorID,
		Description: description,
		Privacy:     privacy,
		Photos:      photos,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		// Don't hold the cooldown against a failed publish
		if s.limiter != nil {
			_ = s.limiter.Release(ctx, authorID, "publish")
		}
		return nil, fmt.Errorf("%w: failed to persist post: %v", apperror.ErrStorage, err)
	}

	// Fan-out on write: one feed entry per follower at publish time, plus one
	// for the author's own feed. Followers gained later do not receive it.
	followerIDs, err := s.followRepo.FollowerIDs(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load followers for fan-out: %v", apperror.ErrStorage, err)
	}

	entries := make([]entity.FeedEntry, 0, len(followerIDs)+1)
	for _, followerID := range followerIDs {
		entries = append(entries, entity.FeedEntry{
			FollowerID:  followerID,
			PostID:      post.ID,
			PostOwnerID: authorID,
			CreatedAt:   post.CreatedAt,
		})
	}
	entries = append(entries, entity.FeedEntry{
		FollowerID:  authorID,
		PostID:      post.ID,
		PostOwnerID: authorID,
		CreatedAt:   post.CreatedAt,
	})

	if err := s.feedRepo.BulkInsert(ctx, entries); err != nil {
		// No rollback: the caller sees the failure and may retry the publish
		return nil, fmt.Errorf("%w: failed to write feed entries: %v", apperror.ErrStorage, err)
	}

	if reloaded, err := s.postRepo.FindByID(ctx, post.ID); err == nil {
		post = reloaded
	}

	if s.search != nil {
		if err := s.search.IndexPost(post); err != nil {
			log.Printf("failed to index post %s: %v", post.ID, err)
		}
	}

	resp := postDto.FromEntity(post, false, false, 0, 0)

	// Live update for followers only; the author already has the response
	if s.dispatcher != nil {
		for _, followerID := range followerIDs {
			s.dispatcher.Send(followerID, "newFeed", resp)
		}
	}

	return &resp, nil
}

func (s *postService) EditPost(ctx context.Context, requesterID, postID uuid.UUID, req postDto.UpdatePostRequest) (*postDto.PostResponse, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" && req.Privacy == "" {
		return nil, fmt.Errorf("nothing to update: %w", apperror.ErrBadRequest)
	}

	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != requesterID {
		return nil, fmt.Errorf("only the author can edit a post: %w", apperror.ErrForbidden)
	}

	fields := map[string]any{"is_edited": true}
	if description != "" {
		fields["description"] = description
	}
	if req.Privacy != "" {
		fields["privacy"] = req.Privacy
	}

	if err := s.postRepo.UpdateFields(ctx, postID, fields); err != nil {
		return nil, fmt.Errorf("%w: failed to update post: %v", apperror.ErrStorage, err)
	}

	post, err = s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	// Edits are silent: no feed or notification side effects, but the search
	// index follows the post's content and privacy
	if s.search != nil {
		if err := s.search.IndexPost(post); err != nil {
			log.Printf("failed to reindex post %s: %v", post.ID, err)
		}
	}

	resp := s.annotate(ctx, post, requesterID)
	return &resp, nil
}

// DeletePost cascades in a fixed order, dependents before references, each
// step idempotent so the whole operation is safe to re-run after a crash.
func (s *postService) DeletePost(ctx context.Context, requesterID, postID uuid.UUID) error {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return err
	}

	if post.AuthorID != requesterID {
		return fmt.Errorf("only the author can delete a post: %w", apperror.ErrForbidden)
	}

	// 1. Release external photo storage handles
	if s.photoStorage != nil {
		for _, photo := range post.Photos {
			if err := s.photoStorage.DeletePhoto(ctx, photo.FileURL); err != nil {
				return fmt.Errorf("%w: failed to release photo %s: %v", apperror.ErrStorage, photo.FileURL, err)
			}
		}
	}

	// 2. The post itself (with its photo rows and like set)
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return fmt.Errorf("%w: failed to delete post: %v", apperror.ErrStorage, err)
	}
	if err := s.postRepo.DeleteLikesByPostID(ctx, postID); err != nil {
		return fmt.Errorf("%w: failed to delete likes: %v", apperror.ErrStorage, err)
	}

	// 3. Comments referencing the post
	if err := s.commentRepo.DeleteByPostID(ctx, postID); err != nil {
		return fmt.Errorf("%w: failed to delete comments: %v", apperror.ErrStorage, err)
	}

	// 4. Every feed entry across all followers, keyed by post
	if err := s.feedRepo.DeleteByPostID(ctx, postID); err != nil {
		return fmt.Errorf("%w: failed to delete feed entries: %v", apperror.ErrStorage, err)
	}

	// 5. The post leaves every user's bookmark list
	if err := s.bookmarkRepo.DeleteByPostID(ctx, postID); err != nil {
		return fmt.Errorf("%w: failed to delete bookmarks: %v", apperror.ErrStorage, err)
	}

	s.dropCounts(ctx, postID)

	if s.search != nil {
		if err := s.search.RemovePost(postID.String()); err != nil {
			log.Printf("failed to deindex post %s: %v", postID, err)
		}
	}

	return nil
}

// ToggleLike flips the requester's membership in the post's like set. A
// single toggle endpoint avoids race-prone separate like/unlike counting.
func (s *postService) ToggleLike(ctx context.Context, requesterID, postID uuid.UUID) (*postDto.ToggleLikeResponse, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.Privacy == entity.PrivacyPrivate && post.AuthorID != requesterID {
		return nil, fmt.Errorf("this post is private: %w", apperror.ErrForbidden)
	}

	liked, err := s.postRepo.HasLike(ctx, postID, requesterID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read like state: %v", apperror.ErrStorage, err)
	}

	var state bool
	if liked {
		if _, err := s.postRepo.RemoveLike(ctx, postID, requesterID); err != nil {
			return nil, fmt.Errorf("%w: failed to remove like: %v", apperror.ErrStorage, err)
		}
		state = false
		s.bumpCount(ctx, postID, "likes", -1)
	} else {
		if _, err := s.postRepo.AddLike(ctx, postID, requesterID); err != nil {
			return nil, fmt.Errorf("%w: failed to add like: %v", apperror.ErrStorage, err)
		}
		state = true
		s.bumpCount(ctx, postID, "likes", 1)
	}

	// Only the absent -> present transition notifies, and never for the
	// author liking their own post. An unlike leaves any existing
	// notification in place until a later like bumps it.
	if state && post.AuthorID != requesterID && s.notificationService != nil {
		link := "/post/" + postID.String()
		if err := s.notificationService.Notify(ctx, entity.NotificationLike, requesterID, post.AuthorID, link); err != nil {
			log.Printf("failed to record like notification for post %s: %v", postID, err)
		}
	}

	resp := s.annotate(ctx, post, requesterID)
	resp.IsLiked = state

	return &postDto.ToggleLikeResponse{Post: resp, State: state}, nil
}

func (s *postService) GetAuthorPosts(ctx context.Context, viewerID uuid.UUID, authorUsername string, filter postDto.AuthorPostsFilter) ([]postDto.PostResponse, error) {
	author, err := s.userRepo.FindByUsername(ctx, authorUsername)
	if err != nil {
		return nil, err
	}

	// Only the author may widen the filter beyond public posts
	privacy := []string{entity.PrivacyPublic}
	if viewerID == author.ID && filter.Privacy == entity.PrivacyPrivate {
		privacy = append(privacy, entity.PrivacyPrivate)
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	sortOrder := filter.SortOrder
	if sortOrder == "" {
		sortOrder = "desc"
	}

	posts, err := s.postRepo.FindByAuthor(ctx, author.ID, privacy, sortBy, sortOrder, filter.Offset*authorPageSize, authorPageSize)
	if err != nil {
		return nil, err
	}

	// An exhausted page is an empty result, not an error
	return s.HydratePosts(ctx, viewerID, posts), nil
}

func (s *postService) GetPost(ctx context.Context, viewerID, postID uuid.UUID) (*postDto.PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.Privacy == entity.PrivacyPrivate && post.AuthorID != viewerID {
		return nil, fmt.Errorf("this post is private: %w", apperror.ErrForbidden)
	}

	resp := s.annotate(ctx, post, viewerID)
	return &resp, nil
}

func (s *postService) HydratePosts(ctx context.Context, viewerID uuid.UUID, posts []*entity.Post) []postDto.PostResponse {
	responses := make([]postDto.PostResponse, 0, len(posts))
	for _, post := range posts {
		responses = append(responses, s.annotate(ctx, post, viewerID))
	}
	return responses
}
