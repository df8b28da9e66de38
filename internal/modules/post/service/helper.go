package service

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sociable-dev/sociable/internal/entity"
	postDto "github.com/sociable-dev/sociable/internal/modules/post/dto"
)

const countsCacheTTL = 7 * 24 * time.Hour

func countsKey(postID uuid.UUID) string {
	return "counts:post:" + postID.String()
}

// annotate decorates a post with the viewer-specific flags and the cached
// engagement counts. Annotation failures degrade to zero values rather than
// failing the read.
func (s *postService) annotate(ctx context.Context, post *entity.Post, viewerID uuid.UUID) postDto.PostResponse {
	isLiked := false
	isBookmarked := false
	if viewerID != uuid.Nil {
		isLiked, _ = s.postRepo.HasLike(ctx, post.ID, viewerID)
		isBookmarked, _ = s.bookmarkRepo.Exists(ctx, post.ID, viewerID)
	}

	likes, comments := s.engagementCounts(ctx, post.ID)

	return postDto.FromEntity(post, isLiked, isBookmarked, likes, comments)
}

// engagementCounts reads the per-post counter hash from Redis, rebuilding it
// from the database on a miss.
func (s *postService) engagementCounts(ctx context.Context, postID uuid.UUID) (int64, int64) {
	if s.redisClient != nil {
		fields, err := s.redisClient.HGetAll(ctx, countsKey(postID)).Result()
		if err == nil && len(fields) > 0 {
			likes, likesErr := strconv.ParseInt(fields["likes"], 10, 64)
			comments, commentsErr := strconv.ParseInt(fields["comments"], 10, 64)
			if likesErr == nil && commentsErr == nil {
				return likes, comments
			}
		}
	}

	likes, err := s.postRepo.CountLikes(ctx, postID)
	if err != nil {
		log.Printf("failed to count likes for post %s: %v", postID, err)
	}
	comments, err := s.commentRepo.CountByPostID(ctx, postID)
	if err != nil {
		log.Printf("failed to count comments for post %s: %v", postID, err)
	}

	if s.redisClient != nil {
		key := countsKey(postID)
		pipe := s.redisClient.Pipeline()
		pipe.HSet(ctx, key, "likes", likes, "comments", comments)
		pipe.Expire(ctx, key, countsCacheTTL)
		if _, err := pipe.Exec(ctx); err != nil {
			log.Printf("failed to cache counts for post %s: %v", postID, err)
		}
	}

	return likes, comments
}

// bumpCount adjusts one counter field, but only when the hash already
// exists. Writing a single field into a missing hash would leave the other
// counter unset and poison later reads.
func (s *postService) bumpCount(ctx context.Context, postID uuid.UUID, field string, delta int64) {
	if s.redisClient == nil {
		return
	}
	key := countsKey(postID)
	exists, err := s.redisClient.Exists(ctx, key).Result()
	if err != nil || exists == 0 {
		return
	}
	if err := s.redisClient.HIncrBy(ctx, key, field, delta).Err(); err != nil {
		log.Printf("failed to bump %s count for post %s: %v", field, postID, err)
	}
}

func (s *postService) dropCounts(ctx context.Context, postID uuid.UUID) {
	if s.redisClient == nil {
		return
	}
	if err := s.redisClient.Del(ctx, countsKey(postID)).Err(); err != nil {
		log.Printf("failed to drop counts for post %s: %v", postID, err)
	}
}
