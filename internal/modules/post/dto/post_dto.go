package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/sociable-dev/sociable/internal/entity"
)

type CreatePostRequest struct {
	Description string   `json:"description" binding:"max=2000"`
	Photos      []string `json:"photos" binding:"max=5"`
	Privacy     string   `json:"privacy" binding:"omitempty,oneof=public private"`
}

type UpdatePostRequest struct {
	Description string `json:"description" binding:"max=2000"`
	Privacy     string `json:"privacy" binding:"omitempty,oneof=public private"`
}

type AuthorPostsFilter struct {
	Privacy   string `form:"privacy" binding:"omitempty,oneof=public private"`
	SortBy    string `form:"sortBy" binding:"omitempty,oneof=created_at updated_at"`
	SortOrder string `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
	Offset    int    `form:"offset" binding:"omitempty,min=0"`
}

type AuthorResponse struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	FullName       string    `json:"fullname"`
	ProfilePicture *string   `json:"profile_picture"`
}

type PostResponse struct {
	ID            uuid.UUID      `json:"id"`
	Author        AuthorResponse `json:"author"`
	Description   string         `json:"description"`
	Privacy       string         `json:"privacy"`
	Photos        []string       `json:"photos"`
	IsEdited      bool           `json:"is_edited"`
	LikesCount    int64          `json:"likes_count"`
	CommentsCount int64          `json:"comments_count"`
	IsLiked       bool           `json:"is_liked"`
	IsBookmarked  bool           `json:"is_bookmarked"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

type ToggleLikeResponse struct {
	Post  PostResponse `json:"post"`
	State bool         `json:"state"`
}

// FromEntity maps a post plus viewer annotations into the wire shape.
func FromEntity(post *entity.Post, isLiked, isBookmarked bool, likes, comments int64) PostResponse {
	photos := make([]string, 0, len(post.Photos))
	for _, p := range post.Photos {
		photos = append(photos, p.FileURL)
	}

	return PostResponse{
		ID: post.ID,
		Author: AuthorResponse{
			ID:             post.AuthorID,
			Username:       post.Author.Username,
			FullName:       post.Author.FullName,
			ProfilePicture: post.Author.ProfilePicture,
		},
		Description:   post.Description,
		Privacy:       post.Privacy,
		Photos:        photos,
		IsEdited:      post.IsEdited,
		LikesCount:    likes,
		CommentsCount: comments,
		IsLiked:       isLiked,
		IsBookmarked:  isBookmarked,
		CreatedAt:     post.CreatedAt,
		UpdatedAt:     post.UpdatedAt,
	}
}
