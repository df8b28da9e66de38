package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/sociable-dev/sociable/internal/entity"
)

type CreateCommentRequest struct {
	Body string `json:"body" binding:"required,max=1000"`
}

type OwnerResponse struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	FullName       string    `json:"fullName"`
	ProfilePicture *string   `json:"profilePicture"`
}

type CommentResponse struct {
	ID        uuid.UUID     `json:"id"`
	PostID    uuid.UUID     `json:"postId"`
	Body      string        `json:"body"`
	Owner     OwnerResponse `json:"owner"`
	CreatedAt time.Time     `json:"createdAt"`
}

func FromEntity(comment *entity.Comment) CommentResponse {
	return CommentResponse{
		ID:     comment.ID,
		PostID: comment.PostID,
		Body:   comment.Body,
		Owner: OwnerResponse{
			ID:             comment.Owner.ID,
			Username:       comment.Owner.Username,
			FullName:       comment.Owner.FullName,
			ProfilePicture: comment.Owner.ProfilePicture,
		},
		CreatedAt: comment.CreatedAt,
	}
}
