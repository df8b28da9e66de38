package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	postDto "github.com/sociable-dev/sociable/internal/modules/post/dto"
	postService "github.com/sociable-dev/sociable/internal/modules/post/service"
	"github.com/sociable-dev/sociable/pkg/apperror"
	"github.com/sociable-dev/sociable/pkg/response"
	"github.com/sociable-dev/sociable/pkg/validator"
)

type PostHandler struct {
	service postService.PostService
}

func NewPostHandler(service postService.PostService) *PostHandler {
	return &PostHandler{service: service}
}

func parsePostID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid post id: %w", apperror.ErrBadRequest)
	}
	return id, nil
}

func (h *PostHandler) Publish(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req postDto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	post, err := h.service.PublishPost(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": post})
}

func (h *PostHandler) AuthorPosts(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var filter postDto.AuthorPostsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	posts, err := h.service.GetAuthorPosts(c.Request.Context(), userID, c.Param("username"), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": posts})
}

func (h *PostHandler) ToggleLike(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	postID, err := parsePostID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	result, err := h.service.ToggleLike(c.Request.Context(), userID, postID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *PostHandler) Edit(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	postID, err := parsePostID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req postDto.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	post, err := h.service.EditPost(c.Request.Context(), userID, postID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": post})
}

func (h *PostHandler) Delete(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	postID, err := parsePostID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.DeletePost(c.Request.Context(), userID, postID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}

func (h *PostHandler) GetByID(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	postID, err := parsePostID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	post, err := h.service.GetPost(c.Request.Context(), userID, postID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": post})
}
