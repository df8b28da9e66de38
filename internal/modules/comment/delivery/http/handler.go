package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	commentDto "github.com/sociable-dev/sociable/internal/modules/comment/dto"
	commentService "github.com/sociable-dev/sociable/internal/modules/comment/service"
	"github.com/sociable-dev/sociable/pkg/apperror"
	"github.com/sociable-dev/sociable/pkg/response"
	"github.com/sociable-dev/sociable/pkg/validator"
)

type CommentHandler struct {
	service commentService.CommentService
}

func NewCommentHandler(service commentService.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

func parseParamID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", name, apperror.ErrBadRequest)
	}
	return id, nil
}

func (h *CommentHandler) Create(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	postID, err := parseParamID(c, "post_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req commentDto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	comment, err := h.service.CreateComment(c.Request.Context(), userID, postID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": comment})
}

func (h *CommentHandler) List(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	postID, err := parseParamID(c, "post_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	comments, err := h.service.GetComments(c.Request.Context(), userID, postID, offset, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": comments})
}

func (h *CommentHandler) Delete(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	commentID, err := parseParamID(c, "comment_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.DeleteComment(c.Request.Context(), userID, commentID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}
