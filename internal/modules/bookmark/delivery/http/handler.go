package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	bookmarkService "github.com/sociable-dev/sociable/internal/modules/bookmark/service"
	"github.com/sociable-dev/sociable/pkg/apperror"
	"github.com/sociable-dev/sociable/pkg/response"
)

type BookmarkHandler struct {
	service bookmarkService.BookmarkService
}

func NewBookmarkHandler(service bookmarkService.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{service: service}
}

func (h *BookmarkHandler) Toggle(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	postID, err := uuid.Parse(c.Param("post_id"))
	if err != nil {
		response.ResponseError(c, fmt.Errorf("invalid post_id: %w", apperror.ErrBadRequest))
		return
	}

	state, err := h.service.ToggleBookmark(c.Request.Context(), userID, postID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"state": state}})
}

func (h *BookmarkHandler) List(c *gin.Context) {
	userID, err := response.GetUserID(c)
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

	posts, err := h.service.GetBookmarks(c.Request.Context(), userID, offset, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": posts})
}
