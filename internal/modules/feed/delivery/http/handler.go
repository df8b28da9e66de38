package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	feedService "github.com/sociable-dev/sociable/internal/modules/feed/service"
	"github.com/sociable-dev/sociable/pkg/response"
)

type FeedHandler struct {
	service feedService.FeedService
}

func NewFeedHandler(service feedService.FeedService) *FeedHandler {
	return &FeedHandler{service: service}
}

func (h *FeedHandler) GetNewsFeed(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	posts, err := h.service.GetNewsFeed(c.Request.Context(), userID, offset)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": posts})
}
