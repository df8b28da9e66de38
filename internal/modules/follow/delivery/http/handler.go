package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	followService "github.com/sociable-dev/sociable/internal/modules/follow/service"
	"github.com/sociable-dev/sociable/pkg/response"
)

type FollowHandler struct {
	service followService.FollowService
}

func NewFollowHandler(service followService.FollowService) *FollowHandler {
	return &FollowHandler{service: service}
}

func (h *FollowHandler) Follow(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Follow(c.Request.Context(), userID, c.Param("username")); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "followed"})
}

func (h *FollowHandler) Unfollow(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Unfollow(c.Request.Context(), userID, c.Param("username")); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "unfollowed"})
}

func (h *FollowHandler) Followers(c *gin.Context) {
	users, err := h.service.Followers(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": users})
}

func (h *FollowHandler) Following(c *gin.Context) {
	users, err := h.service.Following(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": users})
}
