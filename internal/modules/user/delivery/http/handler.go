package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	userDto "github.com/sociable-dev/sociable/internal/modules/user/dto"
	userService "github.com/sociable-dev/sociable/internal/modules/user/service"
	"github.com/sociable-dev/sociable/pkg/response"
	"github.com/sociable-dev/sociable/pkg/validator"
)

type AuthHandler struct {
	service userService.AuthService
}

func NewAuthHandler(service userService.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req userDto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req userDto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := h.service.GetProfile(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}
