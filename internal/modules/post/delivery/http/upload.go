package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sociable-dev/sociable/pkg/apperror"
	"github.com/sociable-dev/sociable/pkg/response"
	"github.com/sociable-dev/sociable/pkg/storage"
)

const maxUploadSize = 10 << 20 // 10 MB

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type UploadHandler struct {
	storage storage.PhotoStorage
	folder  string
}

func NewUploadHandler(storage storage.PhotoStorage, folder string) *UploadHandler {
	return &UploadHandler{storage: storage, folder: folder}
}

// Upload stores an image and returns its URL. The URL is a reference the
// client passes back on publish; nothing ties it to a post until then.
func (h *UploadHandler) Upload(c *gin.Context) {
	if _, err := response.GetUserID(c); err != nil {
		response.ResponseError(c, err)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.ResponseError(c, fmt.Errorf("image file is required: %w", apperror.ErrBadRequest))
		return
	}

	if fileHeader.Size > maxUploadSize {
		response.ResponseError(c, fmt.Errorf("image must be at most 10MB: %w", apperror.ErrBadRequest))
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExtensions[ext] {
		response.ResponseError(c, fmt.Errorf("unsupported image type %s: %w", ext, apperror.ErrBadRequest))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.ResponseError(c, fmt.Errorf("%w: failed to open upload: %v", apperror.ErrStorage, err))
		return
	}
	defer file.Close()

	fileName := uuid.New().String()
	url, err := h.storage.UploadPhoto(c.Request.Context(), file, h.folder, fileName)
	if err != nil {
		response.ResponseError(c, fmt.Errorf("%w: failed to upload image: %v", apperror.ErrStorage, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"url": url}})
}
