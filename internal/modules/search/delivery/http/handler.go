package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	searchService "github.com/sociable-dev/sociable/internal/modules/search/service"
	"github.com/sociable-dev/sociable/pkg/response"
)

type SearchHandler struct {
	service searchService.SearchService
}

func NewSearchHandler(service searchService.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if limit < 1 || limit > 50 {
		limit = 20
	}

	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search is not available"})
		return
	}

	hits, err := h.service.Search(query, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": hits})
}
