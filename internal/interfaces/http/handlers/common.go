// internal/interfaces/http/handlers/common.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// parsePagination reads page/limit query parameters, writing a 400 response
// and returning ok=false when they are invalid
func parsePagination(c *gin.Context) (page, limit int, ok bool) {
	pageParam := c.DefaultQuery("page", "1")
	limitParam := c.DefaultQuery("limit", "10")

	page, err := strconv.Atoi(pageParam)
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid pagination parameters",
		})
		return 0, 0, false
	}

	limit, err = strconv.Atoi(limitParam)
	if err != nil || limit < 1 || limit > 100 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid pagination parameters",
		})
		return 0, 0, false
	}

	return page, limit, true
}

// totalPages computes the page count for a paginated response
func totalPages(total int64, limit int) int64 {
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return pages
}
