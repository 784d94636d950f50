package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultFrom = 0
	defaultSize = 10
)

// parseID reads a positive int64 path parameter.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parsePagination extracts from and size query parameters with defaults.
// Range checks are left to the services.
func parsePagination(c *gin.Context) (from, size int, ok bool) {
	from, err := strconv.Atoi(c.DefaultQuery("from", strconv.Itoa(defaultFrom)))
	if err != nil {
		return 0, 0, false
	}
	size, err = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultSize)))
	if err != nil {
		return 0, 0, false
	}
	return from, size, true
}
