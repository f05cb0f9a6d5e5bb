package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseID reads a numeric path parameter. The second return value is
// false when the parameter is not a positive integer.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
