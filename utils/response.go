package utils

import "github.com/gin-gonic/gin"

// JSONDetail answers in the store's error shape: {"detail": "..."}.
func JSONDetail(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"detail": message})
}

// JSONError answers in the calendar's error shape. extra keys (the current
// grid, the open form) are merged next to "error".
func JSONError(c *gin.Context, code int, errCode, message string, extra gin.H) {
	body := gin.H{"error": gin.H{"code": errCode, "message": message}}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(code, body)
}
