package utils

import (
	"github.com/gin-gonic/gin"
)

// JSONResponse sends a structured JSON response with the payload stored under key.
// An empty key omits the payload.
func JSONResponse(c *gin.Context, status int, key string, data any, message string) {
	body := gin.H{
		"status":  status,
		"message": message,
	}
	if key != "" {
		body[key] = data
	}
	c.JSON(status, body)
}

// JSONError sends a structured error response
func JSONError(c *gin.Context, status int, err error, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"error":   err.Error(),
	})
}
