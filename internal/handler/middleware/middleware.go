// Package middleware holds the gin middleware chain shared by every API route.
package middleware

import (
	"github.com/gin-gonic/gin"
)

const (
	HeaderRequestID = "X-Request-ID"

	requestIDKey = "request_id"
	actorKey     = "actor"
)

func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
