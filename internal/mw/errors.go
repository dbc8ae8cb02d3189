package mw

import "github.com/gin-gonic/gin"

// abort stops the chain with the error body shared by every endpoint.
func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": code, "message": message})
}
