package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health handles GET /api/health by pinging the database.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		log.Printf("Health check failed: %v", err)
		abortJSON(c, http.StatusServiceUnavailable, codeUnavailable, "Database is unreachable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
