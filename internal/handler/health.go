package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	service string
}

// NewHealthHandler creates a HealthHandler reporting the given service name.
func NewHealthHandler(service string) *HealthHandler {
	return &HealthHandler{service: service}
}

// Index identifies the service.
func (h *HealthHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": h.service,
	})
}

// Health returns service health status. No side effects.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
