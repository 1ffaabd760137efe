package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/engagekit/engagement-tracker/internal/handler"
	"github.com/engagekit/engagement-tracker/internal/middleware"
)

// SetupRoutes configures all API routes.
func SetupRoutes(
	router *gin.Engine,
	visitHandler *handler.VisitHandler,
	clicksHandler *handler.ClicksHandler,
	healthHandler *handler.HealthHandler,
	maxVisitsPerMin int,
	rateLimitWindow time.Duration,
	done <-chan struct{},
) {
	router.GET("/", healthHandler.Index)
	router.GET("/health", healthHandler.Health)

	// Visit redirect with bot filter and rate limiting
	visit := router.Group("")
	visit.Use(middleware.BotFilter())
	visit.Use(middleware.RateLimiter(maxVisitsPerMin, rateLimitWindow, done))
	visit.GET("/visit", visitHandler.HandleVisit)

	api := router.Group("/api")
	api.GET("/clicks/:session", clicksHandler.ListClicks)
	api.POST("/clear/:session", clicksHandler.ClearSession)
}
