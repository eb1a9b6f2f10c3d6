package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gng-archive-api/internal/config"
	"github.com/gng-archive-api/internal/realtime"
	"github.com/gng-archive-api/internal/service"
	"github.com/rs/zerolog"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, hub *realtime.Hub, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	recordHandler := NewRecordHandler(services, cfg, log)
	pendingHandler := NewPendingHandler(services, recordHandler, cfg, log)
	exportHandler := NewExportHandler(services, log)
	publicHandler := NewPublicHandler(services, hub, log)

	// Health check
	router.GET("/health", healthCheck)
	router.GET("/metrics", metricsHandler(services))

	// Public surface
	router.GET("/feed.json", publicHandler.Feed)
	router.Static("/evidence", cfg.Storage.UploadDir)

	// API v1
	v1 := router.Group("/v1")
	{
		records := v1.Group("/records")
		{
			records.GET("", recordHandler.List)
			records.POST("", recordHandler.Create)
			records.GET("/slug/:slug", recordHandler.GetBySlug)
			records.GET("/:id", recordHandler.Get)
			records.PUT("/:id", recordHandler.Update)
			records.DELETE("/:id", recordHandler.Delete)
			records.GET("/:id/edit", recordHandler.Edit)
			records.POST("/:id/publish", recordHandler.TogglePublish)
		}

		pending := v1.Group("/pending")
		{
			pending.GET("", pendingHandler.List)
			pending.POST("", pendingHandler.Submit)
			pending.DELETE("/:id", pendingHandler.Delete)
			pending.GET("/:id/review", pendingHandler.Review)
			pending.POST("/:id/promote", pendingHandler.Promote)
		}

		v1.GET("/export", exportHandler.StreamCSV)
		v1.GET("/timeline", publicHandler.Timeline)
		v1.GET("/stats", publicHandler.Stats)
		v1.GET("/events", publicHandler.Events)
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "gng-archive-api",
	})
}

// metricsHandler returns archive size counters
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		stats, err := services.Archive.Stats(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute metrics"})
			return
		}
		pending, err := services.Archive.ListPending(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute metrics"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"database": gin.H{
				"debunks": stats.Total,
				"pending": len(pending),
			},
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
