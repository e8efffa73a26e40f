package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/config"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/logger"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/sse"
)

const readHeaderTimeout = 10 * time.Second

// SetupRouter creates the gin engine with all routes.
func SetupRouter(log logger.Logger, service *RunService, broker sse.Broker) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	runs := NewRunsHandler(service)
	v1 := router.Group("/api/v1")
	v1.POST("/runs", runs.StartRun)
	v1.GET("/runs/current", runs.GetRun)
	v1.DELETE("/runs/current", runs.CancelRun)
	v1.GET("/runs/current/records", runs.ListRecords)
	v1.GET("/runs/current/records/:seq", runs.GetRecord)
	if broker != nil {
		v1.GET("/runs/events", sse.Handler(broker, log))
	}

	return router
}

// NewServer wraps handler in an http.Server configured from cfg.
func NewServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

func loggingMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("HTTP Request",
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.String("query", c.Request.URL.RawQuery),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("latency", time.Since(start)),
		)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Cache-Control")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
