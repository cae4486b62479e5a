// internal/api/router.go
package api

import (
	"fmt"
	"net/http"

	"github.com/Corphon/SentimentGateMCP/internal/config"
	"github.com/Corphon/SentimentGateMCP/internal/di"
	"github.com/Corphon/SentimentGateMCP/internal/services"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures the gateway's HTTP routes. Services are taken
// from the container; the router never creates them.
func SetupRouter() (*gin.Engine, error) {
	cfg := config.GetCurrentConfig()
	if !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	container := di.GetContainer()

	sentimentService, ok := container.Get("sentiment").(*services.SentimentService)
	if !ok {
		return nil, fmt.Errorf("sentiment service not initialized")
	}

	handler := NewHandler(sentimentService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger())
	r.Use(corsMiddleware())

	r.GET("/", handler.Root)
	r.GET("/health", handler.HealthCheck)
	r.POST("/analyze/", handler.AnalyzeSentiment)

	return r, nil
}

// corsMiddleware enables cross-origin access for the browser UI, which
// runs on its own port.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
