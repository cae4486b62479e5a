// internal/api/handlers.go
package api

import (
	"net/http"
	"time"

	"github.com/Corphon/SentimentGateMCP/internal/services"
	"github.com/gin-gonic/gin"
)

// Handler serves the gateway's HTTP surface.
type Handler struct {
	SentimentService *services.SentimentService
	Response         *ResponseHelper
}

// NewHandler creates the API handler around its services.
func NewHandler(sentimentService *services.SentimentService) *Handler {
	return &Handler{
		SentimentService: sentimentService,
		Response:         NewResponseHelper(),
	}
}

// Root answers the liveness banner.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "Sentiment Analyzer API is running",
		"model":     h.SentimentService.DefaultModel() + " via Ollama",
		"timestamp": time.Now(),
	})
}

// HealthCheck reports backend reachability and the served model list.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, h.SentimentService.Health(c.Request.Context()))
}

// AnalyzeSentiment classifies the posted text. Form fields: text
// (required) and model (optional).
func (h *Handler) AnalyzeSentiment(c *gin.Context) {
	text := c.PostForm("text")
	model := c.PostForm("model")

	result, err := h.SentimentService.Analyze(c.Request.Context(), text, model)
	if err != nil {
		h.Response.FromError(c, err)
		return
	}

	h.Response.Success(c, result)
}
