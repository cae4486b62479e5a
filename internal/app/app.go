// internal/app/app.go
package app

import (
	"fmt"

	"github.com/Corphon/SentimentGateMCP/internal/di"
	"github.com/Corphon/SentimentGateMCP/internal/services"

	// Registers the ollama provider with the llm registry.
	_ "github.com/Corphon/SentimentGateMCP/internal/llm/providers/ollama"
)

// InitServices creates all services in dependency order and registers
// them in the container.
func InitServices() error {
	container := di.GetContainer()

	sentimentService, err := services.NewSentimentService()
	if err != nil {
		return fmt.Errorf("failed to create sentiment service: %w", err)
	}
	container.Register("sentiment", sentimentService)

	return nil
}
