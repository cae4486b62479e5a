// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Corphon/SentimentGateMCP/internal/api"
	"github.com/Corphon/SentimentGateMCP/internal/app"
	"github.com/Corphon/SentimentGateMCP/internal/config"
	"github.com/Corphon/SentimentGateMCP/internal/di"
	"github.com/Corphon/SentimentGateMCP/internal/logging"
	"github.com/Corphon/SentimentGateMCP/internal/services"
	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("🚀 Starting Sentiment Analyzer gateway...")

	// 1. Load the base configuration
	baseConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("✅ Base configuration loaded, port: %s", baseConfig.Port)

	// 2. Create required directories
	createDirectories(baseConfig)

	// 3. Initialize the managed configuration
	if err := config.InitConfig(baseConfig.DataDir); err != nil {
		log.Fatalf("Failed to initialize configuration: %v", err)
	}

	// 4. Structured logging
	logging.InitLogger(baseConfig.DebugMode)

	// 5. Initialize all services in dependency order
	if err := app.InitServices(); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}
	log.Println("✅ Services initialized")

	// 6. Startup health check
	if err := performHealthCheck(); err != nil {
		log.Printf("⚠️ Service health check warning: %v", err)
	}

	router, err := api.SetupRouter()
	if err != nil {
		log.Fatalf("❌ Failed to set up routes: %v", err)
	}

	log.Printf("🌐 Gateway listening on port %s", baseConfig.Port)
	log.Printf("🔗 http://localhost:%s  (health: /health, analyze: /analyze/)", baseConfig.Port)
	log.Printf("🤖 Default model: %s via Ollama (%s)", baseConfig.DefaultModel, baseConfig.OllamaBaseURL)

	setupGracefulShutdown(router, baseConfig.Port)
}

// performHealthCheck verifies critical services and probes the backend once.
func performHealthCheck() error {
	container := di.GetContainer()

	sentimentService, ok := container.Get("sentiment").(*services.SentimentService)
	if !ok {
		return fmt.Errorf("critical service not registered: sentiment")
	}

	if !sentimentService.IsReady() {
		return fmt.Errorf("sentiment service not ready: %s", sentimentService.ReadyState())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	health := sentimentService.Health(ctx)
	if health.Status != "healthy" {
		return fmt.Errorf("ollama backend not reachable, /analyze/ will answer 503 until it is started")
	}

	log.Printf("✅ Ollama backend reachable, %d model(s) available", len(health.AvailableModels))
	return nil
}

// setupGracefulShutdown serves until SIGINT/SIGTERM, then drains.
func setupGracefulShutdown(router *gin.Engine, port string) {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Forced server shutdown: %v", err)
	}

	log.Println("✅ Server shut down cleanly")
}

// createDirectories creates the directory structure the app expects.
func createDirectories(cfg *config.Config) {
	dirs := []string{
		cfg.DataDir,
		cfg.LogDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
