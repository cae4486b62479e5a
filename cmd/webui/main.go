// cmd/webui/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Corphon/SentimentGateMCP/internal/config"
	"github.com/Corphon/SentimentGateMCP/internal/logging"
	"github.com/gin-gonic/gin"
)

// The UI is pure presentation: it renders one page whose JavaScript talks
// to the gateway's /health and /analyze/ endpoints directly.
func main() {
	log.Println("🚀 Starting Sentiment Analyzer web UI...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logging.InitLogger(cfg.DebugMode)

	if !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Static("/static", cfg.StaticDir)
	r.LoadHTMLGlob(filepath.Join(cfg.TemplatesDir, "*.html"))

	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{
			"GatewayURL":   cfg.GatewayURL,
			"DefaultModel": cfg.DefaultModel,
		})
	})

	log.Printf("🌐 Web UI listening on port %s", cfg.UIPort)
	log.Printf("🔗 http://localhost:%s (gateway: %s)", cfg.UIPort, cfg.GatewayURL)

	srv := &http.Server{
		Addr:    ":" + cfg.UIPort,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to start web UI: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down web UI...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Forced shutdown: %v", err)
	}
}
