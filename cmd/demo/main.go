// cmd/demo/main.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/Corphon/SentimentGateMCP/internal/models"
	"github.com/spf13/cobra"
)

// Console client for the sentiment gateway. Useful for trying the service
// without the web UI.

var (
	serverURL string
	timeout   time.Duration
	modelName string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sentiment-demo",
		Short: "Console client for the Sentiment Analyzer gateway",
	}

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "gateway base URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [text]",
		Short: "Classify the sentiment of a piece of text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(strings.Join(args, " "))
		},
	}
	analyzeCmd.Flags().StringVar(&modelName, "model", "", "model to use (defaults to the gateway's default)")

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Show gateway and Ollama backend status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHealth()
		},
	}

	rootCmd.AddCommand(analyzeCmd, healthCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAnalyze(text string) error {
	client := &http.Client{Timeout: timeout}

	form := url.Values{}
	form.Set("text", text)
	if modelName != "" {
		form.Set("model", modelName)
	}

	resp, err := client.PostForm(strings.TrimRight(serverURL, "/")+"/analyze/", form)
	if err != nil {
		return fmt.Errorf("failed to reach gateway: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway error (%d): %s", resp.StatusCode, errorDetail(body))
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to decode result: %w", err)
	}

	fmt.Printf("%s %s (%s confidence)\n", sentimentEmoji(result.Sentiment), result.Sentiment, result.Confidence)
	fmt.Printf("   model: %s | input: %d chars | raw: %q\n", result.ModelUsed, result.InputLength, result.RawResponse)
	return nil
}

func runHealth() error {
	client := &http.Client{Timeout: timeout}

	resp, err := client.Get(strings.TrimRight(serverURL, "/") + "/health")
	if err != nil {
		return fmt.Errorf("failed to reach gateway: %w", err)
	}
	defer resp.Body.Close()

	var health models.HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return fmt.Errorf("failed to decode health response: %w", err)
	}

	fmt.Printf("gateway: %s | ollama: %s | default model: %s\n",
		health.Status, health.OllamaService, health.DefaultModel)
	if len(health.AvailableModels) > 0 {
		fmt.Printf("available models: %s\n", strings.Join(health.AvailableModels, ", "))
	} else {
		fmt.Println("available models: none (try: ollama pull mistral:7b-instruct)")
	}
	return nil
}

func errorDetail(body []byte) string {
	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &detail); err == nil && detail.Detail != "" {
		return detail.Detail
	}
	return strings.TrimSpace(string(body))
}

// sentimentEmoji mirrors the web UI mapping: substring match on the label.
func sentimentEmoji(sentiment string) string {
	lower := strings.ToLower(sentiment)
	switch {
	case strings.Contains(lower, "positive"):
		return "😊"
	case strings.Contains(lower, "negative"):
		return "😞"
	default:
		return "😐"
	}
}
