// internal/services/sentiment_service.go
package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Corphon/SentimentGateMCP/internal/config"
	apperrors "github.com/Corphon/SentimentGateMCP/internal/errors"
	"github.com/Corphon/SentimentGateMCP/internal/llm"
	"github.com/Corphon/SentimentGateMCP/internal/models"
)

const (
	minTextLength = 3
	maxTextLength = 5000

	// Low temperature and a short output cap keep the one-word replies
	// deterministic.
	promptTemperature = 0.1
	promptMaxTokens   = 10

	apiVersion = "1.0.0"

	fallbackDefaultModel = "mistral:7b-instruct"
)

const sentimentPromptTemplate = `Analyze the sentiment of the following text and respond with ONLY one word: Positive, Negative, or Neutral.

Text: "%s"

Sentiment:`

// SentimentService turns free text into a sentiment label by delegating
// to the configured inference provider and normalizing its reply.
type SentimentService struct {
	providerMutex sync.RWMutex
	provider      llm.Provider
	providerName  string
	defaultModel  string
	isReady       bool
	readyState    string
}

// NewSentimentService creates the service from the current configuration.
// A failed provider initialization yields a not-ready service, not an error.
func NewSentimentService() (*SentimentService, error) {
	service := &SentimentService{
		readyState:   "Uninitialized",
		defaultModel: fallbackDefaultModel,
	}

	cfg := config.GetCurrentConfig()
	if cfg == nil {
		service.readyState = "Failed to retrieve configuration"
		return service, nil
	}

	if model := cfg.LLMConfig["default_model"]; model != "" {
		service.defaultModel = model
	}

	provider, err := llm.GetProvider(cfg.LLMProvider, cfg.LLMConfig)
	if err != nil {
		service.readyState = fmt.Sprintf("Initialization failed: %v", err)
		return service, nil
	}

	service.provider = provider
	service.providerName = cfg.LLMProvider
	service.isReady = true
	service.readyState = "Ready"

	return service, nil
}

// IsReady reports whether a provider is configured.
func (s *SentimentService) IsReady() bool {
	s.providerMutex.RLock()
	defer s.providerMutex.RUnlock()
	return s.isReady
}

// ReadyState describes the service state for startup diagnostics.
func (s *SentimentService) ReadyState() string {
	s.providerMutex.RLock()
	defer s.providerMutex.RUnlock()
	return s.readyState
}

// DefaultModel returns the model used when the client names none.
func (s *SentimentService) DefaultModel() string {
	return s.defaultModel
}

// Health probes the inference backend and reports its model list.
func (s *SentimentService) Health(ctx context.Context) *models.HealthStatus {
	status := &models.HealthStatus{
		Status:          "degraded",
		OllamaService:   "not available",
		AvailableModels: []string{},
		DefaultModel:    s.defaultModel,
		Timestamp:       time.Now(),
		APIVersion:      apiVersion,
	}

	provider := s.currentProvider()
	if provider == nil {
		return status
	}

	if err := provider.Ping(ctx); err != nil {
		return status
	}

	status.Status = "healthy"
	status.OllamaService = "running"

	if available, err := provider.ListModels(ctx); err == nil {
		status.AvailableModels = available
	}

	return status
}

// Analyze validates the input, probes the backend, resolves the model and
// normalizes the generated reply into a sentiment label. Errors carry the
// apperrors type the API layer maps to a status code.
func (s *SentimentService) Analyze(ctx context.Context, text, modelName string) (*models.AnalysisResult, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, apperrors.NewValidationError("Text input is required", nil)
	}

	length := utf8.RuneCountInString(trimmed)
	if length < minTextLength {
		return nil, apperrors.NewValidationError("Text too short (minimum 3 characters)", nil)
	}
	if length > maxTextLength {
		return nil, apperrors.NewValidationError("Text too long (maximum 5,000 characters)", nil)
	}

	provider := s.currentProvider()
	if provider == nil {
		return nil, apperrors.NewUnavailableError(
			"Sentiment service is not configured: "+s.ReadyState(), nil)
	}

	if err := provider.Ping(ctx); err != nil {
		return nil, apperrors.NewUnavailableError(
			"Ollama service is not available. Please ensure Ollama is running.", err)
	}

	// Ping succeeded, so a listing failure here only costs the
	// substitution check.
	available, _ := provider.ListModels(ctx)
	modelToUse := s.resolveModel(modelName, available)

	resp, err := provider.Generate(ctx, llm.GenerateRequest{
		Model:       modelToUse,
		Prompt:      fmt.Sprintf(sentimentPromptTemplate, trimmed),
		Temperature: promptTemperature,
		MaxTokens:   promptMaxTokens,
		Stream:      false,
	})
	if err != nil {
		return nil, err
	}

	raw := strings.TrimSpace(resp.Text)
	if raw == "" {
		return nil, apperrors.NewProcessingError("Empty response from model", nil)
	}

	label := NormalizeLabel(raw)

	return &models.AnalysisResult{
		Sentiment:   label,
		Confidence:  ConfidenceFor(label),
		ModelUsed:   modelToUse,
		InputText:   trimmed,
		InputLength: length,
		RawResponse: raw,
		Timestamp:   time.Now(),
		Status:      "success",
	}, nil
}

// resolveModel picks the requested model, falling back to the default,
// and substitutes the first available model when the chosen name is not
// served by the backend.
func (s *SentimentService) resolveModel(requested string, available []string) string {
	modelToUse := requested
	if modelToUse == "" {
		modelToUse = s.defaultModel
	}

	if len(available) > 0 && !slices.Contains(available, modelToUse) {
		modelToUse = available[0]
	}

	return modelToUse
}

func (s *SentimentService) currentProvider() llm.Provider {
	s.providerMutex.RLock()
	defer s.providerMutex.RUnlock()
	return s.provider
}
