// internal/services/sentiment_service_test.go
package services

import (
	"context"
	"strings"
	"testing"

	apperrors "github.com/Corphon/SentimentGateMCP/internal/errors"
	"github.com/Corphon/SentimentGateMCP/internal/llm"
)

// fakeProvider is a scripted inference backend for service tests.
type fakeProvider struct {
	pingErr     error
	models      []string
	reply       string
	generateErr error
	lastRequest llm.GenerateRequest
	calls       int
}

func (f *fakeProvider) Initialize(config map[string]string) error { return nil }
func (f *fakeProvider) GetName() string                           { return "fake" }

func (f *fakeProvider) Ping(ctx context.Context) error {
	return f.pingErr
}

func (f *fakeProvider) ListModels(ctx context.Context) ([]string, error) {
	return f.models, nil
}

func (f *fakeProvider) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	f.calls++
	f.lastRequest = req
	if f.generateErr != nil {
		return nil, f.generateErr
	}
	return &llm.GenerateResponse{Text: f.reply, ModelName: req.Model, ProviderName: "fake"}, nil
}

func newTestService(provider llm.Provider) *SentimentService {
	return &SentimentService{
		provider:     provider,
		providerName: "fake",
		defaultModel: "mistral:7b-instruct",
		isReady:      true,
		readyState:   "Ready",
	}
}

func TestAnalyzeValidation(t *testing.T) {
	fake := &fakeProvider{models: []string{"mistral:7b-instruct"}, reply: "Positive"}
	service := newTestService(fake)

	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"whitespace only", "   \t\n "},
		{"two characters", "ab"},
		{"too long", strings.Repeat("x", 5001)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Analyze(context.Background(), tt.text, "")
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !apperrors.IsValidationError(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}

	if fake.calls != 0 {
		t.Errorf("invalid input must not reach the backend, got %d calls", fake.calls)
	}
}

func TestAnalyzeBoundaryLengths(t *testing.T) {
	fake := &fakeProvider{models: []string{"mistral:7b-instruct"}, reply: "Positive"}
	service := newTestService(fake)

	// Exactly 3 and exactly 5000 runes are within bounds.
	for _, text := range []string{"abc", strings.Repeat("y", 5000)} {
		if _, err := service.Analyze(context.Background(), text, ""); err != nil {
			t.Errorf("Analyze(%d chars) unexpected error: %v", len(text), err)
		}
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	fake := &fakeProvider{models: []string{"mistral:7b-instruct"}, reply: " Positive \n"}
	service := newTestService(fake)

	result, err := service.Analyze(context.Background(), "  I love this!  ", "")
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if result.Sentiment != LabelPositive {
		t.Errorf("Sentiment = %q, want %q", result.Sentiment, LabelPositive)
	}
	if result.Confidence != "high" {
		t.Errorf("Confidence = %q, want high", result.Confidence)
	}
	if result.ModelUsed != "mistral:7b-instruct" {
		t.Errorf("ModelUsed = %q", result.ModelUsed)
	}
	if result.InputText != "I love this!" {
		t.Errorf("InputText should be trimmed, got %q", result.InputText)
	}
	if result.InputLength != len("I love this!") {
		t.Errorf("InputLength = %d", result.InputLength)
	}
	if result.RawResponse != "Positive" {
		t.Errorf("RawResponse should be trimmed, got %q", result.RawResponse)
	}
	if result.Status != "success" {
		t.Errorf("Status = %q", result.Status)
	}

	if !strings.Contains(fake.lastRequest.Prompt, `Text: "I love this!"`) {
		t.Errorf("prompt does not embed the input: %q", fake.lastRequest.Prompt)
	}
	if fake.lastRequest.Temperature != 0.1 || fake.lastRequest.MaxTokens != 10 {
		t.Errorf("generation options = (%v, %d), want (0.1, 10)",
			fake.lastRequest.Temperature, fake.lastRequest.MaxTokens)
	}
	if fake.lastRequest.Stream {
		t.Error("generation must not stream")
	}
}

func TestAnalyzeModelSelection(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		models    []string
		want      string
	}{
		{"requested and served", "llama3:8b", []string{"mistral:7b-instruct", "llama3:8b"}, "llama3:8b"},
		{"requested but unknown", "missing:1b", []string{"llama3:8b", "phi3:mini"}, "llama3:8b"},
		{"none requested", "", []string{"mistral:7b-instruct", "llama3:8b"}, "mistral:7b-instruct"},
		{"default not served", "", []string{"llama3:8b"}, "llama3:8b"},
		{"empty model list", "missing:1b", nil, "missing:1b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeProvider{models: tt.models, reply: "Neutral"}
			service := newTestService(fake)

			result, err := service.Analyze(context.Background(), "some text", tt.requested)
			if err != nil {
				t.Fatalf("Analyze returned error: %v", err)
			}
			if result.ModelUsed != tt.want {
				t.Errorf("ModelUsed = %q, want %q", result.ModelUsed, tt.want)
			}
		})
	}
}

func TestAnalyzeBackendDown(t *testing.T) {
	fake := &fakeProvider{
		pingErr: apperrors.NewUnavailableError("connection refused", nil),
	}
	service := newTestService(fake)

	_, err := service.Analyze(context.Background(), "valid input text", "")
	if !apperrors.IsUnavailableError(err) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
	if fake.calls != 0 {
		t.Error("generate must not run when the liveness probe fails")
	}
}

func TestAnalyzeErrorPassthrough(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"timeout", apperrors.NewTimeoutError("Request timeout. The model is taking too long to respond.", nil), apperrors.IsTimeoutError},
		{"unavailable", apperrors.NewUnavailableError("Failed to connect to Ollama service: refused", nil), apperrors.IsUnavailableError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeProvider{models: []string{"mistral:7b-instruct"}, generateErr: tt.err}
			service := newTestService(fake)

			_, err := service.Analyze(context.Background(), "valid input text", "")
			if err == nil || !tt.check(err) {
				t.Errorf("expected typed error to pass through, got %v", err)
			}
		})
	}
}

func TestAnalyzeEmptyReply(t *testing.T) {
	fake := &fakeProvider{models: []string{"mistral:7b-instruct"}, reply: "   \n"}
	service := newTestService(fake)

	_, err := service.Analyze(context.Background(), "valid input text", "")
	if err == nil {
		t.Fatal("expected an error for an empty model reply")
	}
	if apperrors.IsValidationError(err) || apperrors.IsUnavailableError(err) || apperrors.IsTimeoutError(err) {
		t.Errorf("empty reply should be a processing error, got %v", err)
	}
}

func TestAnalyzeIsStateless(t *testing.T) {
	fake := &fakeProvider{models: []string{"mistral:7b-instruct"}, reply: "Negative"}
	service := newTestService(fake)

	first, err := service.Analyze(context.Background(), "repeatable input", "")
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := service.Analyze(context.Background(), "repeatable input", "")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if first.Sentiment != second.Sentiment ||
		first.Confidence != second.Confidence ||
		first.ModelUsed != second.ModelUsed ||
		first.RawResponse != second.RawResponse {
		t.Error("identical requests with identical upstream replies must match")
	}
}

func TestHealth(t *testing.T) {
	t.Run("backend up", func(t *testing.T) {
		fake := &fakeProvider{models: []string{"mistral:7b-instruct", "llama3:8b"}}
		service := newTestService(fake)

		health := service.Health(context.Background())
		if health.Status != "healthy" || health.OllamaService != "running" {
			t.Errorf("unexpected health: %+v", health)
		}
		if len(health.AvailableModels) != 2 {
			t.Errorf("AvailableModels = %v", health.AvailableModels)
		}
		if health.DefaultModel != "mistral:7b-instruct" {
			t.Errorf("DefaultModel = %q", health.DefaultModel)
		}
	})

	t.Run("backend down", func(t *testing.T) {
		fake := &fakeProvider{pingErr: apperrors.NewUnavailableError("refused", nil)}
		service := newTestService(fake)

		health := service.Health(context.Background())
		if health.Status != "degraded" || health.OllamaService != "not available" {
			t.Errorf("unexpected health: %+v", health)
		}
		if health.AvailableModels == nil || len(health.AvailableModels) != 0 {
			t.Errorf("AvailableModels should be empty, got %v", health.AvailableModels)
		}
	})
}
