// internal/llm/providers/ollama/ollama.go
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	apperrors "github.com/Corphon/SentimentGateMCP/internal/errors"
	"github.com/Corphon/SentimentGateMCP/internal/llm"
)

const (
	defaultBaseURL         = "http://localhost:11434"
	defaultProbeTimeout    = 5 * time.Second
	defaultGenerateTimeout = 60 * time.Second
)

func init() {
	llm.Register("ollama", func() llm.Provider {
		return &Provider{
			baseURL:         defaultBaseURL,
			probeTimeout:    defaultProbeTimeout,
			generateTimeout: defaultGenerateTimeout,
		}
	})
}

// Provider talks to a locally hosted Ollama server.
type Provider struct {
	baseURL         string
	client          *http.Client
	probeTimeout    time.Duration
	generateTimeout time.Duration
}

// Initialize configures the provider. Recognized keys: base_url,
// probe_timeout and generate_timeout (seconds).
func (p *Provider) Initialize(config map[string]string) error {
	p.client = &http.Client{}

	if baseURL, exists := config["base_url"]; exists && baseURL != "" {
		p.baseURL = baseURL
	}

	if seconds, exists := config["probe_timeout"]; exists && seconds != "" {
		d, err := strconv.Atoi(seconds)
		if err != nil {
			return fmt.Errorf("invalid probe_timeout %q: %w", seconds, err)
		}
		p.probeTimeout = time.Duration(d) * time.Second
	}

	if seconds, exists := config["generate_timeout"]; exists && seconds != "" {
		d, err := strconv.Atoi(seconds)
		if err != nil {
			return fmt.Errorf("invalid generate_timeout %q: %w", seconds, err)
		}
		p.generateTimeout = time.Duration(d) * time.Second
	}

	return nil
}

func (p *Provider) GetName() string {
	return "ollama"
}

// tagsResponse mirrors the /api/tags reply.
type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// generateRequest mirrors the /api/generate request body.
type generateRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options,omitempty"`
}

// generateResponse mirrors the /api/generate reply.
type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Ping probes the model listing endpoint with a short timeout.
func (p *Provider) Ping(ctx context.Context) error {
	_, err := p.fetchTags(ctx)
	return err
}

// ListModels returns the names of the models the server currently holds.
func (p *Provider) ListModels(ctx context.Context) ([]string, error) {
	tags, err := p.fetchTags(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(tags.Models))
	for _, model := range tags.Models {
		names = append(names, model.Name)
	}
	return names, nil
}

func (p *Provider) fetchTags(ctx context.Context) (*tagsResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, p.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, apperrors.NewUnavailableError(
			"Ollama service is not available. Please ensure Ollama is running.", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, apperrors.NewUnavailableError(
			"Ollama service is not available. Please ensure Ollama is running.", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewUnavailableError(
			"Ollama service is not available. Please ensure Ollama is running.",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, apperrors.NewProcessingError("failed to decode model list", err)
	}

	return &tags, nil
}

// Generate runs one non-streaming completion against /api/generate.
func (p *Provider) Generate(ctx context.Context, genReq llm.GenerateRequest) (*llm.GenerateResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, p.generateTimeout)
	defer cancel()

	body := generateRequest{
		Model:  genReq.Model,
		Prompt: genReq.Prompt,
		Stream: genReq.Stream,
		Options: map[string]interface{}{
			"temperature": genReq.Temperature,
			"num_predict": genReq.MaxTokens,
		},
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, apperrors.NewProcessingError("failed to marshal generate request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/api/generate", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, apperrors.NewProcessingError("failed to build generate request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, apperrors.NewProcessingError(
			fmt.Sprintf("Ollama API error: %d", resp.StatusCode), nil)
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, apperrors.NewProcessingError("failed to decode generate response", err)
	}

	return &llm.GenerateResponse{
		Text:         genResp.Response,
		ModelName:    genResp.Model,
		ProviderName: p.GetName(),
	}, nil
}

// classifyTransportError separates timeouts from connection failures so the
// gateway can surface 504 vs 503.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutError(
			"Request timeout. The model is taking too long to respond.", err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return apperrors.NewTimeoutError(
			"Request timeout. The model is taking too long to respond.", err)
	}

	return apperrors.NewUnavailableError(
		fmt.Sprintf("Failed to connect to Ollama service: %v", err), err)
}
