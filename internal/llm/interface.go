// internal/llm/interface.go
package llm

import (
	"context"
	"errors"
)

var ErrUnknownProvider = errors.New("unknown inference provider")

// GenerateRequest is the normalized text generation request.
type GenerateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Temperature float32 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Stream      bool    `json:"stream,omitempty"`
}

// GenerateResponse is the normalized text generation response.
type GenerateResponse struct {
	Text         string `json:"text"`
	ModelName    string `json:"model_name,omitempty"`
	ProviderName string `json:"provider_name,omitempty"`
}

// Provider is the interface every inference backend must implement.
type Provider interface {
	// Initialize configures the provider from a key/value map.
	Initialize(config map[string]string) error

	// GetName returns the provider name.
	GetName() string

	// Ping probes the backend for reachability.
	Ping(ctx context.Context) error

	// ListModels returns the model names the backend currently serves.
	ListModels(ctx context.Context) ([]string, error)

	// Generate runs a single non-streaming completion.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// ProviderFactory builds an uninitialized provider instance.
type ProviderFactory func() Provider

var providers = make(map[string]ProviderFactory)

// Register registers a provider factory under a name.
func Register(name string, factory ProviderFactory) {
	providers[name] = factory
}

// GetProvider creates and initializes the named provider.
func GetProvider(name string, config map[string]string) (Provider, error) {
	factory, exists := providers[name]
	if !exists {
		return nil, ErrUnknownProvider
	}

	provider := factory()
	err := provider.Initialize(config)
	return provider, err
}

// ListProviders returns all registered provider names.
func ListProviders() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	return names
}
