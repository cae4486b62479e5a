// internal/models/sentiment.go
package models

import "time"

// AnalysisResult is the gateway's reply to a successful analyze call.
type AnalysisResult struct {
	Sentiment   string    `json:"sentiment"`
	Confidence  string    `json:"confidence"`
	ModelUsed   string    `json:"model_used"`
	InputText   string    `json:"input_text"`
	InputLength int       `json:"input_length"`
	RawResponse string    `json:"raw_response"`
	Timestamp   time.Time `json:"timestamp"`
	Status      string    `json:"status"`
}

// HealthStatus reports backend reachability and the models it serves.
type HealthStatus struct {
	Status          string    `json:"status"`
	OllamaService   string    `json:"ollama_service"`
	AvailableModels []string  `json:"available_models"`
	DefaultModel    string    `json:"default_model"`
	Timestamp       time.Time `json:"timestamp"`
	APIVersion      string    `json:"api_version"`
}
