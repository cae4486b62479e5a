// internal/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

// Singleton state for the managed configuration.
var (
	currentConfig *AppConfig
	configMutex   sync.RWMutex
	configFile    string
)

// AppConfig holds the full application configuration, including the
// inference backend settings persisted to config.json.
type AppConfig struct {
	Port         string `json:"port"`
	UIPort       string `json:"ui_port"`
	GatewayURL   string `json:"gateway_url"`
	DataDir      string `json:"data_dir"`
	StaticDir    string `json:"static_dir"`
	TemplatesDir string `json:"templates_dir"`
	LogDir       string `json:"log_dir"`
	DebugMode    bool   `json:"debug_mode"`

	// Inference backend settings
	LLMProvider string            `json:"llm_provider"`
	LLMConfig   map[string]string `json:"llm_config"`
}

// Config holds the base configuration read from the environment.
type Config struct {
	Port          string
	UIPort        string
	GatewayURL    string
	OllamaBaseURL string
	DefaultModel  string
	DataDir       string
	StaticDir     string
	TemplatesDir  string
	LogDir        string
	DebugMode     bool
}

// Load reads configuration from the environment, with an optional .env file.
func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		Port:          getEnv("PORT", "8080"),
		UIPort:        getEnv("UI_PORT", "8501"),
		GatewayURL:    getEnv("GATEWAY_URL", "http://localhost:8080"),
		OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		DefaultModel:  getEnv("DEFAULT_MODEL", "mistral:7b-instruct"),
		DataDir:       getEnvPath("DATA_DIR", "data"),
		StaticDir:     getEnv("STATIC_DIR", "static"),
		TemplatesDir:  getEnv("TEMPLATES_DIR", "web/templates"),
		LogDir:        getEnv("LOG_DIR", "logs"),
		DebugMode:     getEnvBool("DEBUG_MODE", true),
	}

	return config, nil
}

// getEnv returns an environment variable or the default value.
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvPath returns a path environment variable, creating the directory
// if it does not exist yet.
func getEnvPath(key, defaultValue string) string {
	path := getEnv(key, defaultValue)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0755); err != nil {
			fmt.Printf("warning: failed to create directory %s: %v\n", path, err)
		}
	}

	return path
}

// getEnvBool returns a boolean environment variable.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value == "true" || value == "1" || value == "yes"
}

// InitConfig initializes the managed configuration, merging any settings
// previously saved to config.json under dataDir.
func InitConfig(dataDir string) error {
	configFile = filepath.Join(dataDir, "config.json")

	baseConfig, err := Load()
	if err != nil {
		return err
	}

	configMutex.Lock()
	defer configMutex.Unlock()

	currentConfig = appConfigFromBase(baseConfig)

	// Merge saved backend settings, but always take the fresh base config
	// for ports and directories.
	if _, err := os.Stat(configFile); !os.IsNotExist(err) {
		data, err := os.ReadFile(configFile)
		if err == nil {
			var savedConfig AppConfig
			if json.Unmarshal(data, &savedConfig) == nil && savedConfig.LLMProvider != "" {
				savedConfig.Port = baseConfig.Port
				savedConfig.UIPort = baseConfig.UIPort
				savedConfig.GatewayURL = baseConfig.GatewayURL
				savedConfig.DataDir = baseConfig.DataDir
				savedConfig.StaticDir = baseConfig.StaticDir
				savedConfig.TemplatesDir = baseConfig.TemplatesDir
				savedConfig.LogDir = baseConfig.LogDir
				savedConfig.DebugMode = baseConfig.DebugMode

				if savedConfig.LLMConfig == nil {
					savedConfig.LLMConfig = currentConfig.LLMConfig
				}

				currentConfig = &savedConfig
			}
		}
	}

	return saveConfigLocked()
}

func appConfigFromBase(baseConfig *Config) *AppConfig {
	return &AppConfig{
		Port:         baseConfig.Port,
		UIPort:       baseConfig.UIPort,
		GatewayURL:   baseConfig.GatewayURL,
		DataDir:      baseConfig.DataDir,
		StaticDir:    baseConfig.StaticDir,
		TemplatesDir: baseConfig.TemplatesDir,
		LogDir:       baseConfig.LogDir,
		DebugMode:    baseConfig.DebugMode,
		LLMProvider:  "ollama",
		LLMConfig: map[string]string{
			"base_url":      baseConfig.OllamaBaseURL,
			"default_model": baseConfig.DefaultModel,
		},
	}
}

// GetCurrentConfig returns a copy of the current configuration.
func GetCurrentConfig() *AppConfig {
	configMutex.RLock()
	defer configMutex.RUnlock()

	if currentConfig == nil {
		baseConfig, _ := Load()
		return appConfigFromBase(baseConfig)
	}

	configCopy := *currentConfig
	return &configCopy
}

// SaveConfig persists the current configuration to config.json.
func SaveConfig() error {
	configMutex.RLock()
	defer configMutex.RUnlock()

	return saveConfigLocked()
}

func saveConfigLocked() error {
	if currentConfig == nil {
		return fmt.Errorf("no configuration to save")
	}

	dir := filepath.Dir(configFile)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(currentConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	return os.WriteFile(configFile, data, 0644)
}
