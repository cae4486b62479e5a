// internal/config/config_test.go
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.UIPort != "8501" {
		t.Errorf("UIPort = %q", cfg.UIPort)
	}
	if cfg.OllamaBaseURL != "http://localhost:11434" {
		t.Errorf("OllamaBaseURL = %q", cfg.OllamaBaseURL)
	}
	if cfg.DefaultModel != "mistral:7b-instruct" {
		t.Errorf("DefaultModel = %q", cfg.DefaultModel)
	}
	if !cfg.DebugMode {
		t.Error("DebugMode should default to true")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("OLLAMA_BASE_URL", "http://ollama.internal:11434")
	t.Setenv("DEFAULT_MODEL", "llama3:8b")
	t.Setenv("DEBUG_MODE", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "9000" || cfg.OllamaBaseURL != "http://ollama.internal:11434" ||
		cfg.DefaultModel != "llama3:8b" || cfg.DebugMode {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestInitConfigPersistsAndMerges(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("DATA_DIR", dataDir)

	if err := InitConfig(dataDir); err != nil {
		t.Fatalf("InitConfig: %v", err)
	}

	cfg := GetCurrentConfig()
	if cfg.LLMProvider != "ollama" {
		t.Errorf("LLMProvider = %q", cfg.LLMProvider)
	}
	if cfg.LLMConfig["base_url"] != "http://localhost:11434" {
		t.Errorf("base_url = %q", cfg.LLMConfig["base_url"])
	}

	// config.json was written
	path := filepath.Join(dataDir, "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config.json not written: %v", err)
	}

	// A saved backend override survives a second init.
	var saved AppConfig
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("config.json invalid: %v", err)
	}
	saved.LLMConfig["default_model"] = "llama3:8b"
	out, _ := json.MarshalIndent(saved, "", "  ")
	if err := os.WriteFile(path, out, 0644); err != nil {
		t.Fatalf("rewrite config.json: %v", err)
	}

	if err := InitConfig(dataDir); err != nil {
		t.Fatalf("second InitConfig: %v", err)
	}
	if got := GetCurrentConfig().LLMConfig["default_model"]; got != "llama3:8b" {
		t.Errorf("merged default_model = %q, want llama3:8b", got)
	}
}

func TestGetCurrentConfigReturnsCopy(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("DATA_DIR", dataDir)

	if err := InitConfig(dataDir); err != nil {
		t.Fatalf("InitConfig: %v", err)
	}

	first := GetCurrentConfig()
	first.Port = "mutated"

	if GetCurrentConfig().Port == "mutated" {
		t.Error("GetCurrentConfig must return a copy")
	}
}
