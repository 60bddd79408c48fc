package llm

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider identifies which model backend the endpoints talk to.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOllama Provider = "ollama"
)

const (
	defaultGeminiModel    = "gemini-1.5-flash"
	defaultOllamaModel    = "llama3.2"
	defaultOllamaEndpoint = "http://localhost:11434"
)

// Config holds all configuration for the LLM subsystem.
type Config struct {
	Provider       Provider
	LogCalls       bool
	Model          string
	Endpoint       string // base URL override; empty uses the provider default
	BackupEndpoint string // ollama only; gemini backups differ by key
	APIKey         string
	BackupAPIKey   string
	TimeoutMs      int
	Temperature    float64
	MaxTokens      int
}

// DefaultConfig returns a Config with sensible defaults. No credentials are
// set, so no endpoint is reachable until LoadConfig finds one.
func DefaultConfig() Config {
	return Config{
		Provider:    ProviderGemini,
		Model:       defaultGeminiModel,
		TimeoutMs:   10000,
		Temperature: 0.2,
		MaxTokens:   1024,
	}
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("TASKHELPER_LLM_PROVIDER"); v != "" {
		switch Provider(strings.ToLower(v)) {
		case ProviderOllama:
			cfg.Provider = ProviderOllama
			cfg.Model = defaultOllamaModel
			cfg.Endpoint = defaultOllamaEndpoint
		case ProviderGemini:
			cfg.Provider = ProviderGemini
		}
	}
	if v := os.Getenv("TASKHELPER_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("TASKHELPER_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("TASKHELPER_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("TASKHELPER_LLM_BACKUP_ENDPOINT"); v != "" {
		cfg.BackupEndpoint = strings.TrimRight(v, "/")
	}
	cfg.APIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	cfg.BackupAPIKey = strings.TrimSpace(os.Getenv("GEMINI_BACKUP_API_KEY"))

	if v := os.Getenv("TASKHELPER_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("TASKHELPER_LLM_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 2 {
			cfg.Temperature = f
		}
	}
	if v := os.Getenv("TASKHELPER_LLM_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxTokens = n
		}
	}

	return cfg
}

// Timeout returns the per-call wall-clock budget.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// HasPrimary reports whether a primary endpoint can be bound.
func (c Config) HasPrimary() bool {
	switch c.Provider {
	case ProviderOllama:
		return c.Endpoint != ""
	default:
		return c.APIKey != ""
	}
}

// HasBackup reports whether a backup endpoint distinct from the primary can
// be bound. A backup credential equal to the primary one is ignored.
func (c Config) HasBackup() bool {
	switch c.Provider {
	case ProviderOllama:
		return c.BackupEndpoint != "" && c.BackupEndpoint != c.Endpoint
	default:
		return c.BackupAPIKey != "" && c.BackupAPIKey != c.APIKey
	}
}
