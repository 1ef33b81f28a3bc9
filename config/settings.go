// Package config provides application settings loaded from environment variables.
//
// Settings are created via New() which handles:
// - Environment variable parsing with validation
// - Default value application
// - Provider-specific configuration lookup

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Settings holds all application configuration.
type Settings struct {
	LLM      LLMConfig
	Pipeline PipelineConfig
	Paths    PathConfig
}

// LLMConfig holds LLM provider configuration.
type LLMConfig struct {
	Provider      string
	Model         string
	MaxTokens     uint32
	Temperature   float64
	RetryAttempts int
	RetryBase     time.Duration
}

// PipelineConfig holds answer-pipeline tuning knobs.
type PipelineConfig struct {
	ContextBudget    int // character budget for assembled context
	TooltipMaxWords  int // hard word cap for tooltip definitions
	TooltipThreshold int // minimum context chars before tooltip generation
	RetrievalK       int // passages requested per query
}

// PathConfig holds filesystem locations for sidecar data.
type PathConfig struct {
	Database    string
	CuratedPath string
	ProfilePath string
}

// providerInfo holds configuration for a specific LLM provider.
type providerInfo struct {
	modelEnv     string
	defaultModel string
	apiKeyEnv    string
}

// Supported providers and their configuration.
var providers = map[string]providerInfo{
	"openai":    {"OPENAI_MODEL", "gpt-4o-mini", "OPENAI_API_KEY"},
	"anthropic": {"ANTHROPIC_MODEL", "claude-sonnet-4-20250514", "ANTHROPIC_API_KEY"},
	"deepseek":  {"DEEPSEEK_MODEL", "deepseek-chat", "DEEPSEEK_API_KEY"},
	"gemini":    {"GEMINI_MODEL", "gemini-2.5-flash", "GEMINI_API_KEY"},
}

// Provider aliases map to canonical names.
var providerAliases = map[string]string{
	"claude": "anthropic",
	"google": "gemini",
	"gpt":    "openai",
}

// New creates settings for the specified provider, loading values from environment variables.
// Returns an error if the provider is unknown or environment variables contain invalid values.
func New(provider string) (Settings, error) {
	provider = normalizeProvider(provider)

	info, err := getProviderInfo(provider)
	if err != nil {
		return Settings{}, err
	}

	maxTokens, err := getEnvUint32("LLM_MAX_TOKENS", 1000)
	if err != nil {
		return Settings{}, err
	}

	temperature, err := getEnvFloat64("LLM_TEMPERATURE", 0.3)
	if err != nil {
		return Settings{}, err
	}

	retryAttempts, err := getEnvInt("LLM_RETRY_ATTEMPTS", 3)
	if err != nil {
		return Settings{}, err
	}

	retryBaseMs, err := getEnvInt("LLM_RETRY_BASE_MS", 1000)
	if err != nil {
		return Settings{}, err
	}

	contextBudget, err := getEnvInt("CONTEXT_BUDGET_CHARS", 8000)
	if err != nil {
		return Settings{}, err
	}

	tooltipMaxWords, err := getEnvInt("TOOLTIP_MAX_WORDS", 50)
	if err != nil {
		return Settings{}, err
	}

	tooltipThreshold, err := getEnvInt("TOOLTIP_CONTEXT_THRESHOLD", 50)
	if err != nil {
		return Settings{}, err
	}

	retrievalK, err := getEnvInt("RETRIEVAL_K", 5)
	if err != nil {
		return Settings{}, err
	}

	// Get model from environment or use default
	model := os.Getenv(info.modelEnv)
	if model == "" {
		model = info.defaultModel
	}

	return Settings{
		LLM: LLMConfig{
			Provider:      provider,
			Model:         model,
			MaxTokens:     maxTokens,
			Temperature:   temperature,
			RetryAttempts: retryAttempts,
			RetryBase:     time.Duration(retryBaseMs) * time.Millisecond,
		},
		Pipeline: PipelineConfig{
			ContextBudget:    contextBudget,
			TooltipMaxWords:  tooltipMaxWords,
			TooltipThreshold: tooltipThreshold,
			RetrievalK:       retrievalK,
		},
		Paths: PathConfig{
			Database:    getEnvString("MENTOR_DB", ".mentor/mentor.db"),
			CuratedPath: getEnvString("CURATED_DEFINITIONS", "frameworks_curated.json"),
			ProfilePath: getEnvString("USER_PROFILE", "profile.yaml"),
		},
	}, nil
}

// MustNew creates settings for the specified provider.
// Panics if the provider is unknown or environment variables are invalid.
// Use this only when configuration errors should be fatal.
func MustNew(provider string) Settings {
	settings, err := New(provider)
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return settings
}

// normalizeProvider converts provider aliases to canonical names.
func normalizeProvider(provider string) string {
	provider = strings.ToLower(provider)
	if canonical, ok := providerAliases[provider]; ok {
		return canonical
	}
	return provider
}

// getProviderInfo returns configuration for a provider.
func getProviderInfo(provider string) (providerInfo, error) {
	info, ok := providers[provider]
	if !ok {
		return providerInfo{}, fmt.Errorf("unknown provider: %q", provider)
	}
	return info, nil
}

// APIKeyFor returns the API key for a provider from environment variables.
func APIKeyFor(provider string) (string, error) {
	provider = normalizeProvider(provider)

	info, err := getProviderInfo(provider)
	if err != nil {
		return "", err
	}

	key := os.Getenv(info.apiKeyEnv)
	if key == "" {
		return "", fmt.Errorf("%s environment variable not set", info.apiKeyEnv)
	}
	return key, nil
}

// ModelFor returns the model for a provider, checking environment first.
func ModelFor(provider string) (string, error) {
	provider = normalizeProvider(provider)

	info, err := getProviderInfo(provider)
	if err != nil {
		return "", err
	}

	if val := os.Getenv(info.modelEnv); val != "" {
		return val, nil
	}
	return info.defaultModel, nil
}

// SupportedProviders returns the list of supported provider names.
func SupportedProviders() []string {
	result := make([]string, 0, len(providers))
	for name := range providers {
		result = append(result, name)
	}
	return result
}

// Environment variable helpers with proper error handling

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return i, nil
}

func getEnvUint32(key string, defaultVal uint32) (uint32, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return uint32(i), nil
}

func getEnvFloat64(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return f, nil
}
