package config

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrNoDefault is returned when no default value exists for a config key.
var ErrNoDefault = errors.New("no default exists")

// ErrInvalidKey is returned when a config key contains invalid characters.
var ErrInvalidKey = errors.New("invalid config key")

// Entry is one documented configuration key.
type Entry struct {
	Key         string `json:"key" yaml:"key"`
	Value       any    `json:"value" yaml:"value"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// DefaultEntries returns the default configuration entries.
// These are registered as viper defaults.
func DefaultEntries() []Entry {
	d := DefaultConfig()
	return []Entry{
		// ===================
		// Model endpoint
		// ===================
		{
			Key:         "llm.api_key",
			Value:       d.LLM.APIKey,
			Description: "API key for the model endpoint (uses environment variable)",
		},
		{
			Key:         "llm.base_url",
			Value:       d.LLM.BaseURL,
			Description: "Base URL of an OpenAI-compatible endpoint; empty uses api.openai.com",
		},
		{
			Key:         "llm.model",
			Value:       d.LLM.Model,
			Description: "Model used for summaries and structured generation",
		},
		{
			Key:         "llm.temperature",
			Value:       d.LLM.Temperature,
			Description: "Sampling temperature; 0 leaves it to the provider",
		},
		{
			Key:         "llm.timeout_seconds",
			Value:       d.LLM.TimeoutSeconds,
			Description: "HTTP timeout in seconds for model requests",
		},
		{
			Key:         "llm.max_retries",
			Value:       d.LLM.MaxRetries,
			Description: "Transport retry attempts inside the OpenAI client",
		},
		{
			Key:         "llm.requests_per_minute",
			Value:       d.LLM.RequestsPerMinute,
			Description: "Client side request rate limit shared by all model calls; 0 disables it",
		},

		// ===================
		// Summaries
		// ===================
		{
			Key:         "summary.small_interval",
			Value:       d.Summary.SmallInterval,
			Description: "Story chapters per small summary, counted within a volume",
		},
		{
			Key:         "summary.big_interval",
			Value:       d.Summary.BigInterval,
			Description: "Story chapters per arc summary, counted within a volume",
		},
		{
			Key:         "summary.small_prompt",
			Value:       d.Summary.SmallPrompt,
			Description: "Small summary instruction; empty uses the built-in prompt",
		},
		{
			Key:         "summary.big_prompt",
			Value:       d.Summary.BigPrompt,
			Description: "Arc summary instruction; empty uses the built-in prompt",
		},

		// ===================
		// Structured generation
		// ===================
		{
			Key:         "generation.attempts",
			Value:       d.Generation.Attempts,
			Description: "Tries per structured generation request",
		},
		{
			Key:         "generation.retry_delay_ms",
			Value:       d.Generation.RetryDelayMs,
			Description: "Delay between structured generation tries in milliseconds",
		},
	}
}

// GetDefault returns the default entry for a config key.
// Returns nil if no default exists for the key.
func GetDefault(key string) *Entry {
	for _, entry := range DefaultEntries() {
		if entry.Key == key {
			return &entry
		}
	}
	return nil
}

// ValidateKey checks if a config key contains only allowed characters.
// Valid keys contain: letters, digits, dots, underscores, and hyphens.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	for i, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_' && r != '-' {
			return fmt.Errorf("%w: invalid character %q at position %d", ErrInvalidKey, r, i)
		}
	}
	// Don't allow keys starting or ending with dots
	if key[0] == '.' || key[len(key)-1] == '.' {
		return fmt.Errorf("%w: key cannot start or end with a dot", ErrInvalidKey)
	}
	return nil
}
