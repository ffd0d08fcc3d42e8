package config

// Config holds novella configuration.
// Stored at: {home}/config.yaml
type Config struct {
	LLM        LLMConfig        `mapstructure:"llm" yaml:"llm"`
	Summary    SummaryConfig    `mapstructure:"summary" yaml:"summary"`
	Generation GenerationConfig `mapstructure:"generation" yaml:"generation"`
}

// LLMConfig configures the OpenAI-compatible model endpoint.
type LLMConfig struct {
	APIKey         string  `mapstructure:"api_key" yaml:"api_key"`   // API key (supports ${ENV_VAR} syntax)
	BaseURL        string  `mapstructure:"base_url" yaml:"base_url"` // Empty uses the OpenAI default
	Model          string  `mapstructure:"model" yaml:"model"`
	Temperature    float64 `mapstructure:"temperature" yaml:"temperature"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	MaxRetries     int     `mapstructure:"max_retries" yaml:"max_retries"` // SDK transport retries

	RequestsPerMinute int `mapstructure:"requests_per_minute" yaml:"requests_per_minute"` // 0 = unlimited
}

// SummaryConfig configures the rolling summary tiers.
type SummaryConfig struct {
	SmallInterval int    `mapstructure:"small_interval" yaml:"small_interval"` // Story chapters per small summary
	BigInterval   int    `mapstructure:"big_interval" yaml:"big_interval"`     // Story chapters per arc summary
	SmallPrompt   string `mapstructure:"small_prompt" yaml:"small_prompt"`     // Empty uses the embedded prompt
	BigPrompt     string `mapstructure:"big_prompt" yaml:"big_prompt"`
}

// GenerationConfig configures structured record generation.
type GenerationConfig struct {
	Attempts     int `mapstructure:"attempts" yaml:"attempts"`
	RetryDelayMs int `mapstructure:"retry_delay_ms" yaml:"retry_delay_ms"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			APIKey:         "${OPENAI_API_KEY}",
			Model:          "gpt-4o-mini",
			Temperature:    0.7,
			TimeoutSeconds: 300,
			MaxRetries:     2,
		},
		Summary: SummaryConfig{
			SmallInterval: 3,
			BigInterval:   6,
		},
		Generation: GenerationConfig{
			Attempts:     3,
			RetryDelayMs: 500,
		},
	}
}
