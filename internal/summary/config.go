package summary

import "time"

// Default tier cadences, counted in story chapters of one volume.
const (
	DefaultSmallInterval = 3
	DefaultBigInterval   = 6
)

// Config carries the per-call model connection and tier settings.
// Zero intervals fall back to the defaults; negative intervals disable a tier.
// Blank prompts fall back to the embedded defaults.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string

	SmallInterval int
	BigInterval   int
	SmallPrompt   string
	BigPrompt     string

	Temperature float64
	Timeout     time.Duration
	MaxRetries  int
}

func (c Config) withDefaults() Config {
	if c.SmallInterval == 0 {
		c.SmallInterval = DefaultSmallInterval
	}
	if c.BigInterval == 0 {
		c.BigInterval = DefaultBigInterval
	}
	return c
}
