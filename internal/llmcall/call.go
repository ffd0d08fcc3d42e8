// Package llmcall provides LLM call recording and querying for traceability.
// Every model call is recorded with its prompt key, response, and metrics.
package llmcall

import (
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/novella/internal/providers"
)

// Call represents a recorded LLM API call.
type Call struct {
	// Unique identifier
	ID string `json:"id"`

	// Timing
	Timestamp time.Time `json:"timestamp"`
	LatencyMs int       `json:"latency_ms"`

	// Context references
	NovelID   string `json:"novel_id,omitempty"`
	ChapterID string `json:"chapter_id,omitempty"`
	Range     string `json:"range,omitempty"`

	// Prompt traceability
	PromptKey  string `json:"prompt_key"`
	PromptHash string `json:"prompt_hash,omitempty"` // SHA256 of the prompt text actually sent

	// Model info
	Provider    string   `json:"provider"`
	Model       string   `json:"model"`
	Temperature *float64 `json:"temperature,omitempty"`

	// Token usage
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`

	// Response
	Response string `json:"response"`

	// Status
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// RecordOptions provides context for recording an LLM call.
type RecordOptions struct {
	// Context references (all optional)
	NovelID   string
	ChapterID string
	Range     string

	// Prompt identification (required for traceability)
	PromptKey  string
	PromptHash string

	// Request parameters (pointer to distinguish "not set" from "set to 0")
	Temperature *float64

	// Provider and Model fill in when the result leaves them empty.
	Provider string
	Model    string

	// Err is the error returned alongside result, if any.
	Err error
}

// FromChatResult creates a Call from a ChatResult. A nil result with an error
// records a failed call; a nil result without one returns nil.
func FromChatResult(result *providers.ChatResult, opts RecordOptions) *Call {
	if result == nil {
		if opts.Err == nil {
			return nil
		}
		result = &providers.ChatResult{ErrorMessage: opts.Err.Error()}
	}

	call := &Call{
		ID:           uuid.New().String(),
		Timestamp:    time.Now(),
		LatencyMs:    int(result.ExecutionTime.Milliseconds()),
		NovelID:      opts.NovelID,
		ChapterID:    opts.ChapterID,
		Range:        opts.Range,
		PromptKey:    opts.PromptKey,
		PromptHash:   opts.PromptHash,
		Provider:     result.Provider,
		Model:        result.ModelUsed,
		InputTokens:  result.PromptTokens,
		OutputTokens: result.CompletionTokens,
		Response:     result.Content,
		Success:      result.Success && opts.Err == nil,
	}

	if call.Provider == "" {
		call.Provider = opts.Provider
	}
	if call.Model == "" {
		call.Model = opts.Model
	}
	if opts.Temperature != nil {
		call.Temperature = opts.Temperature
	}

	if !call.Success {
		call.Error = result.ErrorMessage
		if call.Error == "" && opts.Err != nil {
			call.Error = opts.Err.Error()
		}
	}

	return call
}
