// Package prompts provides prompt management with embedded defaults and
// per-call overrides.
//
// Embedded .tmpl files in code are the source of truth for defaults. A caller
// may pass override text (for example a tier prompt taken from config); when
// it is non-empty it wins over the embedded default.
package prompts

// ResolvedPrompt is the result of resolving a prompt.
type ResolvedPrompt struct {
	Key        string   `json:"key"`
	Text       string   `json:"text"`
	Variables  []string `json:"variables,omitempty"`
	IsOverride bool     `json:"is_override"` // true if caller-supplied text won
	Hash       string   `json:"hash"`        // SHA256 of Text for traceability
}

// EmbeddedPrompt represents a prompt loaded from an embedded .tmpl file.
type EmbeddedPrompt struct {
	Key         string   // Hierarchical key: summary.small
	Text        string   // The prompt text (Go template)
	Description string   // Human-readable description
	Variables   []string // Extracted template variables
	Hash        string   // SHA256 hash of the text for change detection
}
