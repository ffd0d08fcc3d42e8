// Package summary holds the embedded default prompts for rolling chapter
// summaries.
package summary

import (
	_ "embed"

	"github.com/jackzampolin/novella/internal/prompts"
)

//go:embed preamble.tmpl
var preamble string

//go:embed small.tmpl
var smallPrompt string

//go:embed big.tmpl
var bigPrompt string

// Prompt keys
const (
	PreamblePromptKey = "summary.preamble"
	SmallPromptKey    = "summary.small"
	BigPromptKey      = "summary.big"
)

// Preamble returns the fixed system message sent with every summary request.
func Preamble() string {
	return preamble
}

// SmallPrompt returns the default small-tier instruction.
func SmallPrompt() string {
	return smallPrompt
}

// BigPrompt returns the default big-tier instruction.
func BigPrompt() string {
	return bigPrompt
}

// RegisterPrompts registers the summary prompts with the resolver.
func RegisterPrompts(r *prompts.Resolver) {
	r.Register(prompts.EmbeddedPrompt{
		Key:         PreamblePromptKey,
		Text:        preamble,
		Description: "Summary system preamble shared by both tiers",
	})
	r.Register(prompts.EmbeddedPrompt{
		Key:         SmallPromptKey,
		Text:        smallPrompt,
		Description: "Small summary instruction appended after the chapter text",
	})
	r.Register(prompts.EmbeddedPrompt{
		Key:         BigPromptKey,
		Text:        bigPrompt,
		Description: "Arc summary instruction appended after small summaries or chapters",
	})
}
