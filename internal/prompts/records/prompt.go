// Package records holds the embedded prompts used to request typed story
// records (outline items, characters, worldview entries, inspirations).
package records

import (
	"bytes"
	_ "embed"
	"text/template"

	"github.com/jackzampolin/novella/internal/prompts"
)

//go:embed system.tmpl
var systemPrompt string

//go:embed user.tmpl
var userPromptTmpl string

var userTemplate = template.Must(template.New("user").Parse(userPromptTmpl))

// Prompt keys
const (
	SystemPromptKey = "records.system"
	UserPromptKey   = "records.user"
)

// UserData carries the values rendered into the user prompt.
type UserData struct {
	Kind        string
	Fields      []string
	Count       int
	Instruction string
	Context     string
}

// SystemPrompt returns the system prompt for structured record generation.
func SystemPrompt() string {
	return systemPrompt
}

// UserPrompt builds the user prompt for a record request.
func UserPrompt(data UserData) string {
	if data.Count <= 0 {
		data.Count = 5
	}
	var buf bytes.Buffer
	if err := userTemplate.Execute(&buf, data); err != nil {
		// Fallback to raw template on error
		return userPromptTmpl
	}
	return buf.String()
}

// RegisterPrompts registers the record prompts with the resolver.
func RegisterPrompts(r *prompts.Resolver) {
	r.Register(prompts.EmbeddedPrompt{
		Key:         SystemPromptKey,
		Text:        systemPrompt,
		Description: "Structured record system prompt - JSON array only",
	})
	r.Register(prompts.EmbeddedPrompt{
		Key:         UserPromptKey,
		Text:        userPromptTmpl,
		Description: "Structured record user prompt template",
	})
}
