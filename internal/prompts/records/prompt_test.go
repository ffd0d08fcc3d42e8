package records

import (
	"strings"
	"testing"

	"github.com/jackzampolin/novella/internal/prompts"
)

func TestUserPrompt(t *testing.T) {
	got := UserPrompt(UserData{
		Kind:        "character",
		Fields:      []string{"name", "bio"},
		Count:       3,
		Instruction: "Invent the rivals",
		Context:     "Lin reached the capital.",
	})
	for _, want := range []string{
		"Story so far:\nLin reached the capital.",
		"Task: Invent the rivals",
		"3 character records",
		"- \"name\"\n- \"bio\"",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("UserPrompt() missing %q in:\n%s", want, got)
		}
	}
}

func TestUserPrompt_NoContextDefaultCount(t *testing.T) {
	got := UserPrompt(UserData{Kind: "outline", Fields: []string{"title", "summary"}, Instruction: "Plan act two"})
	if strings.Contains(got, "Story so far") {
		t.Errorf("unexpected context block in:\n%s", got)
	}
	if !strings.Contains(got, "5 outline records") {
		t.Errorf("expected default count in:\n%s", got)
	}
}

func TestRegisterPrompts(t *testing.T) {
	r := prompts.NewResolver(nil)
	RegisterPrompts(r)
	p, err := r.Resolve(UserPromptKey, "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := []string{"Context", "Count", "Instruction", "Kind"}
	if strings.Join(p.Variables, ",") != strings.Join(want, ",") {
		t.Errorf("Variables = %v, want %v", p.Variables, want)
	}
}
