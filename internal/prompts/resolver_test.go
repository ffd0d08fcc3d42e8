package prompts

import (
	"reflect"
	"testing"
)

func TestResolver_EmbeddedAndOverride(t *testing.T) {
	r := NewResolver(nil)
	r.Register(EmbeddedPrompt{Key: "summary.small", Text: "Summarize {{.Range}}", Description: "test"})

	got, err := r.Resolve("summary.small", "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.IsOverride || got.Text != "Summarize {{.Range}}" {
		t.Fatalf("unexpected embedded resolution %+v", got)
	}
	if got.Hash != HashText("Summarize {{.Range}}") {
		t.Errorf("hash mismatch")
	}
	if !reflect.DeepEqual(got.Variables, []string{"Range"}) {
		t.Errorf("Variables = %v", got.Variables)
	}

	over, err := r.Resolve("summary.small", "Keep it short")
	if err != nil {
		t.Fatalf("Resolve(override) error = %v", err)
	}
	if !over.IsOverride || over.Text != "Keep it short" {
		t.Fatalf("unexpected override resolution %+v", over)
	}

	blank, _ := r.Resolve("summary.small", "  \n")
	if blank.IsOverride {
		t.Errorf("blank override should fall back to embedded")
	}
}

func TestResolver_Unknown(t *testing.T) {
	r := NewResolver(nil)
	if _, err := r.Resolve("nope", ""); err == nil {
		t.Fatal("expected error for unknown key")
	}
	if p, err := r.Resolve("nope", "text"); err != nil || p.Text != "text" {
		t.Fatalf("override should resolve without a default: %+v %v", p, err)
	}
}

func TestAllEmbeddedSorted(t *testing.T) {
	r := NewResolver(nil)
	r.Register(EmbeddedPrompt{Key: "b", Text: "2"})
	r.Register(EmbeddedPrompt{Key: "a", Text: "1"})
	all := r.AllEmbedded()
	if len(all) != 2 || all[0].Key != "a" || all[1].Key != "b" {
		t.Fatalf("AllEmbedded() = %+v", all)
	}
}

func TestExtractVariables(t *testing.T) {
	got := ExtractVariables("{{.Name}} and {{ .Novel.Title }} and {{.Name}} {{if .X}}{{end}}")
	want := []string{"Name", "Novel.Title"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractVariables() = %v, want %v", got, want)
	}
}

func TestRender(t *testing.T) {
	got, err := Render("t", "Hi {{.Name}}", struct{ Name string }{"Lin"})
	if err != nil || got != "Hi Lin" {
		t.Fatalf("Render() = %q, %v", got, err)
	}
	if _, err := Render("bad", "{{.Name", nil); err == nil {
		t.Fatal("expected parse error")
	}
}
