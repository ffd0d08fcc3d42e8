package jsonrepair

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalize_RemapsAliases(t *testing.T) {
	records := []any{
		map[string]any{"character": "Lin", "description": "A swordsman"},
		map[string]any{"Role": "Mei", "background": "Healer"},
		map[string]any{"character_name": "Bo", "bio": "Merchant"},
	}
	got := Normalize(KindCharacter, records)
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	want := []Record{
		{"name": "Lin", "bio": "A swordsman"},
		{"name": "Mei", "bio": "Healer"},
		{"name": "Bo", "bio": "Merchant"},
	}
	for i := range want {
		for k, v := range want[i] {
			if got[i][k] != v {
				t.Errorf("record %d field %s = %q, want %q", i, k, got[i][k], v)
			}
		}
	}
}

func TestNormalize_FlattensNestedValues(t *testing.T) {
	records := []any{
		map[string]any{
			"name": "Lin",
			"bio": map[string]any{
				"age":    float64(19),
				"traits": []any{"brave", "rash"},
			},
		},
	}
	got := Normalize(KindCharacter, records)
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	bio := got[0]["bio"]
	for _, want := range []string{"age: 19", "traits:\n- brave\n- rash"} {
		if !strings.Contains(bio, want) {
			t.Errorf("bio %q missing %q", bio, want)
		}
	}
}

func TestNormalize_KeepsUnmappedKeys(t *testing.T) {
	records := []any{
		map[string]any{"title": "Chapter 1", "summary": "Arrival", "mood": "tense"},
	}
	got := Normalize(KindOutline, records)
	if got[0]["summary"] != "Arrival\nmood: tense" {
		t.Fatalf("summary = %q", got[0]["summary"])
	}
}

func TestNormalize_StringItemsAndEmptyRecords(t *testing.T) {
	records := []any{"A bare idea", nil, map[string]any{"unrelated": ""}}
	got := Normalize(KindInspiration, records)
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %#v", got)
	}
	if got[0]["title"] != "A bare idea" || got[0]["content"] != "" {
		t.Fatalf("unexpected record %#v", got[0])
	}
}

func TestNormalize_UnknownKind(t *testing.T) {
	if got := Normalize(Kind("poem"), []any{map[string]any{"a": "b"}}); got != nil {
		t.Fatalf("expected nil, got %#v", got)
	}
	if _, err := ParseKind("poem"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if k, err := ParseKind(" Outline "); err != nil || k != KindOutline {
		t.Fatalf("ParseKind() = %q, %v", k, err)
	}
}

func TestValidate(t *testing.T) {
	ok := []Record{{"title": "A", "summary": "x"}}
	if err := Validate(KindOutline, ok); err != nil {
		t.Fatalf("Validate(valid) error = %v", err)
	}

	missing := []Record{{"title": "", "summary": "x"}}
	if err := Validate(KindOutline, missing); !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput for empty title, got %v", err)
	}

	if err := Validate(KindWorldview, nil); !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput for no records, got %v", err)
	}
}
