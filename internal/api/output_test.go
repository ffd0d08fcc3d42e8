package api

import (
	"bytes"
	"strings"
	"testing"
)

func TestOutputTo(t *testing.T) {
	data := map[string]any{"range": "1-3", "count": 2}

	var j bytes.Buffer
	if err := OutputTo(&j, OutputFormatJSON, data); err != nil {
		t.Fatalf("json error = %v", err)
	}
	if !strings.Contains(j.String(), `"range": "1-3"`) {
		t.Errorf("unexpected json %s", j.String())
	}

	var y bytes.Buffer
	if err := OutputTo(&y, OutputFormatYAML, data); err != nil {
		t.Fatalf("yaml error = %v", err)
	}
	if !strings.Contains(y.String(), "range: 1-3") {
		t.Errorf("unexpected yaml %s", y.String())
	}

	var txt bytes.Buffer
	if err := OutputTo(&txt, OutputFormatText, "plain summary"); err != nil || txt.String() != "plain summary\n" {
		t.Errorf("text output = %q, %v", txt.String(), err)
	}

	if err := OutputTo(&y, OutputFormat("xml"), data); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", OutputFormatYAML, false},
		{"JSON", OutputFormatJSON, false},
		{" text ", OutputFormatText, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestPrinterMessage(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, OutputFormatJSON).Message("hello %s", "there")
	if buf.Len() != 0 {
		t.Errorf("structured output should suppress messages, got %q", buf.String())
	}
	NewPrinter(&buf, OutputFormatText).Message("hello %s", "there")
	if buf.String() != "hello there\n" {
		t.Errorf("message = %q", buf.String())
	}
}
