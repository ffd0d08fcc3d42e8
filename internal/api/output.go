// Package api renders command results for the CLI.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// OutputFormat defines the output format for CLI commands.
type OutputFormat string

const (
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatText OutputFormat = "text" // Plain strings as-is, everything else as YAML
)

// DefaultOutput is the default output format.
var DefaultOutput OutputFormat = OutputFormatYAML

// ParseFormat converts a --output flag value to an OutputFormat.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return DefaultOutput, nil
	case OutputFormatYAML, OutputFormatJSON, OutputFormatText:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format: %s", s)
	}
}

// Printer writes command results in one format.
type Printer struct {
	w      io.Writer
	format OutputFormat
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer, format OutputFormat) *Printer {
	return &Printer{w: w, format: format}
}

// Format returns the printer's format.
func (p *Printer) Format() OutputFormat {
	return p.format
}

// Print writes data in the printer's format.
func (p *Printer) Print(data any) error {
	return OutputTo(p.w, p.format, data)
}

// Message writes a human-oriented line. Structured formats suppress it so
// their output stays machine-readable.
func (p *Printer) Message(format string, args ...any) {
	if p.format != OutputFormatText {
		return
	}
	fmt.Fprintf(p.w, format+"\n", args...)
}

// OutputTo writes data to the given writer in the specified format.
func OutputTo(w io.Writer, format OutputFormat, data any) error {
	switch format {
	case OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case OutputFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	case OutputFormatText:
		if s, ok := data.(string); ok {
			_, err := fmt.Fprintln(w, s)
			return err
		}
		return OutputTo(w, OutputFormatYAML, data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
