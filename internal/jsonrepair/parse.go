// Package jsonrepair recovers arrays of structured records from model output
// that was asked to be a JSON array but often is not quite one.
//
// Recovery runs in stages, each more aggressive than the last:
//  1. strip code fences and [JSON] markers, slice to the outermost brackets
//  2. escape raw newlines and tabs inside string literals
//  3. drop remaining control characters
//  4. close a truncated document after its last complete element
//  5. unwrap {"key": [...]} to the inner array
//
// When the whole text cannot be recovered, every balanced [...] span is tried
// on its own, and finally every balanced {...} span is collected as an object.
package jsonrepair

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedOutput is returned when no recovery stage yields an array.
// Callers should treat it as a retryable generation failure.
var ErrMalformedOutput = errors.New("malformed structured output")

var (
	fencePattern  = regexp.MustCompile("```[A-Za-z0-9_-]*")
	markerPattern = regexp.MustCompile(`(?i)\[/?JSON\]`)
)

// ParseArray returns the best-effort array of records contained in text.
func ParseArray(text string) ([]any, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedOutput)
	}

	arr, firstErr := recoverArray(text)
	if firstErr == nil {
		return arr, nil
	}

	for _, span := range balancedSpans(text, '[', ']') {
		if arr, err := recoverArray(span); err == nil {
			return arr, nil
		}
	}

	var objects []any
	for _, span := range balancedSpans(text, '{', '}') {
		v, err := decodeLenient(span)
		if err != nil {
			continue
		}
		if obj, ok := v.(map[string]any); ok {
			objects = append(objects, obj)
		}
	}
	if len(objects) > 0 {
		return objects, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, firstErr)
}

// recoverArray runs the whole-text stages against one candidate.
func recoverArray(text string) ([]any, error) {
	candidate := extractCandidate(stripMarkers(text))
	if candidate == "" {
		return nil, errors.New("no JSON value found")
	}

	var lastErr error
	attempts := []func(string) string{
		func(s string) string { return s },
		escapeControlInStrings,
		stripControlChars,
		repairTruncation,
	}
	for _, stage := range attempts {
		candidate = stage(candidate)
		v, err := decode(candidate)
		if err != nil {
			lastErr = err
			continue
		}
		if arr, ok := toArray(v); ok {
			return arr, nil
		}
		lastErr = fmt.Errorf("top-level value is %T, not an array", v)
	}
	return nil, lastErr
}

// decodeLenient decodes one candidate after the in-string and control
// character stages. Used for the per-object fallback.
func decodeLenient(text string) (any, error) {
	if v, err := decode(text); err == nil {
		return v, nil
	}
	return decode(stripControlChars(escapeControlInStrings(text)))
}

func decode(text string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, err
	}
	return v, nil
}

// toArray unwraps the parsed top level into an array.
// A single-key object whose value is an array unwraps to that array.
// Any other object is treated as a one-record array.
func toArray(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case map[string]any:
		if len(t) == 1 {
			for _, inner := range t {
				if arr, ok := inner.([]any); ok {
					return arr, true
				}
			}
		}
		return []any{t}, true
	default:
		return nil, false
	}
}

func stripMarkers(text string) string {
	text = fencePattern.ReplaceAllString(text, "")
	text = markerPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// extractCandidate slices from the first opening bracket to the later of the
// last closing bracket or brace. If nothing closes after the start, the tail
// is kept so truncation repair can work on it.
func extractCandidate(text string) string {
	start := strings.IndexAny(text, "[{")
	if start < 0 {
		return ""
	}
	end := max(strings.LastIndex(text, "]"), strings.LastIndex(text, "}"))
	if end < start {
		return strings.TrimSpace(text[start:])
	}
	return strings.TrimSpace(text[start : end+1])
}

// escapeControlInStrings rewrites raw newlines and tabs that sit inside string
// literals, and drops carriage returns there. Text outside strings is untouched.
func escapeControlInStrings(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 16)

	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if !inString {
			if c == '"' {
				inString = true
			}
			b.WriteByte(c)
			continue
		}

		if escaped {
			escaped = false
			switch c {
			case '\n':
				b.WriteByte('n')
			case '\t':
				b.WriteByte('t')
			case '\r':
				// A backslash followed by CR: keep waiting for the escaped char.
				escaped = true
			default:
				b.WriteByte(c)
			}
			continue
		}

		switch c {
		case '\\':
			escaped = true
			b.WriteByte(c)
		case '"':
			inString = false
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// stripControlChars removes U+0000-0008, U+000B, U+000C and U+000E-001F.
func stripControlChars(text string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r <= 0x08, r == 0x0B, r == 0x0C, r >= 0x0E && r <= 0x1F:
			return -1
		}
		return r
	}, text)
}

// repairTruncation closes a document whose brackets do not balance. It cuts
// after the last complete element of the record array (the first array
// opened, possibly inside a wrapper object) and appends closers for whatever
// is still open there. Without an array, elements of the top-level value
// count. Balanced input is returned unchanged.
func repairTruncation(text string) string {
	var stack []byte
	lastCut := -1
	var openAtCut []byte
	recordDepth := 0

	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '[', '{':
			stack = append(stack, c)
			if c == '[' && recordDepth == 0 {
				recordDepth = len(stack)
			}
		case ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != opener(c) {
				// Stray closer: everything before it is the document.
				return closeOpen(text[:i], stack)
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				if i == len(text)-1 {
					return text
				}
				return text[:i+1]
			}
			if len(stack) == max(recordDepth, 1) {
				lastCut = i
				openAtCut = append(openAtCut[:0], stack...)
			}
		}
	}

	if len(stack) == 0 && !inString {
		return text
	}
	if lastCut < 0 {
		return text
	}
	return closeOpen(text[:lastCut+1], openAtCut)
}

func opener(closer byte) byte {
	if closer == ']' {
		return '['
	}
	return '{'
}

func closeOpen(text string, stack []byte) string {
	var b strings.Builder
	b.WriteString(text)
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '[' {
			b.WriteByte(']')
		} else {
			b.WriteByte('}')
		}
	}
	return b.String()
}

// balancedSpans returns every outermost, string-aware span delimited by the
// given bracket pair.
func balancedSpans(text string, open, close byte) []string {
	var spans []string
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			// Quotes only count once a span has started; prose quotes
			// before any bracket would otherwise swallow the text.
			if depth > 0 {
				inString = true
			}
		case open:
			if depth == 0 {
				start = i
			}
			depth++
		case close:
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				spans = append(spans, text[start:i+1])
				start = -1
			}
		}
	}
	return spans
}
