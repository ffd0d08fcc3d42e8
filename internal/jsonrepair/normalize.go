package jsonrepair

import (
	"fmt"
	"sort"
	"strings"
)

// Kind names the record schema a generation feature asked for.
type Kind string

const (
	KindOutline     Kind = "outline"
	KindCharacter   Kind = "character"
	KindWorldview   Kind = "worldview"
	KindInspiration Kind = "inspiration"
)

// Record is a normalized record: canonical field name to text.
type Record map[string]string

type field struct {
	name    string
	aliases []string
}

// kindFields lists the canonical fields per kind. The first field is the
// record's label; the last field collects unmapped keys.
var kindFields = map[Kind][]field{
	KindOutline: {
		{name: "title", aliases: []string{"title", "chapter", "chaptertitle", "name", "heading"}},
		{name: "summary", aliases: []string{"summary", "content", "outline", "description", "plot", "synopsis", "desc"}},
	},
	KindCharacter: {
		{name: "name", aliases: []string{"name", "character", "role", "charactername", "rolename"}},
		{name: "bio", aliases: []string{"bio", "biography", "description", "desc", "intro", "introduction", "background", "profile", "details", "content"}},
	},
	KindWorldview: {
		{name: "item", aliases: []string{"item", "name", "title", "term", "concept", "entry", "key"}},
		{name: "setting", aliases: []string{"setting", "description", "desc", "content", "detail", "details", "value"}},
	},
	KindInspiration: {
		{name: "title", aliases: []string{"title", "name", "idea", "topic", "theme"}},
		{name: "content", aliases: []string{"content", "description", "desc", "detail", "details", "summary", "idea_detail"}},
	},
}

// Kinds returns the supported record kinds in a stable order.
func Kinds() []Kind {
	return []Kind{KindOutline, KindCharacter, KindWorldview, KindInspiration}
}

// ParseKind converts a string to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := kindFields[k]; !ok {
		return "", fmt.Errorf("unknown record kind: %q", s)
	}
	return k, nil
}

// Fields returns the canonical field names of a kind.
func Fields(kind Kind) []string {
	fields := kindFields[kind]
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}
	return names
}

func normalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(k)
}

// Normalize maps heterogeneous records onto the fixed schema of kind.
// Nested objects and arrays are flattened into labeled multi-line text.
// Keys that match no alias are appended to the last field so nothing is
// silently dropped. Records that end up empty are skipped.
func Normalize(kind Kind, records []any) []Record {
	fields, ok := kindFields[kind]
	if !ok {
		return nil
	}

	out := make([]Record, 0, len(records))
	for _, raw := range records {
		rec := Record{}
		switch v := raw.(type) {
		case map[string]any:
			normalizeObject(fields, v, rec)
		case nil:
			continue
		default:
			rec[fields[0].name] = flatten(v)
		}

		empty := true
		for _, f := range fields {
			if _, ok := rec[f.name]; !ok {
				rec[f.name] = ""
			}
			if rec[f.name] != "" {
				empty = false
			}
		}
		if !empty {
			out = append(out, rec)
		}
	}
	return out
}

func normalizeObject(fields []field, obj map[string]any, rec Record) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	used := make(map[string]bool, len(keys))
	for _, f := range fields {
		// Alias order is priority order.
		for _, alias := range f.aliases {
			for _, k := range keys {
				if used[k] || normalizeKey(k) != normalizeKey(alias) {
					continue
				}
				if text := flatten(obj[k]); text != "" {
					rec[f.name] = text
					used[k] = true
				}
				break
			}
			if _, ok := rec[f.name]; ok {
				break
			}
		}
	}

	var extra []string
	for _, k := range keys {
		if used[k] {
			continue
		}
		if text := flatten(obj[k]); text != "" {
			extra = append(extra, labeled(k, text))
		}
	}
	if len(extra) == 0 {
		return
	}
	last := fields[len(fields)-1].name
	parts := extra
	if rec[last] != "" {
		parts = append([]string{rec[last]}, extra...)
	}
	rec[last] = strings.Join(parts, "\n")
}

func labeled(label, text string) string {
	if strings.Contains(text, "\n") {
		return label + ":\n" + text
	}
	return label + ": " + text
}

// flatten renders a decoded JSON value as text.
func flatten(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case bool:
		return fmt.Sprintf("%t", t)
	case float64:
		return fmt.Sprintf("%v", t)
	case []any:
		lines := make([]string, 0, len(t))
		for _, item := range t {
			text := flattenInline(item)
			if text != "" {
				lines = append(lines, "- "+text)
			}
		}
		return strings.Join(lines, "\n")
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		lines := make([]string, 0, len(keys))
		for _, k := range keys {
			if text := flatten(t[k]); text != "" {
				lines = append(lines, labeled(k, text))
			}
		}
		return strings.Join(lines, "\n")
	default:
		return fmt.Sprintf("%v", t)
	}
}

// flattenInline renders a list item on one line.
func flattenInline(v any) string {
	obj, ok := v.(map[string]any)
	if !ok {
		return strings.ReplaceAll(flatten(v), "\n", "; ")
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if text := flattenInline(obj[k]); text != "" {
			parts = append(parts, k+": "+text)
		}
	}
	return strings.Join(parts, "; ")
}
