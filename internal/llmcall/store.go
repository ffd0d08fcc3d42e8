package llmcall

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// Store reads LLM call records from a JSONL call log.
type Store struct {
	path string
}

// NewStore creates a new call store over the given log file.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// QueryFilter specifies filters for listing LLM calls.
type QueryFilter struct {
	NovelID   string
	ChapterID string
	PromptKey string
	Provider  string
	Model     string
	After     *time.Time
	Before    *time.Time
	Success   *bool
	Limit     int
	Offset    int
}

func (f QueryFilter) matches(c *Call) bool {
	if f.NovelID != "" && c.NovelID != f.NovelID {
		return false
	}
	if f.ChapterID != "" && c.ChapterID != f.ChapterID {
		return false
	}
	if f.PromptKey != "" && c.PromptKey != f.PromptKey {
		return false
	}
	if f.Provider != "" && c.Provider != f.Provider {
		return false
	}
	if f.Model != "" && c.Model != f.Model {
		return false
	}
	if f.Success != nil && c.Success != *f.Success {
		return false
	}
	if f.After != nil && !c.Timestamp.After(*f.After) {
		return false
	}
	if f.Before != nil && !c.Timestamp.Before(*f.Before) {
		return false
	}
	return true
}

// Get retrieves a single LLM call by ID. Returns nil when absent.
func (s *Store) Get(id string) (*Call, error) {
	calls, err := s.List(QueryFilter{})
	if err != nil {
		return nil, err
	}
	for i := range calls {
		if calls[i].ID == id {
			return &calls[i], nil
		}
	}
	return nil, nil
}

// List retrieves LLM calls matching the filter, in log order.
// A missing log file yields no calls.
func (s *Store) List(filter QueryFilter) ([]Call, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open call log: %w", err)
	}
	defer f.Close()

	all, err := ReadCalls(f)
	if err != nil {
		return nil, err
	}

	var out []Call
	skipped := 0
	for i := range all {
		if !filter.matches(&all[i]) {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		out = append(out, all[i])
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

// CountByPromptKey returns call counts grouped by prompt key.
func (s *Store) CountByPromptKey(novelID string) (map[string]int, error) {
	calls, err := s.List(QueryFilter{NovelID: novelID})
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, c := range calls {
		counts[c.PromptKey]++
	}
	return counts, nil
}

// ReadCalls parses JSON lines into calls. Blank lines are skipped.
func ReadCalls(r io.Reader) ([]Call, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var calls []Call
	line := 0
	for scanner.Scan() {
		line++
		b := scanner.Bytes()
		if len(b) == 0 {
			continue
		}
		var c Call
		if err := json.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("call log line %d: %w", line, err)
		}
		calls = append(calls, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read call log: %w", err)
	}
	return calls, nil
}
