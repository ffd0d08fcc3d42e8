package novel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidRange is returned when a range string cannot be parsed.
var ErrInvalidRange = errors.New("invalid summary range")

// IsStory reports whether the chapter contributes to story numbering.
func IsStory(ch Chapter) bool {
	return ch.Subtype == "" || ch.Subtype == SubtypeStory
}

// StoryChapters returns the story chapters in array order.
func StoryChapters(chapters []Chapter) []Chapter {
	out := make([]Chapter, 0, len(chapters))
	for _, ch := range chapters {
		if IsStory(ch) {
			out = append(out, ch)
		}
	}
	return out
}

// StoryIndex returns the 1-based story index of a chapter, or 0 when the
// chapter is absent or is not a story chapter.
func StoryIndex(chapters []Chapter, id string) int {
	n := 0
	for _, ch := range chapters {
		if !IsStory(ch) {
			continue
		}
		n++
		if ch.ID == id {
			return n
		}
	}
	return 0
}

// SameVolume compares two nullable volume IDs.
func SameVolume(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// VolumeStoryChapters returns the story chapters of one volume in array order.
func VolumeStoryChapters(chapters []Chapter, volumeID *string) []Chapter {
	out := make([]Chapter, 0)
	for _, ch := range chapters {
		if IsStory(ch) && SameVolume(ch.VolumeID, volumeID) {
			out = append(out, ch)
		}
	}
	return out
}

// Range is an inclusive 1-based span of story indices.
type Range struct {
	Start int
	End   int
}

// String formats the range as "start-end".
func (r Range) String() string {
	return FormatRange(r.Start, r.End)
}

// Contains reports whether other lies fully inside r.
func (r Range) Contains(other Range) bool {
	return other.Start >= r.Start && other.End <= r.End
}

// Includes reports whether a story index falls inside r.
func (r Range) Includes(index int) bool {
	return index >= r.Start && index <= r.End
}

// FormatRange builds a range string.
func FormatRange(start, end int) string {
	return fmt.Sprintf("%d-%d", start, end)
}

// ParseRange parses "start-end".
func ParseRange(s string) (Range, error) {
	startStr, endStr, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return Range{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	start, err := strconv.Atoi(strings.TrimSpace(startStr))
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	end, err := strconv.Atoi(strings.TrimSpace(endStr))
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	if start < 1 || end < start {
		return Range{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	return Range{Start: start, End: end}, nil
}

// FindSummary returns the array position of the summary chapter keyed by
// (subtype, range), or -1.
func FindSummary(chapters []Chapter, subtype Subtype, summaryRange string) int {
	for i, ch := range chapters {
		if ch.Subtype == subtype && ch.SummaryRange == summaryRange {
			return i
		}
	}
	return -1
}
