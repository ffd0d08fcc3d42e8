package novel

import (
	"errors"
	"testing"
)

func storyList(ids ...string) []Chapter {
	out := make([]Chapter, len(ids))
	for i, id := range ids {
		out[i] = Chapter{ID: id}
	}
	return out
}

func TestStoryIndex_StableUnderSummaryInsertion(t *testing.T) {
	base := storyList("a", "b", "c", "d")
	before := map[string]int{}
	for _, ch := range base {
		before[ch.ID] = StoryIndex(base, ch.ID)
	}

	withSummaries := []Chapter{
		{ID: "s0", Subtype: SubtypeBigSummary, SummaryRange: "1-4"},
		base[0],
		base[1],
		{ID: "s1", Subtype: SubtypeSmallSummary, SummaryRange: "1-2"},
		base[2],
		{ID: "s2", Subtype: SubtypeSmallSummary, SummaryRange: "3-3"},
		base[3],
	}
	for id, want := range before {
		if got := StoryIndex(withSummaries, id); got != want {
			t.Errorf("StoryIndex(%s) = %d, want %d", id, got, want)
		}
	}
	if got := StoryIndex(withSummaries, "s1"); got != 0 {
		t.Errorf("summary chapters have no story index, got %d", got)
	}
	if got := StoryIndex(withSummaries, "missing"); got != 0 {
		t.Errorf("missing chapter should be 0, got %d", got)
	}
}

func TestStoryIndex_ExplicitStorySubtype(t *testing.T) {
	chapters := []Chapter{{ID: "a", Subtype: SubtypeStory}, {ID: "b"}}
	if got := StoryIndex(chapters, "b"); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}

func TestVolumeStoryChapters(t *testing.T) {
	v1, v2 := StringPtr("v1"), StringPtr("v2")
	chapters := []Chapter{
		{ID: "a", VolumeID: v1},
		{ID: "b", VolumeID: v2},
		{ID: "s", VolumeID: v1, Subtype: SubtypeSmallSummary},
		{ID: "c", VolumeID: StringPtr("v1")},
		{ID: "d"},
	}
	got := VolumeStoryChapters(chapters, v1)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("unexpected volume chapters: %+v", got)
	}
	none := VolumeStoryChapters(chapters, nil)
	if len(none) != 1 || none[0].ID != "d" {
		t.Fatalf("unexpected unassigned chapters: %+v", none)
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in      string
		want    Range
		wantErr bool
	}{
		{in: "1-3", want: Range{1, 3}},
		{in: " 4 - 6 ", want: Range{4, 6}},
		{in: "7-7", want: Range{7, 7}},
		{in: "3-1", wantErr: true},
		{in: "0-2", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "1-x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRange(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRange) {
					t.Fatalf("expected ErrInvalidRange, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRange() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("ParseRange() = %+v, want %+v", got, tt.want)
			}
			if got.String() != FormatRange(tt.want.Start, tt.want.End) {
				t.Fatalf("round trip mismatch: %s", got.String())
			}
		})
	}
}

func TestRangeContains(t *testing.T) {
	outer := Range{1, 9}
	if !outer.Contains(Range{4, 6}) || !outer.Contains(Range{1, 9}) {
		t.Error("expected contained ranges")
	}
	if outer.Contains(Range{7, 10}) {
		t.Error("7-10 is not inside 1-9")
	}
	if !outer.Includes(9) || outer.Includes(10) {
		t.Error("Includes boundary mismatch")
	}
}

func TestFindSummary(t *testing.T) {
	chapters := []Chapter{
		{ID: "a"},
		{ID: "s1", Subtype: SubtypeSmallSummary, SummaryRange: "1-3"},
		{ID: "s2", Subtype: SubtypeBigSummary, SummaryRange: "1-3"},
	}
	if got := FindSummary(chapters, SubtypeBigSummary, "1-3"); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := FindSummary(chapters, SubtypeSmallSummary, "4-6"); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
}
