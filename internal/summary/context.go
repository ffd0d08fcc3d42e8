package summary

import (
	"sort"
	"strings"

	"github.com/jackzampolin/novella/internal/novel"
)

// chapterSource joins the title and stable content of every story chapter
// whose story index falls inside rng and which belongs to volumeID.
func chapterSource(chapters []novel.Chapter, rng novel.Range, volumeID *string) string {
	var parts []string
	idx := 0
	for _, ch := range chapters {
		if !novel.IsStory(ch) {
			continue
		}
		idx++
		if !rng.Includes(idx) || !novel.SameVolume(ch.VolumeID, volumeID) {
			continue
		}
		parts = append(parts, ch.Title+"\n"+novel.StableContent(ch))
	}
	return strings.Join(parts, "\n\n")
}

// containedSummaries returns the small summaries whose ranges lie inside rng,
// ordered by range start.
func containedSummaries(chapters []novel.Chapter, rng novel.Range) []novel.Chapter {
	type ranged struct {
		ch novel.Chapter
		r  novel.Range
	}
	var found []ranged
	for _, ch := range chapters {
		if ch.Subtype != novel.SubtypeSmallSummary {
			continue
		}
		r, err := novel.ParseRange(ch.SummaryRange)
		if err != nil || !rng.Contains(r) {
			continue
		}
		found = append(found, ranged{ch: ch, r: r})
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].r.Start < found[j].r.Start })

	out := make([]novel.Chapter, len(found))
	for i, f := range found {
		out[i] = f.ch
	}
	return out
}

// summarySource prefers existing small summaries inside rng and falls back to
// the raw chapters.
func summarySource(chapters []novel.Chapter, rng novel.Range, volumeID *string) string {
	summaries := containedSummaries(chapters, rng)
	if len(summaries) == 0 {
		return chapterSource(chapters, rng, volumeID)
	}
	parts := make([]string, 0, len(summaries))
	for _, s := range summaries {
		parts = append(parts, s.Content)
	}
	return strings.Join(parts, "\n\n")
}
