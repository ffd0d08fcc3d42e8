package summary

import (
	"slices"

	"github.com/google/uuid"

	"github.com/jackzampolin/novella/internal/novel"
)

// newSummary builds a summary chapter for (subtype, rng) with a fresh ID.
func newSummary(subtype novel.Subtype, rng novel.Range, title, content string, volumeID *string) novel.Chapter {
	ch := novel.Chapter{
		ID:           uuid.New().String(),
		Title:        title,
		Content:      content,
		Subtype:      subtype,
		SummaryRange: rng.String(),
	}
	if volumeID != nil {
		ch.VolumeID = novel.StringPtr(*volumeID)
	}
	return ch
}

// upsertSummary returns a copy of chapters holding exactly one summary for
// summary's (subtype, range). An existing one keeps its ID and position and
// takes summary's content; otherwise summary is placed right after afterID,
// past any summaries already clustered there, or appended when afterID is
// absent.
func upsertSummary(chapters []novel.Chapter, summary novel.Chapter, afterID string) []novel.Chapter {
	out := novel.CloneChapters(chapters)

	if i := novel.FindSummary(out, summary.Subtype, summary.SummaryRange); i >= 0 {
		out[i].Content = summary.Content
		return out
	}

	ch := summary.Clone()
	pos := novel.ChapterIndex(out, afterID)
	if pos < 0 {
		return append(out, ch)
	}
	insert := pos + 1
	for insert < len(out) && out[insert].Subtype.IsSummary() {
		insert++
	}
	return slices.Insert(out, insert, ch)
}
