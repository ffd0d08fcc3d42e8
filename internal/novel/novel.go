// Package novel provides the chapter data model shared by the summary engine,
// the store, and the generation features.
// This package has no dependencies on other novella packages to avoid import cycles.
package novel

// Subtype distinguishes narrative chapters from synthesized summaries.
type Subtype string

const (
	// SubtypeStory is a narrative chapter. An empty subtype means story.
	SubtypeStory Subtype = "story"
	// SubtypeSmallSummary covers a short run of story chapters.
	SubtypeSmallSummary Subtype = "small_summary"
	// SubtypeBigSummary covers a long run, usually built from small summaries.
	SubtypeBigSummary Subtype = "big_summary"
)

// IsSummary reports whether the subtype is one of the synthesized summary kinds.
func (s Subtype) IsSummary() bool {
	return s == SubtypeSmallSummary || s == SubtypeBigSummary
}

// VersionType records how a chapter version was produced.
type VersionType string

const (
	VersionOriginal  VersionType = "original"
	VersionOptimized VersionType = "optimized"
	VersionUserEdit  VersionType = "user_edit"
)

// ChapterVersion is one saved text of a chapter.
type ChapterVersion struct {
	ID        string      `json:"id"`
	Content   string      `json:"content"`
	Timestamp int64       `json:"timestamp"` // unix milliseconds
	Type      VersionType `json:"type"`
}

// Chapter is a story chapter or a summary chapter.
type Chapter struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Subtype Subtype `json:"subtype,omitempty"`

	// SummaryRange is "start-end" in 1-based story-index space. Summary subtypes only.
	SummaryRange string `json:"summaryRange,omitempty"`

	// VolumeID groups chapters logically. nil means the chapter belongs to no volume.
	VolumeID *string `json:"volumeId,omitempty"`

	// SourceContent is the text before optimization, if any.
	SourceContent string `json:"sourceContent,omitempty"`

	Versions        []ChapterVersion `json:"versions,omitempty"`
	ActiveVersionID string           `json:"activeVersionId,omitempty"`
}

// Clone returns a deep copy of the chapter.
func (c Chapter) Clone() Chapter {
	out := c
	if c.VolumeID != nil {
		v := *c.VolumeID
		out.VolumeID = &v
	}
	if c.Versions != nil {
		out.Versions = make([]ChapterVersion, len(c.Versions))
		copy(out.Versions, c.Versions)
	}
	return out
}

// Volume is a logical grouping of chapters. Chapters reference it by ID.
type Volume struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Novel is an ordered list of chapters plus its volumes.
// Chapter order is the canonical story sequence.
type Novel struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Chapters []Chapter `json:"chapters"`
	Volumes  []Volume  `json:"volumes,omitempty"`
}

// CloneChapters deep-copies a chapter slice.
func CloneChapters(chapters []Chapter) []Chapter {
	if chapters == nil {
		return nil
	}
	out := make([]Chapter, len(chapters))
	for i, ch := range chapters {
		out[i] = ch.Clone()
	}
	return out
}

// Clone returns a deep copy of the novel.
func (n Novel) Clone() Novel {
	out := n
	out.Chapters = CloneChapters(n.Chapters)
	if n.Volumes != nil {
		out.Volumes = make([]Volume, len(n.Volumes))
		copy(out.Volumes, n.Volumes)
	}
	return out
}

// ChapterIndex returns the array position of the chapter with the given ID, or -1.
func ChapterIndex(chapters []Chapter, id string) int {
	for i := range chapters {
		if chapters[i].ID == id {
			return i
		}
	}
	return -1
}

// StringPtr returns a pointer to s. Handy for volume IDs.
func StringPtr(s string) *string {
	return &s
}
