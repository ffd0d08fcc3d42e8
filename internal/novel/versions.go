package novel

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrVersionNotFound is returned when a version ID does not exist on a chapter.
var ErrVersionNotFound = errors.New("version not found")

// now is swapped in tests.
var now = func() int64 { return time.Now().UnixMilli() }

func newVersion(content string, typ VersionType) ChapterVersion {
	return ChapterVersion{
		ID:        uuid.New().String(),
		Content:   content,
		Timestamp: now(),
		Type:      typ,
	}
}

// InitVersions makes sure a chapter carries a version history.
//
// A chapter that already has versions only gets its active pointer healed.
// A chapter with neither content nor source content is returned unchanged:
// an empty original version is never synthesized, since that would clobber an
// edit that has not been persisted yet.
func InitVersions(ch Chapter) Chapter {
	if len(ch.Versions) > 0 {
		return HealActiveVersion(ch)
	}
	if ch.Content == "" && ch.SourceContent == "" {
		return ch
	}

	out := ch.Clone()
	if out.SourceContent != "" {
		out.Versions = append(out.Versions, newVersion(out.SourceContent, VersionOriginal))
		if out.Content != "" && out.Content != out.SourceContent {
			out.Versions = append(out.Versions, newVersion(out.Content, VersionOptimized))
		}
	} else {
		out.Versions = append(out.Versions, newVersion(out.Content, VersionOriginal))
	}

	last := out.Versions[len(out.Versions)-1]
	out.ActiveVersionID = last.ID
	if out.Content == "" {
		out.Content = last.Content
	}
	return out
}

// HealActiveVersion points ActiveVersionID at the most recent version when
// it does not resolve. Chapters without versions are returned unchanged.
func HealActiveVersion(ch Chapter) Chapter {
	if len(ch.Versions) == 0 {
		return ch
	}
	if _, ok := ActiveVersion(ch); ok {
		return ch
	}
	latest := 0
	for i, v := range ch.Versions {
		// Later position wins ties.
		if v.Timestamp >= ch.Versions[latest].Timestamp {
			latest = i
		}
	}
	out := ch.Clone()
	out.ActiveVersionID = out.Versions[latest].ID
	return out
}

// ActiveVersion returns the version ActiveVersionID points at.
func ActiveVersion(ch Chapter) (ChapterVersion, bool) {
	if ch.ActiveVersionID == "" {
		return ChapterVersion{}, false
	}
	for _, v := range ch.Versions {
		if v.ID == ch.ActiveVersionID {
			return v, true
		}
	}
	return ChapterVersion{}, false
}

// AddVersion appends a new version, activates it and syncs Content.
func AddVersion(ch Chapter, content string, typ VersionType) Chapter {
	out := InitVersions(ch)
	v := newVersion(content, typ)
	out = out.Clone()
	out.Versions = append(out.Versions, v)
	out.ActiveVersionID = v.ID
	out.Content = content
	return out
}

// SelectVersion activates an existing version and syncs Content.
func SelectVersion(ch Chapter, versionID string) (Chapter, error) {
	for _, v := range ch.Versions {
		if v.ID == versionID {
			out := ch.Clone()
			out.ActiveVersionID = v.ID
			out.Content = v.Content
			return out, nil
		}
	}
	return ch, fmt.Errorf("%w: %s on chapter %s", ErrVersionNotFound, versionID, ch.ID)
}

// StableContent is the text used when a chapter feeds a summary.
// Content wins when set, since it may hold an edit newer than any version.
func StableContent(ch Chapter) string {
	if ch.Content != "" {
		return ch.Content
	}
	if v, ok := ActiveVersion(HealActiveVersion(ch)); ok {
		return v.Content
	}
	return ""
}
