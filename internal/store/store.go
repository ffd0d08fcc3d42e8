// Package store holds the novels in memory, applies functional updates, and
// persists each novel as a JSON file.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jackzampolin/novella/internal/novel"
)

var (
	ErrNovelNotFound   = errors.New("novel not found")
	ErrChapterNotFound = errors.New("chapter not found")
)

// WriteHook is called after a chapter write is applied.
type WriteHook func(ctx context.Context, novelID, chapterID, content string)

// Config configures a Store.
type Config struct {
	Dir    string // Directory holding <novel-id>.json files; empty disables persistence
	Logger *slog.Logger
}

// Store is the chapter store. All updates go through Publish.
type Store struct {
	dir        string
	logger     *slog.Logger
	tombstones *TombstoneSet

	mu     sync.Mutex
	novels []novel.Novel
	dirty  map[string]bool

	hookMu  sync.RWMutex
	onWrite WriteHook
}

// New creates an empty store.
func New(cfg Config) *Store {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Store{
		dir:        cfg.Dir,
		logger:     cfg.Logger,
		tombstones: NewTombstoneSet(),
		dirty:      make(map[string]bool),
	}
}

// Tombstones returns the store's deletion set.
func (s *Store) Tombstones() *TombstoneSet {
	return s.tombstones
}

// OnChapterWrite installs the hook run after every WriteChapter.
func (s *Store) OnChapterWrite(hook WriteHook) {
	s.hookMu.Lock()
	s.onWrite = hook
	s.hookMu.Unlock()
}

// Publish applies update to the current novels. The updater receives a copy;
// chapters whose IDs are tombstoned are dropped from the result.
func (s *Store) Publish(update func(prev []novel.Novel) []novel.Novel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(update)
}

func (s *Store) applyLocked(update func(prev []novel.Novel) []novel.Novel) {
	prev := cloneNovels(s.novels)
	next := update(prev)
	for i := range next {
		next[i].Chapters = s.dropTombstoned(next[i].Chapters)
	}
	for i := range next {
		old := findNovel(s.novels, next[i].ID)
		if old < 0 || !reflect.DeepEqual(s.novels[old], next[i]) {
			s.dirty[next[i].ID] = true
		}
	}
	s.novels = next
}

func (s *Store) dropTombstoned(chapters []novel.Chapter) []novel.Chapter {
	if s.tombstones.Len() == 0 {
		return chapters
	}
	out := chapters[:0:0]
	for _, ch := range chapters {
		if s.tombstones.Has(ch.ID) {
			s.logger.Debug("dropping tombstoned chapter from publish", "chapter_id", ch.ID)
			continue
		}
		out = append(out, ch)
	}
	return out
}

// Novels returns a copy of every novel.
func (s *Store) Novels() []novel.Novel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneNovels(s.novels)
}

// Novel returns a copy of one novel.
func (s *Store) Novel(id string) (novel.Novel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := findNovel(s.novels, id)
	if i < 0 {
		return novel.Novel{}, fmt.Errorf("%w: %s", ErrNovelNotFound, id)
	}
	return s.novels[i].Clone(), nil
}

// AddNovel inserts or replaces a novel. A missing ID is generated.
func (s *Store) AddNovel(n novel.Novel) novel.Novel {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n = n.Clone()
	s.Publish(func(prev []novel.Novel) []novel.Novel {
		if i := findNovel(prev, n.ID); i >= 0 {
			prev[i] = n
			return prev
		}
		return append(prev, n)
	})
	return n
}

// WriteChapter upserts a story chapter and then runs the write hook with the
// chapter's content. A rewrite of an existing chapter keeps its versions and
// records the new text as a user_edit version.
func (s *Store) WriteChapter(ctx context.Context, novelID string, ch novel.Chapter) (novel.Chapter, error) {
	if ch.ID == "" {
		ch.ID = uuid.New().String()
	}

	s.mu.Lock()
	ni := findNovel(s.novels, novelID)
	if ni < 0 {
		s.mu.Unlock()
		return novel.Chapter{}, fmt.Errorf("%w: %s", ErrNovelNotFound, novelID)
	}
	if s.tombstones.Has(ch.ID) {
		s.mu.Unlock()
		return novel.Chapter{}, fmt.Errorf("%w: %s was deleted", ErrChapterNotFound, ch.ID)
	}
	if j := novel.ChapterIndex(s.novels[ni].Chapters, ch.ID); j >= 0 && len(ch.Versions) == 0 {
		existing := s.novels[ni].Chapters[j]
		ch.Versions = existing.Clone().Versions
		ch.ActiveVersionID = existing.ActiveVersionID
	}
	ch = novel.InitVersions(ch)
	if active, ok := novel.ActiveVersion(ch); ok && ch.Content != "" && active.Content != ch.Content {
		ch = novel.AddVersion(ch, ch.Content, novel.VersionUserEdit)
	}

	s.applyLocked(func(prev []novel.Novel) []novel.Novel {
		i := findNovel(prev, novelID)
		if j := novel.ChapterIndex(prev[i].Chapters, ch.ID); j >= 0 {
			prev[i].Chapters[j] = ch.Clone()
		} else {
			prev[i].Chapters = append(prev[i].Chapters, ch.Clone())
		}
		return prev
	})
	s.mu.Unlock()

	s.hookMu.RLock()
	hook := s.onWrite
	s.hookMu.RUnlock()
	if hook != nil {
		hook(ctx, novelID, ch.ID, ch.Content)
	}
	return ch, nil
}

// DeleteChapter removes a chapter. Deleting a story chapter also removes every
// summary chapter whose range ends at its story index. All removed IDs are
// tombstoned and returned.
func (s *Store) DeleteChapter(novelID, chapterID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ni := findNovel(s.novels, novelID)
	if ni < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNovelNotFound, novelID)
	}
	chapters := s.novels[ni].Chapters
	ci := novel.ChapterIndex(chapters, chapterID)
	if ci < 0 {
		return nil, fmt.Errorf("%w: %s", ErrChapterNotFound, chapterID)
	}

	removed := []string{chapterID}
	if novel.IsStory(chapters[ci]) {
		storyIndex := novel.StoryIndex(chapters, chapterID)
		for _, ch := range chapters {
			if !ch.Subtype.IsSummary() {
				continue
			}
			r, err := novel.ParseRange(ch.SummaryRange)
			if err != nil {
				continue
			}
			if r.End == storyIndex {
				removed = append(removed, ch.ID)
			}
		}
	}

	s.tombstones.Add(removed...)
	s.applyLocked(func(prev []novel.Novel) []novel.Novel { return prev })

	s.logger.Info("deleted chapter", "novel_id", novelID, "chapter_id", chapterID, "cascaded", len(removed)-1)
	return removed, nil
}

// Load reads every <id>.json file in the store directory.
// A missing directory yields an empty store.
func (s *Store) Load() error {
	if s.dir == "" {
		return nil
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading novels directory: %w", err)
	}

	var loaded []novel.Novel
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("reading %s: %w", entry.Name(), err)
		}
		var n novel.Novel
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("parsing %s: %w", entry.Name(), err)
		}
		for i := range n.Chapters {
			n.Chapters[i] = novel.HealActiveVersion(n.Chapters[i])
		}
		loaded = append(loaded, n)
	}
	sort.Slice(loaded, func(i, j int) bool { return loaded[i].ID < loaded[j].ID })

	s.mu.Lock()
	s.novels = loaded
	s.dirty = make(map[string]bool)
	s.mu.Unlock()
	return nil
}

// Save writes every novel changed since the last Load or Save.
func (s *Store) Save() error {
	if s.dir == "" {
		return nil
	}
	s.mu.Lock()
	var pending []novel.Novel
	for _, n := range s.novels {
		if s.dirty[n.ID] {
			pending = append(pending, n.Clone())
		}
	}
	s.dirty = make(map[string]bool)
	s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating novels directory: %w", err)
	}
	for _, n := range pending {
		if err := s.writeNovel(n); err != nil {
			return err
		}
	}
	return nil
}

// NovelPath returns the file a novel is persisted to.
func (s *Store) NovelPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *Store) writeNovel(n novel.Novel) error {
	data, err := json.MarshalIndent(n, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling novel %s: %w", n.ID, err)
	}
	path := s.NovelPath(n.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing novel %s: %w", n.ID, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing novel %s: %w", n.ID, err)
	}
	return nil
}

func findNovel(novels []novel.Novel, id string) int {
	for i := range novels {
		if novels[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneNovels(novels []novel.Novel) []novel.Novel {
	out := make([]novel.Novel, len(novels))
	for i, n := range novels {
		out[i] = n.Clone()
	}
	return out
}
