package summary

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jackzampolin/novella/internal/novel"
)

// Source is the chapter store the trigger reads snapshots from and
// publishes into.
type Source interface {
	Novel(id string) (novel.Novel, error)
	Publish(update func(prev []novel.Novel) []novel.Novel)
}

// Trigger runs the orchestrator in the background after chapter writes.
// Every run is bound to the session context; Close cancels outstanding runs
// and waits for them to return.
type Trigger struct {
	orch   *Orchestrator
	source Source
	config func() Config
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewTrigger creates a trigger bound to ctx. config is read on every write so
// hot-reloaded settings apply to the next run.
func NewTrigger(ctx context.Context, orch *Orchestrator, source Source, config func() Config, logger *slog.Logger) *Trigger {
	if logger == nil {
		logger = slog.Default()
	}
	if config == nil {
		config = func() Config { return Config{} }
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Trigger{
		orch:   orch,
		source: source,
		config: config,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// OnChapterWrite starts a summary check for a chapter write. The run stops
// when either writeCtx or the session is cancelled. It reports false when the
// trigger is closed or the novel cannot be read.
func (t *Trigger) OnChapterWrite(writeCtx context.Context, novelID, chapterID, content string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return false
	}

	n, err := t.source.Novel(novelID)
	if err != nil {
		t.logger.Warn("summary trigger could not read novel", "novel_id", novelID, "error", err)
		return false
	}

	runCtx, cancel := context.WithCancel(t.ctx)
	stop := context.AfterFunc(writeCtx, cancel)

	req := Request{
		ChapterID:     chapterID,
		LatestContent: content,
		NovelID:       novelID,
		Chapters:      n.Chapters,
		Publish:       func(u Updater) { t.source.Publish(u) },
		Config:        t.config(),
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer cancel()
		defer stop()
		t.orch.CheckAndGenerate(runCtx, req)
	}()
	return true
}

// Wait blocks until every started run has returned.
func (t *Trigger) Wait() {
	t.wg.Wait()
}

// Close cancels outstanding runs and waits for them. Later writes are ignored.
func (t *Trigger) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()

	t.cancel()
	t.wg.Wait()
}
