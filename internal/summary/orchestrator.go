// Package summary maintains rolling small and big summary chapters over a
// novel's story chapters.
//
// After every chapter write the orchestrator checks whether the chapter lands
// on a tier boundary inside its volume. When it does, it builds the source
// text, asks the model for a summary and upserts a summary chapter keyed by
// (subtype, range). Tier failures are logged and never returned.
package summary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackzampolin/novella/internal/llmcall"
	"github.com/jackzampolin/novella/internal/novel"
	"github.com/jackzampolin/novella/internal/prompts"
	summaryprompts "github.com/jackzampolin/novella/internal/prompts/summary"
	"github.com/jackzampolin/novella/internal/providers"
)

// Updater maps the previous novel list to the next one.
type Updater func(prev []novel.Novel) []novel.Novel

// PublishFunc applies an updater to the chapter store. It must not block on
// durable persistence.
type PublishFunc func(update Updater)

// Request describes one chapter write.
type Request struct {
	ChapterID     string
	LatestContent string
	NovelID       string
	Chapters      []novel.Chapter // snapshot; never mutated
	Publish       PublishFunc
	Config        Config
}

// OrchestratorConfig configures an Orchestrator.
type OrchestratorConfig struct {
	Factory  providers.ClientFactory
	Resolver *prompts.Resolver // Optional; embedded defaults when nil
	Recorder *llmcall.Recorder // Optional
	Logger   *slog.Logger
}

// Orchestrator decides when summaries fire and produces them.
type Orchestrator struct {
	factory  providers.ClientFactory
	resolver *prompts.Resolver
	recorder *llmcall.Recorder
	logger   *slog.Logger
}

// NewOrchestrator creates an orchestrator.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	if cfg.Factory == nil {
		cfg.Factory = providers.NewOpenAIFactory()
	}
	if cfg.Resolver == nil {
		cfg.Resolver = prompts.NewResolver(cfg.Logger)
		summaryprompts.RegisterPrompts(cfg.Resolver)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Orchestrator{
		factory:  cfg.Factory,
		resolver: cfg.Resolver,
		recorder: cfg.Recorder,
		logger:   cfg.Logger,
	}
}

type tier struct {
	name      string
	subtype   novel.Subtype
	interval  int
	promptKey string
	override  string
	title     string
}

func tiers(cfg Config) []tier {
	return []tier{
		{
			name:      "small",
			subtype:   novel.SubtypeSmallSummary,
			interval:  cfg.SmallInterval,
			promptKey: summaryprompts.SmallPromptKey,
			override:  cfg.SmallPrompt,
			title:     "Summary",
		},
		{
			name:      "big",
			subtype:   novel.SubtypeBigSummary,
			interval:  cfg.BigInterval,
			promptKey: summaryprompts.BigPromptKey,
			override:  cfg.BigPrompt,
			title:     "Arc Summary",
		},
	}
}

// CheckAndGenerate evaluates both tiers for the written chapter and returns
// the working novel with any summaries it produced. It returns nil when the
// chapter is no longer in the snapshot. Each tier that produces a summary is
// published on its own, small before big. A cancelled ctx stops the remaining
// tiers and drops results that arrive after cancellation.
func (o *Orchestrator) CheckAndGenerate(ctx context.Context, req Request) *novel.Novel {
	chapters := novel.CloneChapters(req.Chapters)
	idx := novel.ChapterIndex(chapters, req.ChapterID)
	if idx < 0 || !novel.IsStory(chapters[idx]) {
		o.logger.Debug("chapter not in snapshot, skipping summaries",
			"novel_id", req.NovelID, "chapter_id", req.ChapterID)
		return nil
	}
	chapters[idx].Content = req.LatestContent
	target := chapters[idx]

	volume := novel.VolumeStoryChapters(chapters, target.VolumeID)
	countInVolume := novel.ChapterIndex(volume, target.ID) + 1

	cfg := req.Config.withDefaults()
	working := &novel.Novel{ID: req.NovelID, Chapters: chapters}

	var client providers.LLMClient
	for _, t := range tiers(cfg) {
		if t.interval <= 0 || countInVolume%t.interval != 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			o.logger.Info("summary cancelled", "novel_id", req.NovelID, "tier", t.name, "error", err)
			break
		}
		if client == nil {
			client = o.factory(providers.ClientConfig{
				APIKey:       cfg.APIKey,
				BaseURL:      cfg.BaseURL,
				DefaultModel: cfg.Model,
				Timeout:      cfg.Timeout,
				MaxRetries:   cfg.MaxRetries,
			})
		}

		batch := volume[countInVolume-t.interval : countInVolume]
		rng := novel.Range{
			Start: novel.StoryIndex(working.Chapters, batch[0].ID),
			End:   novel.StoryIndex(working.Chapters, batch[len(batch)-1].ID),
		}

		content, err := o.generate(ctx, client, req, cfg, t, working.Chapters, rng, target.VolumeID)
		if err != nil {
			o.logger.Error("summary tier failed",
				"novel_id", req.NovelID, "tier", t.name, "range", rng.String(), "error", err)
			continue
		}
		if content == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			o.logger.Info("summary cancelled, dropping result",
				"novel_id", req.NovelID, "tier", t.name, "range", rng.String())
			break
		}

		title := fmt.Sprintf("%s (%s)", t.title, rng.String())
		afterID := batch[len(batch)-1].ID
		working.Chapters = upsertSummary(working.Chapters, newSummary(t.subtype, rng, title, content, target.VolumeID), afterID)
		o.publish(req, working.Chapters[novel.FindSummary(working.Chapters, t.subtype, rng.String())], afterID)

		o.logger.Info("summary generated",
			"novel_id", req.NovelID, "tier", t.name, "range", rng.String(), "chars", len(content))
	}

	return working
}

// generate assembles the tier's source text and calls the model once.
// An empty return with a nil error means the model answered with nothing.
func (o *Orchestrator) generate(ctx context.Context, client providers.LLMClient, req Request, cfg Config, t tier, chapters []novel.Chapter, rng novel.Range, volumeID *string) (string, error) {
	var source string
	if t.subtype == novel.SubtypeBigSummary {
		source = summarySource(chapters, rng, volumeID)
	} else {
		source = chapterSource(chapters, rng, volumeID)
	}
	if strings.TrimSpace(source) == "" {
		o.logger.Warn("empty summary source, skipping tier",
			"novel_id", req.NovelID, "tier", t.name, "range", rng.String())
		return "", nil
	}

	preamble, err := o.resolver.Resolve(summaryprompts.PreamblePromptKey, "")
	if err != nil {
		return "", err
	}
	instruction, err := o.resolver.Resolve(t.promptKey, t.override)
	if err != nil {
		return "", err
	}
	prompt := renderInstruction(t.promptKey, instruction.Text, rng)

	chatReq := &providers.ChatRequest{
		Model: cfg.Model,
		Messages: []providers.Message{
			{Role: providers.RoleSystem, Content: preamble.Text},
			{Role: providers.RoleUser, Content: source + "\n\n" + prompt},
		},
		Temperature: cfg.Temperature,
	}

	result, err := client.Chat(ctx, chatReq)
	o.record(result, err, req, cfg, t, rng, prompt)
	if err != nil {
		return "", fmt.Errorf("%s summary request failed: %w", t.name, err)
	}

	content := strings.TrimSpace(result.Content)
	if content == "" {
		o.logger.Warn("model returned empty summary",
			"novel_id", req.NovelID, "tier", t.name, "range", rng.String())
	}
	return content, nil
}

// renderInstruction fills {{.Range}}, {{.Start}} and {{.End}} in a tier
// prompt. Text that is not a valid template is sent as written.
func renderInstruction(key, text string, rng novel.Range) string {
	if !strings.Contains(text, "{{") {
		return text
	}
	data := struct {
		Range      string
		Start, End int
	}{Range: rng.String(), Start: rng.Start, End: rng.End}
	out, err := prompts.Render(key, text, data)
	if err != nil {
		return text
	}
	return out
}

func (o *Orchestrator) record(result *providers.ChatResult, err error, req Request, cfg Config, t tier, rng novel.Range, prompt string) {
	if o.recorder == nil {
		return
	}
	opts := llmcall.RecordOptions{
		Model:      cfg.Model,
		NovelID:    req.NovelID,
		ChapterID:  req.ChapterID,
		Range:      rng.String(),
		PromptKey:  t.promptKey,
		PromptHash: prompts.HashText(prompt),
		Err:        err,
	}
	if cfg.Temperature > 0 {
		temp := cfg.Temperature
		opts.Temperature = &temp
	}
	o.recorder.Record(result, opts)
}

// publish merges one summary into the latest chapters of the target novel.
// Chapters written while the model call ran are kept. Nothing is merged when
// afterID is no longer in the novel, since the summarized range is gone.
func (o *Orchestrator) publish(req Request, summary novel.Chapter, afterID string) {
	if req.Publish == nil {
		return
	}
	summary = summary.Clone()
	req.Publish(func(prev []novel.Novel) []novel.Novel {
		next := make([]novel.Novel, len(prev))
		for i, n := range prev {
			if n.ID == req.NovelID && novel.ChapterIndex(n.Chapters, afterID) >= 0 {
				n.Chapters = upsertSummary(n.Chapters, summary, afterID)
			}
			next[i] = n
		}
		return next
	})
}
