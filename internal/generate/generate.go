// Package generate requests typed story records from the model and turns the
// free-text response into normalized records, retrying malformed output.
package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/jackzampolin/novella/internal/jsonrepair"
	"github.com/jackzampolin/novella/internal/llmcall"
	"github.com/jackzampolin/novella/internal/prompts"
	recordprompts "github.com/jackzampolin/novella/internal/prompts/records"
	"github.com/jackzampolin/novella/internal/providers"
)

// Defaults for the retry policy.
const (
	DefaultAttempts = 3
	DefaultDelay    = 500 * time.Millisecond
)

// Config configures a Generator.
type Config struct {
	Client      providers.LLMClient
	Model       string
	Temperature float64
	Attempts    uint          // Total tries per request (default: 3)
	Delay       time.Duration // Wait between tries unless the provider asks for longer
	Resolver    *prompts.Resolver
	Recorder    *llmcall.Recorder
	Logger      *slog.Logger
}

// Generator produces structured records.
type Generator struct {
	client      providers.LLMClient
	model       string
	temperature float64
	attempts    uint
	delay       time.Duration
	resolver    *prompts.Resolver
	recorder    *llmcall.Recorder
	logger      *slog.Logger
}

// New creates a Generator.
func New(cfg Config) (*Generator, error) {
	if cfg.Client == nil {
		return nil, errors.New("generate: client is required")
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = DefaultAttempts
	}
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Resolver == nil {
		cfg.Resolver = prompts.NewResolver(cfg.Logger)
		recordprompts.RegisterPrompts(cfg.Resolver)
	}
	return &Generator{
		client:      cfg.Client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		attempts:    cfg.Attempts,
		delay:       cfg.Delay,
		resolver:    cfg.Resolver,
		recorder:    cfg.Recorder,
		logger:      cfg.Logger,
	}, nil
}

// Request describes what to generate.
type Request struct {
	Kind        jsonrepair.Kind
	Instruction string
	Context     string // Optional story context placed before the task
	Count       int
	NovelID     string
}

// Result is a successful generation.
type Result struct {
	Kind     jsonrepair.Kind     `json:"kind"`
	Records  []jsonrepair.Record `json:"records"`
	Attempts int                 `json:"attempts"`
}

// Generate calls the model until its response yields valid records or the
// attempts run out. Malformed output and rate limits are retried; the last
// error is returned and wraps jsonrepair.ErrMalformedOutput when parsing
// never succeeded.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if _, err := jsonrepair.ParseKind(string(req.Kind)); err != nil {
		return nil, err
	}

	system, err := g.resolver.Resolve(recordprompts.SystemPromptKey, "")
	if err != nil {
		return nil, err
	}
	user := recordprompts.UserPrompt(recordprompts.UserData{
		Kind:        string(req.Kind),
		Fields:      jsonrepair.Fields(req.Kind),
		Count:       req.Count,
		Instruction: req.Instruction,
		Context:     req.Context,
	})

	chatReq := &providers.ChatRequest{
		Model: g.model,
		Messages: []providers.Message{
			{Role: providers.RoleSystem, Content: system.Text},
			{Role: providers.RoleUser, Content: user},
		},
		Temperature: g.temperature,
	}

	var records []jsonrepair.Record
	attempts := 0
	err = retry.Do(
		func() error {
			attempts++
			result, err := g.client.Chat(ctx, chatReq)
			g.record(result, err, req, user)
			if err != nil {
				return err
			}
			parsed, err := jsonrepair.ParseArray(result.Content)
			if err != nil {
				return err
			}
			normalized := jsonrepair.Normalize(req.Kind, parsed)
			if err := jsonrepair.Validate(req.Kind, normalized); err != nil {
				return err
			}
			records = normalized
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(g.attempts),
		retry.Delay(g.delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			if rle, ok := providers.IsRateLimitError(err); ok && rle.RetryAfter > 0 {
				return rle.RetryAfter
			}
			return retry.FixedDelay(n, err, config)
		}),
		retry.OnRetry(func(n uint, err error) {
			g.logger.Warn("structured generation attempt failed",
				"kind", req.Kind, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", req.Kind, err)
	}

	g.logger.Info("structured generation complete",
		"kind", req.Kind, "records", len(records), "attempts", attempts)
	return &Result{Kind: req.Kind, Records: records, Attempts: attempts}, nil
}

// retryable reports whether a failed attempt may be tried again. Only
// cancellation ends the loop early.
func retryable(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (g *Generator) record(result *providers.ChatResult, err error, req Request, prompt string) {
	if g.recorder == nil {
		return
	}
	opts := llmcall.RecordOptions{
		Provider:   g.client.Name(),
		Model:      g.model,
		NovelID:    req.NovelID,
		PromptKey:  recordprompts.UserPromptKey,
		PromptHash: prompts.HashText(prompt),
		Err:        err,
	}
	if g.temperature > 0 {
		temp := g.temperature
		opts.Temperature = &temp
	}
	g.recorder.Record(result, opts)
}
