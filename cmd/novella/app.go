package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/novella/internal/api"
	"github.com/jackzampolin/novella/internal/config"
	"github.com/jackzampolin/novella/internal/home"
	"github.com/jackzampolin/novella/internal/llmcall"
	"github.com/jackzampolin/novella/internal/prompts"
	recordprompts "github.com/jackzampolin/novella/internal/prompts/records"
	summaryprompts "github.com/jackzampolin/novella/internal/prompts/summary"
	"github.com/jackzampolin/novella/internal/providers"
	"github.com/jackzampolin/novella/internal/store"
	"github.com/jackzampolin/novella/internal/summary"
)

// app bundles what every command needs.
type app struct {
	home     *home.Dir
	config   *config.Manager
	store    *store.Store
	printer  *api.Printer
	logger   *slog.Logger
	resolver *prompts.Resolver
	factory  providers.ClientFactory

	callLog  *os.File
	sink     *llmcall.Sink
	recorder *llmcall.Recorder
}

// openApp loads config and the novel store and starts the call recorder.
// Callers must Close the app.
func openApp(cmd *cobra.Command) (*app, error) {
	format, err := api.ParseFormat(outputFormat)
	if err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	h, err := home.New(homeDir)
	if err != nil {
		return nil, err
	}
	if err := h.EnsureExists(); err != nil {
		return nil, err
	}

	mgr, err := config.NewManager(cfgFile, h.Path())
	if err != nil {
		return nil, err
	}

	st := store.New(store.Config{Dir: h.NovelsPath(), Logger: logger})
	if err := st.Load(); err != nil {
		return nil, err
	}

	callLog, err := h.OpenCallLog()
	if err != nil {
		return nil, err
	}
	sink := llmcall.NewSink(llmcall.SinkConfig{Writer: callLog, Logger: logger})
	sink.Start(context.WithoutCancel(cmd.Context()))

	resolver := prompts.NewResolver(logger)
	summaryprompts.RegisterPrompts(resolver)
	recordprompts.RegisterPrompts(resolver)

	return &app{
		home:     h,
		config:   mgr,
		store:    st,
		printer:  api.NewPrinter(cmd.OutOrStdout(), format),
		logger:   logger,
		resolver: resolver,
		factory:  providers.LimitedFactory(providers.NewOpenAIFactory(), providers.NewRateLimiter(mgr.Get().LLM.RequestsPerMinute)),
		callLog:  callLog,
		sink:     sink,
		recorder: llmcall.NewRecorder(sink),
	}, nil
}

// orchestrator builds a summary orchestrator wired to the app's recorder.
func (a *app) orchestrator() *summary.Orchestrator {
	return summary.NewOrchestrator(summary.OrchestratorConfig{
		Factory:  a.factory,
		Resolver: a.resolver,
		Recorder: a.recorder,
		Logger:   a.logger,
	})
}

// client builds a model client from the current config.
func (a *app) client() providers.LLMClient {
	return a.factory(a.config.Get().ClientConfig())
}

// Close flushes the call log and persists changed novels.
func (a *app) Close() error {
	a.sink.Stop()
	if err := a.callLog.Close(); err != nil {
		a.logger.Warn("failed to close call log", "error", err)
	}
	if err := a.store.Save(); err != nil {
		return fmt.Errorf("failed to save novels: %w", err)
	}
	return nil
}

// closeInto closes the app and reports a close failure through err when the
// command itself succeeded.
func (a *app) closeInto(err *error) {
	if cerr := a.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}
