package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storybook/cmd/storybook/ui"
	"storybook/internal/config"
	"storybook/internal/game"
	"storybook/internal/game/director"
	"storybook/internal/game/locale"
	"storybook/internal/game/narration"
	"storybook/internal/llm"
	"storybook/internal/logging"
	"storybook/internal/observability"
)

// createApp wires the story engine for one terminal session. Logs go to a
// file since the terminal belongs to the UI.
func createApp(profile game.PlayerProfile, journalPath string) (ui.Model, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return ui.Model{}, nil, err
	}

	logCfg := cfg.Logger
	if logCfg.OutputPath == "" || logCfg.OutputPath == "stdout" || logCfg.OutputPath == "stderr" {
		logCfg.OutputPath = "debug.log"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return ui.Model{}, nil, err
	}

	ctx := context.Background()
	tp, err := observability.InitTracing(ctx, cfg.Tracing)
	if err != nil {
		logger.Warn("Failed to initialize tracing", zap.Error(err))
	} else if tp.IsEnabled() {
		logger.Info("OpenTelemetry tracing initialized and enabled")
	}

	journal, err := logging.NewCompletionLogger(journalPath)
	if err != nil {
		return ui.Model{}, nil, fmt.Errorf("failed to initialize completion logger: %w", err)
	}

	client := llm.NewClient(llm.ClientConfig{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Timeout: cfg.OpenAI.Timeout,
	})
	chat := llm.NewService(client, llm.ServiceConfig{
		Model:       cfg.Story.Model,
		Temperature: cfg.Story.Temperature,
		MaxTokens:   cfg.Story.MaxTokens,
	}, journal, logger)
	images := llm.NewImageService(client, llm.ImageConfig{
		Model: cfg.Image.Model,
		Size:  cfg.Image.Size,
		// A terminal can only show a link.
		ResponseFormat: llm.ImageFormatURL,
	}, logger)

	texts := locale.Default()
	composer := narration.NewComposer(narration.DefaultTables(), texts)
	dir := director.New(composer, chat, images, cfg.Image.Enabled, logger)

	sessionID := uuid.NewString()
	logger.Info("Starting story",
		zap.String("session_id", sessionID),
		zap.String("language", string(profile.Language)),
		zap.String("theme", string(profile.Theme)),
	)

	model := ui.NewModel(dir, profile, sessionID, texts.InitialTransitions(profile.Name, profile.Language), logger)

	cleanup := func() {
		if tp != nil {
			_ = tp.Shutdown(context.Background())
		}
		_ = journal.Close()
		_ = logger.Sync()
	}

	return model, cleanup, nil
}
