package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storybook/internal/api"
	"storybook/internal/config"
	"storybook/internal/game/director"
	"storybook/internal/game/locale"
	"storybook/internal/game/narration"
	"storybook/internal/llm"
	"storybook/internal/logging"
	"storybook/internal/observability"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx := context.Background()
	tp, err := observability.InitTracing(ctx, cfg.Tracing)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to flush traces", zap.Error(err))
		}
	}()

	var journal llm.CompletionJournal
	if cfg.CompletionLogPath != "" {
		cl, err := logging.NewCompletionLogger(cfg.CompletionLogPath)
		if err != nil {
			return fmt.Errorf("failed to open completion journal: %w", err)
		}
		defer cl.Close()
		journal = cl
		logger.Info("Recording completions", zap.String("path", cfg.CompletionLogPath))
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
		Model:          cfg.Image.Model,
		Size:           cfg.Image.Size,
		ResponseFormat: cfg.Image.ResponseFormat,
	}, logger)
	speech := llm.NewSpeechService(client, llm.SpeechConfig{
		Model: cfg.Speech.Model,
		Speed: cfg.Speech.Speed,
	}, logger)

	texts := locale.Default()
	composer := narration.NewComposer(narration.DefaultTables(), texts)
	dir := director.New(composer, chat, images, cfg.Image.Enabled, logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := api.NewHandler(dir, speech, texts, logger)
	router := api.NewRouter(handler, api.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins(),
		Metrics:        true,
	}, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// A turn is a chat completion followed by an image; allow for both.
		WriteTimeout: 2*cfg.OpenAI.Timeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("story_model", cfg.Story.Model),
			zap.Bool("images_enabled", cfg.Image.Enabled),
			zap.Bool("tracing_enabled", tp.IsEnabled()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case sig := <-quit:
		logger.Info("Shutting down server", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exiting")
	return nil
}
