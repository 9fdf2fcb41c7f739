package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"storybook/internal/game"
	"storybook/internal/logging"
	"storybook/internal/observability"
)

// CompletionJournal records each exchange for later review.
type CompletionJournal interface {
	LogCompletion(ctx context.Context, operation string, transcript interface{}, response string, metadata logging.CompletionMetadata) (string, error)
}

type ServiceConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Service sends story transcripts to the chat completions API.
type Service struct {
	client  *openai.Client
	cfg     ServiceConfig
	logger  *zap.Logger
	journal CompletionJournal
	tracer  trace.Tracer
}

// NewService builds the chat service. journal may be nil.
func NewService(client *openai.Client, cfg ServiceConfig, journal CompletionJournal, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:  client,
		cfg:     cfg,
		logger:  logger.Named("llm"),
		journal: journal,
		tracer:  otel.Tracer("llm-service"),
	}
}

// Complete returns the assistant content for turns. An empty string with a
// nil error means the model produced nothing usable.
func (s *Service) Complete(ctx context.Context, turns []game.Turn) (string, error) {
	operationType := "llm.complete"
	if opType := getOperationType(ctx); opType != "" {
		operationType = opType
	}

	ctx, span := s.tracer.Start(ctx, operationType,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			observability.CreateGenAIAttributes("chat", "openai", s.cfg.Model, s.cfg.Temperature)...,
		),
	)
	defer span.End()

	span.SetAttributes(contextAttributes(ctx)...)
	span.SetAttributes(
		attribute.Int("gen_ai.request.max_tokens", s.cfg.MaxTokens),
		attribute.String("langfuse.observation.type", "generation"),
		attribute.String("response_format", "json"),
		attribute.Int("story.transcript_turns", len(turns)),
		attribute.String("langfuse.observation.input", transcriptText(turns)),
	)

	messages, err := toMessages(turns)
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	params := openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(s.cfg.Model),
		Messages:    messages,
		Temperature: openai.Float(s.cfg.Temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: func() *shared.ResponseFormatJSONObjectParam {
				p := shared.NewResponseFormatJSONObjectParam()
				return &p
			}(),
		},
	}
	if s.cfg.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(s.cfg.MaxTokens))
	}

	s.logger.Debug("Sending completion",
		zap.String("operation", operationType),
		zap.String("model", s.cfg.Model),
		zap.Int("turns", len(turns)),
	)

	startTime := time.Now()
	resp, err := s.client.Chat.Completions.New(ctx, params)
	duration := time.Since(startTime)
	llmRequestDuration.WithLabelValues("chat").Observe(duration.Seconds())

	if err != nil {
		span.SetAttributes(attribute.String("error.type", "llm_completion_error"))
		span.RecordError(err)
		llmRequestsTotal.WithLabelValues("chat", "error").Inc()
		s.record(ctx, operationType, turns, "", logging.CompletionMetadata{ResponseTimeMS: duration.Milliseconds()}, err)
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	meta := logging.CompletionMetadata{
		ResponseTimeMS: duration.Milliseconds(),
		InputTokens:    resp.Usage.PromptTokens,
		OutputTokens:   resp.Usage.CompletionTokens,
	}
	span.SetAttributes(
		attribute.Int64("gen_ai.usage.input_tokens", resp.Usage.PromptTokens),
		attribute.Int64("gen_ai.usage.output_tokens", resp.Usage.CompletionTokens),
		attribute.Int64("response_time_ms", duration.Milliseconds()),
		attribute.String("langfuse.observation.model.name", s.cfg.Model),
	)

	if len(resp.Choices) == 0 {
		llmRequestsTotal.WithLabelValues("chat", "empty").Inc()
		span.SetAttributes(attribute.String("langfuse.observation.output", ""))
		s.logger.Warn("No completion choices returned", zap.String("operation", operationType))
		s.record(ctx, operationType, turns, "", meta, nil)
		return "", nil
	}

	choice := resp.Choices[0]
	content := choice.Message.Content
	if content == "" {
		llmRequestsTotal.WithLabelValues("chat", "empty").Inc()
		s.logger.Warn("Completion has no content",
			zap.String("finish_reason", string(choice.FinishReason)),
			zap.String("refusal", choice.Message.Refusal),
		)
	} else {
		llmRequestsTotal.WithLabelValues("chat", "ok").Inc()
	}

	span.SetAttributes(
		attribute.String("langfuse.observation.output", content),
		attribute.String("langfuse.observation.output_format", "json"),
	)
	span.AddEvent("gen_ai.choice", trace.WithAttributes(
		attribute.String("gen_ai.system", "openai"),
		attribute.String("finish_reason", string(choice.FinishReason)),
	))

	s.logger.Debug("Completion received",
		zap.Int("content_length", len(content)),
		zap.Int64("input_tokens", resp.Usage.PromptTokens),
		zap.Int64("output_tokens", resp.Usage.CompletionTokens),
		zap.Duration("duration", duration),
	)

	s.record(ctx, operationType, turns, content, meta, nil)

	return content, nil
}

func (s *Service) record(ctx context.Context, op string, turns []game.Turn, content string, meta logging.CompletionMetadata, callErr error) {
	if s.journal == nil {
		return
	}
	meta.Model = s.cfg.Model
	meta.MaxTokens = s.cfg.MaxTokens
	meta.Temperature = s.cfg.Temperature
	if stage, ok := getGameContext(ctx)["stage"].(int); ok {
		meta.Stage = stage
	}
	if callErr != nil {
		msg := callErr.Error()
		meta.Error = &msg
	}
	// The journal must not fail a turn, and a cancelled request still deserves a record.
	if _, err := s.journal.LogCompletion(context.WithoutCancel(ctx), op, turns, content, meta); err != nil {
		s.logger.Warn("Failed to record completion", zap.Error(err))
	}
}

func toMessages(turns []game.Turn) ([]openai.ChatCompletionMessageParamUnion, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns))
	for i, t := range turns {
		switch t.Role {
		case game.RoleSystem:
			messages = append(messages, openai.SystemMessage(t.Content))
		case game.RoleNarrator:
			messages = append(messages, openai.AssistantMessage(t.Content))
		case game.RolePlayer:
			messages = append(messages, openai.UserMessage(t.Content))
		default:
			return nil, fmt.Errorf("turn %d has unknown role %q", i, t.Role)
		}
	}
	return messages, nil
}

// transcriptText renders turns as one JSON object per line.
func transcriptText(turns []game.Turn) string {
	var b strings.Builder
	for _, t := range turns {
		raw, _ := json.Marshal(t)
		b.Write(raw)
		b.WriteByte('\n')
	}
	return b.String()
}
