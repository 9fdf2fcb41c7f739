package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"storybook/internal/game"
	"storybook/internal/observability"
)

const SpeechMIMEType = "audio/mpeg"

var ErrEmptyText = errors.New("speech text is empty")

type SpeechConfig struct {
	Model string
	Speed float64
}

// voiceNova is accepted by the API but has no named constant in the SDK.
const voiceNova = openai.AudioSpeechNewParamsVoice("nova")

// VoiceFor picks the narrator voice for a language.
func VoiceFor(lang game.Language) openai.AudioSpeechNewParamsVoice {
	if lang == game.Thai {
		return openai.AudioSpeechNewParamsVoiceShimmer
	}
	return voiceNova
}

// SpeechService reads story text aloud as mp3.
type SpeechService struct {
	client *openai.Client
	cfg    SpeechConfig
	logger *zap.Logger
	tracer trace.Tracer
}

func NewSpeechService(client *openai.Client, cfg SpeechConfig, logger *zap.Logger) *SpeechService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Speed == 0 {
		cfg.Speed = 0.85
	}
	return &SpeechService{
		client: client,
		cfg:    cfg,
		logger: logger.Named("speech"),
		tracer: otel.Tracer("llm-service"),
	}
}

// Synthesize returns the complete mp3 for text.
func (s *SpeechService) Synthesize(ctx context.Context, text string, lang game.Language) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	voice := VoiceFor(lang)

	ctx, span := s.tracer.Start(ctx, "speech.synthesize",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(observability.CreateGenAIAttributes("text_to_speech", "openai", s.cfg.Model, -1)...),
	)
	defer span.End()
	span.SetAttributes(
		attribute.String("speech.voice", string(voice)),
		attribute.String("story.language", string(lang)),
		attribute.Int("speech.input_chars", len(text)),
	)

	start := time.Now()
	resp, err := s.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Input:          text,
		Model:          openai.SpeechModel(s.cfg.Model),
		Voice:          voice,
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
		Speed:          openai.Float(s.cfg.Speed),
	})
	if err != nil {
		llmRequestDuration.WithLabelValues("speech").Observe(time.Since(start).Seconds())
		llmRequestsTotal.WithLabelValues("speech", "error").Inc()
		span.RecordError(err)
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	duration := time.Since(start)
	llmRequestDuration.WithLabelValues("speech").Observe(duration.Seconds())
	if err != nil {
		llmRequestsTotal.WithLabelValues("speech", "error").Inc()
		span.RecordError(err)
		return nil, fmt.Errorf("failed to read speech audio: %w", err)
	}

	llmRequestsTotal.WithLabelValues("speech", "ok").Inc()
	span.SetAttributes(attribute.Int("speech.bytes", len(audio)))
	s.logger.Debug("Speech synthesized",
		zap.String("voice", string(voice)),
		zap.Int("bytes", len(audio)),
		zap.Duration("duration", duration),
	)
	return audio, nil
}
