package llm

import (
	"context"
	"errors"
	"fmt"
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

var (
	ErrEmptyPrompt = errors.New("image prompt is empty")
	ErrEmptyImage  = errors.New("provider returned no image data")
)

const (
	ImageFormatURL    = "url"
	ImageFormatBase64 = "b64_json"
)

type ImageConfig struct {
	Model          string
	Size           string
	ResponseFormat string
}

// ImageService renders one illustration per prompt.
type ImageService struct {
	client *openai.Client
	cfg    ImageConfig
	logger *zap.Logger
	tracer trace.Tracer
}

func NewImageService(client *openai.Client, cfg ImageConfig, logger *zap.Logger) *ImageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResponseFormat == "" {
		cfg.ResponseFormat = ImageFormatURL
	}
	return &ImageService{
		client: client,
		cfg:    cfg,
		logger: logger.Named("images"),
		tracer: otel.Tracer("llm-service"),
	}
}

func (s *ImageService) Generate(ctx context.Context, prompt string) (*game.Illustration, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	ctx, span := s.tracer.Start(ctx, "image.generate",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(observability.CreateGenAIAttributes("image_generation", "openai", s.cfg.Model, -1)...),
	)
	defer span.End()
	span.SetAttributes(contextAttributes(ctx)...)
	span.SetAttributes(
		attribute.String("image.size", s.cfg.Size),
		attribute.String("image.response_format", s.cfg.ResponseFormat),
		attribute.String("langfuse.observation.input", prompt),
	)

	start := time.Now()
	resp, err := s.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          openai.ImageModel(s.cfg.Model),
		N:              openai.Int(1),
		Size:           openai.ImageGenerateParamsSize(s.cfg.Size),
		ResponseFormat: openai.ImageGenerateParamsResponseFormat(s.cfg.ResponseFormat),
	})
	duration := time.Since(start)
	llmRequestDuration.WithLabelValues("image").Observe(duration.Seconds())
	if err != nil {
		span.RecordError(err)
		llmRequestsTotal.WithLabelValues("image", "error").Inc()
		return nil, fmt.Errorf("image generation failed: %w", err)
	}

	var img *game.Illustration
	if len(resp.Data) > 0 {
		switch s.cfg.ResponseFormat {
		case ImageFormatBase64:
			if resp.Data[0].B64JSON != "" {
				img = game.InlineIllustration(resp.Data[0].B64JSON)
			}
		default:
			if resp.Data[0].URL != "" {
				img = game.RemoteIllustration(resp.Data[0].URL)
			}
		}
	}
	if img == nil {
		span.RecordError(ErrEmptyImage)
		llmRequestsTotal.WithLabelValues("image", "empty").Inc()
		return nil, ErrEmptyImage
	}

	llmRequestsTotal.WithLabelValues("image", "ok").Inc()
	span.SetAttributes(attribute.String("image.kind", string(img.Kind)))
	s.logger.Debug("Illustration generated",
		zap.String("kind", string(img.Kind)),
		zap.Duration("duration", duration),
	)
	return img, nil
}
