package observability

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// Config holds the configuration for OpenTelemetry tracing
type Config struct {
	ServiceName    string `env:"OTEL_SERVICE_NAME" env-default:"storybook"`
	ServiceVersion string `env:"SERVICE_VERSION" env-default:"1.0.0"`
	Environment    string `env:"ENVIRONMENT" env-default:"development"`
	Enabled        bool   `env:"OTEL_TRACES_ENABLED" env-default:"false"`
	LangfuseHost   string `env:"LANGFUSE_HOST" env-default:"https://cloud.langfuse.com"`
	PublicKey      string `env:"LANGFUSE_PUBLIC_KEY"`
	SecretKey      string `env:"LANGFUSE_SECRET_KEY"`
}

// TracerProvider wraps the OpenTelemetry tracer provider with cleanup
type TracerProvider struct {
	provider *sdktrace.TracerProvider
	enabled  bool
}

// InitTracing initializes OpenTelemetry tracing with Langfuse export
func InitTracing(ctx context.Context, config Config) (*TracerProvider, error) {
	if !config.Enabled {
		return &TracerProvider{enabled: false}, nil
	}
	if config.PublicKey == "" || config.SecretKey == "" {
		return nil, fmt.Errorf("tracing enabled but LANGFUSE_PUBLIC_KEY or LANGFUSE_SECRET_KEY is empty")
	}

	exporter, err := createLangfuseExporter(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Langfuse exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(5*time.Second),
			sdktrace.WithMaxExportBatchSize(100),
		),
		sdktrace.WithResource(createResource(config)),
		sdktrace.WithSpanProcessor(sessionInjector{}),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)

	return &TracerProvider{
		provider: tp,
		enabled:  true,
	}, nil
}

// Shutdown flushes pending spans.
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if !tp.enabled || tp.provider == nil {
		return nil
	}
	return tp.provider.Shutdown(ctx)
}

func (tp *TracerProvider) IsEnabled() bool {
	return tp.enabled
}

// createLangfuseExporter creates an OTLP HTTP exporter configured for Langfuse
func createLangfuseExporter(ctx context.Context, config Config) (sdktrace.SpanExporter, error) {
	auth := base64.StdEncoding.EncodeToString([]byte(config.PublicKey + ":" + config.SecretKey))

	host := strings.TrimSuffix(config.LangfuseHost, "/")
	endpoint := fmt.Sprintf("%s/api/public/otel/v1/traces", host)

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpointURL(endpoint),
		otlptracehttp.WithHeaders(map[string]string{
			"Authorization": "Basic " + auth,
		}),
		otlptracehttp.WithCompression(otlptracehttp.GzipCompression),
		otlptracehttp.WithTimeout(30 * time.Second),
	}
	if strings.HasPrefix(host, "http://") {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP HTTP exporter: %w", err)
	}

	return exporter, nil
}

func createResource(config Config) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(config.ServiceName),
		semconv.ServiceVersion(config.ServiceVersion),
		attribute.String("deployment.environment", config.Environment),
	)
}

// CreateGenAIAttributes creates GenAI semantic convention attributes for model spans.
// operation is "chat", "image_generation" or "text_to_speech"; a negative
// temperature is omitted.
func CreateGenAIAttributes(operation, system, model string, temperature float64) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("gen_ai.operation.name", operation),
		attribute.String("gen_ai.system", system),
		attribute.String("gen_ai.request.model", model),
	}

	if temperature >= 0 {
		attrs = append(attrs, attribute.Float64("gen_ai.request.temperature", temperature))
	}

	return attrs
}

type sessionInjector struct{}

func (sessionInjector) OnStart(ctx context.Context, s sdktrace.ReadWriteSpan) {
	if sid := SessionIDFromContext(ctx); sid != "" {
		s.SetAttributes(
			attribute.String("langfuse.session.id", sid),
			attribute.String("session.id", sid),
		)
	}
}

func (sessionInjector) OnEnd(s sdktrace.ReadOnlySpan) {}
func (sessionInjector) Shutdown(context.Context) error { return nil }
func (sessionInjector) ForceFlush(context.Context) error { return nil }

type contextKey string

const sessionIDKey contextKey = "session_id"

// WithSessionID tags every span started under ctx with the story session.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

func SessionIDFromContext(ctx context.Context) string {
	if sessionID, ok := ctx.Value(sessionIDKey).(string); ok {
		return sessionID
	}
	return ""
}
