package llm

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"storybook/internal/observability"
)

type contextKey string

const (
	operationTypeKey contextKey = "operation_type"
	gameContextKey   contextKey = "game_context"
)

func WithOperationType(ctx context.Context, opType string) context.Context {
	return context.WithValue(ctx, operationTypeKey, opType)
}

// WithGameContext merges gameCtx into any story context already on ctx.
func WithGameContext(ctx context.Context, gameCtx map[string]interface{}) context.Context {
	if existing, ok := ctx.Value(gameContextKey).(map[string]interface{}); ok && existing != nil {
		merged := make(map[string]interface{}, len(existing)+len(gameCtx))
		for k, v := range existing {
			merged[k] = v
		}
		for k, v := range gameCtx {
			merged[k] = v
		}
		return context.WithValue(ctx, gameContextKey, merged)
	}
	return context.WithValue(ctx, gameContextKey, gameCtx)
}

func getOperationType(ctx context.Context) string {
	if opType, ok := ctx.Value(operationTypeKey).(string); ok {
		return opType
	}
	return ""
}

func getGameContext(ctx context.Context) map[string]interface{} {
	if gameCtx, ok := ctx.Value(gameContextKey).(map[string]interface{}); ok {
		return gameCtx
	}
	return nil
}

// contextAttributes turns the session id and story context on ctx into span attributes.
func contextAttributes(ctx context.Context) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	if sid := observability.SessionIDFromContext(ctx); sid != "" {
		attrs = append(attrs,
			attribute.String("langfuse.session.id", sid),
			attribute.String("session.id", sid),
		)
	}
	for k, v := range getGameContext(ctx) {
		switch val := v.(type) {
		case string:
			attrs = append(attrs, attribute.String("story."+k, val))
		case int:
			attrs = append(attrs, attribute.Int("story."+k, val))
		case []string:
			attrs = append(attrs, attribute.StringSlice("story."+k, val))
		}
	}
	return attrs
}

// CopyGameContextToSpan attaches story context and session id attributes to an existing span.
func CopyGameContextToSpan(ctx context.Context, span trace.Span) {
	if span == nil {
		return
	}
	span.SetAttributes(contextAttributes(ctx)...)
}
