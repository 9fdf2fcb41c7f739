package director

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"storybook/internal/game"
	"storybook/internal/llm"
)

// Completer returns the raw assistant content for a transcript.
type Completer interface {
	Complete(ctx context.Context, turns []game.Turn) (string, error)
}

// Illustrator renders an image prompt.
type Illustrator interface {
	Generate(ctx context.Context, prompt string) (*game.Illustration, error)
}

// Director runs one story turn at a time. It keeps no per-story state; all of
// it arrives with each call.
type Director struct {
	composer      game.InstructionComposer
	llm           Completer
	images        Illustrator
	imagesEnabled bool
	logger        *zap.Logger
	tracer        trace.Tracer
}

func New(composer game.InstructionComposer, completer Completer, images Illustrator, imagesEnabled bool, logger *zap.Logger) *Director {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Director{
		composer:      composer,
		llm:           completer,
		images:        images,
		imagesEnabled: imagesEnabled && images != nil,
		logger:        logger.Named("director"),
		tracer:        otel.Tracer("story-director"),
	}
}

// RunTurn produces the next beat for history. A failed illustration never
// fails the turn. The returned beat is unresolved: the caller sets Selected.
func (d *Director) RunTurn(ctx context.Context, profile game.PlayerProfile, history game.History) (*game.StoryBeat, error) {
	start := time.Now()
	stage := len(history) + 1

	ctx = llm.WithGameContext(ctx, map[string]interface{}{
		"stage":    stage,
		"language": string(profile.Language),
		"theme":    string(profile.Theme),
	})
	ctx, span := d.tracer.Start(ctx, "story.turn")
	defer span.End()
	llm.CopyGameContextToSpan(ctx, span)
	defer func() { turnDuration.Observe(time.Since(start).Seconds()) }()

	log := d.logger.With(zap.Int("stage", stage), zap.String("language", string(profile.Language)))

	transcript := game.MapHistory(d.composer, profile, history, log)

	content, err := d.llm.Complete(llm.WithOperationType(ctx, "story.beat"), transcript)
	if err != nil {
		span.RecordError(err)
		turnsTotal.WithLabelValues("error").Inc()
		log.Error("Story completion failed", zap.Error(err))
		return nil, fmt.Errorf("story completion failed: %w", err)
	}
	if strings.TrimSpace(content) == "" {
		span.RecordError(ErrNoStory)
		turnsTotal.WithLabelValues("no_story").Inc()
		log.Error("Story completion returned no content")
		return nil, ErrNoStory
	}

	beat, err := ParseResponse(content, log)
	if err != nil {
		span.RecordError(err)
		turnsTotal.WithLabelValues("malformed").Inc()
		log.Error("Could not parse story beat", zap.Error(err), zap.String("content", content))
		return nil, err
	}

	if !ValidateChoices(log, beat.Choices) {
		placeholderChoicesTotal.Inc()
		span.AddEvent("placeholder_choices", trace.WithAttributes(attribute.StringSlice("choices", beat.Choices)))
	}

	d.illustrate(ctx, log, beat)

	outcome := "ok"
	if beat.Ended() {
		outcome = "ended"
	}
	turnsTotal.WithLabelValues(outcome).Inc()
	span.SetAttributes(
		attribute.Int("story.choices", len(beat.Choices)),
		attribute.Bool("story.ended", beat.Ended()),
		attribute.Bool("story.illustrated", beat.Illustration != nil),
	)
	log.Info("Story turn complete",
		zap.Int("choices", len(beat.Choices)),
		zap.Bool("ended", beat.Ended()),
		zap.Bool("illustrated", beat.Illustration != nil),
		zap.Duration("duration", time.Since(start)),
	)

	return beat, nil
}

func (d *Director) illustrate(ctx context.Context, log *zap.Logger, beat *game.StoryBeat) {
	if beat.ImagePrompt == "" {
		log.Warn("Model response has no imagePrompt, returning beat without illustration")
		illustrationsTotal.WithLabelValues("skipped").Inc()
		return
	}
	if !d.imagesEnabled {
		illustrationsTotal.WithLabelValues("skipped").Inc()
		return
	}

	img, err := d.images.Generate(llm.WithOperationType(ctx, "story.illustration"), beat.ImagePrompt)
	if err == nil && img == nil {
		err = errors.New("illustrator returned no image")
	}
	if err != nil {
		trace.SpanFromContext(ctx).RecordError(err)
		illustrationsTotal.WithLabelValues("failed").Inc()
		log.Warn("Illustration failed, continuing without image", zap.Error(err))
		return
	}

	illustrationsTotal.WithLabelValues("ok").Inc()
	beat.Illustration = img
}
