package director

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"storybook/internal/game"
)

var (
	// ErrNoStory means the model returned no content; the story cannot continue this turn.
	ErrNoStory = errors.New("language model returned no story content")
	// ErrMalformedResponse wraps any model output that is not a valid beat object.
	ErrMalformedResponse = errors.New("malformed language model response")
)

// LlmResponse is the object the model is instructed to emit.
type LlmResponse struct {
	StoryText             *string                     `json:"storyText"`
	Choices               []string                    `json:"choices"`
	ChoicesWithTransition []game.ChoiceWithTransition `json:"choicesWithTransition"`
	ImagePrompt           string                      `json:"imagePrompt"`
}

// ParseResponse decodes model content into a beat. Shape violations are
// ErrMalformedResponse; transitions for unknown choices are dropped.
func ParseResponse(content string, logger *zap.Logger) (*game.StoryBeat, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	var resp LlmResponse
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if resp.StoryText == nil || strings.TrimSpace(*resp.StoryText) == "" {
		return nil, fmt.Errorf("%w: storyText is missing", ErrMalformedResponse)
	}
	if c, ok := raw["choices"]; !ok || string(c) == "null" {
		logger.Warn("Response has no choices field, treating beat as the ending")
	}

	beat := &game.StoryBeat{
		StoryText:   *resp.StoryText,
		Choices:     resp.Choices,
		ImagePrompt: strings.TrimSpace(resp.ImagePrompt),
	}
	if beat.Choices == nil {
		beat.Choices = []string{}
	}

	for _, cwt := range resp.ChoicesWithTransition {
		if !beat.HasChoice(cwt.Text) {
			logger.Warn("Dropping transition for unknown choice", zap.String("choice", cwt.Text))
			continue
		}
		beat.ChoicesWithTransition = append(beat.ChoicesWithTransition, cwt)
	}

	return beat, nil
}
