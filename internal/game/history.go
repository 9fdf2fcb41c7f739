package game

import (
	"encoding/json"

	"go.uber.org/zap"
)

// History is the resolved beats of a story in the order they were played.
// Callers own it; the engine only reads it.
type History []StoryBeat

// Append returns a copy of h with beat added, leaving h untouched.
func (h History) Append(beat StoryBeat) History {
	out := make(History, len(h), len(h)+1)
	copy(out, h)
	return append(out, beat)
}

type Role string

const (
	RoleSystem   Role = "system"
	RoleNarrator Role = "narrator"
	RolePlayer   Role = "player"
)

// Turn is one role-tagged message of the transcript sent to the language model.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type InstructionComposer interface {
	Compose(profile PlayerProfile) string
}

type narratorTurn struct {
	StoryText   string   `json:"storyText"`
	Choices     []string `json:"choices"`
	ImagePrompt string   `json:"imagePrompt"`
	ImageURL    string   `json:"imageUrl,omitempty"`
}

type playerTurn struct {
	Selected string `json:"selected"`
	Beat     int    `json:"beat"`
}

// MapHistory builds the transcript for the next turn: the composed system
// instruction followed by a narrator turn per beat and a player turn per
// selection. Inline image payloads are never sent back to the model.
func MapHistory(composer InstructionComposer, profile PlayerProfile, history History, logger *zap.Logger) []Turn {
	if logger == nil {
		logger = zap.NewNop()
	}

	turns := make([]Turn, 0, 1+2*len(history))
	turns = append(turns, Turn{Role: RoleSystem, Content: composer.Compose(profile)})

	for i, beat := range history {
		nt := narratorTurn{
			StoryText:   beat.StoryText,
			Choices:     beat.Choices,
			ImagePrompt: beat.ImagePrompt,
		}
		if nt.Choices == nil {
			nt.Choices = []string{}
		}
		if beat.Illustration != nil && beat.Illustration.Kind == RemoteIllustrationKind {
			nt.ImageURL = beat.Illustration.URL
		}
		turns = append(turns, Turn{Role: RoleNarrator, Content: mustJSON(nt)})

		if !beat.IsResolved() {
			logger.Warn("Unresolved beat in history, skipping player turn",
				zap.Int("beat", i+1),
				zap.Int("history_length", len(history)),
			)
			continue
		}
		turns = append(turns, Turn{Role: RolePlayer, Content: mustJSON(playerTurn{Selected: beat.Selected, Beat: i + 1})})
	}

	return turns
}

// mustJSON only sees the plain structs above, which always marshal.
func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
