package api

import (
	"github.com/go-playground/validator/v10"

	"storybook/internal/game"
)

type characterRequest struct {
	HairColor     game.HairColor     `json:"hairColor" binding:"required,oneof=brown black blonde red blue pink"`
	HairStyle     game.HairStyle     `json:"hairStyle" binding:"required,oneof=short long curly braids ponytail"`
	OutfitStyle   game.OutfitStyle   `json:"outfitStyle" binding:"required,oneof=adventurer princess superhero wizard explorer"`
	FavoriteColor game.FavoriteColor `json:"favoriteColor" binding:"required,oneof=purple blue pink green red yellow"`
}

type choiceTransitionRequest struct {
	Text       string   `json:"text" binding:"required"`
	Transition []string `json:"transition"`
}

// historyBeat is a played beat as the client sends it back. imageData is
// accepted so clients can echo beats verbatim, but it is dropped.
type historyBeat struct {
	StoryText             string                    `json:"storyText" binding:"required"`
	Choices               []string                  `json:"choices"`
	ChoicesWithTransition []choiceTransitionRequest `json:"choicesWithTransition" binding:"omitempty,dive"`
	ImagePrompt           string                    `json:"imagePrompt"`
	ImageURL              string                    `json:"imageUrl"`
	ImageData             string                    `json:"imageData"`
	Selected              string                    `json:"selected"`
}

// selectedIsOffered rejects a beat whose selected choice was never offered.
func selectedIsOffered(sl validator.StructLevel) {
	b := sl.Current().Interface().(historyBeat)
	if b.Selected == "" {
		return
	}
	if !(game.StoryBeat{Choices: b.Choices}).HasChoice(b.Selected) {
		sl.ReportError(b.Selected, "selected", "Selected", "oneof", "")
	}
}

type storyRequest struct {
	Name      string            `json:"name" binding:"required,max=50"`
	History   []historyBeat     `json:"history" binding:"required,dive"`
	Gender    game.Gender       `json:"gender" binding:"required,oneof=boy girl"`
	Language  game.Language     `json:"language" binding:"required,oneof=en th singlish"`
	Theme     game.Theme        `json:"theme" binding:"required,oneof=enchanted_forest space_adventure underwater_kingdom dinosaur_land fairy_tale_castle"`
	Character *characterRequest `json:"character" binding:"omitempty"`
}

func (r storyRequest) profile() game.PlayerProfile {
	p := game.PlayerProfile{
		Name:     r.Name,
		Gender:   r.Gender,
		Language: r.Language,
		Theme:    r.Theme,
	}
	if r.Character != nil {
		p.Character = &game.CharacterCustomization{
			HairColor:     r.Character.HairColor,
			HairStyle:     r.Character.HairStyle,
			OutfitStyle:   r.Character.OutfitStyle,
			FavoriteColor: r.Character.FavoriteColor,
		}
	}
	return p
}

func (r storyRequest) history() game.History {
	h := make(game.History, 0, len(r.History))
	for _, b := range r.History {
		beat := game.StoryBeat{
			StoryText:   b.StoryText,
			Choices:     b.Choices,
			ImagePrompt: b.ImagePrompt,
			Selected:    b.Selected,
		}
		for _, c := range b.ChoicesWithTransition {
			beat.ChoicesWithTransition = append(beat.ChoicesWithTransition, game.ChoiceWithTransition{
				Text:       c.Text,
				Transition: c.Transition,
			})
		}
		if b.ImageURL != "" {
			beat.Illustration = game.RemoteIllustration(b.ImageURL)
		}
		h = append(h, beat)
	}
	return h
}

type ttsRequest struct {
	Text     string        `json:"text" binding:"required,max=4096"`
	Language game.Language `json:"language" binding:"required,oneof=en th singlish"`
}

type introRequest struct {
	Name     string        `form:"name" binding:"required,max=50"`
	Language game.Language `form:"language" binding:"required,oneof=en th singlish"`
}

type introResponse struct {
	Transitions []string `json:"transitions"`
}

type fieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

type validationErrorResponse struct {
	Error   string       `json:"error"`
	Details []fieldError `json:"details"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
