package game

import (
	"encoding/json"
	"regexp"
	"strings"
)

type Gender string

const (
	Boy  Gender = "boy"
	Girl Gender = "girl"
)

func (g Gender) Valid() bool {
	return g == Boy || g == Girl
}

type Language string

const (
	English  Language = "en"
	Thai     Language = "th"
	Singlish Language = "singlish"
)

func (l Language) Valid() bool {
	switch l {
	case English, Thai, Singlish:
		return true
	}
	return false
}

type Theme string

const (
	EnchantedForest   Theme = "enchanted_forest"
	SpaceAdventure    Theme = "space_adventure"
	UnderwaterKingdom Theme = "underwater_kingdom"
	DinosaurLand      Theme = "dinosaur_land"
	FairyTaleCastle   Theme = "fairy_tale_castle"
)

func (t Theme) Valid() bool {
	switch t {
	case EnchantedForest, SpaceAdventure, UnderwaterKingdom, DinosaurLand, FairyTaleCastle:
		return true
	}
	return false
}

type HairColor string

const (
	HairBrown  HairColor = "brown"
	HairBlack  HairColor = "black"
	HairBlonde HairColor = "blonde"
	HairRed    HairColor = "red"
	HairBlue   HairColor = "blue"
	HairPink   HairColor = "pink"
)

func (h HairColor) Valid() bool {
	switch h {
	case HairBrown, HairBlack, HairBlonde, HairRed, HairBlue, HairPink:
		return true
	}
	return false
}

type HairStyle string

const (
	HairShort    HairStyle = "short"
	HairLong     HairStyle = "long"
	HairCurly    HairStyle = "curly"
	HairBraids   HairStyle = "braids"
	HairPonytail HairStyle = "ponytail"
)

func (h HairStyle) Valid() bool {
	switch h {
	case HairShort, HairLong, HairCurly, HairBraids, HairPonytail:
		return true
	}
	return false
}

type OutfitStyle string

const (
	OutfitAdventurer OutfitStyle = "adventurer"
	OutfitPrincess   OutfitStyle = "princess"
	OutfitSuperhero  OutfitStyle = "superhero"
	OutfitWizard     OutfitStyle = "wizard"
	OutfitExplorer   OutfitStyle = "explorer"
)

func (o OutfitStyle) Valid() bool {
	switch o {
	case OutfitAdventurer, OutfitPrincess, OutfitSuperhero, OutfitWizard, OutfitExplorer:
		return true
	}
	return false
}

type FavoriteColor string

const (
	ColorPurple FavoriteColor = "purple"
	ColorBlue   FavoriteColor = "blue"
	ColorPink   FavoriteColor = "pink"
	ColorGreen  FavoriteColor = "green"
	ColorRed    FavoriteColor = "red"
	ColorYellow FavoriteColor = "yellow"
)

func (c FavoriteColor) Valid() bool {
	switch c {
	case ColorPurple, ColorBlue, ColorPink, ColorGreen, ColorRed, ColorYellow:
		return true
	}
	return false
}

// CharacterCustomization is the optional look the child picked for their hero.
type CharacterCustomization struct {
	HairColor     HairColor     `json:"hairColor"`
	HairStyle     HairStyle     `json:"hairStyle"`
	OutfitStyle   OutfitStyle   `json:"outfitStyle"`
	FavoriteColor FavoriteColor `json:"favoriteColor"`
}

// PlayerProfile lives for one story session and is sent with every turn.
type PlayerProfile struct {
	Name      string                  `json:"name"`
	Gender    Gender                  `json:"gender"`
	Language  Language                `json:"language"`
	Theme     Theme                   `json:"theme"`
	Character *CharacterCustomization `json:"character,omitempty"`
}

type ChoiceWithTransition struct {
	Text       string   `json:"text"`
	Transition []string `json:"transition"`
}

type IllustrationKind string

const (
	RemoteIllustrationKind IllustrationKind = "remote"
	InlineIllustrationKind IllustrationKind = "inline"
)

// Illustration is either a provider URL or an inline data URI, never both.
type Illustration struct {
	Kind IllustrationKind
	URL  string
	Data string
}

func RemoteIllustration(url string) *Illustration {
	return &Illustration{Kind: RemoteIllustrationKind, URL: url}
}

// InlineIllustration wraps base64 PNG data as a data URI.
func InlineIllustration(b64 string) *Illustration {
	if !strings.HasPrefix(b64, "data:") {
		b64 = "data:image/png;base64," + b64
	}
	return &Illustration{Kind: InlineIllustrationKind, Data: b64}
}

// StoryBeat is one narrated step with the choices offered after it.
type StoryBeat struct {
	StoryText             string
	Choices               []string
	ChoicesWithTransition []ChoiceWithTransition
	ImagePrompt           string
	Illustration          *Illustration
	Selected              string
}

// Ended reports whether this beat concludes the story. No other field carries that signal.
func (b StoryBeat) Ended() bool {
	return len(b.Choices) == 0
}

func (b StoryBeat) IsResolved() bool {
	return b.Selected != ""
}

// HasChoice reports whether s is one of the offered choices, compared exactly.
func (b StoryBeat) HasChoice(s string) bool {
	for _, c := range b.Choices {
		if c == s {
			return true
		}
	}
	return false
}

// TransitionFor returns the bridging lines for a choice, if the model supplied any.
func (b StoryBeat) TransitionFor(choice string) []string {
	for _, cwt := range b.ChoicesWithTransition {
		if cwt.Text == choice {
			return cwt.Transition
		}
	}
	return nil
}

type storyBeatJSON struct {
	StoryText             string                 `json:"storyText"`
	Choices               []string               `json:"choices"`
	ChoicesWithTransition []ChoiceWithTransition `json:"choicesWithTransition,omitempty"`
	ImagePrompt           string                 `json:"imagePrompt"`
	ImageURL              string                 `json:"imageUrl,omitempty"`
	ImageData             string                 `json:"imageData,omitempty"`
	Selected              string                 `json:"selected,omitempty"`
}

func (b StoryBeat) MarshalJSON() ([]byte, error) {
	out := storyBeatJSON{
		StoryText:             b.StoryText,
		Choices:               b.Choices,
		ChoicesWithTransition: b.ChoicesWithTransition,
		ImagePrompt:           b.ImagePrompt,
		Selected:              b.Selected,
	}
	if out.Choices == nil {
		out.Choices = []string{}
	}
	if b.Illustration != nil {
		switch b.Illustration.Kind {
		case RemoteIllustrationKind:
			out.ImageURL = b.Illustration.URL
		case InlineIllustrationKind:
			out.ImageData = b.Illustration.Data
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts either imageUrl or imageData; a URL wins if both are present.
func (b *StoryBeat) UnmarshalJSON(data []byte) error {
	var in storyBeatJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*b = StoryBeat{
		StoryText:             in.StoryText,
		Choices:               in.Choices,
		ChoicesWithTransition: in.ChoicesWithTransition,
		ImagePrompt:           in.ImagePrompt,
		Selected:              in.Selected,
	}
	switch {
	case in.ImageURL != "":
		b.Illustration = RemoteIllustration(in.ImageURL)
	case in.ImageData != "":
		b.Illustration = InlineIllustration(in.ImageData)
	}
	return nil
}

const maxNameLength = 50

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// SanitizeName strips markup from a player-supplied name and caps its length.
func SanitizeName(name string) string {
	name = htmlTag.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)
	if r := []rune(name); len(r) > maxNameLength {
		name = strings.TrimSpace(string(r[:maxNameLength]))
	}
	return name
}
