package game

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoryBeat_Ended(t *testing.T) {
	assert.True(t, StoryBeat{StoryText: "The end."}.Ended())
	assert.True(t, StoryBeat{StoryText: "The end.", Choices: []string{}}.Ended())
	assert.False(t, StoryBeat{Choices: []string{"Go home"}}.Ended())
}

func TestStoryBeat_JSONIllustrationVariant(t *testing.T) {
	beat := StoryBeat{
		StoryText:    "Alice finds a door.",
		Choices:      []string{"Open the magic door"},
		ImagePrompt:  "Alice at a door",
		Illustration: RemoteIllustration("https://img.example/a.png"),
	}
	raw, err := json.Marshal(beat)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"imageUrl":"https://img.example/a.png"`)
	assert.NotContains(t, string(raw), "imageData")
	assert.NotContains(t, string(raw), "selected")

	beat.Illustration = InlineIllustration("aGVsbG8=")
	raw, err = json.Marshal(beat)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"imageData":"data:image/png;base64,aGVsbG8="`)
	assert.NotContains(t, string(raw), "imageUrl")
}

func TestStoryBeat_EndingBeatMarshalsEmptyChoices(t *testing.T) {
	raw, err := json.Marshal(StoryBeat{StoryText: "The end."})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"choices":[]`)
}

func TestStoryBeat_UnmarshalPrefersURL(t *testing.T) {
	var beat StoryBeat
	err := json.Unmarshal([]byte(`{"storyText":"x","choices":["a"],"imagePrompt":"p","imageUrl":"https://u","imageData":"data:image/png;base64,zz","selected":"a"}`), &beat)
	require.NoError(t, err)
	require.NotNil(t, beat.Illustration)
	assert.Equal(t, RemoteIllustrationKind, beat.Illustration.Kind)
	assert.Equal(t, "https://u", beat.Illustration.URL)
	assert.True(t, beat.IsResolved())
}

func TestStoryBeat_TransitionFor(t *testing.T) {
	beat := StoryBeat{
		Choices: []string{"Follow the butterfly"},
		ChoicesWithTransition: []ChoiceWithTransition{
			{Text: "Follow the butterfly", Transition: []string{"You chase it...", "It glows..."}},
		},
	}
	assert.Equal(t, []string{"You chase it...", "It glows..."}, beat.TransitionFor("Follow the butterfly"))
	assert.Nil(t, beat.TransitionFor("Run away"))
	assert.True(t, beat.HasChoice("Follow the butterfly"))
	assert.False(t, beat.HasChoice("follow the butterfly"))
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Alice", "Alice"},
		{"  Bob  ", "Bob"},
		{"<b>Carol</b>", "Carol"},
		{"<script>alert(1)</script>", "alert(1)"},
		{"<img src=x>", ""},
		{strings.Repeat("n", 80), strings.Repeat("n", 50)},
		{"น้องมะลิ", "น้องมะลิ"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeName(tt.in), "input %q", tt.in)
	}
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, Girl.Valid())
	assert.False(t, Gender("other").Valid())
	assert.True(t, Singlish.Valid())
	assert.False(t, Language("fr").Valid())
	assert.True(t, DinosaurLand.Valid())
	assert.False(t, Theme("moon").Valid())
	assert.True(t, HairBlue.Valid())
	assert.True(t, HairPonytail.Valid())
	assert.True(t, OutfitWizard.Valid())
	assert.True(t, ColorYellow.Valid())
	assert.False(t, FavoriteColor("black").Valid())
}
