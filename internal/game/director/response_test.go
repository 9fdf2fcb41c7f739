package director

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		malformed bool
		choices   int
	}{
		{"full", `{"storyText":"Hi","choices":["Run","Hide"],"imagePrompt":"p"}`, false, 2},
		{"ending", `{"storyText":"The end.","choices":[],"imagePrompt":"p"}`, false, 0},
		{"null choices", `{"storyText":"The end.","choices":null,"imagePrompt":"p"}`, false, 0},
		{"prose", `Once upon a time`, true, 0},
		{"array", `["Run"]`, true, 0},
		{"missing story", `{"choices":["Run"],"imagePrompt":"p"}`, true, 0},
		{"blank story", `{"storyText":"  ","choices":["Run"]}`, true, 0},
		{"choices wrong type", `{"storyText":"Hi","choices":"Run"}`, true, 0},
		{"story wrong type", `{"storyText":3,"choices":["Run"]}`, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			beat, err := ParseResponse(tt.content, nil)
			if tt.malformed {
				assert.ErrorIs(t, err, ErrMalformedResponse)
				assert.Nil(t, beat)
				return
			}
			require.NoError(t, err)
			assert.Len(t, beat.Choices, tt.choices)
			assert.NotNil(t, beat.Choices)
		})
	}
}

func TestParseResponse_DropsUnmatchedTransitions(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	content := `{"storyText":"Hi","choices":["Run"],"choicesWithTransition":[{"text":"Run","transition":["a","b"]},{"text":"Fly","transition":["c"]}],"imagePrompt":" p "}`

	beat, err := ParseResponse(content, zap.New(core))

	require.NoError(t, err)
	require.Len(t, beat.ChoicesWithTransition, 1)
	assert.Equal(t, "Run", beat.ChoicesWithTransition[0].Text)
	assert.Equal(t, "p", beat.ImagePrompt)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Fly", logs.All()[0].ContextMap()["choice"])
}
