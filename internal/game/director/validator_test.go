package director

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestIsPlaceholderChoice_Detects(t *testing.T) {
	placeholders := []string{
		"Choice A", "choice a", "CHOICE A", "Choice B", "choice c",
		"Option A", "option b", "Option C",
		"Choice 1", "choice 2", "choice 3", "Option 1",
		"Alternative A", "alternative b",
		"pick a", "Pick B",
		"1. choice a", "2. choice b",
		"a.", "b.", "c.", "a", "b", "c",
		"  Choice A  ", "\tb\n",
	}
	for _, p := range placeholders {
		assert.True(t, IsPlaceholderChoice(p), "expected placeholder: %q", p)
	}
}

func TestIsPlaceholderChoice_AcceptsRealChoices(t *testing.T) {
	valid := []string{
		"Follow the butterfly",
		"Open the magic door",
		"Talk to the friendly owl",
		"ตามผีเสื้อไป",
		"เปิดประตูวิเศษ",
		"คุยกับนกฮูกใจดี",
		"Explore the cave",
		"Pick up the glowing stone",
		"Ask the wizard for help",
		"  Follow the path  ",
		"d",
		"Choice D",
		"",
	}
	for _, v := range valid {
		assert.False(t, IsPlaceholderChoice(v), "expected valid: %q", v)
	}
}

func TestValidateChoices_EmptyIsValid(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	assert.True(t, ValidateChoices(logger, nil))
	assert.True(t, ValidateChoices(logger, []string{}))
	assert.Equal(t, 0, logs.Len())
}

func TestValidateChoices_LogsOnlyOffenders(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	choices := []string{"Follow the butterfly", "Choice B", "c."}
	before := append([]string(nil), choices...)

	ok := ValidateChoices(zap.New(core), choices)

	assert.False(t, ok)
	assert.Equal(t, before, choices)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Contains(t, entry.Message, "placeholder choices")
	assert.Equal(t, []interface{}{"Choice B", "c."}, entry.ContextMap()["choices"])
}

func TestValidateChoices_AllValid(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	assert.True(t, ValidateChoices(zap.New(core), []string{"Follow the butterfly", "Open the magic door"}))
	assert.Equal(t, 0, logs.Len())
	assert.True(t, ValidateChoices(nil, []string{"Follow the butterfly"}))
	assert.False(t, ValidateChoices(nil, []string{"Option 2"}))
}
