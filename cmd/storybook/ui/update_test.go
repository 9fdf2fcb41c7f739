package ui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storybook/internal/game"
	"storybook/internal/mocks"
	"storybook/internal/observability"
)

var profile = game.PlayerProfile{Name: "Alice", Gender: game.Girl, Language: game.English, Theme: game.SpaceAdventure}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func firstBeat() *game.StoryBeat {
	return &game.StoryBeat{
		StoryText: "Alice floats past the moon.",
		Choices:   []string{"Wave at the comet", "Land on Mars", "Visit the stars"},
		ChoicesWithTransition: []game.ChoiceWithTransition{
			{Text: "Land on Mars", Transition: []string{"🚀 Down we go...", "🔴 The red dust swirls..."}},
		},
		Illustration: game.RemoteIllustration("https://img.example/moon.png"),
	}
}

func TestModel_StartsLoadingWithIntro(t *testing.T) {
	m := NewModel(mocks.NewTurnRunner(t), profile, "s1", []string{"Hello Alice!"}, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.True(t, m.loading)
	assert.Equal(t, "Hello Alice!", m.transitionLine())
	assert.Contains(t, m.View(), "Hello Alice!")
}

func TestModel_ShowsBeatAndChoices(t *testing.T) {
	m := NewModel(mocks.NewTurnRunner(t), profile, "s1", nil, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, cmd := update(t, m, beatMsg{beat: firstBeat()})
	assert.Nil(t, cmd)

	assert.False(t, m.loading)
	assert.NotContains(t, m.messages, loadingLine)
	assert.Contains(t, m.messages, "Alice floats past the moon.")
	assert.Contains(t, m.messages, "[PICTURE] https://img.example/moon.png")
	assert.Contains(t, m.messages, "2. Land on Mars")
	assert.Contains(t, m.View(), "Land on Mars")
}

func TestModel_ChoosingStampsSelectionAndRequestsNextBeat(t *testing.T) {
	runner := mocks.NewTurnRunner(t)
	m := NewModel(runner, profile, "story-7", nil, nil)
	m, _ = update(t, m, beatMsg{beat: firstBeat()})

	m, cmd := update(t, m, key("2"))
	require.NotNil(t, cmd)
	assert.True(t, m.loading)
	assert.Nil(t, m.current)
	assert.Equal(t, []string{"🚀 Down we go...", "🔴 The red dust swirls..."}, m.transitions)

	require.Len(t, m.History(), 1)
	assert.Equal(t, "Land on Mars", m.History()[0].Selected)
	assert.True(t, m.History()[0].IsResolved())

	next := &game.StoryBeat{StoryText: "Mars is dusty.", Choices: []string{"Dig", "Fly home"}}
	runner.On("RunTurn",
		mock.MatchedBy(func(ctx context.Context) bool {
			return observability.SessionIDFromContext(ctx) == "story-7"
		}),
		profile,
		mock.MatchedBy(func(h game.History) bool { return len(h) == 1 && h[0].Selected == "Land on Mars" }),
	).Return(next, nil).Once()

	msg := m.requestBeat()()
	m, _ = update(t, m, msg)
	assert.Same(t, next, m.current)
	runner.AssertExpectations(t)
}

func TestModel_IgnoresKeysWhileLoadingOrOutOfRange(t *testing.T) {
	m := NewModel(mocks.NewTurnRunner(t), profile, "s1", nil, nil)

	m, cmd := update(t, m, key("1"))
	assert.Nil(t, cmd)
	assert.Empty(t, m.History())

	m, _ = update(t, m, beatMsg{beat: firstBeat()})
	m, cmd = update(t, m, key("4"))
	assert.Nil(t, cmd)
	assert.Empty(t, m.History())
	assert.NotNil(t, m.current)
}

func TestModel_EndingOnlyAcceptsQuit(t *testing.T) {
	m := NewModel(mocks.NewTurnRunner(t), profile, "s1", nil, nil)
	m, _ = update(t, m, beatMsg{beat: &game.StoryBeat{StoryText: "And they all slept soundly."}})
	assert.True(t, m.ended)
	assert.Contains(t, m.messages, "The End. Press q to leave the story.")

	m, cmd := update(t, m, key("1"))
	assert.Nil(t, cmd)
	assert.Empty(t, m.History())

	_, cmd = update(t, m, key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_ErrorThenRetry(t *testing.T) {
	runner := mocks.NewTurnRunner(t)
	m := NewModel(runner, profile, "s1", nil, nil)
	m, _ = update(t, m, beatMsg{err: errors.New("story completion failed: timeout")})
	assert.True(t, m.failed)
	assert.Contains(t, m.messages, "Error: story completion failed: timeout")

	m, cmd := update(t, m, key("r"))
	require.NotNil(t, cmd)
	assert.True(t, m.loading)
	assert.False(t, m.failed)
	assert.Empty(t, m.History())
}

func TestWrapAndIndent(t *testing.T) {
	out := wrapAndIndent("one two three four", 9, " ")
	assert.Equal(t, " one two\n three\n four", out)
	assert.Equal(t, " short", wrapAndIndent("short", 20, " "))
}
