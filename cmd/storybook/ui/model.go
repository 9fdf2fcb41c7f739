package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"storybook/internal/game"
)

const loadingLine = "LOADING_ANIMATION"

// TurnRunner produces the next beat of a story.
type TurnRunner interface {
	RunTurn(ctx context.Context, profile game.PlayerProfile, history game.History) (*game.StoryBeat, error)
}

type Model struct {
	messages       []string
	width          int
	height         int
	director       TurnRunner
	profile        game.PlayerProfile
	sessionID      string
	history        game.History
	current        *game.StoryBeat
	loading        bool
	ended          bool
	failed         bool
	animationFrame int
	transitions    []string
	logger         *zap.Logger
}

// NewModel starts a story for profile. intro is shown while the first beat loads.
func NewModel(director TurnRunner, profile game.PlayerProfile, sessionID string, intro []string, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Model{
		messages:    []string{loadingLine},
		director:    director,
		profile:     profile,
		sessionID:   sessionID,
		history:     game.History{},
		loading:     true,
		transitions: intro,
		logger:      logger.Named("ui"),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.requestBeat(), animationTimer())
}

// History is the story played so far, with each beat's selection filled in.
func (m Model) History() game.History {
	return m.history
}

type animationTickMsg struct{}

type beatMsg struct {
	beat *game.StoryBeat
	err  error
}
