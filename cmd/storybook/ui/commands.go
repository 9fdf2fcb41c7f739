package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"storybook/internal/observability"
)

func animationTimer() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return animationTickMsg{}
	})
}

// requestBeat asks the director for the beat following the current history.
// The history slice is captured now so later key presses cannot change it.
func (m Model) requestBeat() tea.Cmd {
	director, profile, history := m.director, m.profile, m.history
	sessionID, logger := m.sessionID, m.logger
	return func() tea.Msg {
		ctx := observability.WithSessionID(context.Background(), sessionID)
		start := time.Now()
		beat, err := director.RunTurn(ctx, profile, history)
		if err != nil {
			logger.Error("Turn failed", zap.Int("beat", len(history)+1), zap.Error(err))
			return beatMsg{err: err}
		}
		logger.Debug("Turn complete",
			zap.Int("beat", len(history)+1),
			zap.Duration("duration", time.Since(start)),
		)
		return beatMsg{beat: beat}
	}
}
