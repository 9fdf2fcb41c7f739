package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"storybook/internal/game"
)

// Ticks each transition line stays on screen.
const transitionFrames = 25

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case beatMsg:
		return m.handleBeat(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case animationTickMsg:
		if m.loading {
			m.animationFrame++
			return m, animationTimer()
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}
	return m, nil
}

func (m Model) handleBeat(msg beatMsg) (tea.Model, tea.Cmd) {
	if !m.loading {
		return m, nil
	}
	m.loading = false
	m.messages = m.dropLoading()

	if msg.err != nil {
		m.failed = true
		m.messages = append(m.messages, "Error: "+msg.err.Error(), "Press r to try again or q to quit.", "")
		return m, nil
	}

	beat := msg.beat
	m.current = beat
	m.messages = append(m.messages, beat.StoryText)
	if img := beat.Illustration; img != nil {
		switch img.Kind {
		case game.RemoteIllustrationKind:
			m.messages = append(m.messages, "[PICTURE] "+img.URL)
		case game.InlineIllustrationKind:
			m.messages = append(m.messages, "[PICTURE] (inline image)")
		}
	}
	m.messages = append(m.messages, "")

	if beat.Ended() {
		m.ended = true
		m.messages = append(m.messages, "The End. Press q to leave the story.")
		return m, nil
	}
	for i, choice := range beat.Choices {
		m.messages = append(m.messages, fmt.Sprintf("%d. %s", i+1, choice))
	}
	m.messages = append(m.messages, "")
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "r":
		if m.failed && !m.loading {
			m.failed = false
			return m.startLoading(nil)
		}
		return m, nil
	}

	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return m, nil
	}
	if m.loading || m.ended || m.failed || m.current == nil {
		return m, nil
	}
	idx := int(key[0] - '1')
	if idx >= len(m.current.Choices) {
		return m, nil
	}

	selected := m.current.Choices[idx]
	resolved := *m.current
	resolved.Selected = selected
	m.history = m.history.Append(resolved)
	transitions := m.current.TransitionFor(selected)
	m.current = nil

	m.messages = append(m.messages, "> "+selected, "")
	return m.startLoading(transitions)
}

func (m Model) startLoading(transitions []string) (tea.Model, tea.Cmd) {
	m.loading = true
	m.animationFrame = 0
	m.transitions = transitions
	m.messages = append(m.messages, loadingLine)
	return m, tea.Batch(m.requestBeat(), animationTimer())
}

func (m Model) dropLoading() []string {
	out := make([]string, 0, len(m.messages))
	for _, line := range m.messages {
		if line != loadingLine {
			out = append(out, line)
		}
	}
	return out
}

func (m Model) transitionLine() string {
	if len(m.transitions) == 0 {
		return ""
	}
	idx := (m.animationFrame / transitionFrames) % len(m.transitions)
	return m.transitions[idx]
}
