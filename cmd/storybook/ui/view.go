package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	statusHeight := 3
	storyHeight := m.height - statusHeight

	messageStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("7"))

	playerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	choiceStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	pictureStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("13")).
		Italic(true)

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9"))

	loadingStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("6"))

	statusStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1).
		Width(m.width - 4)

	storyPanel := lipgloss.NewStyle().
		Width(m.width).
		Height(storyHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(1)

	contentWidth := m.width - 4

	var rendered []string
	for _, message := range m.messages {
		switch {
		case message == "":
			rendered = append(rendered, "")
		case message == loadingLine:
			text := getLoadingAnimation(m.animationFrame)
			if line := m.transitionLine(); line != "" {
				text += " " + line
			}
			rendered = append(rendered, loadingStyle.Render(wrapAndIndent(text, contentWidth, " ")))
		case strings.HasPrefix(message, "> "):
			rendered = append(rendered, playerStyle.Render(wrapAndIndent(message, contentWidth, " ")))
		case strings.HasPrefix(message, "[PICTURE] "):
			rendered = append(rendered, pictureStyle.Render(wrapAndIndent(message, contentWidth, " ")))
		case strings.HasPrefix(message, "Error: "):
			rendered = append(rendered, errorStyle.Render(wrapAndIndent(message, contentWidth, " ")))
		case isChoiceLine(message):
			rendered = append(rendered, choiceStyle.Render(wrapAndIndent(message, contentWidth, "   ")))
		default:
			rendered = append(rendered, messageStyle.Render(wrapAndIndent(message, contentWidth, " ")))
		}
	}

	// Keep the newest lines in view; wrapped messages can span several rows.
	var lines []string
	for _, r := range rendered {
		lines = append(lines, strings.Split(r, "\n")...)
	}
	maxLines := storyHeight - 2
	if maxLines < 1 {
		maxLines = 1
	}
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	for len(lines) < maxLines {
		lines = append([]string{""}, lines...)
	}

	story := storyPanel.Render(strings.Join(lines, "\n"))
	status := statusStyle.Render(m.statusText())

	return story + "\n" + status
}

func (m Model) statusText() string {
	switch {
	case m.loading:
		return m.profile.Name + "'s story is being written..."
	case m.failed:
		return "r: retry   q: quit"
	case m.ended:
		return "q: quit"
	case m.current != nil:
		return "1-" + string(rune('0'+min(len(m.current.Choices), 9))) + ": choose   q: quit"
	}
	return "q: quit"
}

func isChoiceLine(s string) bool {
	return len(s) > 3 && s[0] >= '1' && s[0] <= '9' && s[1] == '.' && s[2] == ' '
}

func wrapAndIndent(text string, width int, indent string) string {
	if len([]rune(text)) <= width {
		return indent + text
	}

	var result strings.Builder
	words := strings.Fields(text)
	if len(words) == 0 {
		return indent + text
	}

	currentLine := indent + words[0]
	for _, word := range words[1:] {
		if len([]rune(currentLine))+1+len([]rune(word)) <= width {
			currentLine += " " + word
		} else {
			result.WriteString(currentLine + "\n")
			currentLine = indent + word
		}
	}

	result.WriteString(currentLine)
	return result.String()
}

func getLoadingAnimation(frame int) string {
	arc := []string{"◜", "◠", "◝", "◞", "◡", "◟"}
	return arc[frame%len(arc)]
}
