package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/narrator/internal/logtail"
)

// updateLogViewport re-renders the log pane content from the last read.
func (m *Model) updateLogViewport() {
	styles := m.theme.Styles()

	var content string
	switch {
	case m.logPath == "":
		content = styles.FaintText.Render("Logging to stderr")
	case m.logErr != nil:
		content = styles.DangerText.Render("Log unavailable: " + m.logErr.Error())
	case len(m.logEntries) == 0:
		content = styles.FaintText.Render("No log entries yet")
	default:
		lines := make([]string, 0, len(m.logEntries))
		for _, e := range m.logEntries {
			lines = append(lines, m.renderLogEntry(e))
		}
		content = strings.Join(lines, "\n")
	}

	m.logViewport.SetContent(content)
	if m.logFollow {
		m.logViewport.GotoBottom()
	}
}

func (m Model) renderLogEntry(e logtail.Entry) string {
	styles := m.theme.Styles()
	line := truncate(e.Format(), maxInt(m.logViewport.Width, 20))
	switch strings.ToLower(e.Level) {
	case "error", "dpanic", "panic", "fatal":
		return styles.DangerText.Render(line)
	case "warn":
		return styles.WarningText.Render(line)
	case "debug":
		return styles.FaintText.Render(line)
	default:
		return styles.Text.Render(line)
	}
}

// handleLogKey scrolls the log pane.
func (m Model) handleLogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		m.logFollow = false
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		m.logFollow = true
		return m, nil
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	m.logFollow = m.logViewport.AtBottom()
	return m, cmd
}

// renderLogPane renders the bordered log pane.
func (m Model) renderLogPane() string {
	title := "Logs"
	if !m.logFollow {
		title += " (paused, G to follow)"
	}
	header := m.theme.Styles().AccentText.Bold(true).Render(title)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Border)).
		Width(maxInt(m.width-2, 10))
	return box.Render(header + "\n" + m.logViewport.View())
}
