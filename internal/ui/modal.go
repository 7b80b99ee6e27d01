package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

const (
	permissionTitle = "Camera Permissions"
	permissionBody  = "You need to grant camera permissions to use the app."
)

// grantRequestedMsg asks the model to request camera access.
type grantRequestedMsg struct{}

// permissionModal offers Grant and Cancel while the camera is not usable.
type permissionModal struct{}

func (p permissionModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil, false
	}
	switch {
	case key.Matches(keyMsg, keys.Grant), keyMsg.String() == "enter":
		return p, func() tea.Msg { return grantRequestedMsg{} }, true
	case key.Matches(keyMsg, keys.Escape):
		return p, nil, true
	}
	return p, nil, false
}

func (p permissionModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(permissionTitle))
	b.WriteString("\n\n")
	b.WriteString(styles.MutedText.Render(permissionBody))
	b.WriteString("\n\n")

	button := lipgloss.NewStyle().Padding(0, 1)
	cancel := button.
		Foreground(lipgloss.Color(theme.Text)).
		Background(lipgloss.Color(theme.SurfaceAlt)).
		Render("esc Cancel")
	grant := button.
		Foreground(lipgloss.Color(theme.Background)).
		Background(lipgloss.Color(theme.Accent)).
		Bold(true).
		Render("g Grant")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cancel, "  ", grant))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.BorderFocus)).
		Padding(1, 2).
		Width(60).
		Render(b.String())

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
