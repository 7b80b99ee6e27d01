package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/narrator/internal/camera"
	"github.com/five82/narrator/internal/session"
)

// statusLabel is the chip text for each session status.
func statusLabel(s session.Status) string {
	switch s {
	case session.StatusPhotoReady:
		return "Photo ready"
	case session.StatusSubmitting:
		return "Processing..."
	case session.StatusResult:
		return "Caption"
	case session.StatusFailed:
		return "Failed"
	default:
		return "Idle"
	}
}

// renderMain renders the full screen.
func (m Model) renderMain() string {
	parts := []string{m.renderHeader(), m.renderBody()}
	if m.showLogs {
		parts = append(parts, m.renderLogPane())
	}
	parts = append(parts, m.renderFooter())
	return strings.Join(parts, "\n")
}

// renderHeader renders the status line: name, status, facing and service.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	segments := []string{
		bg.Render("narrator", styles.Logo),
		styles.StatusStyle(m.session.Status.String()).Render(statusLabel(m.session.Status)),
		bg.Render("camera: "+m.session.Facing.String(), styles.MutedText),
	}
	if m.health != nil {
		segments = append(segments, bg.Render("service: "+m.service.Label(), m.serviceStyle(styles)))
	}
	if m.width >= LayoutCompactWidth && m.baseURL != "" {
		segments = append(segments, bg.Render(truncate(m.baseURL, 40), styles.FaintText))
	}
	line := bg.Space() + bg.Join(segments, "  ")
	return bg.FillLine(line, m.width)
}

func (m Model) serviceStyle(styles Styles) lipgloss.Style {
	switch m.service.Label() {
	case "online":
		return styles.SuccessText
	case "unstable":
		return styles.WarningText
	case "offline":
		return styles.DangerText
	default:
		return styles.FaintText
	}
}

// renderBody renders the camera controls, preview, submit button and outcome.
func (m Model) renderBody() string {
	styles := m.theme.Styles()
	width := minInt(maxInt(m.width-4, 20), LayoutPanelMaxWidth)

	if m.permission != camera.PermissionGranted {
		rows := []string{"", styles.Text.Render("Waiting for permission...")}
		if m.session.ErrText != "" {
			rows = append(rows, styles.DangerText.Render(m.session.ErrText))
		}
		rows = append(rows, styles.FaintText.Render("Press g to grant camera access"))
		return lipgloss.NewStyle().Padding(0, 2).Render(strings.Join(rows, "\n"))
	}

	var rows []string
	rows = append(rows, styles.Text.Bold(true).Render("Camera")+" "+styles.MutedText.Render("("+m.session.Facing.String()+")"))
	rows = append(rows, m.renderControls())

	switch {
	case m.capturing:
		rows = append(rows, styles.InfoText.Render("Capturing..."))
	case !m.session.HasPhoto():
		rows = append(rows, styles.Logo.Render(m.logo))
		rows = append(rows, styles.FaintText.Render("No photo yet. Press space to take one."))
	}
	if m.session.HasPhoto() {
		rows = append(rows, m.renderPreview(width))
	}

	rows = append(rows, m.renderSubmit())

	if m.session.ErrText != "" {
		rows = append(rows, styles.DangerText.Render(m.session.ErrText))
	}
	if m.session.Status == session.StatusResult && m.session.Caption != "" {
		rows = append(rows, m.renderCaption(width))
	}

	return lipgloss.NewStyle().Padding(0, 2).Render(strings.Join(rows, "\n"))
}

// renderControls renders the rotate and capture buttons.
func (m Model) renderControls() string {
	button := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(lipgloss.Color(m.theme.Text)).
		Background(lipgloss.Color(m.theme.SurfaceAlt))
	rotate := button.Render(bindingLabel(m.keys.Rotate))
	capture := button.Render(bindingLabel(m.keys.Capture))
	return lipgloss.JoinHorizontal(lipgloss.Top, rotate, "  ", capture)
}

// renderSubmit renders the submit button, greyed out while it cannot be used.
func (m Model) renderSubmit() string {
	if m.session.Loading() {
		return m.spinner.View() + " " + m.theme.Styles().WarningText.Render("Processing...")
	}
	button := lipgloss.NewStyle().Padding(0, 2).Bold(true)
	if m.session.CanSubmit() {
		return button.
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color(m.theme.Success)).
			Render(bindingLabel(m.keys.Submit))
	}
	return button.
		Foreground(lipgloss.Color(m.theme.Faint)).
		Background(lipgloss.Color(m.theme.SurfaceAlt)).
		Render(bindingLabel(m.keys.Submit))
}

// renderCaption renders the caption panel.
func (m Model) renderCaption(width int) string {
	styles := m.theme.Styles()
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(maxInt(width-4, 10)).
		Render(m.session.Caption)
	rows := []string{
		styles.MutedText.Bold(true).Render("Caption:"),
		body,
		"",
		styles.AccentText.Render(bindingLabel(m.keys.SpeakAgain)),
	}
	return styles.Panel.
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Width(width).
		Render(strings.Join(rows, "\n"))
}

// renderFooter renders the short key help.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)
	var parts []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, bg.Render(h.Key, styles.WarningText)+bg.Space()+bg.Render(h.Desc, styles.MutedText))
	}
	return bg.FillLine(bg.Space()+bg.Join(parts, "  "), m.width)
}

func bindingLabel(b key.Binding) string {
	h := b.Help()
	return h.Key + " " + h.Desc
}
