package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	ToggleLogs key.Binding
	Escape     key.Binding

	// Camera
	Rotate  key.Binding
	Capture key.Binding

	// Caption
	Submit     key.Binding
	SpeakAgain key.Binding

	// Permission modal
	Grant key.Binding

	// Log pane scrolling
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("e", "ctrl+c"),
			key.WithHelp("e", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		ToggleLogs: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Toggle log pane"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Cancel"),
		),

		Rotate: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Rotate camera"),
		),
		Capture: key.NewBinding(
			key.WithKeys(" ", "c"),
			key.WithHelp("space/c", "Take picture"),
		),

		Submit: key.NewBinding(
			key.WithKeys("enter", "s"),
			key.WithHelp("enter/s", "Submit"),
		),
		SpeakAgain: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Speak again"),
		),

		Grant: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "Grant"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "Scroll logs up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "Scroll logs down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "Oldest log line"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Newest log line"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Rotate, k.Capture, k.Submit, k.SpeakAgain, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay, one group per section.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Rotate, k.Capture},
		{k.Submit, k.SpeakAgain},
		{k.ToggleLogs, k.Up, k.Down, k.Top, k.Bottom},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
