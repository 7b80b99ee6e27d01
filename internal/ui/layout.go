package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the header drops the service URL.
	LayoutCompactWidth = 80

	// LayoutPanelMaxWidth caps the width of the preview and caption panels.
	LayoutPanelMaxWidth = 72
)

// Log pane limits.
const (
	// LogPaneHeight is the number of log lines visible at once.
	LogPaneHeight = 8

	// LogTailLimit is the maximum number of log lines read from the file.
	LogTailLimit = 500
)

// Timing constants.
const (
	// DefaultUIInterval is how often the service indicator is refreshed.
	DefaultUIInterval = time.Second

	// LogRefreshInterval is how often the log pane re-reads the log file while shown.
	LogRefreshInterval = time.Second

	// CaptureTimeout bounds a single capture tool run.
	CaptureTimeout = 20 * time.Second

	// PermissionTimeout bounds a permission probe.
	PermissionTimeout = 5 * time.Second
)
