// Package logtail reads the tail of narrator's log file.
//
// Read keeps the last N lines in a ring buffer so large files are scanned
// once without holding them in memory. ReadEntries decodes those lines from
// zap's JSON encoding into Entry values for the TUI log pane; lines written
// by anything else are shown as-is.
package logtail
