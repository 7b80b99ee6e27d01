package ui

import "strings"

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// truncateMiddle shortens a string by removing characters from the middle,
// preserving both the beginning and end. For paths, it preserves file extensions.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || value == "" {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}

	ellipsis := []rune("…")

	// Keep the extension of paths such as /tmp/narrator-<uuid>.jpg visible.
	lastDot := strings.LastIndex(value, ".")
	lastSlash := maxInt(strings.LastIndex(value, "/"), strings.LastIndex(value, "\\"))
	if lastDot > lastSlash && lastDot > 0 {
		extRunes := []rune(value[lastDot:])
		if len(extRunes) < 10 && len(extRunes) < limit/2 {
			baseRunes := []rune(value[:lastDot])
			baseLimit := limit - len(extRunes) - len(ellipsis)
			if baseLimit > 0 && len(baseRunes) > baseLimit {
				prefix := baseLimit / 2
				suffix := baseLimit - prefix
				return string(baseRunes[:prefix]) + string(ellipsis) + string(baseRunes[len(baseRunes)-suffix:]) + string(extRunes)
			}
		}
	}

	keep := limit - len(ellipsis)
	prefix := keep / 2
	suffix := keep - prefix
	return string(runes[:prefix]) + string(ellipsis) + string(runes[len(runes)-suffix:])
}

// maxInt returns the larger of two integers.
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// minInt returns the smaller of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
