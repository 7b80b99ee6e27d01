package speech

import (
	"path/filepath"
	"strings"
)

// speakArgs builds the argument list for the known tools. Unknown commands
// receive the text as their only argument.
func speakArgs(command, voice, locale, text string) []string {
	switch filepath.Base(command) {
	case "espeak", "espeak-ng":
		v := voice
		if v == "" {
			v = strings.ToLower(locale)
		}
		return []string{"-v", v, "--", text}
	case "say":
		if voice != "" {
			return []string{"-v", voice, "--", text}
		}
		return []string{"--", text}
	case "spd-say":
		args := []string{"-l", strings.ToLower(strings.SplitN(locale, "-", 2)[0])}
		if voice != "" {
			args = append(args, "-y", voice)
		}
		return append(args, "--", text)
	default:
		return []string{text}
	}
}
