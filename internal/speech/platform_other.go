//go:build !darwin

package speech

import "os/exec"

func defaultCommand() string {
	for _, candidate := range []string{"espeak-ng", "espeak", "spd-say"} {
		if _, err := exec.LookPath(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
