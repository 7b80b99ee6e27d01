package ui

import (
	"os/exec"
	"strings"
)

// createLogo renders the narrator banner with figlet, or plain text when
// figlet is not installed.
func createLogo() string {
	output, err := exec.Command("figlet", "-f", "small", "narrator").Output()
	if err == nil && strings.TrimSpace(string(output)) != "" {
		return strings.TrimRight(string(output), "\n ")
	}
	return "NARRATOR"
}
