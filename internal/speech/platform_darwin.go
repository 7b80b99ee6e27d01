//go:build darwin

package speech

func defaultCommand() string {
	return "say"
}
