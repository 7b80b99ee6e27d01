//go:build linux

package camera

import (
	"errors"
	"os"
)

func defaultDevices() (front, back string) {
	return "/dev/video1", "/dev/video0"
}

func captureArgs(device string) ([]string, error) {
	return []string{"-hide_banner", "-loglevel", "error", "-f", "v4l2", "-i", device}, nil
}

// probePermission opens the V4L2 node read-only. EACCES means the user is
// not in the video group (or the node is locked down), which is what the
// permission prompt is for.
func probePermission(device string) Permission {
	f, err := os.OpenFile(device, os.O_RDONLY, 0)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return PermissionDenied
		}
		return PermissionUndetermined
	}
	_ = f.Close()
	return PermissionGranted
}
