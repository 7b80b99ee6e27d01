//go:build darwin

package camera

func defaultDevices() (front, back string) {
	// AVFoundation lists the built-in FaceTime camera first.
	return "0", "1"
}

func captureArgs(device string) ([]string, error) {
	return []string{"-hide_banner", "-loglevel", "error", "-f", "avfoundation", "-framerate", "30", "-i", device}, nil
}

// macOS asks for camera access the first time ffmpeg opens the device, so
// there is nothing to probe up front.
func probePermission(device string) Permission {
	return PermissionGranted
}
