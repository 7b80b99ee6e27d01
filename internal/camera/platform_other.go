//go:build !linux && !darwin

package camera

func defaultDevices() (front, back string) {
	return "", ""
}

func captureArgs(device string) ([]string, error) {
	return nil, ErrNotSupported
}

func probePermission(device string) Permission {
	return PermissionUndetermined
}
