package camera

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/five82/narrator/internal/session"
)

// fakeTool writes a shell script standing in for ffmpeg. It records its
// arguments and writes body to the last argument (the output path).
func fakeTool(t *testing.T, body string, exitCode int) (tool, argsFile string) {
	t.Helper()
	if runtime.GOOS != "linux" {
		t.Skip("capture arguments are exercised on linux")
	}
	dir := t.TempDir()
	argsFile = filepath.Join(dir, "args")
	tool = filepath.Join(dir, "ffmpeg")
	script := "#!/bin/sh\n" +
		"echo \"$@\" > " + argsFile + "\n" +
		"for last; do :; done\n" +
		"printf '%s' '" + body + "' > \"$last\"\n"
	if exitCode != 0 {
		script += "echo 'Cannot open video device' >&2\nexit 1\n"
	}
	if err := os.WriteFile(tool, []byte(script), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return tool, argsFile
}

func fakeDevice(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "video0")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestCommandCamera_CaptureUsesDeviceForFacing(t *testing.T) {
	tool, argsFile := fakeTool(t, "jpeg-bytes", 0)
	front, back := fakeDevice(t), fakeDevice(t)
	tempDir := t.TempDir()

	cam := New(Options{Command: tool, FrontDevice: front, BackDevice: back, TempDir: tempDir})

	photo, err := cam.Capture(context.Background(), session.FacingFront)
	if err != nil {
		t.Fatalf("Capture returned error: %v", err)
	}
	if string(photo.Data) != "jpeg-bytes" {
		t.Fatalf("photo data = %q, want jpeg-bytes", photo.Data)
	}
	if photo.Facing != session.FacingFront {
		t.Fatalf("photo facing = %v, want front", photo.Facing)
	}
	if photo.Path != "" {
		t.Fatalf("photo path = %q, want in-memory photo", photo.Path)
	}
	leftover, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(leftover) != 0 {
		t.Fatalf("temp dir holds %d files after capture, want 0", len(leftover))
	}

	args, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	for _, want := range []string{"-f v4l2", "-i " + front, "-frames:v 1"} {
		if !strings.Contains(string(args), want) {
			t.Fatalf("args %q missing %q", args, want)
		}
	}
}

func TestCommandCamera_ToolFailure(t *testing.T) {
	tool, _ := fakeTool(t, "", 1)
	cam := New(Options{Command: tool, BackDevice: fakeDevice(t), TempDir: t.TempDir()})

	_, err := cam.Capture(context.Background(), session.FacingBack)
	if err == nil || !strings.Contains(err.Error(), "Cannot open video device") {
		t.Fatalf("Capture error = %v, want tool stderr", err)
	}
}

func TestCommandCamera_EmptyOutput(t *testing.T) {
	tool, _ := fakeTool(t, "", 0)
	cam := New(Options{Command: tool, BackDevice: fakeDevice(t), TempDir: t.TempDir()})

	if _, err := cam.Capture(context.Background(), session.FacingBack); err == nil {
		t.Fatalf("Capture returned nil error for empty image")
	}
}

func TestCommandCamera_MissingTool(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux only")
	}
	cam := New(Options{Command: "narrator-no-such-ffmpeg", BackDevice: fakeDevice(t), TempDir: t.TempDir()})
	_, err := cam.Capture(context.Background(), session.FacingBack)
	if err == nil || !strings.Contains(err.Error(), "not installed") {
		t.Fatalf("Capture error = %v, want not installed", err)
	}
}

func TestCommandCamera_PermissionDenied(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux only")
	}
	if os.Geteuid() == 0 {
		t.Skip("root bypasses file permissions")
	}
	device := filepath.Join(t.TempDir(), "video0")
	if err := os.WriteFile(device, nil, 0o000); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cam := New(Options{Command: "ffmpeg", BackDevice: device, FrontDevice: device})

	if got := cam.Permission(context.Background()); got != PermissionDenied {
		t.Fatalf("Permission() = %v, want denied", got)
	}
	if got := cam.RequestPermission(context.Background()); got != PermissionDenied {
		t.Fatalf("RequestPermission() = %v, want denied", got)
	}
	if _, err := cam.Capture(context.Background(), session.FacingBack); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("Capture error = %v, want ErrPermissionDenied", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	cam := New(Options{})
	if cam.command != "ffmpeg" {
		t.Fatalf("command = %q, want ffmpeg", cam.command)
	}
	front, back := defaultDevices()
	if cam.Device(session.FacingFront) != front || cam.Device(session.FacingBack) != back {
		t.Fatalf("devices = %v, want platform defaults", cam.devices)
	}
}

func TestFileCamera(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apple.jpg")
	if err := os.WriteFile(path, []byte("apple"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cam := &FileCamera{Path: path}

	if got := cam.Permission(context.Background()); got != PermissionGranted {
		t.Fatalf("Permission() = %v, want granted", got)
	}
	photo, err := cam.Capture(context.Background(), session.FacingBack)
	if err != nil {
		t.Fatalf("Capture returned error: %v", err)
	}
	if string(photo.Data) != "apple" || photo.Path != path {
		t.Fatalf("photo = %#v", photo)
	}

	missing := &FileCamera{Path: filepath.Join(t.TempDir(), "nope.jpg")}
	if _, err := missing.Capture(context.Background(), session.FacingBack); !errors.Is(err, ErrNoDevice) {
		t.Fatalf("Capture(missing) error = %v, want ErrNoDevice", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := cam.Capture(ctx, session.FacingBack); !errors.Is(err, context.Canceled) {
		t.Fatalf("Capture(cancelled) error = %v, want context.Canceled", err)
	}
}
