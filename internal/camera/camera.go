package camera

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/five82/narrator/internal/session"
)

// Camera captures still photos from the device's front or back camera.
type Camera interface {
	Capture(ctx context.Context, facing session.Facing) (session.Photo, error)
	Permission(ctx context.Context) Permission
	RequestPermission(ctx context.Context) Permission
}

// Permission reports whether narrator may use the camera.
type Permission int

const (
	PermissionUndetermined Permission = iota
	PermissionGranted
	PermissionDenied
)

func (p Permission) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "undetermined"
	}
}

var (
	ErrPermissionDenied = errors.New("camera permission denied")
	ErrNoDevice         = errors.New("camera device not found")
	ErrNotSupported     = errors.New("camera capture is not supported on this platform")
)

// Options configure a CommandCamera. Empty fields use platform defaults.
type Options struct {
	Command     string
	FrontDevice string
	BackDevice  string
	TempDir     string
	Logger      *zap.Logger
}

// CommandCamera grabs a single JPEG frame by running ffmpeg against the
// platform's video input.
type CommandCamera struct {
	command string
	devices map[session.Facing]string
	tempDir string
	log     *zap.Logger
}

// Ensure CommandCamera implements Camera at compile time.
var _ Camera = (*CommandCamera)(nil)

// New builds a CommandCamera.
func New(opts Options) *CommandCamera {
	command := strings.TrimSpace(opts.Command)
	if command == "" {
		command = "ffmpeg"
	}
	front, back := defaultDevices()
	if d := strings.TrimSpace(opts.FrontDevice); d != "" {
		front = d
	}
	if d := strings.TrimSpace(opts.BackDevice); d != "" {
		back = d
	}
	tempDir := opts.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &CommandCamera{
		command: command,
		devices: map[session.Facing]string{
			session.FacingFront: front,
			session.FacingBack:  back,
		},
		tempDir: tempDir,
		log:     log.Named("camera"),
	}
}

// Device returns the device used for facing.
func (c *CommandCamera) Device(facing session.Facing) string {
	return c.devices[facing]
}

// Permission probes the device behind the back camera.
func (c *CommandCamera) Permission(ctx context.Context) Permission {
	return probePermission(c.devices[session.FacingBack])
}

// RequestPermission re-probes the devices. Desktop platforms have no grant
// dialog to trigger from here, so asking again means checking again once the
// user fixed access (group membership, privacy settings).
func (c *CommandCamera) RequestPermission(ctx context.Context) Permission {
	perm := probePermission(c.devices[session.FacingBack])
	if perm != PermissionGranted {
		if front := probePermission(c.devices[session.FacingFront]); front == PermissionGranted {
			perm = front
		}
	}
	c.log.Info("camera permission requested", zap.Stringer("result", perm))
	return perm
}

// Capture runs the capture tool and returns the resulting photo.
func (c *CommandCamera) Capture(ctx context.Context, facing session.Facing) (session.Photo, error) {
	device := c.devices[facing]
	if probePermission(device) == PermissionDenied {
		return session.Photo{}, fmt.Errorf("capture photo from %s: %w", device, ErrPermissionDenied)
	}

	args, err := captureArgs(device)
	if err != nil {
		return session.Photo{}, err
	}
	out := filepath.Join(c.tempDir, fmt.Sprintf("narrator-%s.jpg", uuid.NewString()))
	args = append(args, "-frames:v", "1", "-q:v", "2", "-y", out)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.command, args...)
	cmd.Stderr = &stderr

	c.log.Debug("capturing photo", zap.String("device", device), zap.Stringer("facing", facing))
	if err := cmd.Run(); err != nil {
		_ = os.Remove(out)
		if errors.Is(err, exec.ErrNotFound) {
			return session.Photo{}, fmt.Errorf("capture photo: %s not installed: %w", c.command, err)
		}
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return session.Photo{}, fmt.Errorf("capture photo: %w: %s", err, lastLine(detail))
		}
		return session.Photo{}, fmt.Errorf("capture photo: %w", err)
	}

	// The photo lives in memory only; the temp file goes as soon as it is read.
	data, err := os.ReadFile(out)
	_ = os.Remove(out)
	if err != nil {
		return session.Photo{}, fmt.Errorf("read captured photo: %w", err)
	}
	if len(data) == 0 {
		return session.Photo{}, fmt.Errorf("capture photo: %s produced an empty image", c.command)
	}
	return session.NewPhoto(data, "", facing), nil
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}

// FileCamera serves an existing JPEG as the captured photo.
type FileCamera struct {
	Path string
}

// Ensure FileCamera implements Camera at compile time.
var _ Camera = (*FileCamera)(nil)

// Capture reads the file on every call so edits show up on recapture.
func (f *FileCamera) Capture(ctx context.Context, facing session.Facing) (session.Photo, error) {
	if err := ctx.Err(); err != nil {
		return session.Photo{}, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return session.Photo{}, fmt.Errorf("capture photo from %s: %w", f.Path, ErrNoDevice)
		}
		if errors.Is(err, os.ErrPermission) {
			return session.Photo{}, fmt.Errorf("capture photo from %s: %w", f.Path, ErrPermissionDenied)
		}
		return session.Photo{}, fmt.Errorf("capture photo: %w", err)
	}
	if len(data) == 0 {
		return session.Photo{}, fmt.Errorf("capture photo: %s is empty", f.Path)
	}
	return session.NewPhoto(data, f.Path, facing), nil
}

// Permission reports whether the file is readable.
func (f *FileCamera) Permission(ctx context.Context) Permission {
	file, err := os.Open(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return PermissionDenied
		}
		return PermissionUndetermined
	}
	_ = file.Close()
	return PermissionGranted
}

// RequestPermission checks the file again.
func (f *FileCamera) RequestPermission(ctx context.Context) Permission {
	return f.Permission(ctx)
}
