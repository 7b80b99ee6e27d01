package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User-facing messages. The underlying causes are logged, never shown.
const (
	UploadFailedMessage     = "Something went wrong. Please try again."
	CaptureFailedMessage    = "Could not capture a photo. Please try again."
	PermissionDeniedMessage = "You need to grant camera permissions to use the app."
)

// ErrBusy is returned when a capture lands while a submission is in flight.
var ErrBusy = errors.New("submission in progress")

// Facing selects which physical camera is active.
type Facing int

const (
	FacingBack Facing = iota
	FacingFront
)

// Toggle returns the opposite facing.
func (f Facing) Toggle() Facing {
	if f == FacingFront {
		return FacingBack
	}
	return FacingFront
}

func (f Facing) String() string {
	if f == FacingFront {
		return "front"
	}
	return "back"
}

// ParseFacing accepts "front" or "back" (case-insensitive). Empty means back.
func ParseFacing(value string) (Facing, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "back":
		return FacingBack, nil
	case "front":
		return FacingFront, nil
	default:
		return FacingBack, fmt.Errorf("unknown facing %q (want front or back)", value)
	}
}

// Status is the explicit state of the capture/upload/speak flow.
type Status int

const (
	StatusIdle Status = iota
	StatusPhotoReady
	StatusSubmitting
	StatusResult
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPhotoReady:
		return "photo_ready"
	case StatusSubmitting:
		return "submitting"
	case StatusResult:
		return "result"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Photo is an opaque handle to a captured still image.
type Photo struct {
	ID      uuid.UUID
	Path    string
	Data    []byte
	Facing  Facing
	TakenAt time.Time
}

// NewPhoto stamps image data with a fresh id and capture time.
func NewPhoto(data []byte, path string, facing Facing) Photo {
	return Photo{
		ID:      uuid.New(),
		Path:    path,
		Data:    data,
		Facing:  facing,
		TakenAt: time.Now(),
	}
}

// Size returns the number of image bytes.
func (p Photo) Size() int {
	return len(p.Data)
}

// Session is the single mutable record behind the screen.
//
// Caption is only meaningful in StatusResult and ErrText only in StatusFailed;
// every transition resets whichever one it leaves behind.
type Session struct {
	Facing  Facing
	Status  Status
	Photo   *Photo
	Caption string
	ErrText string
	Err     error
}

// New returns an idle session using the given facing.
func New(facing Facing) Session {
	return Session{Facing: facing, Status: StatusIdle}
}

// Loading reports whether an upload is in flight.
func (s Session) Loading() bool {
	return s.Status == StatusSubmitting
}

// HasPhoto reports whether a photo has been captured.
func (s Session) HasPhoto() bool {
	return s.Photo != nil
}

// CanSubmit mirrors the submit control: enabled with a photo and no request in flight.
func (s Session) CanSubmit() bool {
	return s.HasPhoto() && !s.Loading()
}

// ToggleFacing flips the active camera. In-flight requests are unaffected.
func (s *Session) ToggleFacing() {
	s.Facing = s.Facing.Toggle()
}

// CaptureSucceeded installs a new photo and clears any previous caption or error.
func (s *Session) CaptureSucceeded(photo Photo) error {
	if s.Loading() {
		return ErrBusy
	}
	p := photo
	s.Photo = &p
	s.Status = StatusPhotoReady
	s.clearOutcome()
	return nil
}

// CaptureFailed surfaces a camera failure. The previous photo, if any, is kept.
func (s *Session) CaptureFailed(err error) error {
	if s.Loading() {
		return ErrBusy
	}
	s.Status = StatusFailed
	s.Caption = ""
	s.Err = err
	s.ErrText = CaptureFailedMessage
	return nil
}

// PermissionDenied records that the camera cannot be used until access is granted.
func (s *Session) PermissionDenied(err error) {
	if s.Loading() {
		return
	}
	s.Status = StatusFailed
	s.Caption = ""
	s.Err = err
	s.ErrText = PermissionDeniedMessage
}

// PermissionGranted clears a permission error once the camera is usable again.
func (s *Session) PermissionGranted() {
	if s.Status != StatusFailed || s.ErrText != PermissionDeniedMessage {
		return
	}
	s.clearOutcome()
	if s.HasPhoto() {
		s.Status = StatusPhotoReady
	} else {
		s.Status = StatusIdle
	}
}

// BeginSubmit starts an upload of the current photo. It returns false and leaves
// the session untouched when there is no photo or a request is already running.
func (s *Session) BeginSubmit() (Photo, bool) {
	if !s.CanSubmit() {
		return Photo{}, false
	}
	s.Status = StatusSubmitting
	s.clearOutcome()
	return *s.Photo, true
}

// SubmitSucceeded stores the caption returned by the service. Responses that
// arrive outside a submission are dropped.
func (s *Session) SubmitSucceeded(caption string) {
	if !s.Loading() {
		return
	}
	s.Status = StatusResult
	s.Caption = caption
	s.ErrText = ""
	s.Err = nil
}

// SubmitFailed collapses any upload failure into the generic message.
func (s *Session) SubmitFailed(err error) {
	if !s.Loading() {
		return
	}
	s.Status = StatusFailed
	s.Caption = ""
	s.Err = err
	s.ErrText = UploadFailedMessage
}

// Speakable returns the caption to read aloud, or "" when there is nothing to say.
func (s Session) Speakable() string {
	if s.Status != StatusResult {
		return ""
	}
	return strings.TrimSpace(s.Caption)
}

func (s *Session) clearOutcome() {
	s.Caption = ""
	s.ErrText = ""
	s.Err = nil
}
