package session

import (
	"errors"
	"testing"
)

func readySession(t *testing.T) Session {
	t.Helper()
	s := New(FacingBack)
	if err := s.CaptureSucceeded(NewPhoto([]byte("jpeg"), "/tmp/a.jpg", FacingBack)); err != nil {
		t.Fatalf("CaptureSucceeded returned error: %v", err)
	}
	return s
}

func TestBeginSubmit_NoPhotoIsNoOp(t *testing.T) {
	s := New(FacingFront)
	before := s

	if _, ok := s.BeginSubmit(); ok {
		t.Fatalf("BeginSubmit ok = true, want false without a photo")
	}
	if s != before {
		t.Fatalf("session changed: got %#v want %#v", s, before)
	}
}

func TestSubmitSucceeded_SetsCaptionAndClearsError(t *testing.T) {
	s := readySession(t)
	s.CaptureFailed(errors.New("flaky usb"))

	if _, ok := s.BeginSubmit(); !ok {
		t.Fatalf("BeginSubmit ok = false, want true")
	}
	if !s.Loading() {
		t.Fatalf("Loading() = false during submission")
	}
	if s.ErrText != "" || s.Err != nil {
		t.Fatalf("BeginSubmit kept error %q / %v", s.ErrText, s.Err)
	}

	s.SubmitSucceeded("a red apple")
	if s.Status != StatusResult {
		t.Fatalf("Status = %v, want %v", s.Status, StatusResult)
	}
	if s.Caption != "a red apple" {
		t.Fatalf("Caption = %q, want %q", s.Caption, "a red apple")
	}
	if s.ErrText != "" {
		t.Fatalf("ErrText = %q, want empty", s.ErrText)
	}
	if s.Loading() {
		t.Fatalf("Loading() = true after response")
	}
}

func TestSubmitFailed_GenericMessage(t *testing.T) {
	s := readySession(t)
	s.BeginSubmit()
	s.SubmitFailed(errors.New("api returned status 500"))

	if s.Loading() {
		t.Fatalf("Loading() = true after failure")
	}
	if s.ErrText != UploadFailedMessage {
		t.Fatalf("ErrText = %q, want %q", s.ErrText, UploadFailedMessage)
	}
	if s.Caption != "" {
		t.Fatalf("Caption = %q, want empty", s.Caption)
	}
	if s.Err == nil {
		t.Fatalf("Err = nil, want cause retained")
	}
}

func TestToggleFacing_TwiceRestoresAndKeepsOutcome(t *testing.T) {
	s := readySession(t)
	s.BeginSubmit()
	s.SubmitSucceeded("a dog")
	photo := s.Photo

	s.ToggleFacing()
	if s.Facing != FacingFront {
		t.Fatalf("Facing = %v, want front", s.Facing)
	}
	s.ToggleFacing()
	if s.Facing != FacingBack {
		t.Fatalf("Facing = %v, want back", s.Facing)
	}
	if s.Photo != photo || s.Caption != "a dog" || s.ErrText != "" || s.Status != StatusResult {
		t.Fatalf("ToggleFacing altered state: %#v", s)
	}
}

func TestToggleFacing_DuringSubmission(t *testing.T) {
	s := readySession(t)
	s.BeginSubmit()
	s.ToggleFacing()
	if !s.Loading() {
		t.Fatalf("ToggleFacing ended the submission")
	}
}

func TestCaptureSucceeded_ClearsCaptionAndError(t *testing.T) {
	s := readySession(t)
	s.BeginSubmit()
	s.SubmitSucceeded("old caption")

	next := NewPhoto([]byte("new"), "/tmp/b.jpg", FacingFront)
	if err := s.CaptureSucceeded(next); err != nil {
		t.Fatalf("CaptureSucceeded returned error: %v", err)
	}
	if s.Caption != "" || s.ErrText != "" {
		t.Fatalf("capture kept caption %q / error %q", s.Caption, s.ErrText)
	}
	if s.Status != StatusPhotoReady || s.Photo.ID != next.ID {
		t.Fatalf("Status = %v photo = %v, want photo_ready with new photo", s.Status, s.Photo.ID)
	}

	s.BeginSubmit()
	s.SubmitFailed(errors.New("boom"))
	if err := s.CaptureSucceeded(NewPhoto([]byte("third"), "", FacingBack)); err != nil {
		t.Fatalf("CaptureSucceeded returned error: %v", err)
	}
	if s.ErrText != "" || s.Status != StatusPhotoReady {
		t.Fatalf("capture after failure: status %v error %q", s.Status, s.ErrText)
	}
}

func TestCaptureWhileSubmittingIsRejected(t *testing.T) {
	s := readySession(t)
	s.BeginSubmit()

	if err := s.CaptureSucceeded(NewPhoto([]byte("x"), "", FacingBack)); !errors.Is(err, ErrBusy) {
		t.Fatalf("CaptureSucceeded error = %v, want ErrBusy", err)
	}
	if err := s.CaptureFailed(errors.New("x")); !errors.Is(err, ErrBusy) {
		t.Fatalf("CaptureFailed error = %v, want ErrBusy", err)
	}
	if !s.Loading() {
		t.Fatalf("rejected capture changed status to %v", s.Status)
	}
}

func TestCaptureFailed_KeepsPhotoAndSurfacesMessage(t *testing.T) {
	s := readySession(t)
	photo := s.Photo

	if err := s.CaptureFailed(errors.New("ffmpeg exited 1")); err != nil {
		t.Fatalf("CaptureFailed returned error: %v", err)
	}
	if s.Status != StatusFailed || s.ErrText != CaptureFailedMessage {
		t.Fatalf("status %v error %q, want failed with capture message", s.Status, s.ErrText)
	}
	if s.Photo != photo {
		t.Fatalf("CaptureFailed dropped the previous photo")
	}
	if !s.CanSubmit() {
		t.Fatalf("CanSubmit() = false, want previous photo still submittable")
	}
}

func TestPermissionDeniedThenGranted(t *testing.T) {
	s := readySession(t)
	s.PermissionDenied(errors.New("open /dev/video0: permission denied"))
	if s.Status != StatusFailed || s.ErrText != PermissionDeniedMessage {
		t.Fatalf("status %v error %q, want failed with permission message", s.Status, s.ErrText)
	}

	s.PermissionGranted()
	if s.Status != StatusPhotoReady || s.ErrText != "" || s.Err != nil {
		t.Fatalf("after grant = %#v, want photo ready with no error", s)
	}

	fresh := New(FacingBack)
	fresh.PermissionDenied(errors.New("denied"))
	fresh.PermissionGranted()
	if fresh.Status != StatusIdle {
		t.Fatalf("status = %v, want idle without a photo", fresh.Status)
	}
}

func TestPermissionGranted_LeavesOtherFailures(t *testing.T) {
	s := readySession(t)
	s.BeginSubmit()
	s.SubmitFailed(errors.New("HTTP 500"))
	s.PermissionGranted()
	if s.ErrText != UploadFailedMessage {
		t.Fatalf("ErrText = %q, want upload failure kept", s.ErrText)
	}
}

func TestBeginSubmit_RejectsSecondSubmission(t *testing.T) {
	s := readySession(t)
	if _, ok := s.BeginSubmit(); !ok {
		t.Fatalf("first BeginSubmit ok = false")
	}
	if _, ok := s.BeginSubmit(); ok {
		t.Fatalf("second BeginSubmit ok = true, want false while loading")
	}
}

func TestStaleResponsesAreDropped(t *testing.T) {
	s := readySession(t)
	s.SubmitSucceeded("late")
	if s.Caption != "" || s.Status != StatusPhotoReady {
		t.Fatalf("stale success applied: %#v", s)
	}
	s.SubmitFailed(errors.New("late"))
	if s.ErrText != "" || s.Status != StatusPhotoReady {
		t.Fatalf("stale failure applied: %#v", s)
	}
}

func TestSpeakable(t *testing.T) {
	s := readySession(t)
	if got := s.Speakable(); got != "" {
		t.Fatalf("Speakable() = %q before result, want empty", got)
	}
	s.BeginSubmit()
	s.SubmitSucceeded("  ")
	if got := s.Speakable(); got != "" {
		t.Fatalf("Speakable() = %q for blank caption, want empty", got)
	}
}

func TestParseFacing(t *testing.T) {
	tests := []struct {
		in      string
		want    Facing
		wantErr bool
	}{
		{"", FacingBack, false},
		{"back", FacingBack, false},
		{" FRONT ", FacingFront, false},
		{"side", FacingBack, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFacing(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFacing(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("ParseFacing(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
