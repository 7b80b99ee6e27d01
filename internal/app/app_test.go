package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/five82/narrator/internal/camera"
	"github.com/five82/narrator/internal/caption"
	"github.com/five82/narrator/internal/mockcaption"
	"github.com/five82/narrator/internal/session"
)

// writeConfig points narrator at baseURL and a log file inside a temp HOME.
func writeConfig(t *testing.T, baseURL string) (configPath, logPath string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("NARRATOR_BASE_URL", "")
	t.Setenv("NARRATOR_LOG_LEVEL", "")

	logPath = filepath.Join(dir, "state", "narrator.log")
	configPath = filepath.Join(dir, "config.toml")
	content := fmt.Sprintf("base_url = %q\nlog_file = %q\nlog_level = \"debug\"\n\n[speech]\nenabled = false\n", baseURL, logPath)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return configPath, logPath
}

func writeImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "apple.jpg")
	if err := os.WriteFile(path, []byte("\xff\xd8\xff\xe0fake jpeg"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestOnce_CaptionsImageFile(t *testing.T) {
	fake := mockcaption.New(mockcaption.Options{Caption: "a red apple"})
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	configPath, logPath := writeConfig(t, srv.URL)

	var out bytes.Buffer
	err := Once(context.Background(), Options{ConfigPath: configPath, ImagePath: writeImage(t)}, &out)
	if err != nil {
		t.Fatalf("Once returned error: %v", err)
	}
	if out.String() != "a red apple\n" {
		t.Fatalf("output = %q, want caption line", out.String())
	}
	if fake.Requests() != 1 {
		t.Fatalf("Requests() = %d, want 1", fake.Requests())
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile(log): %v", err)
	}
	if !strings.Contains(string(data), "caption received") {
		t.Fatalf("log missing caption entry: %s", data)
	}
}

func TestOnce_UploadFailureShowsGenericMessage(t *testing.T) {
	srv := httptest.NewServer(mockcaption.New(mockcaption.Options{Status: http.StatusInternalServerError}))
	t.Cleanup(srv.Close)

	configPath, logPath := writeConfig(t, srv.URL)

	var out bytes.Buffer
	err := Once(context.Background(), Options{ConfigPath: configPath, ImagePath: writeImage(t)}, &out)
	if err == nil {
		t.Fatalf("Once returned nil error, want failure")
	}
	if err.Error() != session.UploadFailedMessage {
		t.Fatalf("error = %q, want %q", err.Error(), session.UploadFailedMessage)
	}
	var statusErr *caption.StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusInternalServerError {
		t.Fatalf("cause = %v, want status 500", err)
	}
	if out.Len() != 0 {
		t.Fatalf("output = %q, want nothing", out.String())
	}

	data, _ := os.ReadFile(logPath)
	if !strings.Contains(string(data), "returned status 500") {
		t.Fatalf("log missing failure cause: %s", data)
	}
}

func TestOnce_MissingImageIsCaptureFailure(t *testing.T) {
	configPath, _ := writeConfig(t, "http://127.0.0.1:1")

	err := Once(context.Background(), Options{
		ConfigPath: configPath,
		ImagePath:  filepath.Join(t.TempDir(), "missing.jpg"),
	}, &bytes.Buffer{})
	if err == nil || err.Error() != session.CaptureFailedMessage {
		t.Fatalf("error = %v, want capture failure message", err)
	}
	if !errors.Is(err, camera.ErrNoDevice) {
		t.Fatalf("cause = %v, want ErrNoDevice", err)
	}
}

func TestBuild_AppliesOverrides(t *testing.T) {
	configPath, _ := writeConfig(t, "http://127.0.0.1:8000")

	d, err := build(Options{ConfigPath: configPath, BaseURL: "captions.local:9000", Facing: "front"})
	if err != nil {
		t.Fatalf("build returned error: %v", err)
	}
	if d.facing != session.FacingFront {
		t.Fatalf("facing = %v, want front", d.facing)
	}
	if d.client.BaseURL() != "http://captions.local:9000" {
		t.Fatalf("BaseURL = %q, want override", d.client.BaseURL())
	}
	if _, ok := d.camera.(*camera.CommandCamera); !ok {
		t.Fatalf("camera = %T, want CommandCamera without an image path", d.camera)
	}

	if _, err := build(Options{ConfigPath: configPath, Facing: "sideways"}); err == nil {
		t.Fatalf("build with bad facing returned nil error")
	}
}

type stubCamera struct {
	perm camera.Permission
}

func (s stubCamera) Capture(ctx context.Context, facing session.Facing) (session.Photo, error) {
	return session.NewPhoto([]byte("jpeg"), "", facing), nil
}

func (s stubCamera) Permission(ctx context.Context) camera.Permission        { return s.perm }
func (s stubCamera) RequestPermission(ctx context.Context) camera.Permission { return s.perm }

type stubCaptioner struct{ text string }

func (s stubCaptioner) Caption(ctx context.Context, upload caption.Upload) (string, error) {
	return s.text, nil
}

type waitingSpeaker struct {
	mu     sync.Mutex
	texts  []string
	waited bool
}

func (w *waitingSpeaker) Speak(text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.texts = append(w.texts, text)
	return nil
}

func (w *waitingSpeaker) Wait() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.waited = true
}

func TestOnce_SpeaksCaptionAndWaits(t *testing.T) {
	spk := &waitingSpeaker{}
	d := deps{
		log:       zap.NewNop(),
		facing:    session.FacingBack,
		camera:    stubCamera{perm: camera.PermissionGranted},
		captioner: stubCaptioner{text: "a red apple"},
		speaker:   spk,
	}

	var out bytes.Buffer
	if err := once(context.Background(), d, &out); err != nil {
		t.Fatalf("once returned error: %v", err)
	}
	if len(spk.texts) != 1 || spk.texts[0] != "a red apple" {
		t.Fatalf("spoken = %v, want caption", spk.texts)
	}
	if !spk.waited {
		t.Fatalf("speaker was not waited on")
	}
}

func TestOnce_PermissionDenied(t *testing.T) {
	d := deps{
		log:       zap.NewNop(),
		camera:    stubCamera{perm: camera.PermissionDenied},
		captioner: stubCaptioner{text: "unused"},
		speaker:   &waitingSpeaker{},
	}
	err := once(context.Background(), d, &bytes.Buffer{})
	if err == nil || err.Error() != session.PermissionDeniedMessage {
		t.Fatalf("error = %v, want permission message", err)
	}
	if !errors.Is(err, camera.ErrPermissionDenied) {
		t.Fatalf("cause = %v, want ErrPermissionDenied", err)
	}
}
