package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/narrator/internal/camera"
	"github.com/five82/narrator/internal/caption"
	"github.com/five82/narrator/internal/config"
	"github.com/five82/narrator/internal/logging"
	"github.com/five82/narrator/internal/prefs"
	"github.com/five82/narrator/internal/session"
	"github.com/five82/narrator/internal/speech"
	"github.com/five82/narrator/internal/state"
	"github.com/five82/narrator/internal/ui"
)

// Options configure the narrator application. Non-empty fields override the
// config file and environment.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/narrator/prefs.toml
	BaseURL    string
	Facing     string
	NoSpeech   bool
	ImagePath  string // Once only: caption this file instead of the camera
}

// FailureError carries the message shown to the user. The cause is logged
// and reachable through errors.Is / errors.As.
type FailureError struct {
	Message string
	Cause   error
}

func (e *FailureError) Error() string { return e.Message }

func (e *FailureError) Unwrap() error { return e.Cause }

// deps are the collaborators shared by the interactive and headless flows.
type deps struct {
	cfg       config.Config
	log       *zap.Logger
	facing    session.Facing
	client    *caption.Client
	camera    camera.Camera
	captioner caption.Captioner
	speaker   speech.Speaker
}

// Run boots the narrator TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	d, err := build(opts)
	if err != nil {
		return err
	}
	defer func() { _ = d.log.Sync() }()

	userPrefs := prefs.Load(opts.PrefsPath)

	health := &state.Store{}
	StartPoller(ctx, health, d.client, defaultPollInterval, d.log)

	d.log.Info("narrator starting",
		zap.String("base_url", d.client.BaseURL()),
		zap.Stringer("facing", d.facing),
		zap.String("theme", userPrefs.Theme),
	)

	err = ui.Run(ui.Options{
		Context:   ctx,
		Camera:    d.camera,
		Captioner: d.captioner,
		Speaker:   d.speaker,
		Health:    health,
		Logger:    d.log,
		BaseURL:   d.client.BaseURL(),
		LogPath:   d.cfg.LogFile,
		Facing:    d.facing,
		ThemeName: userPrefs.Theme,
		ShowLogs:  userPrefs.ShowLogs,
		PrefsPath: opts.PrefsPath,
	})
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Once runs the capture, caption and speak flow without a UI and writes the
// caption to out.
func Once(ctx context.Context, opts Options, out io.Writer) error {
	d, err := build(opts)
	if err != nil {
		return err
	}
	defer func() { _ = d.log.Sync() }()
	return once(ctx, d, out)
}

func once(ctx context.Context, d deps, out io.Writer) error {
	log := d.log.Named("once")
	store := session.NewStore(session.New(d.facing))

	if perm := d.camera.Permission(ctx); perm != camera.PermissionGranted {
		if perm = d.camera.RequestPermission(ctx); perm == camera.PermissionDenied {
			store.Apply(func(s *session.Session) { s.PermissionDenied(camera.ErrPermissionDenied) })
			log.Warn("camera permission denied")
			return failure(store.Snapshot())
		}
	}

	start := time.Now()
	photo, err := d.camera.Capture(ctx, d.facing)
	if err != nil {
		log.Warn("capture failed", zap.Error(err))
		store.Apply(func(s *session.Session) {
			if errors.Is(err, camera.ErrPermissionDenied) {
				s.PermissionDenied(err)
				return
			}
			_ = s.CaptureFailed(err)
		})
		return failure(store.Snapshot())
	}
	log.Info("photo captured",
		zap.Stringer("photo", photo.ID),
		zap.Stringer("facing", photo.Facing),
		zap.Int("bytes", photo.Size()),
		zap.Duration("duration", time.Since(start)),
	)

	var upload session.Photo
	var ok bool
	store.Apply(func(s *session.Session) {
		_ = s.CaptureSucceeded(photo)
		upload, ok = s.BeginSubmit()
	})
	if !ok {
		return fmt.Errorf("submit photo: nothing to submit")
	}

	start = time.Now()
	text, err := d.captioner.Caption(ctx, caption.Upload{
		Data:        upload.Data,
		Filename:    caption.DefaultFilename,
		ContentType: caption.DefaultContentType,
	})
	if err != nil {
		log.Warn("caption upload failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		store.Apply(func(s *session.Session) { s.SubmitFailed(err) })
		return failure(store.Snapshot())
	}
	store.Apply(func(s *session.Session) { s.SubmitSucceeded(text) })
	log.Info("caption received", zap.Int("chars", len(text)), zap.Duration("duration", time.Since(start)))

	snap := store.Snapshot()
	if _, err := fmt.Fprintln(out, snap.Caption); err != nil {
		return fmt.Errorf("write caption: %w", err)
	}

	spoken := snap.Speakable()
	if spoken == "" {
		return nil
	}
	if err := d.speaker.Speak(spoken); err != nil {
		log.Warn("speech failed", zap.Error(err))
		return nil
	}
	if w, ok := d.speaker.(speech.Waiter); ok {
		waitOrCancel(ctx, w)
	}
	return nil
}

func failure(s session.Session) error {
	return &FailureError{Message: s.ErrText, Cause: s.Err}
}

// waitOrCancel blocks until playback ends or ctx is done.
func waitOrCancel(ctx context.Context, w speech.Waiter) {
	done := make(chan struct{})
	go func() {
		w.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

// build loads configuration and constructs every collaborator.
func build(opts Options) (deps, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return deps{}, fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(opts.BaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(opts.Facing); v != "" {
		cfg.Camera.Facing = v
	}
	if opts.NoSpeech {
		cfg.Speech.Enabled = false
	}

	facing, err := session.ParseFacing(cfg.Camera.Facing)
	if err != nil {
		return deps{}, fmt.Errorf("camera facing: %w", err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return deps{}, fmt.Errorf("init logging: %w", err)
	}

	client, err := caption.NewClient(cfg.BaseURL, caption.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		return deps{}, fmt.Errorf("init caption client: %w", err)
	}

	var cam camera.Camera
	if path := strings.TrimSpace(opts.ImagePath); path != "" {
		cam = &camera.FileCamera{Path: path}
	} else {
		cam = camera.New(camera.Options{
			Command:     cfg.Camera.Command,
			FrontDevice: cfg.Camera.FrontDevice,
			BackDevice:  cfg.Camera.BackDevice,
			Logger:      log,
		})
	}

	speaker := speech.New(cfg.Speech.Enabled, speech.Options{
		Command: cfg.Speech.Command,
		Voice:   cfg.Speech.Voice,
		Locale:  cfg.Locale,
		Logger:  log,
	})

	return deps{
		cfg:       cfg,
		log:       log,
		facing:    facing,
		client:    client,
		camera:    cam,
		captioner: client,
		speaker:   speaker,
	}, nil
}
