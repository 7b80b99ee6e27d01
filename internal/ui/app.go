package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/five82/narrator/internal/camera"
	"github.com/five82/narrator/internal/caption"
	"github.com/five82/narrator/internal/logtail"
	"github.com/five82/narrator/internal/prefs"
	"github.com/five82/narrator/internal/session"
	"github.com/five82/narrator/internal/speech"
	"github.com/five82/narrator/internal/state"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Camera    camera.Camera
	Captioner caption.Captioner
	Speaker   speech.Speaker
	Health    *state.Store // optional; nil hides the service indicator
	Logger    *zap.Logger
	BaseURL   string
	LogPath   string
	Facing    session.Facing
	ThemeName string
	ShowLogs  bool
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Collaborators
	ctx       context.Context
	camera    camera.Camera
	captioner caption.Captioner
	speaker   speech.Speaker
	health    *state.Store
	log       *zap.Logger
	baseURL   string
	logPath   string
	prefsPath string

	// UI state
	keys     keyMap
	theme    Theme
	logo     string
	width    int
	height   int
	ready    bool
	showHelp bool
	modal    Modal
	spinner  spinner.Model

	// Screen state
	session    session.Session
	permission camera.Permission
	capturing  bool
	preview    photoInfo
	service    state.Snapshot

	// Log pane
	showLogs    bool
	logTicking  bool
	logFollow   bool
	logEntries  []logtail.Entry
	logErr      error
	logViewport viewport.Model
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	speaker := opts.Speaker
	if speaker == nil {
		speaker = speech.NewNoOp(log)
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Defaults().Theme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	theme := GetTheme(themeName)
	spin := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Warning))),
	)

	return Model{
		ctx:         ctx,
		camera:      opts.Camera,
		captioner:   opts.Captioner,
		speaker:     speaker,
		health:      opts.Health,
		log:         log.Named("ui"),
		baseURL:     opts.BaseURL,
		logPath:     opts.LogPath,
		prefsPath:   prefsPath,
		keys:        DefaultKeyMap(),
		theme:       theme,
		logo:        createLogo(),
		spinner:     spin,
		session:     session.New(opts.Facing),
		permission:  camera.PermissionUndetermined,
		showLogs:    opts.ShowLogs,
		logTicking:  opts.ShowLogs,
		logFollow:   true,
		logViewport: viewport.New(0, LogPaneHeight),
	}
}

// Session returns the current screen state.
func (m Model) Session() session.Session {
	return m.session
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		checkPermissionCmd(m.ctx, m.camera),
	}
	if m.health != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.health), tickCmd(DefaultUIInterval))
	}
	if m.showLogs {
		cmds = append(cmds, readLogsCmd(m.logPath), logTickCmd(LogRefreshInterval))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logViewport.Width = maxInt(msg.Width-4, 10)
		m.logViewport.Height = LogPaneHeight
		m.ready = true
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		if m.health == nil {
			return m, nil
		}
		return m, tea.Batch(fetchSnapshotCmd(m.health), tickCmd(DefaultUIInterval))

	case snapshotMsg:
		m.service = state.Snapshot(msg)
		return m, nil

	case grantRequestedMsg:
		return m, requestPermissionCmd(m.ctx, m.camera)

	case permissionMsg:
		return m.handlePermission(msg)

	case photoMsg:
		m.capturing = false
		if err := m.session.CaptureSucceeded(msg.photo); err != nil {
			m.log.Info("discarding photo captured during submission",
				zap.Stringer("photo", msg.photo.ID))
			return m, nil
		}
		m.preview = describePhoto(msg.photo)
		m.log.Info("photo captured",
			zap.Stringer("photo", msg.photo.ID),
			zap.Stringer("facing", msg.photo.Facing),
			zap.Int("bytes", msg.photo.Size()),
		)
		return m, nil

	case captureErrMsg:
		m.capturing = false
		return m.handleCaptureError(msg.err)

	case captionMsg:
		if !m.session.Loading() {
			return m, nil
		}
		m.session.SubmitSucceeded(msg.caption)
		m.log.Info("caption received",
			zap.Stringer("photo", msg.photoID),
			zap.Int("chars", len(msg.caption)),
		)
		return m, speakCmd(m.speaker, m.session.Speakable())

	case captionErrMsg:
		if !m.session.Loading() {
			return m, nil
		}
		m.session.SubmitFailed(msg.err)
		m.log.Warn("caption upload failed",
			zap.Stringer("photo", msg.photoID),
			zap.Error(msg.err),
		)
		return m, nil

	case speakErrMsg:
		m.log.Warn("speech failed", zap.Error(msg.err))
		return m, nil

	case spinner.TickMsg:
		if !m.session.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case logTickMsg:
		if !m.showLogs {
			m.logTicking = false
			return m, nil
		}
		return m, tea.Batch(readLogsCmd(m.logPath), logTickCmd(LogRefreshInterval))

	case logsMsg:
		m.logEntries = msg.entries
		m.logErr = msg.err
		m.updateLogViewport()
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Any key closes help
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		next, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = next
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Warning))
		m.savePrefs()
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.ToggleLogs):
		m.showLogs = !m.showLogs
		m.savePrefs()
		if !m.showLogs || m.logTicking {
			return m, nil
		}
		m.logTicking = true
		return m, tea.Batch(readLogsCmd(m.logPath), logTickCmd(LogRefreshInterval))

	case key.Matches(msg, m.keys.Grant):
		if m.permission != camera.PermissionGranted {
			m.modal = permissionModal{}
		}
		return m, nil

	case key.Matches(msg, m.keys.Rotate):
		if m.permission != camera.PermissionGranted {
			return m, nil
		}
		m.session.ToggleFacing()
		m.log.Debug("camera rotated", zap.Stringer("facing", m.session.Facing))
		return m, nil

	case key.Matches(msg, m.keys.Capture):
		return m.capture()

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.SpeakAgain):
		if m.permission != camera.PermissionGranted {
			return m, nil
		}
		return m, speakCmd(m.speaker, m.session.Speakable())
	}

	if m.showLogs {
		return m.handleLogKey(msg)
	}
	return m, nil
}

// capture starts a capture from the active camera.
func (m Model) capture() (tea.Model, tea.Cmd) {
	if m.permission != camera.PermissionGranted || m.camera == nil {
		return m, nil
	}
	if m.capturing || m.session.Loading() {
		return m, nil
	}
	m.capturing = true
	return m, captureCmd(m.ctx, m.camera, m.session.Facing)
}

// submit uploads the current photo. Without camera permission, without a
// photo, or while a request is already running, it does nothing.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.permission != camera.PermissionGranted || m.captioner == nil {
		return m, nil
	}
	photo, ok := m.session.BeginSubmit()
	if !ok {
		return m, nil
	}
	m.log.Info("submitting photo",
		zap.Stringer("photo", photo.ID),
		zap.Int("bytes", photo.Size()),
	)
	return m, tea.Batch(submitCmd(m.ctx, m.captioner, photo), m.spinner.Tick)
}

func (m Model) handlePermission(msg permissionMsg) (tea.Model, tea.Cmd) {
	m.permission = msg.permission
	m.log.Debug("camera permission",
		zap.Stringer("permission", msg.permission),
		zap.Bool("requested", msg.requested),
	)
	if msg.permission == camera.PermissionGranted {
		m.modal = nil
		m.session.PermissionGranted()
		return m, nil
	}
	if msg.permission == camera.PermissionDenied {
		m.session.PermissionDenied(camera.ErrPermissionDenied)
	}
	m.modal = permissionModal{}
	return m, nil
}

func (m Model) handleCaptureError(err error) (tea.Model, tea.Cmd) {
	if errors.Is(err, camera.ErrPermissionDenied) {
		m.log.Warn("camera permission lost", zap.Error(err))
		m.permission = camera.PermissionDenied
		m.session.PermissionDenied(err)
		m.modal = permissionModal{}
		return m, nil
	}
	if cerr := m.session.CaptureFailed(err); cerr != nil {
		m.log.Info("ignoring capture failure during submission", zap.Error(err))
		return m, nil
	}
	m.log.Warn("capture failed", zap.Error(err))
	return m, nil
}

func (m Model) savePrefs() {
	p := prefs.Prefs{Theme: m.theme.Name, ShowLogs: m.showLogs}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.Warn("save preferences failed", zap.Error(err))
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type permissionMsg struct {
	permission camera.Permission
	requested  bool
}

type photoMsg struct {
	photo session.Photo
}

type captureErrMsg struct {
	err error
}

type captionMsg struct {
	photoID uuid.UUID
	caption string
}

type captionErrMsg struct {
	photoID uuid.UUID
	err     error
}

type speakErrMsg struct {
	err error
}

type logTickMsg time.Time

type logsMsg struct {
	entries []logtail.Entry
	err     error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func checkPermissionCmd(ctx context.Context, cam camera.Camera) tea.Cmd {
	if cam == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, PermissionTimeout)
		defer cancel()
		return permissionMsg{permission: cam.Permission(ctx)}
	}
}

func requestPermissionCmd(ctx context.Context, cam camera.Camera) tea.Cmd {
	if cam == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, PermissionTimeout)
		defer cancel()
		return permissionMsg{permission: cam.RequestPermission(ctx), requested: true}
	}
}

func captureCmd(ctx context.Context, cam camera.Camera, facing session.Facing) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, CaptureTimeout)
		defer cancel()
		photo, err := cam.Capture(ctx, facing)
		if err != nil {
			return captureErrMsg{err: err}
		}
		return photoMsg{photo: photo}
	}
}

func submitCmd(ctx context.Context, c caption.Captioner, photo session.Photo) tea.Cmd {
	return func() tea.Msg {
		text, err := c.Caption(ctx, caption.Upload{
			Data:        photo.Data,
			Filename:    caption.DefaultFilename,
			ContentType: caption.DefaultContentType,
		})
		if err != nil {
			return captionErrMsg{photoID: photo.ID, err: err}
		}
		return captionMsg{photoID: photo.ID, caption: text}
	}
}

// speakCmd hands text to the speaker. Blank text produces no command.
func speakCmd(s speech.Speaker, text string) tea.Cmd {
	if s == nil || text == "" {
		return nil
	}
	return func() tea.Msg {
		if err := s.Speak(text); err != nil {
			return speakErrMsg{err: err}
		}
		return nil
	}
}

func logTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return logTickMsg(t)
	})
}

func readLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return logsMsg{}
		}
		entries, err := logtail.ReadEntries(path, LogTailLimit)
		return logsMsg{entries: entries, err: err}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, programOpts...)
	_, err := p.Run()
	return err
}
