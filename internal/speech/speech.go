package speech

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Speaker reads text aloud without waiting for playback to finish.
type Speaker interface {
	Speak(text string) error
}

// Waiter is implemented by speakers that can block until playback ends.
type Waiter interface {
	Wait()
}

// DefaultLocale is the locale captions are spoken in.
const DefaultLocale = "en-US"

// ErrNoTool is returned when no text-to-speech program is available.
var ErrNoTool = errors.New("no text-to-speech tool found")

// Options configure a CommandSpeaker.
type Options struct {
	Command string // empty picks the platform tool
	Voice   string
	Locale  string
	Logger  *zap.Logger
}

// CommandSpeaker plays text through the platform's speech tool. Each call
// starts a new process; earlier utterances keep playing.
type CommandSpeaker struct {
	command string
	voice   string
	locale  string
	log     *zap.Logger
	wg      sync.WaitGroup
}

var (
	_ Speaker = (*CommandSpeaker)(nil)
	_ Waiter  = (*CommandSpeaker)(nil)
)

// NewCommandSpeaker resolves the speech tool on PATH.
func NewCommandSpeaker(opts Options) (*CommandSpeaker, error) {
	command := strings.TrimSpace(opts.Command)
	if command == "" {
		command = defaultCommand()
	}
	if command == "" {
		return nil, ErrNoTool
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNoTool, command, err)
	}
	locale := strings.TrimSpace(opts.Locale)
	if locale == "" {
		locale = DefaultLocale
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &CommandSpeaker{
		command: path,
		voice:   strings.TrimSpace(opts.Voice),
		locale:  locale,
		log:     log.Named("speech"),
	}, nil
}

// Locale returns the configured locale.
func (s *CommandSpeaker) Locale() string {
	return s.locale
}

// Speak starts playback and returns once the tool is running. Blank text is
// ignored.
func (s *CommandSpeaker) Speak(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var stderr bytes.Buffer
	cmd := exec.Command(s.command, speakArgs(s.command, s.voice, s.locale, text)...)
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start speech: %w", err)
	}
	s.log.Debug("speaking", zap.String("locale", s.locale), zap.Int("chars", len(text)))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := cmd.Wait(); err != nil {
			s.log.Warn("speech playback failed",
				zap.Error(err),
				zap.String("stderr", strings.TrimSpace(stderr.String())),
			)
		}
	}()
	return nil
}

// Wait blocks until every started utterance has finished.
func (s *CommandSpeaker) Wait() {
	s.wg.Wait()
}

// NoOp is a speaker that only logs. Used when speech is disabled.
type NoOp struct {
	log *zap.Logger
}

// Compile-time interface check.
var _ Speaker = (*NoOp)(nil)

// NewNoOp creates a no-op speaker.
func NewNoOp(log *zap.Logger) *NoOp {
	if log == nil {
		log = zap.NewNop()
	}
	return &NoOp{log: log.Named("speech")}
}

// Speak does nothing.
func (n *NoOp) Speak(text string) error {
	if strings.TrimSpace(text) != "" {
		n.log.Debug("speech disabled, skipping", zap.String("text", text))
	}
	return nil
}

// New returns a CommandSpeaker, or a NoOp when speech is disabled or no tool
// is installed.
func New(enabled bool, opts Options) Speaker {
	if !enabled {
		return NewNoOp(opts.Logger)
	}
	s, err := NewCommandSpeaker(opts)
	if err != nil {
		if opts.Logger != nil {
			opts.Logger.Warn("speech unavailable, captions will not be read aloud", zap.Error(err))
		}
		return NewNoOp(opts.Logger)
	}
	return s
}
