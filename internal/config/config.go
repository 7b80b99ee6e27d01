package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/narrator/internal/caption"
)

// Config holds everything narrator reads from config.toml and the environment.
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	Locale         string
	LogFile        string
	LogLevel       string
	Camera         CameraConfig
	Speech         SpeechConfig
}

// CameraConfig selects the capture tool and the device behind each facing.
type CameraConfig struct {
	Command     string
	FrontDevice string
	BackDevice  string
	Facing      string
}

// SpeechConfig selects the text-to-speech tool.
type SpeechConfig struct {
	Enabled bool
	Command string
	Voice   string
}

const (
	defaultConfigPath = "~/.config/narrator/config.toml"
	defaultLogFile    = "~/.local/state/narrator/narrator.log"
	defaultLocale     = "en-US"
	defaultLogLevel   = "info"
	defaultCameraTool = "ffmpeg"
	defaultFacing     = "back"

	envBaseURL  = "NARRATOR_BASE_URL"
	envLogLevel = "NARRATOR_LOG_LEVEL"
)

type rawConfig struct {
	BaseURL        string `toml:"base_url"`
	RequestTimeout string `toml:"request_timeout"`
	Locale         string `toml:"locale"`
	LogFile        string `toml:"log_file"`
	LogLevel       string `toml:"log_level"`
	Camera         struct {
		Command     string `toml:"command"`
		FrontDevice string `toml:"front_device"`
		BackDevice  string `toml:"back_device"`
		Facing      string `toml:"facing"`
	} `toml:"camera"`
	Speech struct {
		Enabled *bool  `toml:"enabled"`
		Command string `toml:"command"`
		Voice   string `toml:"voice"`
	} `toml:"speech"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		BaseURL:  caption.DefaultBaseURL,
		Locale:   defaultLocale,
		LogFile:  mustExpand(defaultLogFile),
		LogLevel: defaultLogLevel,
		Camera: CameraConfig{
			Command: defaultCameraTool,
			Facing:  defaultFacing,
		},
		Speech: SpeechConfig{Enabled: true},
	}
}

// Load locates and parses the narrator config, falling back to defaults when
// missing. Environment overrides are applied last.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.BaseURL = orDefault(raw.BaseURL, caption.DefaultBaseURL)
	cfg.Locale = orDefault(raw.Locale, defaultLocale)
	cfg.LogLevel = strings.ToLower(orDefault(raw.LogLevel, defaultLogLevel))
	cfg.LogFile = mustExpand(orDefault(raw.LogFile, defaultLogFile))

	if timeout := strings.TrimSpace(raw.RequestTimeout); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: request_timeout: %w", err)
		}
		if d < 0 {
			return Config{}, fmt.Errorf("parse config: request_timeout must not be negative")
		}
		cfg.RequestTimeout = d
	}

	cfg.Camera = CameraConfig{
		Command:     orDefault(raw.Camera.Command, defaultCameraTool),
		FrontDevice: strings.TrimSpace(raw.Camera.FrontDevice),
		BackDevice:  strings.TrimSpace(raw.Camera.BackDevice),
		Facing:      strings.ToLower(orDefault(raw.Camera.Facing, defaultFacing)),
	}

	cfg.Speech = SpeechConfig{
		Enabled: true,
		Command: strings.TrimSpace(raw.Speech.Command),
		Voice:   strings.TrimSpace(raw.Speech.Voice),
	}
	if raw.Speech.Enabled != nil {
		cfg.Speech.Enabled = *raw.Speech.Enabled
	}

	applyEnv(&cfg)
	return cfg, nil
}

// DefaultPath returns the config location used when none is given.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(envBaseURL)); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(envLogLevel)); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
}

func orDefault(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
