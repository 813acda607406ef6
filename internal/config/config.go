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
)

// Config captures everything SugarScan reads from config.toml.
type Config struct {
	WebhookURL     string
	RequestTimeout time.Duration
	LogFile        string
	Camera         Camera
}

// Camera configures the ffmpeg-backed camera used by the scanner overlay.
type Camera struct {
	Device      string // empty selects a device automatically
	Facing      string // "environment" or "user"
	FFmpeg      string
	FPS         int
	Width       int
	Height      int
	OpenTimeout time.Duration
}

const (
	defaultConfigPath     = "~/.config/sugarscan/config.toml"
	defaultWebhookURL     = "https://workflowly.online/webhook/sugarscan"
	defaultRequestTimeout = 20 * time.Second
	defaultLogFile        = "~/.local/state/sugarscan/sugarscan.log"

	defaultFacing          = "environment"
	defaultFFmpeg          = "ffmpeg"
	defaultFPS             = 10
	defaultWidth           = 640
	defaultHeight          = 480
	defaultOpenTimeout     = 5 * time.Second
	maxFPS                 = 30
	maxFrameDimensionPixel = 1920
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		WebhookURL:     defaultWebhookURL,
		RequestTimeout: defaultRequestTimeout,
		LogFile:        mustExpand(defaultLogFile),
		Camera: Camera{
			Facing:      defaultFacing,
			FFmpeg:      defaultFFmpeg,
			FPS:         defaultFPS,
			Width:       defaultWidth,
			Height:      defaultHeight,
			OpenTimeout: defaultOpenTimeout,
		},
	}
}

// Load locates and parses the config file, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		WebhookURL     string `toml:"webhook_url"`
		RequestTimeout string `toml:"request_timeout"`
		LogFile        string `toml:"log_file"`
		Camera         struct {
			Device      string `toml:"device"`
			Facing      string `toml:"facing"`
			FFmpeg      string `toml:"ffmpeg"`
			FPS         int    `toml:"fps"`
			Width       int    `toml:"width"`
			Height      int    `toml:"height"`
			OpenTimeout string `toml:"open_timeout"`
		} `toml:"camera"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if url := strings.TrimSpace(raw.WebhookURL); url != "" {
		cfg.WebhookURL = url
	}
	if cfg.RequestTimeout, err = parseDuration(raw.RequestTimeout, defaultRequestTimeout); err != nil {
		return Config{}, fmt.Errorf("parse request_timeout: %w", err)
	}
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}

	cam := raw.Camera
	if device := strings.TrimSpace(cam.Device); device != "" {
		cfg.Camera.Device = device
	}
	switch facing := strings.ToLower(strings.TrimSpace(cam.Facing)); facing {
	case "":
	case "environment", "user":
		cfg.Camera.Facing = facing
	default:
		return Config{}, fmt.Errorf("camera.facing %q: want environment or user", cam.Facing)
	}
	if ffmpeg := strings.TrimSpace(cam.FFmpeg); ffmpeg != "" {
		cfg.Camera.FFmpeg = ffmpeg
	}
	if cam.FPS > 0 {
		cfg.Camera.FPS = min(cam.FPS, maxFPS)
	}
	if cam.Width > 0 {
		cfg.Camera.Width = min(cam.Width, maxFrameDimensionPixel)
	}
	if cam.Height > 0 {
		cfg.Camera.Height = min(cam.Height, maxFrameDimensionPixel)
	}
	if cfg.Camera.OpenTimeout, err = parseDuration(cam.OpenTimeout, defaultOpenTimeout); err != nil {
		return Config{}, fmt.Errorf("parse camera.open_timeout: %w", err)
	}

	return cfg, nil
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration %q must be positive", trimmed)
	}
	return d, nil
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

// ExpandPath resolves a leading tilde and returns an absolute path.
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
