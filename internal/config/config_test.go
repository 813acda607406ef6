package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.WebhookURL != defaultWebhookURL {
		t.Fatalf("WebhookURL = %q, want %q", cfg.WebhookURL, defaultWebhookURL)
	}
	if cfg.RequestTimeout != defaultRequestTimeout {
		t.Fatalf("RequestTimeout = %v, want %v", cfg.RequestTimeout, defaultRequestTimeout)
	}

	wantLog, err := ExpandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("ExpandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
	if cfg.Camera.FPS != defaultFPS || cfg.Camera.Facing != defaultFacing || cfg.Camera.Device != "" {
		t.Fatalf("Camera = %#v, want defaults", cfg.Camera)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
webhook_url = "  http://127.0.0.1:8787/webhook/sugarscan  "
request_timeout = "3s"
log_file = " ~/logs/scan.log "

[camera]
device = " /dev/video2 "
facing = "USER"
fps = 120
width = 320
height = 240
open_timeout = "750ms"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.WebhookURL != "http://127.0.0.1:8787/webhook/sugarscan" {
		t.Fatalf("WebhookURL = %q", cfg.WebhookURL)
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("RequestTimeout = %v, want 3s", cfg.RequestTimeout)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	cam := cfg.Camera
	if cam.Device != "/dev/video2" || cam.Facing != "user" {
		t.Fatalf("Camera device/facing = %q/%q", cam.Device, cam.Facing)
	}
	if cam.FPS != maxFPS {
		t.Fatalf("FPS = %d, want clamped to %d", cam.FPS, maxFPS)
	}
	if cam.Width != 320 || cam.Height != 240 {
		t.Fatalf("frame size = %dx%d, want 320x240", cam.Width, cam.Height)
	}
	if cam.OpenTimeout != 750*time.Millisecond {
		t.Fatalf("OpenTimeout = %v, want 750ms", cam.OpenTimeout)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
webhook_url = "   "
request_timeout = ""

[camera]
ffmpeg = ""
fps = 0
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.WebhookURL != defaultWebhookURL {
		t.Fatalf("WebhookURL = %q, want %q", cfg.WebhookURL, defaultWebhookURL)
	}
	if cfg.Camera.FFmpeg != defaultFFmpeg || cfg.Camera.FPS != defaultFPS {
		t.Fatalf("Camera = %#v, want defaults", cfg.Camera)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"invalid toml", `webhook_url = [`, "parse config"},
		{"bad timeout", `request_timeout = "soon"`, "request_timeout"},
		{"negative timeout", `request_timeout = "-1s"`, "request_timeout"},
		{"bad facing", "[camera]\nfacing = \"sideways\"", "camera.facing"},
		{"bad open timeout", "[camera]\nopen_timeout = \"x\"", "open_timeout"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o600); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatalf("Load returned nil error, want error mentioning %q", tc.want)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Load error = %q, want it to mention %q", err.Error(), tc.want)
			}
		})
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/a/b")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("ExpandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := ExpandPath("   "); err == nil {
		t.Fatalf("ExpandPath returned nil error, want error")
	}
}
