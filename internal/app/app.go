package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/five82/sugarscan/internal/config"
	"github.com/five82/sugarscan/internal/decoder"
	"github.com/five82/sugarscan/internal/prefs"
	"github.com/five82/sugarscan/internal/report"
	"github.com/five82/sugarscan/internal/sugarscan"
	"github.com/five82/sugarscan/internal/ui"
)

// Options configure the SugarScan application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/sugarscan/prefs.toml
	WebhookURL string // overrides webhook_url from the config file

	// Once analyzes Barcode, prints the report and returns instead of
	// starting the TUI. A non-empty Barcode implies Once.
	Once    bool
	Barcode string
	// Stdout receives the one-shot report; nil uses os.Stdout.
	Stdout io.Writer
}

// ErrAnalysisFailed is returned by RunOnce when the webhook answered with an
// error result or could not be reached.
var ErrAnalysisFailed = errors.New("analysis failed")

const onceReportWidth = 80

var newToken = uuid.NewString

// Run boots SugarScan until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if url := strings.TrimSpace(opts.WebhookURL); url != "" {
		cfg.WebhookURL = url
	}

	logFile, err := setupLogging(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	userPrefs := prefs.Load(opts.PrefsPath)

	client, err := sugarscan.NewClient(cfg.WebhookURL, cfg.RequestTimeout)
	if err != nil {
		return fmt.Errorf("init webhook client: %w", err)
	}

	if opts.Once || opts.Barcode != "" {
		out := opts.Stdout
		if out == nil {
			out = os.Stdout
		}
		return RunOnce(ctx, client, opts.Barcode, ui.GetTheme(userPrefs.Theme), out)
	}

	log.Printf("sugarscan starting: webhook %s, camera fps %d", client.Endpoint(), cfg.Camera.FPS)

	uiOpts := ui.Options{
		Context:    ctx,
		Analyzer:   client,
		NewScanner: scannerFactory(cfg.Camera),
		ScanFPS:    cfg.Camera.FPS,
		Endpoint:   client.Endpoint(),
		ThemeName:  userPrefs.Theme,
		PrefsPath:  opts.PrefsPath,
	}
	return ui.Run(uiOpts)
}

// RunOnce submits a single barcode and writes the rendered report to out.
func RunOnce(ctx context.Context, analyzer sugarscan.Analyzer, barcode string, theme ui.Theme, out io.Writer) error {
	trimmed := strings.TrimSpace(barcode)
	if trimmed == "" {
		return sugarscan.ErrEmptyBarcode
	}

	res := analyzer.Analyze(ctx, sugarscan.Request{Barcode: trimmed, Token: newToken()})
	if _, err := fmt.Fprintln(out, ui.RenderReport(theme, report.Build(res), onceReportWidth)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if res.IsError() {
		return fmt.Errorf("%w: %s", ErrAnalysisFailed, res.Err.Message)
	}
	return nil
}

// scannerFactory builds a fresh camera session for every scanner overlay.
func scannerFactory(cam config.Camera) func() decoder.Scanner {
	interval := time.Second / 10
	if cam.FPS > 0 {
		interval = time.Second / time.Duration(cam.FPS)
	}
	return func() decoder.Scanner {
		return decoder.NewSession(
			decoder.NewFFmpegCamera(cam),
			decoder.NewZXingRecognizer(),
			decoder.Options{Interval: interval, OpenTimeout: cam.OpenTimeout},
		)
	}
}

// setupLogging sends the standard logger to path. The terminal belongs to the
// TUI, so nothing is logged to stderr.
func setupLogging(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return tea.LogToFile(path, "sugarscan")
}
