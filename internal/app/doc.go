// Package app is the composition root for SugarScan.
//
// # Overview
//
// Run loads configuration, redirects the standard logger to a file, builds
// the webhook client and the camera session factory, and hands everything to
// the ui package. The terminal belongs to Bubble Tea, so log output never goes
// to stdout or stderr while the TUI is up.
//
// # Startup
//
//  1. Load ~/.config/sugarscan/config.toml (or the -config path); missing files use defaults
//  2. Apply the -webhook override
//  3. Open the log file with tea.LogToFile
//  4. Load the persisted theme from prefs
//  5. Build sugarscan.Client
//  6. Either run once (-barcode) or start the TUI and block until quit
//
// # Camera Sessions
//
// The UI asks for a new decoder.Session every time the scanner overlay opens.
// Each session owns one ffmpeg process reading the configured device at
// camera.fps and one gozxing reader. Sessions are never reused.
//
// # One-shot Mode
//
// RunOnce posts a single barcode and prints the same cards the TUI shows. It
// returns ErrAnalysisFailed for error results so the command exits non-zero,
// and sugarscan.ErrEmptyBarcode for blank input without contacting the webhook.
//
// # Error Handling
//
// Configuration, log file and client construction failures are returned from
// Run. Everything after startup (webhook errors, camera failures) is shown in
// the UI and logged, never returned.
package app
