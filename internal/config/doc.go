// Package config loads SugarScan's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/sugarscan/config.toml
//  3. If the file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing or blank, use defaults per field
//
// # TOML Format
//
//	webhook_url = "https://workflowly.online/webhook/sugarscan"
//	request_timeout = "20s"
//	log_file = "~/.local/state/sugarscan/sugarscan.log"
//
//	[camera]
//	device = ""              # empty picks a device, preferring the rear camera
//	facing = "environment"   # or "user"
//	ffmpeg = "ffmpeg"
//	fps = 10
//	width = 640
//	height = 480
//	open_timeout = "5s"
//
// Durations use time.ParseDuration syntax and must be positive. Frame rate and
// frame dimensions are clamped to sane maximums.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, TOML syntax errors and invalid values. A missing file is not
// an error so the client works without any setup.
package config
