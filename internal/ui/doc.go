// Package ui provides the Bubble Tea terminal interface for SugarScan.
//
// # Screen
//
// There is a single screen: a header bar, the barcode field with its hint
// line, an optional notice, a scrollable result area and a footer listing the
// main keys. Before the first scan the result area shows three feature cards;
// afterwards it shows the report cards built by RenderReport.
//
// Two overlays replace the screen while open: the camera scanner and the key
// help. Both implement Modal.
//
// # Event Flow
//
//  1. Keys and command results arrive in Model.Update.
//  2. Each one maps to a state.Page transition (SetValue, Submit, Resolve,
//     OpenScanner, CloseScanner, ScannerFailed, Decoded).
//  3. Blocking work runs in tea.Cmd functions: the webhook request, opening
//     the camera and waiting for the next decoder event.
//  4. Their results come back as messages tagged with the request token or
//     the scanner session id, so late messages from an older request or a
//     closed session are dropped.
//
// # Camera Sessions
//
// Every ctrl+s creates a new decoder.Scanner through Options.NewScanner. The
// model closes it when the overlay is dismissed, when a barcode is decoded,
// when the camera fails and when the program quits.
//
// # Key Bindings
//
//   - enter: Analyze the typed barcode
//   - ctrl+s: Scan with the camera
//   - esc: Close the camera overlay
//   - up/down, pgup/pgdown: Scroll results
//   - ctrl+t: Cycle theme (saved to prefs)
//   - f1: Toggle help
//   - ctrl+c: Quit
package ui
