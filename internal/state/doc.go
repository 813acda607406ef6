// Package state holds the page model for the SugarScan screen.
//
// # Overview
//
// Page is a plain value. Every user or system event has one transition
// method that returns the next Page, so the UI's Update loop is the only
// writer and no locking is needed:
//
//	SetValue        typing in the barcode field
//	Submit          enter, or the tail of Decoded
//	Succeed / Fail  the analysis result arrived
//	OpenScanner     ctrl+s
//	CloseScanner    esc in the overlay
//	ScannerFailed   the camera could not be opened or stopped
//	Decoded         the camera recognized a barcode
//
// # Submission Gate
//
// Submit is the only way a request is started. It refuses when the trimmed
// barcode is empty (ErrEmptyInput), while a request is outstanding
// (ErrRequestInFlight) and while the scanner overlay is open
// (ErrScannerOpen). OpenScanner likewise refuses while loading.
//
// # Request Tokens
//
// Each submission carries a token chosen by the caller. Succeed and Fail only
// apply when their token matches the outstanding one; anything else is a
// stale response and leaves the page untouched:
//
//	page, req, _ := page.Submit(uuid.NewString())
//	// ... later, in Update:
//	page, applied := page.Resolve(msg.Token, msg.Result)
//
// # Scanner Overlay
//
// OpenScanner remembers the barcode. CloseScanner and ScannerFailed restore
// it, so cancelling a scan never leaves partial input behind. Decoded
// replaces it with the recognized text and submits.
package state
