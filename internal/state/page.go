package state

import (
	"errors"
	"strings"
	"time"

	"github.com/five82/sugarscan/internal/sugarscan"
)

var (
	// ErrEmptyInput is returned by Submit when the trimmed barcode is blank.
	ErrEmptyInput = errors.New("barcode is empty")
	// ErrRequestInFlight is returned while an analysis is outstanding.
	ErrRequestInFlight = errors.New("analysis already in progress")
	// ErrScannerOpen is returned for actions not allowed while the camera
	// overlay is up.
	ErrScannerOpen = errors.New("scanner is open")
	// ErrScannerClosed is returned by Decoded when no scanner is open.
	ErrScannerClosed = errors.New("scanner is not open")
)

// Page is everything the single screen shows. Transitions return a new Page;
// the zero value is the initial empty page.
type Page struct {
	Barcode string

	// Loading is set from Submit until the matching Succeed or Fail.
	Loading bool
	// Token identifies the outstanding request. Responses carrying any other
	// token are stale.
	Token string

	Result *sugarscan.Result
	// ResultBarcode is the barcode Result was produced for.
	ResultBarcode string
	ResultAt      time.Time

	ScannerOpen bool
	// Notice is a one-line message such as a camera failure. Cleared by the
	// next submit or scanner open.
	Notice string

	preScanBarcode string
}

// CanSubmit reports whether Submit would start a request.
func (p Page) CanSubmit() bool {
	return !p.Loading && !p.ScannerOpen && strings.TrimSpace(p.Barcode) != ""
}

// SetValue replaces the barcode text.
func (p Page) SetValue(text string) Page {
	p.Barcode = text
	return p
}

// Submit starts an analysis of the current barcode under token. The result
// is cleared while the request is outstanding.
func (p Page) Submit(token string) (Page, sugarscan.Request, error) {
	switch {
	case p.ScannerOpen:
		return p, sugarscan.Request{}, ErrScannerOpen
	case p.Loading:
		return p, sugarscan.Request{}, ErrRequestInFlight
	}
	barcode := strings.TrimSpace(p.Barcode)
	if barcode == "" {
		return p, sugarscan.Request{}, ErrEmptyInput
	}
	p.Loading = true
	p.Token = token
	p.Result = nil
	p.ResultBarcode = barcode
	p.ResultAt = time.Time{}
	p.Notice = ""
	return p, sugarscan.Request{Barcode: barcode, Token: token}, nil
}

// Succeed applies a product result. The bool is false when token is stale and
// the page is unchanged.
func (p Page) Succeed(token string, res sugarscan.Result) (Page, bool) {
	return p.settle(token, res)
}

// Fail applies an error result. The bool is false when token is stale.
func (p Page) Fail(token string, scanErr *sugarscan.ScanError) (Page, bool) {
	if scanErr == nil {
		scanErr = sugarscan.TransportError().Err
	}
	return p.settle(token, sugarscan.Result{Err: scanErr})
}

// Resolve routes res to Succeed or Fail.
func (p Page) Resolve(token string, res sugarscan.Result) (Page, bool) {
	if res.IsError() {
		return p.Fail(token, res.Err)
	}
	return p.Succeed(token, res)
}

func (p Page) settle(token string, res sugarscan.Result) (Page, bool) {
	if !p.Loading || token == "" || token != p.Token {
		return p, false
	}
	p.Loading = false
	p.Token = ""
	p.Result = &res
	p.ResultAt = time.Now()
	return p, true
}

// OpenScanner shows the camera overlay. The current barcode is remembered so
// CloseScanner can restore it.
func (p Page) OpenScanner() (Page, error) {
	switch {
	case p.ScannerOpen:
		return p, ErrScannerOpen
	case p.Loading:
		return p, ErrRequestInFlight
	}
	p.ScannerOpen = true
	p.preScanBarcode = p.Barcode
	p.Notice = ""
	return p, nil
}

// CloseScanner hides the overlay without a decode and restores the barcode
// from before it opened.
func (p Page) CloseScanner() Page {
	if !p.ScannerOpen {
		return p
	}
	p.ScannerOpen = false
	p.Barcode = p.preScanBarcode
	p.preScanBarcode = ""
	return p
}

// ScannerFailed closes the overlay and shows notice.
func (p Page) ScannerFailed(notice string) Page {
	p = p.CloseScanner()
	p.Notice = notice
	return p
}

// Decoded closes the overlay, takes text as the barcode and submits it under
// token.
func (p Page) Decoded(text, token string) (Page, sugarscan.Request, error) {
	if !p.ScannerOpen {
		return p, sugarscan.Request{}, ErrScannerClosed
	}
	p.ScannerOpen = false
	p.preScanBarcode = ""
	p.Barcode = text
	return p.Submit(token)
}
