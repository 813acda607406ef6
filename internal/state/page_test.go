package state

import (
	"errors"
	"testing"

	"github.com/five82/sugarscan/internal/sugarscan"
)

func TestPage_WhitespaceSubmitSendsNothing(t *testing.T) {
	for _, value := range []string{"", "   ", "\t\n"} {
		p := Page{}.SetValue(value)
		next, req, err := p.Submit("tok")
		if !errors.Is(err, ErrEmptyInput) {
			t.Fatalf("Submit(%q) error = %v, want ErrEmptyInput", value, err)
		}
		if req != (sugarscan.Request{}) {
			t.Fatalf("Submit(%q) request = %+v, want none", value, req)
		}
		if next.Loading || next.Result != nil || next.Token != "" {
			t.Fatalf("Submit(%q) changed page: %+v", value, next)
		}
	}
}

func TestPage_SubmitTrimsAndClearsResult(t *testing.T) {
	prev := sugarscan.Result{ProductName: "Old"}
	p := Page{Result: &prev, Notice: "camera busy"}.SetValue("  737628064502 ")

	if !p.CanSubmit() {
		t.Fatal("CanSubmit = false, want true")
	}
	next, req, err := p.Submit("tok-1")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if req.Barcode != "737628064502" || req.Token != "tok-1" {
		t.Fatalf("request = %+v, want trimmed barcode and token", req)
	}
	if !next.Loading || next.Token != "tok-1" || next.Result != nil || next.Notice != "" {
		t.Fatalf("page = %+v, want loading with cleared result", next)
	}
	if next.CanSubmit() {
		t.Fatal("CanSubmit = true while loading")
	}
}

func TestPage_RejectsSubmitWhileInFlight(t *testing.T) {
	p, _, err := Page{}.SetValue("123").Submit("first")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	again, req, err := p.SetValue("456").Submit("second")
	if !errors.Is(err, ErrRequestInFlight) {
		t.Fatalf("second Submit error = %v, want ErrRequestInFlight", err)
	}
	if req != (sugarscan.Request{}) || again.Token != "first" {
		t.Fatalf("second Submit issued %+v, token %q", req, again.Token)
	}
}

func TestPage_StaleTokensAreIgnored(t *testing.T) {
	p, _, err := Page{}.SetValue("123").Submit("current")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	stale, applied := p.Succeed("older", sugarscan.Result{ProductName: "Wrong"})
	if applied || stale.Result != nil || !stale.Loading {
		t.Fatalf("stale Succeed applied: %+v", stale)
	}
	stale, applied = p.Fail("", &sugarscan.ScanError{Kind: sugarscan.ErrorRemote, Message: "x"})
	if applied || stale.Result != nil {
		t.Fatalf("tokenless Fail applied: %+v", stale)
	}

	done, applied := p.Succeed("current", sugarscan.Result{ProductName: "Pad Thai"})
	if !applied {
		t.Fatal("matching Succeed not applied")
	}
	if done.Loading || done.Token != "" || done.Result == nil || done.Result.ProductName != "Pad Thai" {
		t.Fatalf("page = %+v, want settled Pad Thai", done)
	}
	if done.ResultAt.IsZero() || done.ResultBarcode != "123" {
		t.Fatalf("page = %+v, want result metadata", done)
	}

	// A duplicate delivery after settling is stale too.
	if _, applied := done.Succeed("current", sugarscan.Result{ProductName: "Again"}); applied {
		t.Fatal("duplicate response applied after settle")
	}
}

func TestPage_ResolveRoutesErrors(t *testing.T) {
	p, _, _ := Page{}.SetValue("123").Submit("t")

	failed, applied := p.Resolve("t", sugarscan.TransportError())
	if !applied || failed.Result == nil || failed.Result.Err.Kind != sugarscan.ErrorTransport {
		t.Fatalf("Resolve(transport) = %+v, %v", failed, applied)
	}

	nilErr, applied := p.Fail("t", nil)
	if !applied || nilErr.Result.Err == nil || nilErr.Result.Err.Kind != sugarscan.ErrorTransport {
		t.Fatalf("Fail(nil) = %+v, want transport error", nilErr.Result)
	}
}

func TestPage_ScannerGate(t *testing.T) {
	loading, _, _ := Page{}.SetValue("123").Submit("t")
	if _, err := loading.OpenScanner(); !errors.Is(err, ErrRequestInFlight) {
		t.Fatalf("OpenScanner while loading = %v, want ErrRequestInFlight", err)
	}

	open, err := Page{}.SetValue("999").OpenScanner()
	if err != nil {
		t.Fatalf("OpenScanner returned error: %v", err)
	}
	if _, err := open.OpenScanner(); !errors.Is(err, ErrScannerOpen) {
		t.Fatalf("second OpenScanner = %v, want ErrScannerOpen", err)
	}
	if _, _, err := open.Submit("t"); !errors.Is(err, ErrScannerOpen) {
		t.Fatalf("Submit with scanner open = %v, want ErrScannerOpen", err)
	}
	if open.CanSubmit() {
		t.Fatal("CanSubmit = true with scanner open")
	}
}

func TestPage_CloseScannerRestoresBarcode(t *testing.T) {
	open, err := Page{}.SetValue("111").OpenScanner()
	if err != nil {
		t.Fatalf("OpenScanner returned error: %v", err)
	}
	closed := open.SetValue("partial").CloseScanner()
	if closed.ScannerOpen || closed.Barcode != "111" {
		t.Fatalf("page = %+v, want closed with barcode 111", closed)
	}

	// Closing twice is a no-op.
	if again := closed.SetValue("222").CloseScanner(); again.Barcode != "222" {
		t.Fatalf("CloseScanner on closed page changed barcode to %q", again.Barcode)
	}
}

func TestPage_ScannerFailedShowsNotice(t *testing.T) {
	open, _ := Page{}.SetValue("111").OpenScanner()
	failed := open.ScannerFailed("Camera unavailable")
	if failed.ScannerOpen || failed.Barcode != "111" || failed.Notice != "Camera unavailable" {
		t.Fatalf("page = %+v", failed)
	}
	reopened, err := failed.OpenScanner()
	if err != nil || reopened.Notice != "" {
		t.Fatalf("reopen = %+v, %v; want notice cleared", reopened, err)
	}
}

func TestPage_DecodedSubmitsThroughSamePath(t *testing.T) {
	open, _ := Page{}.SetValue("old").OpenScanner()

	next, req, err := open.Decoded("041520893164", "tok")
	if err != nil {
		t.Fatalf("Decoded returned error: %v", err)
	}
	if next.ScannerOpen || next.Barcode != "041520893164" || !next.Loading {
		t.Fatalf("page = %+v, want closed overlay and loading", next)
	}
	if req.Barcode != "041520893164" || req.Token != "tok" {
		t.Fatalf("request = %+v", req)
	}

	if _, _, err := next.Decoded("x", "tok2"); !errors.Is(err, ErrScannerClosed) {
		t.Fatalf("Decoded without scanner = %v, want ErrScannerClosed", err)
	}
}
