package sugarscan

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestParseEndpoint(t *testing.T) {
	u, err := parseEndpoint("workflowly.online/webhook/sugarscan#frag")
	if err != nil {
		t.Fatalf("parseEndpoint returned error: %v", err)
	}
	if u.Scheme != "https" || u.Host != "workflowly.online" || u.Path != "/webhook/sugarscan" || u.Fragment != "" {
		t.Fatalf("endpoint = %q, want https://workflowly.online/webhook/sugarscan", u.String())
	}

	for _, bad := range []string{"", "   ", "ftp://example.com/x", "http://"} {
		if _, err := parseEndpoint(bad); err == nil {
			t.Fatalf("parseEndpoint(%q) returned nil error", bad)
		}
	}
}

func TestClient_PostsTrimmedBarcodeOnce(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	var gotBody map[string]any
	var gotHeaders http.Header
	var gotMethod string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		gotMethod = r.Method
		gotHeaders = r.Header.Clone()
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"productName":"Pad Thai","sugarLevel":"moderate","sugarsPerServing":"8g","alternatives":["Brand X"]}`)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL+"/webhook/sugarscan", time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	res := c.Analyze(context.Background(), Request{Barcode: "  737628064502\t", Token: "tok-1"})

	if n := calls.Load(); n != 1 {
		t.Fatalf("server saw %d requests, want 1", n)
	}
	if gotMethod != http.MethodPost {
		t.Fatalf("method = %s, want POST", gotMethod)
	}
	if !reflect.DeepEqual(gotBody, map[string]any{"barcode": "737628064502"}) {
		t.Fatalf("body = %#v, want only trimmed barcode", gotBody)
	}
	if ct := gotHeaders.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", ct)
	}
	if id := gotHeaders.Get("X-Request-ID"); id != "tok-1" {
		t.Fatalf("X-Request-ID = %q, want tok-1", id)
	}
	if ua := gotHeaders.Get("User-Agent"); !strings.HasPrefix(ua, "sugarscan/") {
		t.Fatalf("User-Agent = %q, want sugarscan/*", ua)
	}

	if res.IsError() {
		t.Fatalf("result is error: %+v", res.Err)
	}
	if res.ProductName != "Pad Thai" || res.SugarLevel != "moderate" || res.SugarsPerServing != "8g" {
		t.Fatalf("result = %+v, want Pad Thai/moderate/8g", res)
	}
	if !reflect.DeepEqual(res.Alternatives, []string{"Brand X"}) {
		t.Fatalf("alternatives = %#v, want [Brand X]", res.Alternatives)
	}
}

func TestClient_EmptyBarcodeSendsNothing(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.Post(context.Background(), Request{Barcode: "   "}); !errors.Is(err, ErrEmptyBarcode) {
		t.Fatalf("Post error = %v, want ErrEmptyBarcode", err)
	}
	if n := calls.Load(); n != 0 {
		t.Fatalf("server saw %d requests, want 0", n)
	}
}

func TestClient_ResponseMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, res Result)
	}{
		{
			name:   "remote error payload",
			status: http.StatusOK,
			body:   `{"error":"Product not found"}`,
			check: func(t *testing.T, res Result) {
				if res.Err == nil || res.Err.Kind != ErrorRemote || res.Err.Message != "Product not found" {
					t.Fatalf("Err = %+v, want remote Product not found", res.Err)
				}
			},
		},
		{
			name:   "error payload with failure status is still parsed",
			status: http.StatusNotFound,
			body:   `{"error":"Unknown barcode"}`,
			check: func(t *testing.T, res Result) {
				if res.Err == nil || res.Err.Kind != ErrorRemote {
					t.Fatalf("Err = %+v, want remote error", res.Err)
				}
			},
		},
		{
			name:   "alternate field spellings",
			status: http.StatusOK,
			body:   `{"productName":"Clif Bar","brand":"Clif","sugarPerServing":"21g","aiAnalysis":"High sugar.","calories":250,"alternatives":"RXBAR"}`,
			check: func(t *testing.T, res Result) {
				want := Result{
					ProductName:      "Clif Bar",
					Brand:            "Clif",
					Calories:         "250",
					SugarsPerServing: "21g",
					AIRecommendation: "High sugar.",
					Alternatives:     []string{"RXBAR"},
				}
				if !reflect.DeepEqual(res, want) {
					t.Fatalf("result = %+v, want %+v", res, want)
				}
			},
		},
		{
			name:   "primary spelling wins",
			status: http.StatusOK,
			body:   `{"brands":"Trader Joe's","brand":"TJ","sugarsPerServing":"8g","sugarPerServing":"9g","aiRecommendation":"a","aiAnalysis":"b"}`,
			check: func(t *testing.T, res Result) {
				if res.Brand != "Trader Joe's" || res.SugarsPerServing != "8g" || res.AIRecommendation != "a" {
					t.Fatalf("result = %+v, want primary spellings", res)
				}
			},
		},
		{
			name:   "blank error field is ignored",
			status: http.StatusOK,
			body:   `{"error":"  ","productName":"Cheerios","alternatives":["Oat O's", null, "Kix", ""]}`,
			check: func(t *testing.T, res Result) {
				if res.IsError() || res.ProductName != "Cheerios" {
					t.Fatalf("result = %+v, want Cheerios", res)
				}
				if !reflect.DeepEqual(res.Alternatives, []string{"Oat O's", "", "Kix", ""}) {
					t.Fatalf("alternatives = %#v, want server order kept", res.Alternatives)
				}
			},
		},
		{
			name:   "false error field is ignored",
			status: http.StatusOK,
			body:   `{"error":false,"productName":"X"}`,
			check: func(t *testing.T, res Result) {
				if res.IsError() || res.ProductName != "X" {
					t.Fatalf("result = %+v, want product X", res)
				}
			},
		},
		{
			name:   "zero error field is ignored",
			status: http.StatusOK,
			body:   `{"error":0,"productName":"X"}`,
			check: func(t *testing.T, res Result) {
				if res.IsError() || res.ProductName != "X" {
					t.Fatalf("result = %+v, want product X", res)
				}
			},
		},
		{
			name:   "true error field",
			status: http.StatusOK,
			body:   `{"error":true,"productName":"X"}`,
			check: func(t *testing.T, res Result) {
				if !res.IsError() || res.Err.Kind != ErrorRemote || res.Err.Message != "Analysis failed" {
					t.Fatalf("result = %+v, want remote error", res)
				}
			},
		},
		{
			name:   "non-json body",
			status: http.StatusOK,
			body:   `<html>bad gateway</html>`,
			check:  expectTransport,
		},
		{
			name:   "json array body",
			status: http.StatusOK,
			body:   `[{"productName":"x"}]`,
			check:  expectTransport,
		},
		{
			name:   "truncated json",
			status: http.StatusBadGateway,
			body:   `{"productName":`,
			check:  expectTransport,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			t.Cleanup(server.Close)

			c, err := NewClient(server.URL, time.Second)
			if err != nil {
				t.Fatalf("NewClient returned error: %v", err)
			}
			tc.check(t, c.Analyze(context.Background(), Request{Barcode: "123"}))
		})
	}
}

func TestClient_TransportFailures(t *testing.T) {
	t.Parallel()

	t.Run("connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		c, err := NewClient(url, time.Second)
		if err != nil {
			t.Fatalf("NewClient returned error: %v", err)
		}
		expectTransport(t, c.Analyze(context.Background(), Request{Barcode: "123"}))
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		t.Cleanup(server.Close)
		t.Cleanup(func() { close(release) })

		c, err := NewClient(server.URL, 50*time.Millisecond)
		if err != nil {
			t.Fatalf("NewClient returned error: %v", err)
		}
		expectTransport(t, c.Analyze(context.Background(), Request{Barcode: "123"}))
	})
}

func expectTransport(t *testing.T, res Result) {
	t.Helper()
	if res.Err == nil || res.Err.Kind != ErrorTransport {
		t.Fatalf("Err = %+v, want transport error", res.Err)
	}
	if res.Err.Message != transportFailureMessage {
		t.Fatalf("Message = %q, want %q", res.Err.Message, transportFailureMessage)
	}
}
