package stubhook

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

// WebhookPath is the route the real SugarScan webhook is served on.
const WebhookPath = "/webhook/sugarscan"

const maxRequestBytes = 4 << 10

// Options configure the stub webhook.
type Options struct {
	// Catalog maps barcodes to products; nil uses DemoCatalog.
	Catalog map[string]Product
	// Latency delays every analysis response.
	Latency time.Duration
}

type server struct {
	catalog map[string]Product
	latency time.Duration
}

// NewRouter builds the stub webhook's routes.
func NewRouter(opts Options) *mux.Router {
	s := &server{catalog: opts.Catalog, latency: opts.Latency}
	if s.catalog == nil {
		s.catalog = DemoCatalog()
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if _, err := fmt.Fprintln(w, "OK"); err != nil {
			log.Printf("health: %v", err)
		}
	}).Methods(http.MethodGet)
	r.HandleFunc(WebhookPath, s.handleAnalyze).Methods(http.MethodPost)
	return r
}

func (s *server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Barcode string `json:"barcode"`
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil || json.Unmarshal(body, &req) != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	barcode := strings.TrimSpace(req.Barcode)
	log.Printf("analyze %q (request %s)", barcode, r.Header.Get("X-Request-ID"))

	if s.latency > 0 {
		select {
		case <-time.After(s.latency):
		case <-r.Context().Done():
			return
		}
	}

	if barcode == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Barcode is required"})
		return
	}
	product, ok := s.catalog[barcode]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Product not found"})
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
