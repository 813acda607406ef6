package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/five82/sugarscan/internal/stubhook"
)

func main() {
	os.Exit(run())
}

func run() int {
	addr := flag.String("addr", ":8787", "listen address")
	latency := flag.Duration("latency", 0, "delay added to every analysis response")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := &http.Server{
		Addr:              *addr,
		Handler:           stubhook.NewRouter(stubhook.Options{Latency: *latency}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Printf("stub webhook listening on %s%s", *addr, stubhook.WebhookPath)

	select {
	case err := <-errc:
		fmt.Fprintf(os.Stderr, "stubhook: %v\n", err)
		return 1
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "stubhook: shutdown: %v\n", err)
		return 1
	}
	return 0
}
