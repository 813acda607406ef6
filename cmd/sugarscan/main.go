package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/sugarscan/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	prefsPath := flag.String("prefs", "", "override prefs path (optional)")
	webhook := flag.String("webhook", "", "override webhook URL (optional)")
	barcode := flag.String("barcode", "", "analyze one barcode, print the report and exit")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		WebhookURL: *webhook,
		Barcode:    *barcode,
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "barcode" {
			opts.Once = true
		}
	})

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "sugarscan: %v\n", err)
		return 1
	}
	return 0
}
