package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/trunov/catalogpix/internal/app"
	"github.com/trunov/catalogpix/internal/config"
)

func initSentry(cfg *config.SentryConfig, version string) error {
	return sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.Environment,
		Release:     version,
	})
}

func main() {
	var (
		configFile = flag.String("config", "config.json", "path to config file")
		dir        = flag.String("dir", "", "source directory (overrides config)")
		mode       = flag.String("mode", "", "ingestion mode: occasion, product or random (overrides config)")
		batchSize  = flag.Int("batch", 0, "files per concurrent batch (overrides config)")
		dryRun     = flag.Bool("dry-run", false, "process without uploading or persisting")
	)
	flag.Parse()

	cfg := config.NewConfig()
	if err := cfg.Read(*configFile); err != nil {
		log.Fatal(err)
	}
	if *dir != "" {
		cfg.Source.Dir = *dir
	}
	if *mode != "" {
		cfg.Source.Mode = *mode
	}
	if *batchSize > 0 {
		cfg.Source.BatchSize = *batchSize
	}
	if *dryRun {
		cfg.Source.DryRun = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	if err := initSentry(&cfg.Sentry, "v1"); err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}

	// Flush buffered events before the program terminates.
	defer sentry.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := app.New(cfg)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal(err)
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		sentry.CaptureException(err)
		log.Fatal(err)
	}
}
