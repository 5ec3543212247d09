package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/Adda-Baaj/khobor-feed/internal/app"
	"github.com/Adda-Baaj/khobor-feed/internal/config"
	"github.com/Adda-Baaj/khobor-feed/internal/logger"
)

func main() {
	flags := pflag.NewFlagSet("headlines", pflag.ExitOnError)
	out := flags.StringP("out", "o", "-", "where to write the rendered page (- for stdout)")
	publishersFile := flags.String("publishers", "", "publishers file (overrides HEADLINES_PUBLISHERS_FILE)")
	_ = flags.Parse(os.Args[1:])

	cfg := config.Get()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v, falling back to info\n", err)
		if log, err = logger.New("info"); err != nil {
			log = logger.NopLogger{}
		}
	}
	defer func() { _ = log.Sync() }()

	if err := config.LoadErr(); err != nil {
		log.WarnObj("config file ignored", "config_file_error", map[string]any{
			"error": err.Error(),
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *out, firstNonEmpty(*publishersFile, cfg.PublishersFile), log); err != nil {
		log.ErrorObj("headlines failed", "run_error", map[string]any{
			"error": err.Error(),
		})
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, out, publishersFile string, log logger.Logger) error {
	a, err := app.New(cfg, nil, log)
	if err != nil {
		return err
	}

	if _, err := a.AttachPublishers(ctx, publishersFile); err != nil {
		return fmt.Errorf("attach publishers: %w", err)
	}

	a.Run(ctx)

	w, closeFn, err := openOutput(out)
	if err != nil {
		return err
	}
	defer closeFn()

	if _, err := a.Page().WriteTo(w); err != nil {
		return fmt.Errorf("write page: %w", err)
	}
	return nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
