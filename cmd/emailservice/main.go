package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ddarch/internal/config"
	"ddarch/internal/emailservice"
	"ddarch/internal/logging"
	"ddarch/internal/mailer"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "config.yaml", "path to config file")
	port := flag.Int("port", 5001, "listen port")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	// The delegate service always talks SMTP itself, regardless of the mode
	// the main API runs in.
	transport := mailer.NewSMTP(cfg.Email, cfg.Company, logger)
	service := emailservice.New(*port, transport, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- service.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("email service: %w", err)
		}
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return service.Shutdown(shutdownCtx)
}
