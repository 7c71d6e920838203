package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ddarch/internal/api"
	"ddarch/internal/config"
	"ddarch/internal/events"
	"ddarch/internal/logging"
	"ddarch/internal/mailer"
	"ddarch/internal/metrics"
	"ddarch/internal/notify"
	"ddarch/internal/store"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "config.yaml", "path to config file")
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

	metrics.Register()

	st, err := newStore(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	m := newMailer(cfg, logger)

	bus := events.NewBus()
	subscribeEventLog(bus, logger)

	notifierOpts := []notify.Option{notify.WithTimeout(cfg.Email.SendTimeout())}
	if cfg.Telegram.BotToken != "" {
		alerter, err := notify.NewTelegramAlerter(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.Debug)
		if err != nil {
			logger.Warn().Err(err).Msg("telegram alerts disabled")
		} else {
			notifierOpts = append(notifierOpts, notify.WithTelegram(alerter))
			logger.Info().Int64("chat_id", cfg.Telegram.ChatID).Msg("telegram staff alerts enabled")
		}
	}
	notifier := notify.New(m, bus, logger, notifierOpts...)

	server := api.NewServer(cfg, st, notifier, m, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startMetrics(ctx, cfg, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown failed")
	}

	drainCtx, cancelDrain := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelDrain()
	if err := notifier.Close(drainCtx); err != nil {
		logger.Warn().Err(err).Msg("notification drain timed out")
	}

	return nil
}

func newStore(cfg *config.Config, logger *zerolog.Logger) (store.Store, error) {
	if cfg.Storage.Path == "" {
		logger.Info().Msg("using in-memory record store")
		return store.NewMemory(), nil
	}

	st, err := store.NewSQLite(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("init sqlite store: %w", err)
	}
	logger.Info().Str("path", cfg.Storage.Path).Msg("using sqlite record store")
	return st, nil
}

func newMailer(cfg *config.Config, logger *zerolog.Logger) mailer.Mailer {
	switch cfg.Email.Mode {
	case config.EmailModeSMTP:
		logger.Info().Str("host", cfg.Email.SMTP.Host).Msg("email transport: direct smtp")
		return mailer.NewSMTP(cfg.Email, cfg.Company, logger)
	case config.EmailModeDelegate:
		logger.Info().Str("url", cfg.Email.ServiceURL).Msg("email transport: delegate service")
		return mailer.NewDelegate(cfg.Email.ServiceURL, logger)
	default:
		logger.Warn().Msg("email transport disabled, notifications will be soft failures")
		return mailer.NewDisabled()
	}
}

func subscribeEventLog(bus *events.Bus, logger *zerolog.Logger) {
	for _, eventType := range []string{
		events.EventBookingCreated,
		events.EventContactCreated,
		events.EventEmailSent,
		events.EventEmailFailed,
	} {
		bus.Subscribe(eventType, func(event *events.Event) error {
			logger.Debug().
				Str("event", event.Type).
				RawJSON("payload", event.Payload).
				Msg("domain event")
			return nil
		})
	}
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Monitoring.PrometheusPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("metrics listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
