package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockproxy/internal/api"
	"stockproxy/internal/config"
	"stockproxy/internal/coordinator"
	"stockproxy/internal/fetcher"
	"stockproxy/internal/metrics"
	"stockproxy/internal/quoteapi"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, _ := config.ParseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Handle interrupt signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           newHandler(cfg, logger),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening",
			"addr", cfg.ListenAddr,
			"upstream", cfg.UpstreamBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err.Error())
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("received interrupt signal, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err.Error())
	}
}

// newHandler assembles the proxy from configuration.
func newHandler(cfg *config.Config, logger *slog.Logger) http.Handler {
	client := fetcher.NewHTTPClient(fetcher.ClientOptions{
		BaseURL:   cfg.UpstreamBaseURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.UpstreamTimeout,
	})

	m := metrics.New()
	stocks := quoteapi.NewStockFetcher(client, logger)
	coord := coordinator.New(stocks, m, logger)

	return api.NewRouter(api.RouterOptions{
		Quotes:      api.NewQuoteHandler(coord, logger),
		Metrics:     m,
		MetricsPath: cfg.MetricsPath,
		Logger:      logger,
	})
}
