package api

import (
	"log/slog"
	"net/http"

	"stockproxy/internal/metrics"
)

// RouterOptions wires the pieces the router serves.
type RouterOptions struct {
	Quotes      http.Handler
	Metrics     *metrics.Metrics
	MetricsPath string
	Logger      *slog.Logger
}

// NewRouter builds the HTTP handler for the proxy. Every path other than the
// health and metrics endpoints reaches the quote handler.
func NewRouter(opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Metrics != nil && opts.MetricsPath != "" {
		mux.Handle("GET "+opts.MetricsPath, opts.Metrics.Handler())
	}
	mux.Handle("/", recoverPanic(logger, opts.Quotes))

	return withAccessLog(logger, opts.Metrics, mux)
}
