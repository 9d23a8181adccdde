package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"stockproxy/internal/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withAccessLog logs every request and records request metrics. m may be nil.
func withAccessLog(logger *slog.Logger, m *metrics.Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		begin := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(begin)
		m.ObserveRequest(r.Method, rec.status, elapsed)
		logger.Info("handled request",
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"status", rec.status,
			"elapsed", elapsed)
	})
}

// recoverPanic turns a panic in the quote handler into the 500 error envelope.
func recoverPanic(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error("panic while handling request",
					"path", r.URL.Path,
					"panic", rec)
				setCORSHeaders(w)
				writeInternalError(w, fmt.Sprint(rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
