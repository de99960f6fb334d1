package http

import (
	"log/slog"
	nethttp "net/http"
	"time"

	"mlb-games-service/internal/http/requestutil"
	"mlb-games-service/internal/logging"
	"mlb-games-service/internal/metrics"
)

// RequestLogger attaches a request-scoped logger with a request ID and logs
// one completion line per request.
func RequestLogger(baseLogger *slog.Logger, recorder *metrics.Recorder) func(nethttp.Handler) nethttp.Handler {
	return func(next nethttp.Handler) nethttp.Handler {
		return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			start := time.Now()
			reqID := requestutil.SanitizeRequestID(r.Header.Get("X-Request-ID"))
			w.Header().Set("X-Request-ID", reqID)

			logger := baseLogger
			if logger == nil {
				logger = slog.Default()
			}
			logger = logger.With(
				slog.String(logging.FieldRequestID, reqID),
				slog.String(logging.FieldMethod, r.Method),
				slog.String(logging.FieldPath, r.URL.Path),
				slog.String("client_ip", requestutil.ClientIP(r)),
			)

			ctx := logging.WithLogger(r.Context(), logger)
			ww := &responseWriter{ResponseWriter: w, status: nethttp.StatusOK}

			next.ServeHTTP(ww, r.WithContext(ctx))

			duration := time.Since(start)
			recorder.RecordHTTPRequest(r.Method, r.URL.Path, ww.status, duration)
			logger.Info("request complete",
				slog.Int(logging.FieldStatusCode, ww.status),
				slog.Int64(logging.FieldDurationMS, duration.Milliseconds()),
			)
		})
	}
}

type responseWriter struct {
	nethttp.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
