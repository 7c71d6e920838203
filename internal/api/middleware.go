package api

import (
	"context"
	"net/http"
	"time"

	"ddarch/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

// requestLogger tags every request with a uuid, records the endpoint
// counter, and emits one structured access log line.
func requestLogger(logger *zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r.WithContext(ctx))

		metrics.IncHTTP(r.URL.Path)
		logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

// requestLog returns the base logger enriched with the request id.
func requestLog(ctx context.Context, logger *zerolog.Logger) *zerolog.Logger {
	requestID, _ := ctx.Value(requestIDKey).(string)
	if requestID == "" {
		return logger
	}
	log := logger.With().Str("request_id", requestID).Logger()
	return &log
}

// contextWithTimeout bounds handler-side work that must not inherit an
// unbounded request lifetime.
func contextWithTimeout(r *http.Request, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = 5 * time.Second
	}
	return context.WithTimeout(r.Context(), d)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
