package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

type responseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func wrapResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, status: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

// sanitizeQuery masks the API key parameter so credentials never land in logs.
func sanitizeQuery(values url.Values) string {
	if values.Has("key") {
		values = cloneValues(values)
		values.Set("key", "REDACTED")
	}
	return values.Encode()
}

func cloneValues(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for k, v := range values {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrapResponseWriter(w)

			defer func() {
				requestID := GetRequestID(r.Context())
				duration := time.Since(start)

				logger.Info("request completed",
					slog.String("request_id", requestID),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("query", sanitizeQuery(r.URL.Query())),
					slog.Int("status", wrapped.status),
					slog.Duration("duration", duration),
					slog.String("remote_addr", r.RemoteAddr),
					slog.String("user_agent", r.UserAgent()),
				)
			}()

			next.ServeHTTP(wrapped, r)
		})
	}
}
