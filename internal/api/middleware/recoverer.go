package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

func Recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					requestID := GetRequestID(r.Context())
					stack := debug.Stack()

					logger.Error("panic recovered",
						slog.String("request_id", requestID),
						slog.String("path", r.URL.Path),
						slog.Any("panic", rec),
						slog.String("stack", string(stack)),
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(`{"status":500,"error":"internal server error"}`))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
