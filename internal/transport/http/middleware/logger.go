package middleware

import (
	"net/http"
	"time"

	"github.com/fitness-hub/core/internal/pkg/logger"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// AccessLog logs one line per request. The wrapped writer keeps http.Flusher
// so streamed responses still flush through it.
func AccessLog(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				kv := []interface{}{
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", chimiddleware.GetReqID(r.Context()),
					"remote", clientIP(r),
				}
				if status >= http.StatusInternalServerError {
					log.Warn("request", kv...)
					return
				}
				log.Info("request", kv...)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
