package classwork_http

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"classwork_service/internal/ctxdata"
	"classwork_service/internal/domain"
	"classwork_service/pkg/logger"
)

// NewAuthMiddleware lifts the identity stamped by the upstream gateway
// (X-User-Id / X-User-Role) into the request context. Requests without a
// verified identity are rejected before reaching any handler.
func NewAuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get("X-User-Id")
			role := r.Header.Get("X-User-Role")
			if userID == "" || !domain.UserRole(role).IsValid() {
				writeErrorJSON(w, http.StatusUnauthorized, "missing or invalid identity")
				return
			}

			ctx := ctxdata.WithUserID(r.Context(), userID)
			ctx = ctxdata.WithUserRole(ctx, role)
			if traceID := r.Header.Get("X-Trace-Id"); traceID != "" {
				ctx = ctxdata.WithTraceID(ctx, traceID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func NewLoggingMiddleware(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.InfoContext(r.Context(), "http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
