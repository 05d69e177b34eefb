package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/sumandas0/k8s-resource-analyzer/internal/transport/http/responses"
)

// RecoveryMiddleware turns a panic in an analysis into a 500 response. The
// error body is skipped when the handler already started writing.
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.Error("panic recovered",
					"error", rec,
					"path", r.URL.Path,
					"method", r.Method,
					"request_id", middleware.GetReqID(r.Context()),
					"stack", string(debug.Stack()),
				)

				if ww.Status() == 0 {
					responses.WriteInternalError(w, r, "Internal server error")
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
