package timeout

import (
	"context"
	"net/http"
	"time"
)

// Middleware bounds each request. The parent is the server BaseContext, so a
// shutdown still cancels in-flight work.
func Middleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
