package healthcheck_head

import (
	"net/http"
	"sync/atomic"
)

// Handler is the load balancer readiness probe. It flips to 503 as soon as
// shutdown starts, before in-flight order requests are drained.
type Handler struct {
	draining *atomic.Bool
}

func New(draining *atomic.Bool) *Handler {
	return &Handler{draining: draining}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	if h.draining.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
