package router

import (
	"net/http"

	"go.uber.org/atomic"
)

type healthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// HealthHandler reports readiness. It answers 503 while ready is false, which
// covers startup and graceful shutdown.
func HealthHandler(ready *atomic.Bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if ready == nil || !ready.Load() {
			writeJSON(w, healthResponse{Message: "Service is not ready", Status: "unavailable"}, http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, healthResponse{Success: true, Message: "Service is healthy", Status: "ok"}, http.StatusOK)
	})
}
