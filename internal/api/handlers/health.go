package handlers

import (
	"net/http"
)

// HealthHandler is the liveness check. It also reports whether the routing
// provider has initialized, without triggering initialization.
type HealthHandler struct {
	Provider ProviderControl
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	res := map[string]any{"status": "ok"}
	if h.Provider != nil {
		res["routing_ready"] = h.Provider.Ready()
	}
	writeJSON(w, r, http.StatusOK, res)
}
