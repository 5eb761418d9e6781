package handlers

import (
	"context"
	"fieldops-service/internal/api/dto"
	"fieldops-service/internal/ports"
	"net/http"
)

// ProviderControl exposes routing provider initialization to operators.
type ProviderControl interface {
	EnsureReady(ctx context.Context) error
	Reset()
	Ready() bool
	Attempts() int
	LastError() error
}

type RoutingHandler struct {
	Provider ProviderControl
}

// Status reports provider readiness without triggering initialization.
func (h *RoutingHandler) Status(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, r, http.StatusOK, h.status(h.Provider.LastError()))
}

// Reset clears the initialization failure and tries again.
func (h *RoutingHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	h.Provider.Reset()
	err := h.Provider.EnsureReady(r.Context())

	status := http.StatusOK
	if err != nil {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, r, status, h.status(err))
}

func (h *RoutingHandler) status(err error) dto.ProviderStatusResponse {
	res := dto.ProviderStatusResponse{
		Ready:    h.Provider.Ready(),
		Attempts: h.Provider.Attempts(),
	}
	if err != nil && !res.Ready {
		res.Error = err.Error()
		res.Guidance = ports.Guidance(ports.FailureCode(err))
	}
	return res
}
